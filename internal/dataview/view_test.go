package dataview

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type visit struct {
	ID      string
	Patient string
	Doctor  *string
	Status  string
	Date    *time.Time
	Created *time.Time
	Fee     float64
}

func strPtr(s string) *string { return &s }

func visitView() *View[visit] {
	date := DateField[visit]{Get: func(v visit) *time.Time { return v.Date }, Kind: Floating}
	created := func(v visit) *time.Time { return v.Created }
	status := func(v visit) string { return v.Status }

	view := New[visit]("visits").In(time.UTC)
	view.Search(
		func(v visit) string { return v.Patient },
		func(v visit) string { return *v.Doctor },
	)
	view.FilterOn("status", Enum(status, map[string][]string{
		"Scheduled": {"Pending"},
		"cancelled": {"Cancelled", "No Show"},
	})).
		FilterOn("date", OnDate(date)).
		FilterOn("doctor", Contains(func(v visit) string { return *v.Doctor })).
		FilterOn("id", Equals(func(v visit) string { return v.ID }))
	view.SortBy("latest", ByTime(created, Desc), ByTime(date.Get, Desc)).
		SortBy("oldest", ByTime(created, Asc), ByTime(date.Get, Asc)).
		SortBy("date_asc", ByTime(date.Get, Asc)).
		SortBy("patient_name", ByText(func(v visit) string { return v.Patient }, Asc)).
		SortBy("fee_desc", ByNumber(func(v visit) float64 { return v.Fee }, Desc))
	view.Statuses(status, "Pending", "Confirmed", "Completed", "Cancelled", "No Show").
		Compound("scheduled", "Pending").
		Compound("confirmed", "Confirmed").
		Compound("cancelled", "Cancelled", "No Show").
		CountDate("todayCount", date, BucketToday).
		CountDate("upcomingCount", date, BucketUpcoming).
		CountDate("pastCount", date, BucketPast).
		CountWhere("expensive", func(v visit) bool { return v.Fee > 100 })
	return view.Project([]string{"ID", "Patient"}, func(v visit) map[string]string {
		return map[string]string{"ID": v.ID, "Patient": v.Patient}
	})
}

var jan5 = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

func sampleVisits() []visit {
	return []visit{
		{ID: "a", Patient: "Budi", Doctor: strPtr("Dr. Sari"), Status: "Pending", Date: day(2024, 1, 10), Created: day(2024, 1, 1), Fee: 50},
		{ID: "b", Patient: "Ani", Doctor: strPtr("Dr. Joko"), Status: "Confirmed", Date: day(2024, 1, 5), Created: day(2024, 1, 2), Fee: 150},
		{ID: "c", Patient: "Citra", Doctor: strPtr("Dr. Sari"), Status: "No Show", Date: day(2024, 1, 5), Created: day(2024, 1, 3), Fee: 75},
	}
}

func ids(items []visit) []string {
	out := make([]string, 0, len(items))
	for _, v := range items {
		out = append(out, v.ID)
	}
	return out
}

func TestAggregateCountsStatusesAndDates(t *testing.T) {
	view := visitView()
	stats := view.Aggregate(sampleVisits(), view.Clock(jan5))

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Counter("scheduled"))
	assert.Equal(t, 1, stats.Counter("confirmed"))
	assert.Equal(t, 1, stats.Counter("cancelled"))
	assert.Equal(t, 2, stats.Counter("todayCount"))
	assert.Equal(t, 1, stats.Counter("upcomingCount"))
	assert.Equal(t, 0, stats.Counter("pastCount"))
	assert.Equal(t, 1, stats.Counter("expensive"))
	assert.Equal(t, 0, stats.ByStatus["Completed"])
	assert.Equal(t, 1, stats.Counter("No Show"))
}

func TestAggregateCompoundEqualsSumOfLiterals(t *testing.T) {
	view := visitView()
	records := append(sampleVisits(), visit{ID: "d", Status: "Cancelled", Doctor: strPtr("")})
	stats := view.Aggregate(records, view.Clock(jan5))

	assert.Equal(t, stats.ByStatus["Cancelled"]+stats.ByStatus["No Show"], stats.Counter("cancelled"))
	assert.Equal(t, 2, stats.Counter("cancelled"))
}

func TestAggregateIgnoresUnknownStatusAndCase(t *testing.T) {
	view := visitView()
	stats := view.Aggregate([]visit{
		{ID: "x", Status: "pending"},
		{ID: "y", Status: "Archived"},
	}, view.Clock(jan5))

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 0, stats.Counter("scheduled"))
	_, ok := stats.ByStatus["Archived"]
	assert.False(t, ok)
}

func TestAggregateEmptyCollection(t *testing.T) {
	view := visitView()
	stats := view.Aggregate(nil, view.Clock(jan5))

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Counter("todayCount"))
	assert.Contains(t, stats.Counters, "cancelled")
	assert.Contains(t, stats.ByStatus, "Pending")
}

func TestFilterCompoundStatus(t *testing.T) {
	view := visitView()
	clock := view.Clock(jan5)

	got := view.Filter(sampleVisits(), FilterState{"status": "cancelled"}, "", clock)
	assert.Equal(t, []string{"c"}, ids(got))

	got = view.Filter(sampleVisits(), FilterState{"status": "scheduled"}, "", clock)
	assert.Equal(t, []string{"a"}, ids(got))

	got = view.Filter(sampleVisits(), FilterState{"status": "confirmed"}, "", clock)
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestFilterAllAndEmptyAreNoOps(t *testing.T) {
	view := visitView()
	clock := view.Clock(jan5)

	for _, filters := range []FilterState{nil, {}, {"status": "all"}, {"status": "ALL", "date": ""}, {"unknown": "x"}} {
		got := view.Filter(sampleVisits(), filters, "  ", clock)
		assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	}
}

func TestFilterDateBuckets(t *testing.T) {
	view := visitView()
	clock := view.Clock(jan5)

	assert.Equal(t, []string{"b", "c"}, ids(view.Filter(sampleVisits(), FilterState{"date": "today"}, "", clock)))
	assert.Equal(t, []string{"a"}, ids(view.Filter(sampleVisits(), FilterState{"date": "upcoming"}, "", clock)))
	assert.Empty(t, view.Filter(sampleVisits(), FilterState{"date": "past"}, "", clock))
	assert.Equal(t, []string{"a"}, ids(view.Filter(sampleVisits(), FilterState{"date": "2024-01-10"}, "", clock)))
	assert.Empty(t, view.Filter(sampleVisits(), FilterState{"date": "soon"}, "", clock))
}

func TestFilterConjunctionWithSearch(t *testing.T) {
	view := visitView()
	clock := view.Clock(jan5)

	got := view.Filter(sampleVisits(), FilterState{"doctor": "sari", "date": "today"}, "", clock)
	assert.Equal(t, []string{"c"}, ids(got))

	got = view.Filter(sampleVisits(), FilterState{"doctor": "sari"}, "BUDI", clock)
	assert.Equal(t, []string{"a"}, ids(got))

	got = view.Filter(sampleVisits(), FilterState{"id": "B"}, "", clock)
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestSearchIsNotAppliedToStatus(t *testing.T) {
	view := visitView()
	got := view.Filter(sampleVisits(), nil, "CONFIRM", view.Clock(jan5))
	assert.Empty(t, got)
}

func TestFilterRecoversFromPanickingAccessor(t *testing.T) {
	view := visitView()
	records := append(sampleVisits(), visit{ID: "nil-doctor", Patient: "Dewi", Status: "Pending"})
	clock := view.Clock(jan5)

	require.NotPanics(t, func() {
		got := view.Filter(records, FilterState{"doctor": "sari"}, "", clock)
		assert.Equal(t, []string{"a", "c"}, ids(got))
	})
	got := view.Filter(records, nil, "dewi", clock)
	assert.Equal(t, []string{"nil-doctor"}, ids(got))
}

func TestFilterIsMonotonic(t *testing.T) {
	view := visitView()
	clock := view.Clock(jan5)
	loose := view.Filter(sampleVisits(), FilterState{"doctor": "sari"}, "", clock)
	tight := view.Filter(sampleVisits(), FilterState{"doctor": "sari", "status": "cancelled"}, "", clock)

	assert.LessOrEqual(t, len(tight), len(loose))
	for _, v := range tight {
		assert.Contains(t, ids(loose), v.ID)
	}
}

func TestSortByDateAscending(t *testing.T) {
	view := visitView()
	got := view.Sort(sampleVisits(), "date_asc")

	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestSortLatestUsesSecondaryKey(t *testing.T) {
	view := visitView()
	same := day(2024, 1, 1)
	records := []visit{
		{ID: "early", Created: same, Date: day(2024, 1, 2), Doctor: strPtr("")},
		{ID: "late", Created: same, Date: day(2024, 1, 9), Doctor: strPtr("")},
		{ID: "newest", Created: day(2024, 1, 3), Date: day(2023, 1, 1), Doctor: strPtr("")},
	}

	assert.Equal(t, []string{"newest", "late", "early"}, ids(view.Sort(records, "latest")))
	assert.Equal(t, []string{"early", "late", "newest"}, ids(view.Sort(records, "oldest")))
}

func TestSortUnknownModeFallsBackToDefault(t *testing.T) {
	view := visitView()
	assert.Equal(t, ids(view.Sort(sampleVisits(), "latest")), ids(view.Sort(sampleVisits(), "bogus")))
	assert.Equal(t, []string{"c", "b", "a"}, ids(view.Sort(sampleVisits(), "")))
}

func TestSortIsStableAndPure(t *testing.T) {
	view := visitView()
	records := []visit{
		{ID: "1", Patient: "Ani"},
		{ID: "2", Patient: "Budi"},
		{ID: "3", Patient: "ani"},
		{ID: "4", Patient: "Ani"},
	}
	before := ids(records)

	got := view.Sort(records, "patient_name")
	assert.Equal(t, before, ids(records))
	assert.Equal(t, "2", got[3].ID)
	assert.Less(t, indexOf(got, "1"), indexOf(got, "4"))
}

func indexOf(items []visit, id string) int {
	for i, v := range items {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func TestSortMissingDatesRankLowest(t *testing.T) {
	view := visitView()
	records := []visit{
		{ID: "dated", Date: day(2024, 1, 1)},
		{ID: "missing"},
		{ID: "zero", Date: &time.Time{}},
	}

	got := ids(view.Sort(records, "date_asc"))
	assert.Equal(t, "dated", got[2])
}

func TestSortNumberDescending(t *testing.T) {
	view := visitView()
	assert.Equal(t, []string{"b", "c", "a"}, ids(view.Sort(sampleVisits(), "fee_desc")))
}

func TestSortTextUsesLocaleCollation(t *testing.T) {
	view := visitView().Locale(language.English)
	records := []visit{{ID: "z", Patient: "Zainab"}, {ID: "e", Patient: "Émile"}, {ID: "a", Patient: "adi"}}

	assert.Equal(t, []string{"a", "e", "z"}, ids(view.Sort(records, "patient_name")))
}

func TestComparatorIsAntisymmetric(t *testing.T) {
	view := visitView()
	records := sampleVisits()
	for _, mode := range view.SortModes() {
		compare := view.Comparator(mode)
		for _, a := range records {
			for _, b := range records {
				assert.Equal(t, compare(a, b), -compare(b, a), mode)
			}
		}
	}
}

func TestApplyStatsIgnoreFilters(t *testing.T) {
	view := visitView()
	result := view.Apply(sampleVisits(), Query{Filters: FilterState{"status": "cancelled"}, Sort: "date_asc"}, jan5)

	assert.Equal(t, []string{"c"}, ids(result.Items))
	assert.Equal(t, 3, result.Stats.Total)
	assert.Equal(t, 1, result.Stats.Counter("scheduled"))
}

func TestDatasetProjectsEveryRecord(t *testing.T) {
	view := visitView()
	ds := view.Dataset(sampleVisits())

	assert.Equal(t, []string{"ID", "Patient"}, ds.Headers)
	require.Len(t, ds.Rows, 3)
	assert.Equal(t, "Ani", ds.Rows[1]["Patient"])
}

func TestPageClampsSize(t *testing.T) {
	items := make([]int, 250)
	for i := range items {
		items[i] = i
	}

	got, page, size := Page(items, 0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)
	assert.Len(t, got, 20)

	got, _, size = Page(items, 2, 500)
	assert.Equal(t, 100, size)
	assert.Equal(t, 100, got[0])

	got, _, _ = Page(items, 9, 50)
	assert.Empty(t, got)
}

func TestPageHugePageIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}

	var got []int
	require.NotPanics(t, func() { got, _, _ = Page(items, math.MaxInt, 20) })
	assert.Empty(t, got)

	got, _, _ = Page(items, math.MaxInt/20+2, 20)
	assert.Empty(t, got)

	got, _, _ = Page(items, 1, 2)
	assert.Equal(t, []int{1, 2}, got)
	got, _, _ = Page(items, 2, 2)
	assert.Equal(t, []int{3}, got)
	got, _, _ = Page(items, 3, 2)
	assert.Empty(t, got)
}

func TestFilterKeysAreSorted(t *testing.T) {
	view := visitView()
	keys := view.FilterKeys()
	assert.Equal(t, "date,doctor,id,status", strings.Join(keys, ","))
	assert.True(t, view.HasSort("latest"))
	assert.False(t, view.HasSort("random"))
}
