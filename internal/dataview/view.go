// Package dataview filters, orders and summarises in-memory record collections
// using per-entity configuration tables.
package dataview

import (
	"sort"
	"time"

	"golang.org/x/text/language"

	"github.com/noah-isme/clinic-admin-api/pkg/export"
)

const (
	// DefaultSort is the mode used when a view does not declare another one.
	DefaultSort = "latest"

	defaultPageSize = 20
	maxPageSize     = 100
)

// Query carries the user-controlled list parameters.
type Query struct {
	Filters FilterState
	Search  string
	Sort    string
}

// Result is the filtered, ordered view plus stats over the raw collection.
type Result[R any] struct {
	Items []R
	Stats Stats
}

// Projection maps a record to a flat export row keyed by column label.
type Projection[R any] struct {
	Headers []string
	Row     func(R) map[string]string
}

// View is the per-entity configuration table. Build it once at startup; a built
// view is read-only and safe for concurrent use.
type View[R any] struct {
	name        string
	locale      language.Tag
	location    *time.Location
	search      []func(R) string
	filters     map[string]Matcher[R]
	sorts       map[string][]SortKey[R]
	defaultSort string

	status       func(R) string
	statuses     []string
	compounds    []compound
	dateCounters []dateCounter[R]
	wheres       []whereCounter[R]

	projection Projection[R]
}

// New starts a view configuration.
func New[R any](name string) *View[R] {
	return &View[R]{
		name:        name,
		locale:      language.English,
		location:    time.Local,
		filters:     map[string]Matcher[R]{},
		sorts:       map[string][]SortKey[R]{},
		defaultSort: DefaultSort,
	}
}

// Name returns the entity name.
func (v *View[R]) Name() string { return v.name }

// Locale sets the collation language for text sorts.
func (v *View[R]) Locale(tag language.Tag) *View[R] {
	v.locale = tag
	return v
}

// In sets the location used for calendar-day classification.
func (v *View[R]) In(loc *time.Location) *View[R] {
	if loc != nil {
		v.location = loc
	}
	return v
}

// Location returns the calendar location.
func (v *View[R]) Location() *time.Location { return v.location }

// Search appends free-text searchable fields.
func (v *View[R]) Search(fields ...func(R) string) *View[R] {
	v.search = append(v.search, fields...)
	return v
}

// FilterOn registers the matcher for a filter key.
func (v *View[R]) FilterOn(key string, m Matcher[R]) *View[R] {
	v.filters[key] = m
	return v
}

// SortBy registers a sort mode as an ordered list of keys.
func (v *View[R]) SortBy(mode string, keys ...SortKey[R]) *View[R] {
	v.sorts[mode] = keys
	return v
}

// DefaultSort overrides the fallback sort mode.
func (v *View[R]) DefaultSort(mode string) *View[R] {
	v.defaultSort = mode
	return v
}

// Statuses declares the closed status set counted by the aggregator.
func (v *View[R]) Statuses(get func(R) string, literals ...string) *View[R] {
	v.status = get
	v.statuses = literals
	return v
}

// Compound declares a counter summing several status literals.
func (v *View[R]) Compound(name string, statuses ...string) *View[R] {
	v.compounds = append(v.compounds, compound{name: name, statuses: statuses})
	return v
}

// CountDate declares a counter of records whose date falls in bucket.
func (v *View[R]) CountDate(name string, field DateField[R], bucket Bucket) *View[R] {
	v.dateCounters = append(v.dateCounters, dateCounter[R]{name: name, field: field, bucket: bucket})
	return v
}

// CountDateIn is CountDate restricted to records whose status is one of statuses.
func (v *View[R]) CountDateIn(name string, field DateField[R], bucket Bucket, statuses ...string) *View[R] {
	allowed := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[status] = struct{}{}
	}
	v.dateCounters = append(v.dateCounters, dateCounter[R]{name: name, field: field, bucket: bucket, statuses: allowed})
	return v
}

// CountWhere declares a counter of records satisfying pred.
func (v *View[R]) CountWhere(name string, pred func(R) bool) *View[R] {
	v.wheres = append(v.wheres, whereCounter[R]{name: name, pred: guard(pred)})
	return v
}

// Project sets the export projection.
func (v *View[R]) Project(headers []string, row func(R) map[string]string) *View[R] {
	v.projection = Projection[R]{Headers: headers, Row: row}
	return v
}

// FilterKeys lists the registered filter keys in sorted order.
func (v *View[R]) FilterKeys() []string {
	keys := make([]string, 0, len(v.filters))
	for key := range v.filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SortModes lists the registered sort modes in sorted order.
func (v *View[R]) SortModes() []string {
	modes := make([]string, 0, len(v.sorts))
	for mode := range v.sorts {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}

// HasSort reports whether mode is registered.
func (v *View[R]) HasSort(mode string) bool {
	_, ok := v.sorts[mode]
	return ok
}

// Clock captures now in the view's location.
func (v *View[R]) Clock(now time.Time) Clock {
	return NewClock(now, v.location)
}

// Apply filters and orders records for display and aggregates the raw collection.
func (v *View[R]) Apply(records []R, q Query, now time.Time) Result[R] {
	clock := v.Clock(now)
	mode := q.Sort
	if mode == "" {
		mode = v.defaultSort
	}
	filtered := v.Filter(records, q.Filters, q.Search, clock)
	return Result[R]{
		Items: v.Sort(filtered, mode),
		Stats: v.Aggregate(records, clock),
	}
}

// Dataset projects the full collection into an export dataset.
func (v *View[R]) Dataset(records []R) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	if v.projection.Row != nil {
		for _, r := range records {
			rows = append(rows, v.projection.Row(r))
		}
	}
	return export.Dataset{Headers: v.projection.Headers, Rows: rows}
}

// Page slices one page out of an ordered result. page is 1-based; size is clamped
// to 1..100 with a default of 20. It returns the normalised page and size.
func Page[R any](items []R, page, size int) ([]R, int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page-1 >= (len(items)+size-1)/size {
		return []R{}, page, size
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, size
}
