package dataview

import (
	"sort"
	"strings"
	"time"
)

// AllValue is the sentinel filter value meaning "no constraint".
const AllValue = "all"

// FilterState maps filter keys to the values selected by the user.
type FilterState map[string]string

// Active returns the trimmed value for key and whether it constrains the result.
func (f FilterState) Active(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	value := strings.TrimSpace(f[key])
	if value == "" || strings.EqualFold(value, AllValue) {
		return "", false
	}
	return value, true
}

// DateField reads a date from a record.
type DateField[R any] struct {
	Get  func(R) *time.Time
	Kind DateKind
}

// Matcher builds the sub-predicate for one filter key.
type Matcher[R any] interface {
	compile(value string, clock Clock) func(R) bool
}

type containsMatcher[R any] struct {
	get func(R) string
}

// Contains matches when the field contains the filter value, ignoring case.
func Contains[R any](get func(R) string) Matcher[R] {
	return containsMatcher[R]{get: get}
}

func (m containsMatcher[R]) compile(value string, _ Clock) func(R) bool {
	needle := strings.ToLower(value)
	return func(r R) bool {
		return strings.Contains(strings.ToLower(m.get(r)), needle)
	}
}

type equalsMatcher[R any] struct {
	get func(R) string
}

// Equals matches when the field equals the filter value, ignoring case.
func Equals[R any](get func(R) string) Matcher[R] {
	return equalsMatcher[R]{get: get}
}

func (m equalsMatcher[R]) compile(value string, _ Clock) func(R) bool {
	return func(r R) bool {
		return strings.EqualFold(m.get(r), value)
	}
}

type enumMatcher[R any] struct {
	get    func(R) string
	groups map[string][]string
}

// Enum matches a status-like field exactly, ignoring case. groups maps a compound
// category (e.g. "cancelled") to the literals it stands for.
func Enum[R any](get func(R) string, groups map[string][]string) Matcher[R] {
	normalised := make(map[string][]string, len(groups))
	for name, members := range groups {
		normalised[strings.ToLower(name)] = members
	}
	return enumMatcher[R]{get: get, groups: normalised}
}

func (m enumMatcher[R]) compile(value string, _ Clock) func(R) bool {
	members, compound := m.groups[strings.ToLower(value)]
	if !compound {
		members = []string{value}
	}
	return func(r R) bool {
		status := m.get(r)
		for _, member := range members {
			if strings.EqualFold(status, member) {
				return true
			}
		}
		return false
	}
}

type dateMatcher[R any] struct {
	field DateField[R]
}

// OnDate matches a date field against a bucket (today, upcoming, ...) or an ISO date.
func OnDate[R any](field DateField[R]) Matcher[R] {
	return dateMatcher[R]{field: field}
}

func (m dateMatcher[R]) compile(value string, clock Clock) func(R) bool {
	if !ValidBucket(value) {
		return func(R) bool { return false }
	}
	return func(r R) bool {
		return clock.Matches(m.field.Get(r), m.field.Kind, value)
	}
}

// Predicate compiles filters and a free-text term into a single test. Every active
// filter and the search term must match. Unknown filter keys are ignored.
func (v *View[R]) Predicate(filters FilterState, search string, clock Clock) func(R) bool {
	keys := make([]string, 0, len(filters))
	for key := range filters {
		if _, ok := v.filters[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	checks := make([]func(R) bool, 0, len(keys)+1)
	for _, key := range keys {
		value, active := filters.Active(key)
		if !active {
			continue
		}
		checks = append(checks, guard(v.filters[key].compile(value, clock)))
	}
	if needle := strings.ToLower(strings.TrimSpace(search)); needle != "" {
		checks = append(checks, v.searchPredicate(needle))
	}

	return func(r R) bool {
		for _, check := range checks {
			if !check(r) {
				return false
			}
		}
		return true
	}
}

func (v *View[R]) searchPredicate(needle string) func(R) bool {
	fields := v.search
	return func(r R) bool {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(safeText(field, r)), needle) {
				return true
			}
		}
		return false
	}
}

// Filter returns the records matching filters and search, preserving input order.
func (v *View[R]) Filter(records []R, filters FilterState, search string, clock Clock) []R {
	match := v.Predicate(filters, search, clock)
	out := make([]R, 0, len(records))
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func guard[R any](pred func(R) bool) func(R) bool {
	return func(r R) (ok bool) {
		defer func() {
			if recover() != nil {
				ok = false
			}
		}()
		return pred(r)
	}
}

func safeText[R any](get func(R) string, r R) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()
	return get(r)
}

func safeTime[R any](get func(R) *time.Time, r R) (t *time.Time) {
	defer func() {
		if recover() != nil {
			t = nil
		}
	}()
	return get(r)
}

func safeNumber[R any](get func(R) float64, r R) (n float64) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return get(r)
}
