package dataview

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"
)

// Direction orders a sort key.
type Direction int

const (
	Asc Direction = iota
	Desc
)

type keyKind int

const (
	kindTime keyKind = iota
	kindText
	kindNumber
)

// SortKey is one level of a sort mode.
type SortKey[R any] struct {
	kind   keyKind
	dir    Direction
	time   func(R) *time.Time
	text   func(R) string
	number func(R) float64
}

// ByTime sorts on a date field. Missing dates rank lowest.
func ByTime[R any](get func(R) *time.Time, dir Direction) SortKey[R] {
	return SortKey[R]{kind: kindTime, dir: dir, time: get}
}

// ByText sorts on a display string using locale collation. Missing text ranks lowest.
func ByText[R any](get func(R) string, dir Direction) SortKey[R] {
	return SortKey[R]{kind: kindText, dir: dir, text: get}
}

// ByNumber sorts on a numeric field.
func ByNumber[R any](get func(R) float64, dir Direction) SortKey[R] {
	return SortKey[R]{kind: kindNumber, dir: dir, number: get}
}

// Comparator compiles the named sort mode into a three-way comparison.
// Unknown modes fall back to the view's default mode.
func (v *View[R]) Comparator(mode string) func(a, b R) int {
	keys, ok := v.sorts[mode]
	if !ok {
		keys = v.sorts[v.defaultSort]
	}
	// collate.Collator keeps scratch buffers, so every compiled comparator gets its own.
	col := collate.New(v.locale)
	return func(a, b R) int {
		for _, key := range keys {
			var c int
			switch key.kind {
			case kindTime:
				c = compareTime(safeTime(key.time, a), safeTime(key.time, b))
			case kindText:
				c = col.CompareString(safeText(key.text, a), safeText(key.text, b))
			case kindNumber:
				c = cmp.Compare(safeNumber(key.number, a), safeNumber(key.number, b))
			}
			if key.dir == Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	}
}

// Sort returns a stably ordered copy of records. The input is left untouched.
func (v *View[R]) Sort(records []R, mode string) []R {
	out := slices.Clone(records)
	slices.SortStableFunc(out, v.Comparator(mode))
	return out
}

func compareTime(a, b *time.Time) int {
	aMissing := a == nil || a.IsZero()
	bMissing := b == nil || b.IsZero()
	switch {
	case aMissing && bMissing:
		return 0
	case aMissing:
		return -1
	case bMissing:
		return 1
	}
	return a.Compare(*b)
}
