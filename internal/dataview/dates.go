package dataview

import (
	"strings"
	"time"
)

// Bucket names a calendar-day class used by date filters and counters.
type Bucket string

const (
	BucketToday     Bucket = "today"
	BucketTomorrow  Bucket = "tomorrow"
	BucketYesterday Bucket = "yesterday"
	BucketUpcoming  Bucket = "upcoming"
	BucketPast      Bucket = "past"
)

// ISODate is the layout accepted for exact-date filters.
const ISODate = "2006-01-02"

// DateKind describes how a stored time maps onto a calendar day.
type DateKind int

const (
	// Instant values are converted into the view location before the day is taken.
	Instant DateKind = iota
	// Floating values are calendar dates without a zone (SQL DATE); their own Y/M/D is used.
	Floating
)

// Clock pins "now" and the calendar location for one filter or aggregation pass.
type Clock struct {
	Now      time.Time
	Location *time.Location
}

// NewClock captures now in loc. A nil loc means time.Local.
func NewClock(now time.Time, loc *time.Location) Clock {
	return Clock{Now: now, Location: loc}
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Today returns today's calendar day as a UTC midnight value.
func (c Clock) Today() time.Time {
	return calendarDay(c.Now.In(c.location()))
}

// Day returns the calendar day of t as a UTC midnight value.
func (c Clock) Day(t time.Time, kind DateKind) time.Time {
	if kind == Instant {
		t = t.In(c.location())
	}
	return calendarDay(t)
}

// Classify places t into exactly one of past, today or upcoming.
func (c Clock) Classify(t time.Time, kind DateKind) Bucket {
	day := c.Day(t, kind)
	today := c.Today()
	switch {
	case day.Before(today):
		return BucketPast
	case day.After(today):
		return BucketUpcoming
	default:
		return BucketToday
	}
}

// Matches reports whether t falls into the named bucket or exact ISO date.
// A nil or zero t never matches.
func (c Clock) Matches(t *time.Time, kind DateKind, bucket string) bool {
	if t == nil || t.IsZero() {
		return false
	}
	day := c.Day(*t, kind)
	today := c.Today()
	switch Bucket(strings.ToLower(strings.TrimSpace(bucket))) {
	case BucketToday:
		return day.Equal(today)
	case BucketTomorrow:
		return day.Equal(today.AddDate(0, 0, 1))
	case BucketYesterday:
		return day.Equal(today.AddDate(0, 0, -1))
	case BucketUpcoming:
		return day.After(today)
	case BucketPast:
		return day.Before(today)
	}
	exact, err := time.Parse(ISODate, strings.TrimSpace(bucket))
	if err != nil {
		return false
	}
	return day.Equal(exact)
}

// ValidBucket reports whether value is a named bucket or an ISO date.
func ValidBucket(value string) bool {
	switch Bucket(strings.ToLower(strings.TrimSpace(value))) {
	case BucketToday, BucketTomorrow, BucketYesterday, BucketUpcoming, BucketPast:
		return true
	}
	_, err := time.Parse(ISODate, strings.TrimSpace(value))
	return err == nil
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
