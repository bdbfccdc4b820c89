package daterange

import (
	"errors"
	"fmt"
	"time"
)

// MaxSpanDays caps the distance between start and end of a single range.
const MaxSpanDays = 365

var (
	ErrEndBeforeStart = errors.New("end date is before start date")
	ErrSpanTooLong    = fmt.Errorf("date range exceeds %d days", MaxSpanDays)
)

// DateRange is an immutable pair of inclusive calendar dates. Both bounds are
// normalized to midnight UTC so equality and comparison ignore clock time.
type DateRange struct {
	start time.Time
	end   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	s := Normalize(start)
	e := Normalize(end)

	if e.Before(s) {
		return DateRange{}, ErrEndBeforeStart
	}
	if e.Sub(s) > MaxSpanDays*24*time.Hour {
		return DateRange{}, ErrSpanTooLong
	}

	return DateRange{start: s, end: e}, nil
}

// Parse builds a DateRange from two YYYY-MM-DD strings.
func Parse(start, end string) (DateRange, error) {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return New(s, e)
}

// Normalize strips the clock component, keeping the calendar date in UTC.
func Normalize(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date at midnight UTC.
func Today() time.Time {
	return Normalize(time.Now())
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

// TotalDays counts calendar days, both bounds inclusive.
func (r DateRange) TotalDays() int {
	return int(r.end.Sub(r.start)/(24*time.Hour)) + 1
}

// WorkingDays counts the days in the range that are not Saturday or Sunday.
func (r DateRange) WorkingDays() int {
	count := 0
	for d := r.start; !d.After(r.end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// Overlaps reports whether two closed date intervals share at least one day.
// The single inequality covers every containment and partial-overlap case;
// do not expand it into per-scenario branches.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.start.After(other.end) && !r.end.Before(other.start)
}

// Contains reports whether the given day falls inside the range, bounds
// inclusive. The argument is normalized, so clock time never matters.
func (r DateRange) Contains(day time.Time) bool {
	d := Normalize(day)
	return !r.start.After(d) && !r.end.Before(d)
}

// IsInPast reports whether the whole range lies before today.
func (r DateRange) IsInPast() bool {
	return r.end.Before(Today())
}

// IncludesToday reports whether today falls inside the range.
func (r DateRange) IncludesToday() bool {
	return r.Contains(Today())
}

func (r DateRange) String() string {
	return r.start.Format("2006-01-02") + ".." + r.end.Format("2006-01-02")
}
