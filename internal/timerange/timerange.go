// Package timerange holds the half-open interval used by every calendar
// check: [Start, End), start inclusive, end exclusive.
package timerange

import "time"

type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func New(start, end time.Time) Range {
	return Range{Start: start, End: end}
}

// Valid reports whether both ends are set and Start < End.
func (r Range) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.Start.Before(r.End)
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps is the single overlap predicate. Ranges that only touch
// (one ends exactly when the other starts) do not overlap.
func (r Range) Overlaps(o Range) bool {
	return Overlaps(r.Start, r.End, o.Start, o.End)
}

func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Days returns midnight of every calendar day in loc that the range touches.
func (r Range) Days(loc *time.Location) []time.Time {
	if !r.Valid() {
		return nil
	}
	s := r.Start.In(loc)
	day := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)

	var out []time.Time
	for day.Before(r.End) {
		out = append(out, day)
		day = day.AddDate(0, 0, 1)
	}
	return out
}
