package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timerange"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

type AvailabilityInput struct {
	ProviderID uint
	Date       time.Time
}

type TimeSlot = timerange.Range

// AvailabilityResult is the answer of a pre-check. Conflicts is only set when
// the request collides with confirmed appointments.
type AvailabilityResult struct {
	Available bool                 `json:"available"`
	Code      string               `json:"code,omitempty"`
	Reason    string               `json:"reason"`
	Conflicts []models.Appointment `json:"conflicts,omitempty"`
}

// SlotWindow returns the bookable window of date. For today the start moves to
// now+lead rounded up to the next whole hour. ok is false when nothing is left.
func SlotWindow(p Policy, date, now time.Time, loc *time.Location) (w timerange.Range, ok bool) {
	start := timezone.At(date, p.SlotDayStartHour, 0, loc)
	end := timezone.At(date, p.SlotDayEndHour, 0, loc)

	if timezone.SameDay(date, now, loc) {
		earliest := ceilHour(now.Add(p.BookingLeadTime), loc)
		if earliest.After(start) {
			start = earliest
		}
	}

	if !start.Before(end) {
		return timerange.Range{}, false
	}
	return timerange.New(start, end), true
}

func ceilHour(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	h := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	if h.Before(t) {
		h = h.Add(time.Hour)
	}
	return h
}

// FreeSlots walks the booked ranges in start order and returns the gaps of the
// window that are at least minSlot long. Shorter gaps are dropped.
func FreeSlots(window timerange.Range, booked []timerange.Range, minSlot time.Duration) []TimeSlot {
	sorted := make([]timerange.Range, len(booked))
	copy(sorted, booked)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	slots := []TimeSlot{}
	cursor := window.Start

	emit := func(end time.Time) {
		if end.After(window.End) {
			end = window.End
		}
		if cursor.Before(end) && end.Sub(cursor) >= minSlot {
			slots = append(slots, timerange.New(cursor, end))
		}
	}

	for _, b := range sorted {
		if !b.End.After(window.Start) {
			continue
		}
		if !b.Start.Before(window.End) {
			break
		}
		emit(b.Start)
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	emit(window.End)

	return slots
}

// Ranges extracts the calendar ranges of appointments.
func Ranges(aps []models.Appointment) []timerange.Range {
	out := make([]timerange.Range, len(aps))
	for i, ap := range aps {
		out[i] = timerange.New(ap.ScheduledAt, ap.EndTime)
	}
	return out
}

// CheckRequestWindow applies the pre-check rules that need no store access,
// in order: times present, start < end, not in the past, business hours,
// duration bounds. The first failing rule wins.
func CheckRequestWindow(p Policy, start, end, now time.Time, loc *time.Location) (AvailabilityResult, bool) {
	fail := func(code, reason string) (AvailabilityResult, bool) {
		return AvailabilityResult{Available: false, Code: code, Reason: reason}, false
	}

	if start.IsZero() || end.IsZero() {
		return fail("missing_time", "start and end time are required")
	}
	if !start.Before(end) {
		return fail("invalid_time_range", "start must be before end")
	}
	if start.Before(now) {
		return fail("in_the_past", "start time is in the past")
	}

	opens := timezone.At(start, p.OpenHour, 0, loc)
	closes := timezone.At(start, p.CloseHour, 0, loc)
	if start.Before(opens) || end.After(closes) {
		return fail("outside_business_hours", "bookings must fall between business hours")
	}

	d := end.Sub(start)
	if d < p.MinDuration {
		return fail("duration_too_short", "booking must last at least "+p.MinDuration.String())
	}
	if d > p.MaxDuration {
		return fail("duration_too_long", "booking must last at most "+p.MaxDuration.String())
	}

	return AvailabilityResult{Available: true}, true
}
