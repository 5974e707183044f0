package appointment

import "time"

// Policy carries the business constants of the calendar.
type Policy struct {
	// Free-slot window, whole hours.
	SlotDayStartHour int
	SlotDayEndHour   int
	MinSlot          time.Duration
	BookingLeadTime  time.Duration

	// Pre-check limits.
	OpenHour    int
	CloseHour   int
	MinDuration time.Duration
	MaxDuration time.Duration

	CancelWindow time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		SlotDayStartHour: 8,
		SlotDayEndHour:   20,
		MinSlot:          60 * time.Minute,
		BookingLeadTime:  time.Hour,
		OpenHour:         6,
		CloseHour:        23,
		MinDuration:      time.Hour,
		MaxDuration:      8 * time.Hour,
		CancelWindow:     24 * time.Hour,
	}
}
