package handlers

import (
	"time"
)

const dateLayout = "2006-01-02"

func parseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loc)
}

// parseOptionalDate returns nil for an empty string.
func parseOptionalDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
