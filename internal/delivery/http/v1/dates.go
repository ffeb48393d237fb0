package v1

import (
	"fmt"
	"time"
)

// parseDate accepts the YYYY-MM-DD form used throughout the API and
// falls back to RFC 3339 for clients sending full timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", value)
	}
	return t, nil
}

// optionalDateQuery reads a query parameter as a date, returning nil
// when absent.
func optionalDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
