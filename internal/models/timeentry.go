package models

import "time"

type TimeEntry struct {
	ID     string
	TaskID string
	UserID string
	// Date marks the calendar day the work happened on; the
	// time-of-day component is ignored by the daily cap check.
	Date        time.Time
	HoursWorked float64
	Description string
	CreatedAt   time.Time
}
