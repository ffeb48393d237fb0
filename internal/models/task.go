package models

import "time"

const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

type Task struct {
	ID            string
	Title         string
	Description   string
	Status        string
	AssignedToID  string
	RequestedByID string
	// DepartmentID is nil for tasks not tied to a department.
	DepartmentID    *string
	StartDate       *time.Time
	WorkDescription string
	// HoursSpent is derived from the task's time entries and is
	// rewritten by recomputation after every time-entry change.
	// It is never accepted as input.
	HoursSpent float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
