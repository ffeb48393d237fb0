// Package timelog is the time accounting engine: it validates and
// applies time-entry writes, enforces the daily hours cap, and keeps
// every task's derived hoursSpent in step with its entries.
package timelog

import (
	"context"
	"time"

	"github.com/jvaldemoro/timetrack/internal/models"
)

// DailyCapHours is the ceiling on summed hours a user may log per
// calendar day. The comparison uses the raw float sum; rounding is a
// display concern only.
const DailyCapHours = 12.0

// TaskStore is the narrow slice of task persistence the engine needs.
type TaskStore interface {
	GetByID(ctx context.Context, taskID string) (*models.Task, error)
	SetHoursSpent(ctx context.Context, taskID string, hours float64) error
}

// EntryStore persists time entries. ListByUserOnDay matches entries
// whose Date falls on the same calendar day as the given day,
// ignoring the time-of-day component.
type EntryStore interface {
	GetByID(ctx context.Context, entryID string) (*models.TimeEntry, error)
	ListByTask(ctx context.Context, taskID string) ([]*models.TimeEntry, error)
	ListByUser(ctx context.Context, userID string) ([]*models.TimeEntry, error)
	ListByUserOnDay(ctx context.Context, userID string, day time.Time) ([]*models.TimeEntry, error)
	ListAll(ctx context.Context) ([]*models.TimeEntry, error)
	Create(ctx context.Context, entry *models.TimeEntry) error
	Update(ctx context.Context, entry *models.TimeEntry) error
	Delete(ctx context.Context, entryID string) error
}

type CreateParams struct {
	TaskID string
	// UserID is whose time is being logged. Employees log their own;
	// an admin may log on behalf of any task's worker.
	UserID      string
	ActorRole   string
	Date        time.Time
	HoursWorked float64
	Description string
}

type UpdateParams struct {
	EntryID     string
	ActorID     string
	ActorRole   string
	Date        *time.Time
	HoursWorked *float64
	Description *string
}

// sameDay reports whether two timestamps fall on the same calendar
// day. Day boundaries follow the timestamps' own locations, matching
// how entries were stored.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
