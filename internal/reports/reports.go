// Package reports computes read-only aggregate views over tasks and
// time entries. Every report is a pure function of the store contents
// passed through the Store interface and the explicit reference time
// or date range supplied by the caller; nothing is cached.
package reports

import (
	"context"
	"time"

	"github.com/jvaldemoro/timetrack/internal/models"
)

// Store is the read side the aggregator needs. EntryFilter narrows
// the listed entries; a nil bound leaves that side open.
type Store interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	ListUsersByRole(ctx context.Context, role string) ([]*models.User, error)
	ListTasks(ctx context.Context) ([]*models.Task, error)
	ListDepartments(ctx context.Context) ([]*models.Department, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]*models.TimeEntry, error)
}

// EntryFilter selects time entries by owner and by inclusive calendar
// day range. Bounds compare whole days; time-of-day is ignored.
type EntryFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

// Matches reports whether an entry passes the filter. Store
// implementations may push the filter into their query instead; this
// is the reference semantics.
func (f EntryFilter) Matches(entry *models.TimeEntry) bool {
	if f.UserID != "" && entry.UserID != f.UserID {
		return false
	}
	day := dayKey(entry.Date)
	if f.From != nil && day < dayKey(*f.From) {
		return false
	}
	if f.To != nil && day > dayKey(*f.To) {
		return false
	}
	return true
}

type UserReportTask struct {
	TaskID     string     `json:"taskId"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	Department string     `json:"department"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	// HoursSpent is the task's all-time derived total; Hours is the
	// portion inside the requested range. The two deliberately
	// diverge when a range filter is set.
	HoursSpent float64 `json:"hoursSpent"`
	Hours      float64 `json:"hours"`
}

type UserReport struct {
	UserID              string           `json:"userId"`
	UserName            string           `json:"userName"`
	Email               string           `json:"email"`
	TotalTasks          int              `json:"totalTasks"`
	CompletedTasks      int              `json:"completedTasks"`
	PendingTasks        int              `json:"pendingTasks"`
	InProgressTasks     int              `json:"inProgressTasks"`
	TotalHours          float64          `json:"totalHours"`
	AverageHoursPerTask float64          `json:"averageHoursPerTask"`
	Tasks               []UserReportTask `json:"tasks,omitempty"`
}

type GeneralReport struct {
	Employees               []UserReport `json:"employees"`
	TotalHours              float64      `json:"totalHours"`
	AverageHoursPerEmployee float64      `json:"averageHoursPerEmployee"`
}

type DepartmentReport struct {
	DepartmentID        string  `json:"departmentId"`
	DepartmentName      string  `json:"departmentName"`
	TotalTasks          int     `json:"totalTasks"`
	CompletedTasks      int     `json:"completedTasks"`
	PendingTasks        int     `json:"pendingTasks"`
	InProgressTasks     int     `json:"inProgressTasks"`
	EmployeeCount       int     `json:"employeeCount"`
	TotalHours          float64 `json:"totalHours"`
	AverageHoursPerTask float64 `json:"averageHoursPerTask"`
}

type DayGroup struct {
	Date       string  `json:"date"`
	Hours      float64 `json:"hours"`
	EntryCount int     `json:"entryCount"`
}

type TaskGroup struct {
	TaskID     string  `json:"taskId"`
	Title      string  `json:"title"`
	Hours      float64 `json:"hours"`
	EntryCount int     `json:"entryCount"`
}

type DateRangeReport struct {
	StartDate          string      `json:"startDate"`
	EndDate            string      `json:"endDate"`
	TotalHours         float64     `json:"totalHours"`
	TotalEntries       int         `json:"totalEntries"`
	AverageHoursPerDay float64     `json:"averageHoursPerDay"`
	ByDay              []DayGroup  `json:"byDay"`
	ByTask             []TaskGroup `json:"byTask"`
}

type ExecutiveSummary struct {
	EmployeeCount           int     `json:"employeeCount"`
	TaskCount               int     `json:"taskCount"`
	DepartmentCount         int     `json:"departmentCount"`
	CompletedTasks          int     `json:"completedTasks"`
	CompletionRate          float64 `json:"completionRate"`
	TotalHours              float64 `json:"totalHours"`
	AverageHoursPerEmployee float64 `json:"averageHoursPerEmployee"`
}

// dayKey flattens a timestamp to an orderable calendar-day number in
// the timestamp's own location.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// inclusiveDayCount counts the calendar days of [from, to], both ends
// included. A single-day range counts 1.
func inclusiveDayCount(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
