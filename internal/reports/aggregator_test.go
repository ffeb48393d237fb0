package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/apperr"
	"github.com/jvaldemoro/timetrack/internal/models"
)

type memStore struct {
	users       map[string]*models.User
	tasks       []*models.Task
	departments []*models.Department
	entries     []*models.TimeEntry
}

func (s *memStore) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (s *memStore) ListUsersByRole(_ context.Context, role string) ([]*models.User, error) {
	var out []*models.User
	for _, user := range s.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (s *memStore) ListTasks(_ context.Context) ([]*models.Task, error) {
	return s.tasks, nil
}

func (s *memStore) ListDepartments(_ context.Context) ([]*models.Department, error) {
	return s.departments, nil
}

func (s *memStore) ListEntries(_ context.Context, filter EntryFilter) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, entry := range s.entries {
		if filter.Matches(entry) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixtureStore() *memStore {
	deptID := "dept-1"
	return &memStore{
		users: map[string]*models.User{
			"emp-1":   {ID: "emp-1", Name: "Ana", Email: "ana@corp.test", Role: models.RoleEmployee},
			"emp-2":   {ID: "emp-2", Name: "Bruno", Email: "bruno@corp.test", Role: models.RoleEmployee},
			"admin-1": {ID: "admin-1", Name: "Root", Email: "root@corp.test", Role: models.RoleAdmin},
		},
		departments: []*models.Department{
			{ID: deptID, Name: "Engineering"},
			{ID: "dept-2", Name: "Sales"},
		},
		tasks: []*models.Task{
			{ID: "task-1", Title: "migrate billing", Status: models.StatusDone,
				AssignedToID: "emp-1", DepartmentID: &deptID, HoursSpent: 10},
			{ID: "task-2", Title: "audit access", Status: models.StatusInProgress,
				AssignedToID: "emp-1", DepartmentID: &deptID, HoursSpent: 4},
			{ID: "task-3", Title: "draft pitch", Status: models.StatusPending,
				AssignedToID: "emp-2", HoursSpent: 2},
		},
		entries: []*models.TimeEntry{
			{ID: "e1", TaskID: "task-1", UserID: "emp-1", Date: day(2024, time.January, 10), HoursWorked: 6},
			{ID: "e2", TaskID: "task-1", UserID: "emp-1", Date: day(2024, time.February, 2), HoursWorked: 4},
			{ID: "e3", TaskID: "task-2", UserID: "emp-1", Date: day(2024, time.January, 15), HoursWorked: 4},
			{ID: "e4", TaskID: "task-3", UserID: "emp-2", Date: day(2024, time.January, 20), HoursWorked: 2},
		},
	}
}

func newTestAggregator() (*Aggregator, *memStore) {
	store := fixtureStore()
	return NewAggregator(zerolog.Nop(), store), store
}

func TestUserReportFilteredVsUnfilteredHours(t *testing.T) {
	aggregator, _ := newTestAggregator()

	from := day(2024, time.January, 1)
	to := day(2024, time.January, 31)
	report, err := aggregator.UserReport(context.Background(), "emp-1", "admin-1", models.RoleAdmin, &from, &to)
	if err != nil {
		t.Fatalf("user report: %v", err)
	}

	// January only: e1 (6h) + e3 (4h); February's e2 is excluded.
	if report.TotalHours != 10 {
		t.Errorf("TotalHours = %v, want 10", report.TotalHours)
	}
	if report.TotalTasks != 2 || report.CompletedTasks != 1 || report.InProgressTasks != 1 {
		t.Errorf("task counts = %d/%d/%d, want 2 total, 1 done, 1 in progress",
			report.TotalTasks, report.CompletedTasks, report.InProgressTasks)
	}
	for _, task := range report.Tasks {
		if task.TaskID == "task-1" {
			if task.HoursSpent != 10 {
				t.Errorf("task-1 HoursSpent = %v, want unfiltered 10", task.HoursSpent)
			}
			if task.Hours != 6 {
				t.Errorf("task-1 Hours = %v, want filtered 6", task.Hours)
			}
			if task.Department != "Engineering" {
				t.Errorf("task-1 Department = %q, want Engineering", task.Department)
			}
		}
	}
	if report.AverageHoursPerTask != 5 {
		t.Errorf("AverageHoursPerTask = %v, want 5", report.AverageHoursPerTask)
	}
}

func TestUserReportAccess(t *testing.T) {
	aggregator, _ := newTestAggregator()
	ctx := context.Background()

	_, err := aggregator.UserReport(ctx, "emp-2", "emp-1", models.RoleEmployee, nil, nil)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("employee viewing other's report: got %v, want forbidden", err)
	}
	_, err = aggregator.UserReport(ctx, "emp-1", "emp-1", models.RoleEmployee, nil, nil)
	if err != nil {
		t.Errorf("employee viewing own report: %v", err)
	}
	_, err = aggregator.UserReport(ctx, "ghost", "admin-1", models.RoleAdmin, nil, nil)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing user: got %v, want not found", err)
	}
}

func TestGeneralReport(t *testing.T) {
	aggregator, _ := newTestAggregator()
	ctx := context.Background()

	_, err := aggregator.GeneralReport(ctx, models.RoleEmployee, nil, nil)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("employee general report: got %v, want forbidden", err)
	}

	report, err := aggregator.GeneralReport(ctx, models.RoleAdmin, nil, nil)
	if err != nil {
		t.Fatalf("general report: %v", err)
	}
	if len(report.Employees) != 2 {
		t.Fatalf("employees = %d, want 2 (admin rows excluded)", len(report.Employees))
	}
	if report.TotalHours != 16 {
		t.Errorf("TotalHours = %v, want 16", report.TotalHours)
	}
	if report.AverageHoursPerEmployee != 8 {
		t.Errorf("AverageHoursPerEmployee = %v, want 8", report.AverageHoursPerEmployee)
	}
}

func TestGeneralReportZeroEmployees(t *testing.T) {
	store := &memStore{users: map[string]*models.User{}}
	aggregator := NewAggregator(zerolog.Nop(), store)

	report, err := aggregator.GeneralReport(context.Background(), models.RoleAdmin, nil, nil)
	if err != nil {
		t.Fatalf("general report: %v", err)
	}
	if report.AverageHoursPerEmployee != 0 {
		t.Errorf("average with zero employees = %v, want 0", report.AverageHoursPerEmployee)
	}
}

func TestDepartmentReport(t *testing.T) {
	aggregator, _ := newTestAggregator()

	from := day(2024, time.January, 1)
	to := day(2024, time.January, 31)
	rows, err := aggregator.DepartmentReport(context.Background(), models.RoleAdmin, &from, &to)
	if err != nil {
		t.Fatalf("department report: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	var engineering DepartmentReport
	for _, row := range rows {
		if row.DepartmentName == "Engineering" {
			engineering = row
		}
	}
	if engineering.TotalTasks != 2 {
		t.Errorf("engineering TotalTasks = %d, want 2", engineering.TotalTasks)
	}
	// Both engineering tasks are assigned to emp-1.
	if engineering.EmployeeCount != 1 {
		t.Errorf("engineering EmployeeCount = %d, want 1 distinct assignee", engineering.EmployeeCount)
	}
	// January entries on task-1 and task-2: 6 + 4.
	if engineering.TotalHours != 10 {
		t.Errorf("engineering TotalHours = %v, want 10", engineering.TotalHours)
	}
}

func TestDateRangeReport(t *testing.T) {
	aggregator, _ := newTestAggregator()
	ctx := context.Background()

	from := day(2024, time.January, 10)
	to := day(2024, time.January, 19)
	report, err := aggregator.DateRangeReport(ctx, "admin-1", models.RoleAdmin, from, to)
	if err != nil {
		t.Fatalf("date range report: %v", err)
	}

	// e1 (Jan 10, 6h) and e3 (Jan 15, 4h) fall inside; both ends inclusive.
	if report.TotalHours != 10 || report.TotalEntries != 2 {
		t.Errorf("totals = %v/%d, want 10h over 2 entries", report.TotalHours, report.TotalEntries)
	}
	if len(report.ByDay) != 2 {
		t.Errorf("ByDay groups = %d, want 2", len(report.ByDay))
	}
	// Average uses the 10-day span of the request, not the 2 days
	// that have entries.
	if report.AverageHoursPerDay != 1 {
		t.Errorf("AverageHoursPerDay = %v, want 1", report.AverageHoursPerDay)
	}
}

func TestDateRangeReportEmployeeScoped(t *testing.T) {
	aggregator, _ := newTestAggregator()

	from := day(2024, time.January, 1)
	to := day(2024, time.January, 31)
	report, err := aggregator.DateRangeReport(context.Background(), "emp-2", models.RoleEmployee, from, to)
	if err != nil {
		t.Fatalf("date range report: %v", err)
	}
	if report.TotalEntries != 1 || report.TotalHours != 2 {
		t.Errorf("employee should only see own entries, got %d entries / %vh", report.TotalEntries, report.TotalHours)
	}
}

func TestExecutiveSummary(t *testing.T) {
	aggregator, _ := newTestAggregator()
	ctx := context.Background()

	_, err := aggregator.Summary(ctx, models.RoleEmployee, day(2024, time.February, 10))
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("employee summary: got %v, want forbidden", err)
	}

	now := day(2024, time.February, 10)
	summary, err := aggregator.Summary(ctx, models.RoleAdmin, now)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.EmployeeCount != 2 || summary.TaskCount != 3 || summary.DepartmentCount != 2 {
		t.Errorf("counts = %d/%d/%d, want 2/3/2",
			summary.EmployeeCount, summary.TaskCount, summary.DepartmentCount)
	}
	// 1 of 3 tasks done.
	if summary.CompletionRate != 33.33 {
		t.Errorf("CompletionRate = %v, want 33.33", summary.CompletionRate)
	}
	// Trailing 30 days from Feb 10 cover Jan 11 onward: e2, e3, e4.
	if summary.TotalHours != 10 {
		t.Errorf("TotalHours = %v, want 10", summary.TotalHours)
	}
	if summary.AverageHoursPerEmployee != 5 {
		t.Errorf("AverageHoursPerEmployee = %v, want 5", summary.AverageHoursPerEmployee)
	}
}

func TestExecutiveSummaryEmptyStore(t *testing.T) {
	store := &memStore{users: map[string]*models.User{}}
	aggregator := NewAggregator(zerolog.Nop(), store)

	summary, err := aggregator.Summary(context.Background(), models.RoleAdmin, day(2024, time.June, 1))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.CompletionRate != 0 || summary.AverageHoursPerEmployee != 0 {
		t.Errorf("zero denominators must yield 0, got rate=%v avg=%v",
			summary.CompletionRate, summary.AverageHoursPerEmployee)
	}
}

func TestInclusiveDayCount(t *testing.T) {
	tests := []struct {
		from, to time.Time
		want     int
	}{
		{day(2024, time.January, 1), day(2024, time.January, 1), 1},
		{day(2024, time.January, 1), day(2024, time.January, 31), 31},
		{day(2024, time.January, 31), day(2024, time.January, 1), 0},
		{day(2024, time.February, 28), day(2024, time.March, 1), 3},
	}
	for _, tt := range tests {
		if got := inclusiveDayCount(tt.from, tt.to); got != tt.want {
			t.Errorf("inclusiveDayCount(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEntryFilterIgnoresTimeOfDay(t *testing.T) {
	entry := &models.TimeEntry{
		UserID:      "emp-1",
		Date:        time.Date(2024, time.January, 31, 23, 30, 0, 0, time.UTC),
		HoursWorked: 1,
	}
	to := day(2024, time.January, 31)
	filter := EntryFilter{To: &to}
	if !filter.Matches(entry) {
		t.Error("entry late on the end day must still match the inclusive bound")
	}
}
