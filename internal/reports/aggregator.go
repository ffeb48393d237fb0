package reports

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/apperr"
	"github.com/jvaldemoro/timetrack/internal/models"
)

type Aggregator struct {
	logger zerolog.Logger
	store  Store
}

func NewAggregator(logger zerolog.Logger, store Store) *Aggregator {
	return &Aggregator{
		logger: logger,
		store:  store,
	}
}

// UserReport builds the per-user view. Admins may target anyone;
// employees only themselves.
func (a *Aggregator) UserReport(ctx context.Context, targetUserID, actorID, actorRole string, from, to *time.Time) (*UserReport, error) {
	if actorRole != models.RoleAdmin && targetUserID != actorID {
		return nil, apperr.Forbidden("not permitted to view another user's report")
	}

	user, err := a.store.GetUserByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	tasks, err := a.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := a.departmentNames(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := a.store.ListEntries(ctx, EntryFilter{UserID: targetUserID, From: from, To: to})
	if err != nil {
		return nil, err
	}

	hoursByTask := make(map[string]float64)
	var totalHours float64
	for _, entry := range entries {
		hoursByTask[entry.TaskID] += entry.HoursWorked
		totalHours += entry.HoursWorked
	}

	report := &UserReport{
		UserID:     user.ID,
		UserName:   user.Name,
		Email:      user.Email,
		TotalHours: round2(totalHours),
	}
	for _, task := range tasks {
		if task.AssignedToID != targetUserID {
			continue
		}
		report.TotalTasks++
		switch task.Status {
		case models.StatusDone:
			report.CompletedTasks++
		case models.StatusPending:
			report.PendingTasks++
		case models.StatusInProgress:
			report.InProgressTasks++
		}

		department := "N/A"
		if task.DepartmentID != nil {
			if name, ok := departments[*task.DepartmentID]; ok {
				department = name
			}
		}
		report.Tasks = append(report.Tasks, UserReportTask{
			TaskID:     task.ID,
			Title:      task.Title,
			Status:     task.Status,
			Department: department,
			StartDate:  task.StartDate,
			HoursSpent: task.HoursSpent,
			Hours:      round2(hoursByTask[task.ID]),
		})
	}
	if report.TotalTasks > 0 {
		report.AverageHoursPerTask = round2(totalHours / float64(report.TotalTasks))
	}

	a.logger.Debug().
		Str("user_id", targetUserID).
		Int("tasks", report.TotalTasks).
		Msg("built user report")
	return report, nil
}

// GeneralReport builds one row per employee plus organization totals.
// Admin only.
func (a *Aggregator) GeneralReport(ctx context.Context, actorRole string, from, to *time.Time) (*GeneralReport, error) {
	if actorRole != models.RoleAdmin {
		return nil, apperr.Forbidden("admin only")
	}

	employees, err := a.store.ListUsersByRole(ctx, models.RoleEmployee)
	if err != nil {
		return nil, err
	}
	tasks, err := a.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := a.store.ListEntries(ctx, EntryFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	hoursByUser := make(map[string]float64)
	for _, entry := range entries {
		hoursByUser[entry.UserID] += entry.HoursWorked
	}

	report := &GeneralReport{Employees: make([]UserReport, 0, len(employees))}
	var orgHours float64
	for _, employee := range employees {
		row := UserReport{
			UserID:     employee.ID,
			UserName:   employee.Name,
			Email:      employee.Email,
			TotalHours: round2(hoursByUser[employee.ID]),
		}
		for _, task := range tasks {
			if task.AssignedToID != employee.ID {
				continue
			}
			row.TotalTasks++
			switch task.Status {
			case models.StatusDone:
				row.CompletedTasks++
			case models.StatusPending:
				row.PendingTasks++
			case models.StatusInProgress:
				row.InProgressTasks++
			}
		}
		if row.TotalTasks > 0 {
			row.AverageHoursPerTask = round2(hoursByUser[employee.ID] / float64(row.TotalTasks))
		}
		orgHours += hoursByUser[employee.ID]
		report.Employees = append(report.Employees, row)
	}

	report.TotalHours = round2(orgHours)
	if len(employees) > 0 {
		report.AverageHoursPerEmployee = round2(orgHours / float64(len(employees)))
	}

	a.logger.Debug().
		Int("employees", len(employees)).
		Msg("built general report")
	return report, nil
}

// DepartmentReport groups tasks by department and sums the hours
// logged against them inside the range. Admin only.
func (a *Aggregator) DepartmentReport(ctx context.Context, actorRole string, from, to *time.Time) ([]DepartmentReport, error) {
	if actorRole != models.RoleAdmin {
		return nil, apperr.Forbidden("admin only")
	}

	departments, err := a.store.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := a.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := a.store.ListEntries(ctx, EntryFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	hoursByTask := make(map[string]float64)
	for _, entry := range entries {
		hoursByTask[entry.TaskID] += entry.HoursWorked
	}

	rows := make([]DepartmentReport, 0, len(departments))
	for _, department := range departments {
		row := DepartmentReport{
			DepartmentID:   department.ID,
			DepartmentName: department.Name,
		}
		assignees := make(map[string]bool)
		var hours float64
		for _, task := range tasks {
			if task.DepartmentID == nil || *task.DepartmentID != department.ID {
				continue
			}
			row.TotalTasks++
			switch task.Status {
			case models.StatusDone:
				row.CompletedTasks++
			case models.StatusPending:
				row.PendingTasks++
			case models.StatusInProgress:
				row.InProgressTasks++
			}
			assignees[task.AssignedToID] = true
			hours += hoursByTask[task.ID]
		}
		row.EmployeeCount = len(assignees)
		row.TotalHours = round2(hours)
		if row.TotalTasks > 0 {
			row.AverageHoursPerTask = round2(hours / float64(row.TotalTasks))
		}
		rows = append(rows, row)
	}

	a.logger.Debug().
		Int("departments", len(rows)).
		Msg("built department report")
	return rows, nil
}

// DateRangeReport groups entries by calendar day and by task for the
// inclusive range. Any role may call it; employees are scoped to
// their own entries.
func (a *Aggregator) DateRangeReport(ctx context.Context, actorID, actorRole string, from, to time.Time) (*DateRangeReport, error) {
	filter := EntryFilter{From: &from, To: &to}
	if actorRole == models.RoleEmployee {
		filter.UserID = actorID
	}

	entries, err := a.store.ListEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	tasks, err := a.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(tasks))
	for _, task := range tasks {
		titles[task.ID] = task.Title
	}

	byDay := make(map[string]*DayGroup)
	byTask := make(map[string]*TaskGroup)
	var totalHours float64
	for _, entry := range entries {
		totalHours += entry.HoursWorked

		day := entry.Date.Format(time.DateOnly)
		dayGroup, ok := byDay[day]
		if !ok {
			dayGroup = &DayGroup{Date: day}
			byDay[day] = dayGroup
		}
		dayGroup.Hours = round2(dayGroup.Hours + entry.HoursWorked)
		dayGroup.EntryCount++

		taskGroup, ok := byTask[entry.TaskID]
		if !ok {
			taskGroup = &TaskGroup{TaskID: entry.TaskID, Title: titles[entry.TaskID]}
			byTask[entry.TaskID] = taskGroup
		}
		taskGroup.Hours = round2(taskGroup.Hours + entry.HoursWorked)
		taskGroup.EntryCount++
	}

	report := &DateRangeReport{
		StartDate:    from.Format(time.DateOnly),
		EndDate:      to.Format(time.DateOnly),
		TotalHours:   round2(totalHours),
		TotalEntries: len(entries),
	}

	// The average divides by the span of the requested range, not by
	// the number of days that have entries.
	if days := inclusiveDayCount(from, to); days > 0 {
		report.AverageHoursPerDay = round2(totalHours / float64(days))
	}

	for _, group := range byDay {
		report.ByDay = append(report.ByDay, *group)
	}
	sort.Slice(report.ByDay, func(i, j int) bool {
		return report.ByDay[i].Date < report.ByDay[j].Date
	})
	for _, group := range byTask {
		report.ByTask = append(report.ByTask, *group)
	}
	sort.Slice(report.ByTask, func(i, j int) bool {
		return report.ByTask[i].Title < report.ByTask[j].Title
	})

	a.logger.Debug().
		Int("entries", len(entries)).
		Msg("built date range report")
	return report, nil
}

// Summary builds the executive view over the trailing 30 days ending
// at now. Admin only. The reference time is explicit so the report
// stays a pure function of its inputs.
func (a *Aggregator) Summary(ctx context.Context, actorRole string, now time.Time) (*ExecutiveSummary, error) {
	if actorRole != models.RoleAdmin {
		return nil, apperr.Forbidden("admin only")
	}

	employees, err := a.store.ListUsersByRole(ctx, models.RoleEmployee)
	if err != nil {
		return nil, err
	}
	tasks, err := a.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := a.store.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	windowStart := now.AddDate(0, 0, -30)
	entries, err := a.store.ListEntries(ctx, EntryFilter{From: &windowStart, To: &now})
	if err != nil {
		return nil, err
	}

	summary := &ExecutiveSummary{
		EmployeeCount:   len(employees),
		TaskCount:       len(tasks),
		DepartmentCount: len(departments),
	}
	for _, task := range tasks {
		if task.Status == models.StatusDone {
			summary.CompletedTasks++
		}
	}
	if len(tasks) > 0 {
		summary.CompletionRate = round2(float64(summary.CompletedTasks) / float64(len(tasks)) * 100)
	}

	var totalHours float64
	for _, entry := range entries {
		totalHours += entry.HoursWorked
	}
	summary.TotalHours = round2(totalHours)
	if len(employees) > 0 {
		summary.AverageHoursPerEmployee = round2(totalHours / float64(len(employees)))
	}

	a.logger.Debug().
		Int("entries", len(entries)).
		Msg("built executive summary")
	return summary, nil
}

func (a *Aggregator) departmentNames(ctx context.Context) (map[string]string, error) {
	departments, err := a.store.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(departments))
	for _, department := range departments {
		names[department.ID] = department.Name
	}
	return names, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
