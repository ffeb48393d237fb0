package timelog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/apperr"
	"github.com/jvaldemoro/timetrack/internal/models"
)

type memTaskStore struct {
	tasks map[string]*models.Task
}

func (s *memTaskStore) GetByID(_ context.Context, taskID string) (*models.Task, error) {
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, apperr.NotFound("task not found")
	}
	clone := *task
	return &clone, nil
}

func (s *memTaskStore) SetHoursSpent(_ context.Context, taskID string, hours float64) error {
	task, ok := s.tasks[taskID]
	if !ok {
		return apperr.NotFound("task not found")
	}
	task.HoursSpent = hours
	return nil
}

type memEntryStore struct {
	entries map[string]*models.TimeEntry
}

func (s *memEntryStore) GetByID(_ context.Context, entryID string) (*models.TimeEntry, error) {
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, apperr.NotFound("time entry not found")
	}
	clone := *entry
	return &clone, nil
}

func (s *memEntryStore) ListByTask(_ context.Context, taskID string) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, entry := range s.entries {
		if entry.TaskID == taskID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *memEntryStore) ListByUser(_ context.Context, userID string) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, entry := range s.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *memEntryStore) ListByUserOnDay(_ context.Context, userID string, day time.Time) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, entry := range s.entries {
		if entry.UserID == userID && sameDay(entry.Date, day) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *memEntryStore) ListAll(_ context.Context) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memEntryStore) Create(_ context.Context, entry *models.TimeEntry) error {
	clone := *entry
	s.entries[entry.ID] = &clone
	return nil
}

func (s *memEntryStore) Update(_ context.Context, entry *models.TimeEntry) error {
	if _, ok := s.entries[entry.ID]; !ok {
		return apperr.NotFound("time entry not found")
	}
	clone := *entry
	s.entries[entry.ID] = &clone
	return nil
}

func (s *memEntryStore) Delete(_ context.Context, entryID string) error {
	if _, ok := s.entries[entryID]; !ok {
		return apperr.NotFound("time entry not found")
	}
	delete(s.entries, entryID)
	return nil
}

func newTestEngine(tasks ...*models.Task) (*Engine, *memTaskStore, *memEntryStore) {
	taskStore := &memTaskStore{tasks: make(map[string]*models.Task)}
	for _, task := range tasks {
		taskStore.tasks[task.ID] = task
	}
	entryStore := &memEntryStore{entries: make(map[string]*models.TimeEntry)}
	engine := NewEngine(zerolog.Nop(), taskStore, entryStore)
	return engine, taskStore, entryStore
}

var dayD = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

func assignedTask() *models.Task {
	return &models.Task{
		ID:           "task-1",
		Title:        "migrate billing",
		Status:       models.StatusInProgress,
		AssignedToID: "emp-1",
	}
}

func TestCreateRecomputesHoursSpent(t *testing.T) {
	engine, taskStore, _ := newTestEngine(assignedTask())

	_, err := engine.Create(context.Background(), CreateParams{
		TaskID:      "task-1",
		UserID:      "emp-1",
		ActorRole:   models.RoleEmployee,
		Date:        dayD,
		HoursWorked: 5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := taskStore.tasks["task-1"].HoursSpent; got != 5 {
		t.Errorf("hoursSpent = %v, want 5", got)
	}
}

func TestDailyCapRejectsAndLeavesHoursUntouched(t *testing.T) {
	engine, taskStore, _ := newTestEngine(assignedTask())
	ctx := context.Background()

	_, err := engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: dayD, HoursWorked: 5,
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: dayD, HoursWorked: 8,
	})
	if !errors.Is(err, apperr.ErrLimitExceeded) {
		t.Fatalf("got %v, want limit exceeded", err)
	}
	if !strings.Contains(err.Error(), "5.00") || !strings.Contains(err.Error(), "8.00") {
		t.Errorf("cap error %q should report existing and attempted hours", err.Error())
	}
	if got := taskStore.tasks["task-1"].HoursSpent; got != 5 {
		t.Errorf("hoursSpent after rejected create = %v, want 5", got)
	}
}

func TestCapIgnoresTimeOfDay(t *testing.T) {
	engine, _, _ := newTestEngine(assignedTask())
	ctx := context.Background()

	morning := dayD.Add(9 * time.Hour)
	evening := dayD.Add(20 * time.Hour)

	_, err := engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: morning, HoursWorked: 7,
	})
	if err != nil {
		t.Fatalf("morning create: %v", err)
	}

	_, err = engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: evening, HoursWorked: 6,
	})
	if !errors.Is(err, apperr.ErrLimitExceeded) {
		t.Errorf("entries on the same day must share the cap, got %v", err)
	}

	nextDay := dayD.AddDate(0, 0, 1)
	_, err = engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: nextDay, HoursWorked: 6,
	})
	if err != nil {
		t.Errorf("next-day create should pass: %v", err)
	}
}

func TestUpdateExcludesOwnPriorContribution(t *testing.T) {
	engine, taskStore, _ := newTestEngine(assignedTask())
	ctx := context.Background()

	entry, err := engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: dayD, HoursWorked: 4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	hours := 6.0
	updated, err := engine.Update(ctx, UpdateParams{
		EntryID: entry.ID, ActorID: "emp-1", ActorRole: models.RoleEmployee,
		HoursWorked: &hours,
	})
	if err != nil {
		t.Fatalf("update 4h -> 6h must not double-count itself: %v", err)
	}
	if updated.HoursWorked != 6 {
		t.Errorf("HoursWorked = %v, want 6", updated.HoursWorked)
	}
	if got := taskStore.tasks["task-1"].HoursSpent; got != 6 {
		t.Errorf("hoursSpent = %v, want 6", got)
	}
}

func TestUpdateToNewDayChecksTargetDay(t *testing.T) {
	engine, _, _ := newTestEngine(assignedTask())
	ctx := context.Background()

	nextDay := dayD.AddDate(0, 0, 1)
	_, err := engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: nextDay, HoursWorked: 10,
	})
	if err != nil {
		t.Fatalf("create on next day: %v", err)
	}

	entry, err := engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: dayD, HoursWorked: 4,
	})
	if err != nil {
		t.Fatalf("create on day D: %v", err)
	}

	// Moving the 4h entry onto the day that already holds 10h
	// would make 14h there.
	_, err = engine.Update(ctx, UpdateParams{
		EntryID: entry.ID, ActorID: "emp-1", ActorRole: models.RoleEmployee,
		Date: &nextDay,
	})
	if !errors.Is(err, apperr.ErrLimitExceeded) {
		t.Errorf("got %v, want limit exceeded on the target day", err)
	}
}

func TestDeleteRecomputes(t *testing.T) {
	engine, taskStore, _ := newTestEngine(assignedTask())
	ctx := context.Background()

	first, err := engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: dayD, HoursWorked: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: dayD.AddDate(0, 0, 1), HoursWorked: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = engine.Delete(ctx, first.ID, "emp-1", models.RoleEmployee)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := taskStore.tasks["task-1"].HoursSpent; got != 2 {
		t.Errorf("hoursSpent after delete = %v, want 2", got)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	engine, taskStore, _ := newTestEngine(assignedTask())
	ctx := context.Background()

	_, err := engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: dayD, HoursWorked: 2.5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := engine.Recompute(ctx, "task-1"); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	first := taskStore.tasks["task-1"].HoursSpent
	if err := engine.Recompute(ctx, "task-1"); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got := taskStore.tasks["task-1"].HoursSpent; got != first {
		t.Errorf("second recompute changed hoursSpent: %v != %v", got, first)
	}
	if first != 2.5 {
		t.Errorf("hoursSpent = %v, want 2.5", first)
	}
}

func TestCreateValidation(t *testing.T) {
	engine, _, _ := newTestEngine(assignedTask())
	ctx := context.Background()

	_, err := engine.Create(ctx, CreateParams{
		TaskID: "missing", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: dayD, HoursWorked: 1,
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing task: got %v, want not found", err)
	}

	_, err = engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-2", ActorRole: models.RoleEmployee,
		Date: dayD, HoursWorked: 1,
	})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("non-assignee employee: got %v, want forbidden", err)
	}

	_, err = engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: dayD, HoursWorked: 0,
	})
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("zero hours: got %v, want invalid argument", err)
	}

	// An admin may log time on behalf of the task's worker.
	_, err = engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleAdmin,
		Date: dayD, HoursWorked: 1,
	})
	if err != nil {
		t.Errorf("admin create on behalf: %v", err)
	}
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	engine, _, _ := newTestEngine(assignedTask())
	ctx := context.Background()

	entry, err := engine.Create(ctx, CreateParams{
		TaskID: "task-1", UserID: "emp-1", ActorRole: models.RoleEmployee,
		Date: dayD, HoursWorked: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	hours := 3.0
	_, err = engine.Update(ctx, UpdateParams{
		EntryID: entry.ID, ActorID: "emp-2", ActorRole: models.RoleEmployee,
		HoursWorked: &hours,
	})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("update by non-owner: got %v, want forbidden", err)
	}

	err = engine.Delete(ctx, entry.ID, "emp-2", models.RoleEmployee)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("delete by non-owner: got %v, want forbidden", err)
	}

	// Admins bypass ownership.
	err = engine.Delete(ctx, entry.ID, "admin-1", models.RoleAdmin)
	if err != nil {
		t.Errorf("admin delete: %v", err)
	}
}

func TestListByTaskAccess(t *testing.T) {
	engine, _, _ := newTestEngine(assignedTask())
	ctx := context.Background()

	_, err := engine.ListByTask(ctx, "task-1", "emp-2", models.RoleEmployee)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("non-assignee list: got %v, want forbidden", err)
	}
	_, err = engine.ListByTask(ctx, "task-1", "emp-1", models.RoleEmployee)
	if err != nil {
		t.Errorf("assignee list: %v", err)
	}
	_, err = engine.ListByTask(ctx, "task-1", "admin-1", models.RoleAdmin)
	if err != nil {
		t.Errorf("admin list: %v", err)
	}
}
