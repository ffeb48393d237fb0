package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/apperr"
	"github.com/jvaldemoro/timetrack/internal/models"
	"github.com/jvaldemoro/timetrack/internal/policy"
	"github.com/jvaldemoro/timetrack/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	tasks  *storage.TaskStore
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	tasks *storage.TaskStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
		tasks:  tasks,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	err := policy.CanCreate(params.ActorRole)
	if err != nil {
		return nil, err
	}

	if params.Title == "" {
		return nil, apperr.InvalidArgument("title is required")
	}
	if params.AssignedToID == "" {
		return nil, apperr.InvalidArgument("assignedToId is required")
	}

	err = s.userExists(ctx, params.AssignedToID)
	if err != nil {
		return nil, err
	}
	if params.DepartmentID != nil {
		err = s.departmentExists(ctx, *params.DepartmentID)
		if err != nil {
			return nil, err
		}
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:            taskUUID.String(),
		Title:         params.Title,
		Description:   params.Description,
		Status:        models.StatusPending,
		AssignedToID:  params.AssignedToID,
		RequestedByID: params.RequestedByID,
		DepartmentID:  params.DepartmentID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("assigned_to", task.AssignedToID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, taskID, actorID, actorRole string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if actorRole == models.RoleEmployee && task.AssignedToID != actorID {
		return nil, apperr.Forbidden("not permitted to view this task")
	}
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error) {
	filter := storage.TaskFilter{
		AssignedToID: params.AssignedToID,
		DepartmentID: params.DepartmentID,
		CreatedFrom:  params.CreatedFrom,
		CreatedTo:    params.CreatedTo,
	}

	// Employees only ever see their own assignments, whatever the
	// requested filter says.
	if params.ActorRole == models.RoleEmployee {
		filter.AssignedToID = params.ActorID
	}

	return s.tasks.List(ctx, filter)
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, params.TaskID)
	if err != nil {
		return nil, err
	}

	patch := params.Patch
	fields := touchedFields(patch)
	err = policy.CanEdit(params.ActorRole, params.ActorID, task.AssignedToID, fields)
	if err != nil {
		s.logger.Warn().
			Str("task_id", task.ID).
			Str("actor_id", params.ActorID).
			Err(err).
			Msg("task update rejected")
		return nil, err
	}

	if patch.Status != nil {
		if !validStatus(*patch.Status) {
			return nil, apperr.InvalidArgument("invalid status %q", *patch.Status)
		}
		task.Status = *patch.Status
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.AssignedToID != nil {
		err = s.userExists(ctx, *patch.AssignedToID)
		if err != nil {
			return nil, err
		}
		task.AssignedToID = *patch.AssignedToID
	}
	if patch.DepartmentID != nil {
		// An empty id detaches the task from its department.
		if *patch.DepartmentID == "" {
			task.DepartmentID = nil
		} else {
			err = s.departmentExists(ctx, *patch.DepartmentID)
			if err != nil {
				return nil, err
			}
			task.DepartmentID = patch.DepartmentID
		}
	}
	if patch.StartDate != nil {
		task.StartDate = patch.StartDate
	}
	if patch.WorkDescription != nil {
		task.WorkDescription = *patch.WorkDescription
	}
	task.UpdatedAt = time.Now()

	err = s.tasks.Update(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Strs("fields", fields).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID, actorRole string) error {
	err := policy.CanDelete(actorRole)
	if err != nil {
		return err
	}

	err = s.tasks.Delete(ctx, taskID)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}

// touchedFields lists the patch's set fields in declaration order so
// policy rejections name a deterministic first offender.
func touchedFields(patch TaskPatch) []string {
	var fields []string
	if patch.Title != nil {
		fields = append(fields, policy.FieldTitle)
	}
	if patch.Description != nil {
		fields = append(fields, policy.FieldDescription)
	}
	if patch.Status != nil {
		fields = append(fields, policy.FieldStatus)
	}
	if patch.AssignedToID != nil {
		fields = append(fields, policy.FieldAssignedTo)
	}
	if patch.DepartmentID != nil {
		fields = append(fields, policy.FieldDepartment)
	}
	if patch.StartDate != nil {
		fields = append(fields, policy.FieldStartDate)
	}
	if patch.WorkDescription != nil {
		fields = append(fields, policy.FieldWorkDescription)
	}
	return fields
}

func validStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusInProgress, models.StatusDone:
		return true
	}
	return false
}

func (s *taskServiceImpl) userExists(ctx context.Context, userID string) error {
	const query = `
SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)
`
	var exists bool
	err := s.pgPool.QueryRow(ctx, query, userID).Scan(&exists)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to check user existence")
		return err
	}
	if !exists {
		return apperr.NotFound("assigned user not found")
	}
	return nil
}

func (s *taskServiceImpl) departmentExists(ctx context.Context, departmentID string) error {
	const query = `
SELECT EXISTS (SELECT 1 FROM departments WHERE id = $1)
`
	var exists bool
	err := s.pgPool.QueryRow(ctx, query, departmentID).Scan(&exists)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("department_id", departmentID).
			Msg("failed to check department existence")
		return err
	}
	if !exists {
		return apperr.NotFound("department not found")
	}
	return nil
}
