package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/apperr"
	"github.com/jvaldemoro/timetrack/internal/models"
)

type TaskStore struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskStore(logger zerolog.Logger, pgPool *pgxpool.Pool) *TaskStore {
	return &TaskStore{
		logger: logger,
		pgPool: pgPool,
	}
}

const taskColumns = `id,
       title,
       description,
       status,
       assigned_to_id,
       requested_by_id,
       department_id,
       start_date,
       work_description,
       hours_spent,
       created_at,
       updated_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := new(models.Task)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.AssignedToID,
		&task.RequestedByID,
		&task.DepartmentID,
		&task.StartDate,
		&task.WorkDescription,
		&task.HoursSpent,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskStore) GetByID(ctx context.Context, taskID string) (*models.Task, error) {
	const selectTaskQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1
`
	task, err := scanTask(s.pgPool.QueryRow(ctx, selectTaskQuery, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("task_id", taskID).
				Msg("task not found")
			return nil, apperr.NotFound("task not found")
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}
	return task, nil
}

func (s *TaskStore) Create(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   title,
                   description,
                   status,
                   assigned_to_id,
                   requested_by_id,
                   department_id,
                   start_date,
                   work_description,
                   hours_spent,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	_, err := s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.AssignedToID,
		task.RequestedByID,
		task.DepartmentID,
		task.StartDate,
		task.WorkDescription,
		task.HoursSpent,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

// Update rewrites the task's mutable columns. hours_spent is not
// touched here; SetHoursSpent owns that column.
func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    status = $3,
    assigned_to_id = $4,
    department_id = $5,
    start_date = $6,
    work_description = $7,
    updated_at = $8
WHERE id = $9
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Status,
		task.AssignedToID,
		task.DepartmentID,
		task.StartDate,
		task.WorkDescription,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("task not found")
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (s *TaskStore) SetHoursSpent(ctx context.Context, taskID string, hours float64) error {
	const updateHoursQuery = `
UPDATE tasks
SET hours_spent = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateHoursQuery,
		hours,
		time.Now(),
		taskID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task hours")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("task not found")
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, taskID string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("task not found")
	}
	s.logger.Debug().
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}

// TaskFilter narrows List; zero values leave that dimension open.
type TaskFilter struct {
	AssignedToID string
	DepartmentID string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

func (s *TaskStore) List(ctx context.Context, filter TaskFilter) ([]*models.Task, error) {
	query := `
SELECT ` + taskColumns + `
FROM tasks
WHERE TRUE`
	var args []any
	if filter.AssignedToID != "" {
		args = append(args, filter.AssignedToID)
		query += fmt.Sprintf(" AND assigned_to_id = $%d", len(args))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		query += fmt.Sprintf(" AND department_id = $%d", len(args))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += "\nORDER BY created_at DESC"

	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return tasks, nil
}
