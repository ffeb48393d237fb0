package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/models"
)

type departmentServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewDepartmentService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) DepartmentService {
	return &departmentServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *departmentServiceImpl) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	const selectDepartmentsQuery = `
SELECT id,
       name,
       created_at
FROM departments
ORDER BY name
`
	rows, err := s.pgPool.Query(ctx, selectDepartmentsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select departments")
		return nil, err
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		department := new(models.Department)
		err = rows.Scan(
			&department.ID,
			&department.Name,
			&department.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan department")
			return nil, err
		}
		departments = append(departments, department)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return departments, nil
}

func (s *departmentServiceImpl) GetDepartment(ctx context.Context, departmentID string) (*models.Department, error) {
	const selectDepartmentQuery = `
SELECT id,
       name,
       created_at
FROM departments
WHERE id = $1
`
	department := new(models.Department)
	err := s.pgPool.QueryRow(
		ctx,
		selectDepartmentQuery,
		departmentID,
	).Scan(
		&department.ID,
		&department.Name,
		&department.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("department_id", departmentID).
				Msg("department not found")
			return nil, ErrDepartmentNotFound
		}

		s.logger.Error().
			Err(err).
			Str("department_id", departmentID).
			Msg("failed to select department")
		return nil, err
	}
	return department, nil
}

func (s *departmentServiceImpl) CreateDepartment(ctx context.Context, name string) (*models.Department, error) {
	departmentUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate department uuid")
		return nil, err
	}

	department := &models.Department{
		ID:        departmentUUID.String(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	const insertDepartmentQuery = `
INSERT INTO departments (id, name, created_at)
VALUES ($1, $2, $3)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertDepartmentQuery,
		department.ID,
		department.Name,
		department.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("name", name).
				Msg("department name already exists")
			return nil, ErrDepartmentAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert department")
		return nil, err
	}
	s.logger.Debug().
		Str("department_id", department.ID).
		Msg("inserted department")

	s.logger.Info().
		Str("department_id", department.ID).
		Str("name", name).
		Msg("created department")
	return department, nil
}

func (s *departmentServiceImpl) UpdateDepartment(ctx context.Context, departmentID, name string) (*models.Department, error) {
	const updateDepartmentQuery = `
UPDATE departments
SET name = $1
WHERE id = $2
RETURNING created_at
`
	department := &models.Department{
		ID:   departmentID,
		Name: name,
	}
	err := s.pgPool.QueryRow(
		ctx,
		updateDepartmentQuery,
		name,
		departmentID,
	).Scan(&department.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("department_id", departmentID).
				Msg("department not found")
			return nil, ErrDepartmentNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("name", name).
				Msg("department name already exists")
			return nil, ErrDepartmentAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("department_id", departmentID).
			Msg("failed to update department")
		return nil, err
	}
	s.logger.Info().
		Str("department_id", departmentID).
		Msg("updated department")
	return department, nil
}

func (s *departmentServiceImpl) DeleteDepartment(ctx context.Context, departmentID string) error {
	const countTasksQuery = `
SELECT COUNT(*)
FROM tasks
WHERE department_id = $1
`
	var taskCount int64
	err := s.pgPool.QueryRow(ctx, countTasksQuery, departmentID).Scan(&taskCount)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("department_id", departmentID).
			Msg("failed to count department tasks")
		return err
	}
	if taskCount > 0 {
		s.logger.Warn().
			Str("department_id", departmentID).
			Int64("tasks", taskCount).
			Msg("refusing to delete department with tasks")
		return ErrDepartmentHasTasks
	}

	const deleteDepartmentQuery = `
DELETE FROM departments
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteDepartmentQuery, departmentID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("department_id", departmentID).
			Msg("failed to delete department")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	s.logger.Info().
		Str("department_id", departmentID).
		Msg("deleted department")
	return nil
}
