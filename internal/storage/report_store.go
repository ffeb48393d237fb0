package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/apperr"
	"github.com/jvaldemoro/timetrack/internal/models"
	"github.com/jvaldemoro/timetrack/internal/reports"
)

// ReportStore is the read-side projection the report aggregator
// consumes. It shares the pool with the write-side stores; reports
// are recomputed fresh on every request.
type ReportStore struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewReportStore(logger zerolog.Logger, pgPool *pgxpool.Pool) *ReportStore {
	return &ReportStore{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *ReportStore) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	const selectUserQuery = `
SELECT id, name, email, role, is_active
FROM users
WHERE id = $1
`
	user := new(models.User)
	err := s.pgPool.QueryRow(ctx, selectUserQuery, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user")
		return nil, err
	}
	return user, nil
}

func (s *ReportStore) ListUsersByRole(ctx context.Context, role string) ([]*models.User, error) {
	const selectUsersQuery = `
SELECT id, name, email, role, is_active
FROM users
WHERE role = $1
ORDER BY name
`
	rows, err := s.pgPool.Query(ctx, selectUsersQuery, role)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select users by role")
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := new(models.User)
		err = rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Role,
			&user.IsActive,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan user")
			return nil, err
		}
		users = append(users, user)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return users, nil
}

func (s *ReportStore) ListTasks(ctx context.Context) ([]*models.Task, error) {
	const query = `
SELECT ` + taskColumns + `
FROM tasks
ORDER BY created_at DESC
`
	rows, err := s.pgPool.Query(ctx, query)
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
	return tasks, rows.Err()
}

func (s *ReportStore) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	const query = `
SELECT id, name, created_at
FROM departments
ORDER BY name
`
	rows, err := s.pgPool.Query(ctx, query)
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
	return departments, rows.Err()
}

// ListEntries pushes the filter into the query; bounds compare
// calendar days like the in-process reference semantics.
func (s *ReportStore) ListEntries(ctx context.Context, filter reports.EntryFilter) ([]*models.TimeEntry, error) {
	query := `
SELECT ` + entryColumns + `
FROM time_entries
WHERE TRUE`
	var args []any
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date::date >= $%d::date", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date::date <= $%d::date", len(args))
	}
	query += "\nORDER BY date"

	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select time entries")
		return nil, err
	}
	defer rows.Close()

	var entries []*models.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan time entry")
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
