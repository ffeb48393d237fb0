package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/apperr"
	"github.com/jvaldemoro/timetrack/internal/models"
)

type EntryStore struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewEntryStore(logger zerolog.Logger, pgPool *pgxpool.Pool) *EntryStore {
	return &EntryStore{
		logger: logger,
		pgPool: pgPool,
	}
}

const entryColumns = `id,
       task_id,
       user_id,
       date,
       hours_worked,
       description,
       created_at`

func scanEntry(row pgx.Row) (*models.TimeEntry, error) {
	entry := new(models.TimeEntry)
	err := row.Scan(
		&entry.ID,
		&entry.TaskID,
		&entry.UserID,
		&entry.Date,
		&entry.HoursWorked,
		&entry.Description,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *EntryStore) GetByID(ctx context.Context, entryID string) (*models.TimeEntry, error) {
	const selectEntryQuery = `
SELECT ` + entryColumns + `
FROM time_entries
WHERE id = $1
`
	entry, err := scanEntry(s.pgPool.QueryRow(ctx, selectEntryQuery, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("entry_id", entryID).
				Msg("time entry not found")
			return nil, apperr.NotFound("time entry not found")
		}

		s.logger.Error().
			Err(err).
			Str("entry_id", entryID).
			Msg("failed to select time entry")
		return nil, err
	}
	return entry, nil
}

func (s *EntryStore) listQuery(ctx context.Context, query string, args ...any) ([]*models.TimeEntry, error) {
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

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return entries, nil
}

func (s *EntryStore) ListByTask(ctx context.Context, taskID string) ([]*models.TimeEntry, error) {
	const query = `
SELECT ` + entryColumns + `
FROM time_entries
WHERE task_id = $1
ORDER BY date DESC
`
	return s.listQuery(ctx, query, taskID)
}

func (s *EntryStore) ListByUser(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	const query = `
SELECT ` + entryColumns + `
FROM time_entries
WHERE user_id = $1
ORDER BY date DESC
`
	return s.listQuery(ctx, query, userID)
}

// ListByUserOnDay matches by calendar day, dropping the time-of-day
// component on both sides.
func (s *EntryStore) ListByUserOnDay(ctx context.Context, userID string, day time.Time) ([]*models.TimeEntry, error) {
	const query = `
SELECT ` + entryColumns + `
FROM time_entries
WHERE user_id = $1
  AND date::date = $2::date
`
	return s.listQuery(ctx, query, userID, day)
}

func (s *EntryStore) ListAll(ctx context.Context) ([]*models.TimeEntry, error) {
	const query = `
SELECT ` + entryColumns + `
FROM time_entries
ORDER BY date DESC
`
	return s.listQuery(ctx, query)
}

func (s *EntryStore) Create(ctx context.Context, entry *models.TimeEntry) error {
	const insertEntryQuery = `
INSERT INTO time_entries (id, task_id, user_id, date, hours_worked, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := s.pgPool.Exec(
		ctx,
		insertEntryQuery,
		entry.ID,
		entry.TaskID,
		entry.UserID,
		entry.Date,
		entry.HoursWorked,
		entry.Description,
		entry.CreatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert time entry")
		return err
	}
	s.logger.Debug().
		Str("entry_id", entry.ID).
		Msg("inserted time entry")
	return nil
}

func (s *EntryStore) Update(ctx context.Context, entry *models.TimeEntry) error {
	const updateEntryQuery = `
UPDATE time_entries
SET date = $1,
    hours_worked = $2,
    description = $3
WHERE id = $4
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateEntryQuery,
		entry.Date,
		entry.HoursWorked,
		entry.Description,
		entry.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("entry_id", entry.ID).
			Msg("failed to update time entry")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("time entry not found")
	}
	s.logger.Debug().
		Str("entry_id", entry.ID).
		Msg("updated time entry")
	return nil
}

func (s *EntryStore) Delete(ctx context.Context, entryID string) error {
	const deleteEntryQuery = `
DELETE FROM time_entries
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteEntryQuery, entryID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("entry_id", entryID).
			Msg("failed to delete time entry")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("time entry not found")
	}
	s.logger.Debug().
		Str("entry_id", entryID).
		Msg("deleted time entry")
	return nil
}
