package timelog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/apperr"
	"github.com/jvaldemoro/timetrack/internal/models"
)

type Engine struct {
	logger  zerolog.Logger
	tasks   TaskStore
	entries EntryStore
}

func NewEngine(
	logger zerolog.Logger,
	tasks TaskStore,
	entries EntryStore,
) *Engine {
	return &Engine{
		logger:  logger,
		tasks:   tasks,
		entries: entries,
	}
}

func (e *Engine) Create(ctx context.Context, params CreateParams) (*models.TimeEntry, error) {
	task, err := e.tasks.GetByID(ctx, params.TaskID)
	if err != nil {
		return nil, err
	}

	if params.ActorRole == models.RoleEmployee && task.AssignedToID != params.UserID {
		e.logger.Warn().
			Str("task_id", task.ID).
			Str("user_id", params.UserID).
			Msg("time entry rejected: not the assignee")
		return nil, apperr.Forbidden("can only log time on your own tasks")
	}

	if params.HoursWorked <= 0 {
		return nil, apperr.InvalidArgument("hours worked must be greater than 0")
	}

	err = e.checkDailyCap(ctx, params.UserID, params.Date, params.HoursWorked, "")
	if err != nil {
		return nil, err
	}

	entryUUID, err := uuid.NewV7()
	if err != nil {
		e.logger.Error().
			Err(err).
			Msg("failed to generate entry uuid")
		return nil, err
	}

	entry := &models.TimeEntry{
		ID:          entryUUID.String(),
		TaskID:      params.TaskID,
		UserID:      params.UserID,
		Date:        params.Date,
		HoursWorked: params.HoursWorked,
		Description: params.Description,
		CreatedAt:   time.Now(),
	}

	err = e.entries.Create(ctx, entry)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("task_id", params.TaskID).
			Msg("failed to create time entry")
		return nil, err
	}
	e.logger.Debug().
		Str("entry_id", entry.ID).
		Msg("created time entry")

	err = e.Recompute(ctx, params.TaskID)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("entry_id", entry.ID).
		Str("task_id", params.TaskID).
		Str("user_id", params.UserID).
		Msg("logged time")
	return entry, nil
}

func (e *Engine) Update(ctx context.Context, params UpdateParams) (*models.TimeEntry, error) {
	entry, err := e.entries.GetByID(ctx, params.EntryID)
	if err != nil {
		return nil, err
	}

	if params.ActorRole == models.RoleEmployee && entry.UserID != params.ActorID {
		e.logger.Warn().
			Str("entry_id", entry.ID).
			Str("actor_id", params.ActorID).
			Msg("time entry update rejected: not the owner")
		return nil, apperr.Forbidden("can only edit your own time entries")
	}

	if params.HoursWorked != nil && *params.HoursWorked <= 0 {
		return nil, apperr.InvalidArgument("hours worked must be greater than 0")
	}

	effectiveDate := entry.Date
	if params.Date != nil {
		effectiveDate = *params.Date
	}
	effectiveHours := entry.HoursWorked
	if params.HoursWorked != nil {
		effectiveHours = *params.HoursWorked
	}

	// Re-check the cap whenever the day or the hours change. The
	// entry's own prior contribution is excluded so updating it in
	// place never double-counts itself.
	if params.Date != nil || params.HoursWorked != nil {
		err = e.checkDailyCap(ctx, entry.UserID, effectiveDate, effectiveHours, entry.ID)
		if err != nil {
			return nil, err
		}
	}

	entry.Date = effectiveDate
	entry.HoursWorked = effectiveHours
	if params.Description != nil {
		entry.Description = *params.Description
	}

	err = e.entries.Update(ctx, entry)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("entry_id", entry.ID).
			Msg("failed to update time entry")
		return nil, err
	}
	e.logger.Debug().
		Str("entry_id", entry.ID).
		Msg("updated time entry")

	err = e.Recompute(ctx, entry.TaskID)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("entry_id", entry.ID).
		Str("task_id", entry.TaskID).
		Msg("updated time entry")
	return entry, nil
}

func (e *Engine) Delete(ctx context.Context, entryID, actorID, actorRole string) error {
	entry, err := e.entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}

	if actorRole == models.RoleEmployee && entry.UserID != actorID {
		e.logger.Warn().
			Str("entry_id", entry.ID).
			Str("actor_id", actorID).
			Msg("time entry delete rejected: not the owner")
		return apperr.Forbidden("can only delete your own time entries")
	}

	err = e.entries.Delete(ctx, entryID)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("entry_id", entryID).
			Msg("failed to delete time entry")
		return err
	}
	e.logger.Debug().
		Str("entry_id", entryID).
		Msg("deleted time entry")

	err = e.Recompute(ctx, entry.TaskID)
	if err != nil {
		return err
	}

	e.logger.Info().
		Str("entry_id", entryID).
		Str("task_id", entry.TaskID).
		Msg("deleted time entry")
	return nil
}

// Recompute re-derives a task's hoursSpent from its entries. It is
// the sole writer of hoursSpent, runs after every entry write, and is
// idempotent.
func (e *Engine) Recompute(ctx context.Context, taskID string) error {
	entries, err := e.entries.ListByTask(ctx, taskID)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to list entries for recompute")
		return err
	}

	var total float64
	for _, entry := range entries {
		total += entry.HoursWorked
	}

	err = e.tasks.SetHoursSpent(ctx, taskID, total)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to write recomputed hours")
		return err
	}
	e.logger.Debug().
		Str("task_id", taskID).
		Float64("hours_spent", total).
		Msg("recomputed task hours")
	return nil
}

// ListByTask returns a task's entries. Employees may only view
// entries of tasks assigned to them.
func (e *Engine) ListByTask(ctx context.Context, taskID, actorID, actorRole string) ([]*models.TimeEntry, error) {
	task, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if actorRole == models.RoleEmployee && task.AssignedToID != actorID {
		return nil, apperr.Forbidden("not permitted to view entries of this task")
	}

	return e.entries.ListByTask(ctx, taskID)
}

// ListForUser returns the caller's own entries; admins see everyone's.
func (e *Engine) ListForUser(ctx context.Context, actorID, actorRole string) ([]*models.TimeEntry, error) {
	if actorRole == models.RoleAdmin {
		return e.entries.ListAll(ctx)
	}
	return e.entries.ListByUser(ctx, actorID)
}

// checkDailyCap rejects a write that would push the user's summed
// hours for the target calendar day over DailyCapHours. excludeID
// removes the entry being updated from its own prior contribution.
func (e *Engine) checkDailyCap(ctx context.Context, userID string, day time.Time, hours float64, excludeID string) error {
	existing, err := e.entries.ListByUserOnDay(ctx, userID, day)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list entries for cap check")
		return err
	}

	var existingSum float64
	for _, entry := range existing {
		if entry.ID == excludeID {
			continue
		}
		existingSum += entry.HoursWorked
	}

	if existingSum+hours > DailyCapHours {
		e.logger.Warn().
			Str("user_id", userID).
			Float64("existing", existingSum).
			Float64("attempted", hours).
			Msg("daily cap exceeded")
		return apperr.LimitExceeded(
			"daily limit of %.0f hours exceeded: %.2f hours already logged on %s, cannot add %.2f more",
			DailyCapHours, existingSum, day.Format(time.DateOnly), hours)
	}
	return nil
}
