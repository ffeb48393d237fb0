package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jvaldemoro/timetrack/internal/models"
	"github.com/jvaldemoro/timetrack/internal/timelog"
)

type timeEntryResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	UserID      string    `json:"userId"`
	Date        time.Time `json:"date"`
	HoursWorked float64   `json:"hoursWorked"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newTimeEntryResponse(entry *models.TimeEntry) timeEntryResponse {
	return timeEntryResponse{
		ID:          entry.ID,
		TaskID:      entry.TaskID,
		UserID:      entry.UserID,
		Date:        entry.Date,
		HoursWorked: entry.HoursWorked,
		Description: entry.Description,
		CreatedAt:   entry.CreatedAt,
	}
}

type logTimeRequest struct {
	Date        string  `json:"date" binding:"required"`
	HoursWorked float64 `json:"hoursWorked" binding:"required"`
	Description string  `json:"description"`
	// UserID lets an admin log time on behalf of the task's worker;
	// employees always log for themselves and the field is ignored.
	UserID string `json:"userId,omitempty"`
}

func (h *handlerImpl) HandleLogTime(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	var req logTimeRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}

	userID := actorID
	if actorRole == models.RoleAdmin && req.UserID != "" {
		userID = req.UserID
	}

	entry, err := h.timelog.Create(c, timelog.CreateParams{
		TaskID:      c.Param("id"),
		UserID:      userID,
		ActorRole:   actorRole,
		Date:        date,
		HoursWorked: req.HoursWorked,
		Description: req.Description,
	})
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTimeEntryResponse(entry))
}

func (h *handlerImpl) HandleListTaskEntries(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	entries, err := h.timelog.ListByTask(c, c.Param("id"), actorID, actorRole)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	response := make([]timeEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = newTimeEntryResponse(entry)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleListMyEntries(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	entries, err := h.timelog.ListForUser(c, actorID, actorRole)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	response := make([]timeEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = newTimeEntryResponse(entry)
	}
	c.JSON(http.StatusOK, response)
}

type updateTimeEntryRequest struct {
	Date        *string  `json:"date,omitempty"`
	HoursWorked *float64 `json:"hoursWorked,omitempty"`
	Description *string  `json:"description,omitempty"`
}

func (h *handlerImpl) HandleUpdateTimeEntry(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	var req updateTimeEntryRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := timelog.UpdateParams{
		EntryID:     c.Param("id"),
		ActorID:     actorID,
		ActorRole:   actorRole,
		HoursWorked: req.HoursWorked,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
		params.Date = &date
	}

	entry, err := h.timelog.Update(c, params)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTimeEntryResponse(entry))
}

func (h *handlerImpl) HandleDeleteTimeEntry(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	err := h.timelog.Delete(c, c.Param("id"), actorID, actorRole)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
