package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jvaldemoro/timetrack/internal/models"
	"github.com/jvaldemoro/timetrack/internal/services"
)

type taskResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	AssignedToID    string     `json:"assignedToId"`
	RequestedByID   string     `json:"requestedById"`
	DepartmentID    *string    `json:"departmentId,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	WorkDescription string     `json:"workDescription"`
	HoursSpent      float64    `json:"hoursSpent"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Status:          task.Status,
		AssignedToID:    task.AssignedToID,
		RequestedByID:   task.RequestedByID,
		DepartmentID:    task.DepartmentID,
		StartDate:       task.StartDate,
		WorkDescription: task.WorkDescription,
		HoursSpent:      task.HoursSpent,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}
}

type createTaskRequest struct {
	Title        string  `json:"title" binding:"required,max=255"`
	Description  string  `json:"description"`
	AssignedToID string  `json:"assignedToId" binding:"required"`
	DepartmentID *string `json:"departmentId,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		ActorRole:     actorRole,
		Title:         req.Title,
		Description:   req.Description,
		AssignedToID:  req.AssignedToID,
		RequestedByID: actorID,
		DepartmentID:  req.DepartmentID,
	})
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, c.Param("id"), actorID, actorRole)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	createdFrom, err := optionalDateQuery(c.Query("fromDate"))
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}
	createdTo, err := optionalDateQuery(c.Query("toDate"))
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}

	tasks, err := h.tasks.ListTasks(c, services.ListTasksParams{
		ActorID:      actorID,
		ActorRole:    actorRole,
		AssignedToID: c.Query("assignedToId"),
		DepartmentID: c.Query("departmentId"),
		CreatedFrom:  createdFrom,
		CreatedTo:    createdTo,
	})
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

type updateTaskRequest struct {
	Title           *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Description     *string `json:"description,omitempty"`
	Status          *string `json:"status,omitempty"`
	AssignedToID    *string `json:"assignedToId,omitempty"`
	DepartmentID    *string `json:"departmentId,omitempty"`
	StartDate       *string `json:"startDate,omitempty"`
	WorkDescription *string `json:"workDescription,omitempty"`
	// HoursSpent is accepted in the body for client convenience but
	// never mapped into the patch: the value is derived from time
	// entries and cannot be set from outside.
	HoursSpent *float64 `json:"hoursSpent,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	patch := services.TaskPatch{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		AssignedToID:    req.AssignedToID,
		DepartmentID:    req.DepartmentID,
		WorkDescription: req.WorkDescription,
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
		patch.StartDate = &startDate
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		TaskID:    c.Param("id"),
		ActorID:   actorID,
		ActorRole: actorRole,
		Patch:     patch,
	})
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	_, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, c.Param("id"), actorRole)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
