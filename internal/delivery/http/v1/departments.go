package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jvaldemoro/timetrack/internal/models"
	"github.com/jvaldemoro/timetrack/internal/services"
)

type departmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func newDepartmentResponse(department *models.Department) departmentResponse {
	return departmentResponse{
		ID:        department.ID,
		Name:      department.Name,
		CreatedAt: department.CreatedAt,
	}
}

func (h *handlerImpl) HandleListDepartments(c *gin.Context) {
	departments, err := h.departments.ListDepartments(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list departments")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]departmentResponse, len(departments))
	for i, department := range departments {
		response[i] = newDepartmentResponse(department)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetDepartment(c *gin.Context) {
	department, err := h.departments.GetDepartment(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			abort(c, newAPIError(http.StatusNotFound, services.ErrDepartmentNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to get department")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newDepartmentResponse(department))
}

type departmentRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

func (h *handlerImpl) HandleCreateDepartment(c *gin.Context) {
	var req departmentRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	department, err := h.departments.CreateDepartment(c, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrDepartmentAlreadyExists) {
			abort(c, newConflictError(services.ErrDepartmentAlreadyExists.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to create department")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newDepartmentResponse(department))
}

func (h *handlerImpl) HandleUpdateDepartment(c *gin.Context) {
	var req departmentRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	department, err := h.departments.UpdateDepartment(c, c.Param("id"), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDepartmentNotFound):
			abort(c, newAPIError(http.StatusNotFound, services.ErrDepartmentNotFound.Error()))
		case errors.Is(err, services.ErrDepartmentAlreadyExists):
			abort(c, newConflictError(services.ErrDepartmentAlreadyExists.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to update department")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newDepartmentResponse(department))
}

func (h *handlerImpl) HandleDeleteDepartment(c *gin.Context) {
	err := h.departments.DeleteDepartment(c, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDepartmentNotFound):
			abort(c, newAPIError(http.StatusNotFound, services.ErrDepartmentNotFound.Error()))
		case errors.Is(err, services.ErrDepartmentHasTasks):
			abort(c, newConflictError(services.ErrDepartmentHasTasks.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to delete department")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Status(http.StatusNoContent)
}
