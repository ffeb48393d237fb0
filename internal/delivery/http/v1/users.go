package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jvaldemoro/timetrack/internal/services"
)

func (h *handlerImpl) HandleListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list users")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]userResponse, len(users))
	for i, user := range users {
		response[i] = newUserResponse(user)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetUser(c *gin.Context) {
	user, err := h.users.GetUser(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newAPIError(http.StatusNotFound, services.ErrUserNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to get user")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlerImpl) HandleCreateUser(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.users.CreateUser(c, services.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			abort(c, newConflictError(services.ErrUserAlreadyExists.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to create user")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

type updateUserRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=ADMIN EMPLOYEE"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (h *handlerImpl) HandleUpdateUser(c *gin.Context) {
	var req updateUserRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.users.UpdateUser(c, services.UpdateUserParams{
		UserID:   c.Param("id"),
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newAPIError(http.StatusNotFound, services.ErrUserNotFound.Error()))
		case errors.Is(err, services.ErrUserAlreadyExists):
			abort(c, newConflictError(services.ErrUserAlreadyExists.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to update user")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
