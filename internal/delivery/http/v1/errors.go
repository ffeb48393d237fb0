package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jvaldemoro/timetrack/internal/apperr"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// statusFor maps the typed business errors to HTTP statuses. The
// limit and argument rejections both come back as 400; unknown
// errors surface as a generic 500 with no detail leaked.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrLimitExceeded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortDomainError renders a typed error with its own message and
// everything else as an opaque internal error.
func (h *handlerImpl) abortDomainError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().
			Err(err).
			Msg("internal error")
		abort(c, newStatusTextError(status))
		return
	}
	abort(c, newAPIError(status, err.Error()))
}
