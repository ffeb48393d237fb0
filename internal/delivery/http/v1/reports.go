package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) reportRange(c *gin.Context) (from, to *time.Time, ok bool) {
	from, err := optionalDateQuery(c.Query("startDate"))
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return nil, nil, false
	}
	to, err = optionalDateQuery(c.Query("endDate"))
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return nil, nil, false
	}
	return from, to, true
}

func (h *handlerImpl) HandleUserReport(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}
	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}

	report, err := h.reports.UserReport(c, c.Param("userId"), actorID, actorRole, from, to)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *handlerImpl) HandleGeneralReport(c *gin.Context) {
	_, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}
	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}

	report, err := h.reports.GeneralReport(c, actorRole, from, to)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *handlerImpl) HandleDepartmentReport(c *gin.Context) {
	_, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}
	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}

	report, err := h.reports.DepartmentReport(c, actorRole, from, to)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *handlerImpl) HandleDateRangeReport(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		abort(c, newBadRequestError("startDate and endDate are required (YYYY-MM-DD)"))
		return
	}
	from, err := parseDate(startDate)
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}
	to, err := parseDate(endDate)
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}

	report, err := h.reports.DateRangeReport(c, actorID, actorRole, from, to)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *handlerImpl) HandleExecutiveSummary(c *gin.Context) {
	_, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}

	summary, err := h.reports.Summary(c, actorRole, time.Now())
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// HandleMySummary is the employee-facing shortcut for their own
// report without the per-task breakdown.
func (h *handlerImpl) HandleMySummary(c *gin.Context) {
	actorID, actorRole, ok := h.mustActor(c)
	if !ok {
		return
	}
	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}

	report, err := h.reports.UserReport(c, actorID, actorID, actorRole, from, to)
	if err != nil {
		h.abortDomainError(c, err)
		return
	}

	report.Tasks = nil
	c.JSON(http.StatusOK, report)
}
