package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/reports"
	"github.com/jvaldemoro/timetrack/internal/services"
	"github.com/jvaldemoro/timetrack/internal/timelog"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleProfile(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandleRequireAdmin(c *gin.Context)

	HandleListUsers(c *gin.Context)
	HandleGetUser(c *gin.Context)
	HandleCreateUser(c *gin.Context)
	HandleUpdateUser(c *gin.Context)

	HandleListDepartments(c *gin.Context)
	HandleGetDepartment(c *gin.Context)
	HandleCreateDepartment(c *gin.Context)
	HandleUpdateDepartment(c *gin.Context)
	HandleDeleteDepartment(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleLogTime(c *gin.Context)
	HandleListTaskEntries(c *gin.Context)
	HandleListMyEntries(c *gin.Context)
	HandleUpdateTimeEntry(c *gin.Context)
	HandleDeleteTimeEntry(c *gin.Context)

	HandleUserReport(c *gin.Context)
	HandleGeneralReport(c *gin.Context)
	HandleDepartmentReport(c *gin.Context)
	HandleDateRangeReport(c *gin.Context)
	HandleExecutiveSummary(c *gin.Context)
	HandleMySummary(c *gin.Context)
}

type handlerImpl struct {
	logger      zerolog.Logger
	auth        services.AuthService
	users       services.UserService
	departments services.DepartmentService
	tasks       services.TaskService
	timelog     *timelog.Engine
	reports     *reports.Aggregator
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	userService services.UserService,
	departmentService services.DepartmentService,
	taskService services.TaskService,
	timelogEngine *timelog.Engine,
	reportAggregator *reports.Aggregator,
) Handler {
	return &handlerImpl{
		logger:      logger,
		auth:        authService,
		users:       userService,
		departments: departmentService,
		tasks:       taskService,
		timelog:     timelogEngine,
		reports:     reportAggregator,
	}
}
