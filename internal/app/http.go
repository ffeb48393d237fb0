package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/jvaldemoro/timetrack/internal/config"
	v1 "github.com/jvaldemoro/timetrack/internal/delivery/http/v1"
	"github.com/jvaldemoro/timetrack/internal/reports"
	"github.com/jvaldemoro/timetrack/internal/services"
	"github.com/jvaldemoro/timetrack/internal/storage"
	"github.com/jvaldemoro/timetrack/internal/timelog"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	taskStore := storage.NewTaskStore(globalLogger, globalPostgresPool)
	entryStore := storage.NewEntryStore(globalLogger, globalPostgresPool)
	reportStore := storage.NewReportStore(globalLogger, globalPostgresPool)

	authService := services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.TokenTTL,
	)
	userService := services.NewUserService(globalLogger, globalPostgresPool, authService)
	departmentService := services.NewDepartmentService(globalLogger, globalPostgresPool)
	taskService := services.NewTaskService(globalLogger, globalPostgresPool, taskStore)
	timelogEngine := timelog.NewEngine(globalLogger, taskStore, entryStore)
	reportAggregator := reports.NewAggregator(globalLogger, reportStore)

	v1Handler := v1.New(
		globalLogger,
		authService,
		userService,
		departmentService,
		taskService,
		timelogEngine,
		reportAggregator,
	)
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/register", v1Handler.HandleRegister)
	authRouter.POST("/login", v1Handler.HandleLogin)
	authRouter.GET("/me", v1Handler.HandleAuthMiddleware, v1Handler.HandleProfile)

	usersRouter := router.Group("/users", v1Handler.HandleAuthMiddleware, v1Handler.HandleRequireAdmin)
	usersRouter.GET("", v1Handler.HandleListUsers)
	usersRouter.POST("", v1Handler.HandleCreateUser)
	usersRouter.GET("/:id", v1Handler.HandleGetUser)
	usersRouter.PATCH("/:id", v1Handler.HandleUpdateUser)

	departmentsRouter := router.Group("/departments", v1Handler.HandleAuthMiddleware)
	departmentsRouter.GET("", v1Handler.HandleListDepartments)
	departmentsRouter.GET("/:id", v1Handler.HandleGetDepartment)
	departmentsRouter.POST("", v1Handler.HandleRequireAdmin, v1Handler.HandleCreateDepartment)
	departmentsRouter.PATCH("/:id", v1Handler.HandleRequireAdmin, v1Handler.HandleUpdateDepartment)
	departmentsRouter.DELETE("/:id", v1Handler.HandleRequireAdmin, v1Handler.HandleDeleteDepartment)

	tasksRouter := router.Group("/tasks", v1Handler.HandleAuthMiddleware)
	tasksRouter.POST("", v1Handler.HandleCreateTask)
	tasksRouter.GET("", v1Handler.HandleListTasks)
	tasksRouter.GET("/:id", v1Handler.HandleGetTask)
	tasksRouter.PATCH("/:id", v1Handler.HandleUpdateTask)
	tasksRouter.DELETE("/:id", v1Handler.HandleDeleteTask)
	tasksRouter.POST("/:id/time-entries", v1Handler.HandleLogTime)
	tasksRouter.GET("/:id/time-entries", v1Handler.HandleListTaskEntries)

	entriesRouter := router.Group("/time-entries", v1Handler.HandleAuthMiddleware)
	entriesRouter.GET("", v1Handler.HandleListMyEntries)
	entriesRouter.PATCH("/:id", v1Handler.HandleUpdateTimeEntry)
	entriesRouter.DELETE("/:id", v1Handler.HandleDeleteTimeEntry)

	reportsRouter := router.Group("/reports", v1Handler.HandleAuthMiddleware)
	reportsRouter.GET("/user/:userId", v1Handler.HandleUserReport)
	reportsRouter.GET("/general", v1Handler.HandleGeneralReport)
	reportsRouter.GET("/departments", v1Handler.HandleDepartmentReport)
	reportsRouter.GET("/date-range", v1Handler.HandleDateRangeReport)
	reportsRouter.GET("/summary", v1Handler.HandleExecutiveSummary)
	reportsRouter.GET("/my-summary", v1Handler.HandleMySummary)
}
