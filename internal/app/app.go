package app

import (
	"riskcheck/config"
	"riskcheck/internal/database"
	"riskcheck/internal/events"
	"riskcheck/internal/handlers/middleware"
	"riskcheck/internal/logger"
	"riskcheck/internal/repositories"
	"riskcheck/internal/services"
	"riskcheck/internal/websockets"

	analyticsController "riskcheck/internal/controllers/analytics"
	requestController "riskcheck/internal/controllers/requests"
	testingController "riskcheck/internal/controllers/testing"
	userController "riskcheck/internal/controllers/users"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService *services.TransactionService
	SessionService     *services.SessionService
	ReportCache        *services.ReportCacheService

	// Repositories
	UserRepo    repositories.UserRepository
	RequestRepo repositories.TestRequestRepository
	WorkerRepo  repositories.WorkerRepository
	ResultRepo  repositories.TestResultRepository

	// Controllers
	UserController      *userController.UserController
	RequestController   *requestController.RequestController
	TestingController   *testingController.TestingController
	AnalyticsController *analyticsController.AnalyticsController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	sessionService := services.NewSessionService(db, config)
	reportCache := services.NewReportCacheService(db)

	// Initialize repositories
	userRepo := repositories.NewUser(db)
	requestRepo := repositories.NewRequest(db)
	workerRepo := repositories.NewWorker(db)
	resultRepo := repositories.NewResult(db)

	// Initialize controllers with repositories and services
	middleware := middleware.New(db, config, userRepo, sessionService)
	userController := userController.New(userRepo, sessionService, config)
	requestController := requestController.New(requestRepo, resultRepo, transactionService, reportCache)
	testingController := testingController.New(
		requestRepo, workerRepo, resultRepo, transactionService, reportCache, eventBus)
	analyticsController := analyticsController.New(resultRepo, workerRepo, reportCache)

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:            db,
		Config:              config,
		Middleware:          middleware,
		Websocket:           websocket,
		EventBus:            eventBus,
		TransactionService:  transactionService,
		SessionService:      sessionService,
		ReportCache:         reportCache,
		UserRepo:            userRepo,
		RequestRepo:         requestRepo,
		WorkerRepo:          workerRepo,
		ResultRepo:          resultRepo,
		UserController:      userController,
		RequestController:   requestController,
		TestingController:   testingController,
		AnalyticsController: analyticsController,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.TransactionService,
		a.SessionService,
		a.ReportCache,
		a.UserRepo,
		a.RequestRepo,
		a.WorkerRepo,
		a.ResultRepo,
		a.UserController,
		a.RequestController,
		a.TestingController,
		a.AnalyticsController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
