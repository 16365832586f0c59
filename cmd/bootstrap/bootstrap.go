package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-management/config"
	deliveryHttp "hospital-management/internal/delivery/http"
	"hospital-management/internal/delivery/http/handler"
	"hospital-management/internal/delivery/http/middleware"
	"hospital-management/internal/infrastructure/cache"
	"hospital-management/internal/infrastructure/database"
	"hospital-management/internal/repository"
	"hospital-management/internal/service"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/jwt"
	"hospital-management/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second
	syncTimeout     = 30 * time.Second
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	SlotService *service.SlotService
	Log         *logrus.Logger
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	cfg, err := Configure()
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	app.Log = logrus.StandardLogger()

	if cfg.App.AutoMigrate {
		if err := Migrate(cfg, func(m *database.Migrator) error { return m.Up() }); err != nil {
			return nil, err
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.initializeServer()

	return app, nil
}

// Configure loads the configuration and sets up the logger from it
func Configure() (*config.Config, error) {
	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", cfg.App.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.Info("Configuration loaded successfully")

	return cfg, nil
}

// Migrate opens the migrator, runs fn and closes it again
func Migrate(cfg *config.Config, fn func(m *database.Migrator) error) error {
	migrator, err := database.NewMigrator(cfg.DB)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return fn(migrator)
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer wires repositories, services, usecases and handlers into the HTTP server
func (app *App) initializeServer() {
	cfg, db, redisClient, log := app.Config, app.DB, app.RedisClient, app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	transactor := database.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	consultationRepo := repository.NewConsultationRepository(db)
	drugRepo := repository.NewDrugRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)
	labTestRepo := repository.NewLabTestRepository(db)
	investigationRepo := repository.NewInvestigationRepository(db)
	deleteRequestRepo := repository.NewDeleteRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	notificationService := service.NewNotificationService(log, notificationRepo)
	slotService := service.NewSlotService(bookingRepo, redisClient, log)
	app.SlotService = slotService

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, auditService, jwtService, redisClient)
	userUsecase := usecase.NewUserUsecase(log, transactor, userRepo, roleRepo, departmentRepo, auditService, authUsecase)
	departmentUsecase := usecase.NewDepartmentUsecase(log, transactor, departmentRepo, auditService, slotService)
	labTestUsecase := usecase.NewLabTestUsecase(log, transactor, labTestRepo, auditService)
	drugUsecase := usecase.NewDrugUsecase(log, transactor, drugRepo, auditService)
	patientUsecase := usecase.NewPatientUsecase(log, transactor, patientRepo, bookingRepo, consultationRepo, paymentRepo, auditService)
	bookingUsecase := usecase.NewBookingUsecase(log, transactor, bookingRepo, patientRepo, departmentRepo, paymentRepo, userRepo,
		slotService, auditService, notificationService)
	paymentUsecase := usecase.NewPaymentUsecase(log, transactor, paymentRepo, bookingRepo, prescriptionRepo, investigationRepo,
		auditService, notificationService)
	consultationUsecase := usecase.NewConsultationUsecase(log, transactor, consultationRepo, bookingRepo, userRepo, auditService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(log, transactor, prescriptionRepo, consultationRepo, drugRepo, paymentRepo,
		auditService, notificationService)
	investigationUsecase := usecase.NewInvestigationUsecase(log, transactor, investigationRepo, consultationRepo, labTestRepo, paymentRepo,
		auditService, notificationService)
	deleteRequestUsecase := usecase.NewDeleteRequestUsecase(log, transactor, deleteRequestRepo, auditService, notificationService,
		patientUsecase, bookingUsecase, drugUsecase, labTestUsecase, departmentUsecase)
	notificationUsecase := usecase.NewNotificationUsecase(log, notificationRepo)
	dashboardUsecase := usecase.NewDashboardUsecase(log, redisClient, userRepo, patientRepo, bookingRepo, paymentRepo, consultationRepo,
		prescriptionRepo, investigationRepo, drugRepo, deleteRequestRepo, notificationRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:          handler.NewAuthHandler(authUsecase, customValidator),
		User:          handler.NewUserHandler(userUsecase, customValidator),
		Department:    handler.NewDepartmentHandler(departmentUsecase, customValidator),
		LabTest:       handler.NewLabTestHandler(labTestUsecase, customValidator),
		Drug:          handler.NewDrugHandler(drugUsecase, customValidator),
		Patient:       handler.NewPatientHandler(patientUsecase, customValidator),
		Booking:       handler.NewBookingHandler(bookingUsecase, customValidator),
		Payment:       handler.NewPaymentHandler(paymentUsecase),
		Consultation:  handler.NewConsultationHandler(consultationUsecase, customValidator),
		Prescription:  handler.NewPrescriptionHandler(prescriptionUsecase, customValidator),
		Investigation: handler.NewInvestigationHandler(investigationUsecase, customValidator),
		DeleteRequest: handler.NewDeleteRequestHandler(deleteRequestUsecase, customValidator),
		Notification:  handler.NewNotificationHandler(notificationUsecase),
		Dashboard:     handler.NewDashboardHandler(dashboardUsecase),
		AuditLog:      handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins...)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, loggingMiddleware)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Counters are also rebuilt lazily per day, so a failed sync only costs latency
	syncCtx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	if err := app.SlotService.SyncOnStartup(syncCtx); err != nil {
		logrus.Warnf("Slot sync failed, counters will load on demand: %v", err)
	}
	cancel()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background workers and closes all connections
func (app *App) Close() {
	if app.SlotService != nil {
		app.SlotService.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
