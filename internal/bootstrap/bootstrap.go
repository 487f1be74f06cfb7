package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/kerem/doctrack/internal/app/auth"
	appControllers "github.com/kerem/doctrack/internal/app/controllers"
	appMigrations "github.com/kerem/doctrack/internal/app/migrations"
	appRepos "github.com/kerem/doctrack/internal/app/repositories"
	appRoutes "github.com/kerem/doctrack/internal/app/routes"
	appServices "github.com/kerem/doctrack/internal/app/services"
	"github.com/kerem/doctrack/internal/config"
	"github.com/kerem/doctrack/internal/db"
	"github.com/kerem/doctrack/internal/jobs"
	appMiddleware "github.com/kerem/doctrack/internal/middleware"
	pkgAuth "github.com/kerem/doctrack/internal/pkg/auth"
	"github.com/kerem/doctrack/internal/pkg/events"
	"github.com/kerem/doctrack/internal/pkg/helpers"
	"github.com/kerem/doctrack/internal/pkg/logger"
	"github.com/kerem/doctrack/internal/scheduler"
	"github.com/kerem/doctrack/internal/seed"
)

// Dependencies holds all the application dependencies.
type Dependencies struct {
	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService
	Publisher    events.Publisher

	AuthService         appServices.AuthService
	RequestService      appServices.RequestService
	TransitionService   appServices.TransitionService
	AssignmentService   appServices.AssignmentService
	NotificationService appServices.NotificationService
	AnalyticsService    appServices.AnalyticsService
	DocumentService     appServices.DocumentService
	AdminService        appServices.AdminService

	AuthController         *appControllers.AuthController
	RequestController      *appControllers.RequestController
	NotificationController *appControllers.NotificationController
	AnalyticsController    *appControllers.AnalyticsController
	AdminController        *appControllers.AdminController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Scheduler      *scheduler.Scheduler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, lgr); err != nil {
		// Leave the instance running without an admin rather than crash
		// looping; the operator can fix the seed config and restart.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and
// the background scheduler.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.AuthzService = appAuth.NewAuthorizationService()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	if brokers := cfg.EventBrokers(); len(brokers) > 0 {
		deps.Publisher = events.NewKafkaPublisher(brokers, cfg.Events.Topic)
		lgr.Info().Strs("brokers", brokers).Str("topic", cfg.Events.Topic).Msg("Event publishing enabled")
	} else {
		lgr.Info().Msg("Event publishing disabled, no brokers configured")
	}

	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.Notification,
		deps.Repos.User,
		deps.Publisher,
		lgr,
	)
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.User,
		deps.Repos.Token,
		deps.JWTService,
		lgr,
	)
	deps.RequestService = appServices.NewRequestService(
		deps.Repos.Request,
		deps.NotificationService,
		deps.AuthzService,
		cfg.Requests.LogContentEdits,
		lgr,
	)
	deps.TransitionService = appServices.NewTransitionService(
		deps.Repos.Request,
		deps.NotificationService,
		deps.AuthzService,
		lgr,
	)
	deps.AssignmentService = appServices.NewAssignmentService(
		deps.Repos.Request,
		deps.Repos.User,
		deps.NotificationService,
		deps.AuthzService,
		lgr,
	)
	deps.AnalyticsService = appServices.NewAnalyticsService(
		deps.Repos.Request,
		deps.Repos.User,
		deps.AuthzService,
		lgr,
	)
	deps.DocumentService = appServices.NewDocumentService(
		deps.Repos.Document,
		deps.Repos.Request,
		deps.NotificationService,
		deps.AuthzService,
		lgr,
	)
	deps.AdminService = appServices.NewAdminService(
		deps.Repos.Admin,
		deps.Repos.User,
		deps.Repos.Token,
		deps.AuthzService,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.RequestController = appControllers.NewRequestController(
		deps.RequestService,
		deps.TransitionService,
		deps.AssignmentService,
		deps.DocumentService,
	)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService)
	deps.AnalyticsController = appControllers.NewAnalyticsController(deps.AnalyticsService)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService, deps.AssignmentService)

	if cfg.Scheduler.Enabled {
		jobRunner := jobs.NewJobRunner(
			deps.Repos.Request,
			deps.Repos.Notification,
			deps.Repos.User,
			lgr,
		)
		deps.Scheduler = scheduler.NewScheduler(jobRunner, cfg)
	} else {
		lgr.Info().Msg("Scheduler disabled by configuration")
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.RequestController,
		deps.NotificationController,
		deps.AnalyticsController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	return router
}
