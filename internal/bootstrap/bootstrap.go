package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/projectdesk/internal/app/controllers"
	appMigrations "github.com/yigit/projectdesk/internal/app/migrations"
	appRepos "github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/app/repositories/memory"
	"github.com/yigit/projectdesk/internal/app/repositories/mongodb"
	"github.com/yigit/projectdesk/internal/app/repositories/postgres"
	appRoutes "github.com/yigit/projectdesk/internal/app/routes"
	appServices "github.com/yigit/projectdesk/internal/app/services"
	"github.com/yigit/projectdesk/internal/config"
	"github.com/yigit/projectdesk/internal/db"
	appMiddleware "github.com/yigit/projectdesk/internal/middleware"
	pkgAuth "github.com/yigit/projectdesk/internal/pkg/auth"
	"github.com/yigit/projectdesk/internal/pkg/email"
	"github.com/yigit/projectdesk/internal/pkg/filestorage"
	"github.com/yigit/projectdesk/internal/pkg/helpers"
	"github.com/yigit/projectdesk/internal/pkg/logger"
	"github.com/yigit/projectdesk/internal/pkg/websocket"
	"github.com/yigit/projectdesk/internal/seed"
)

// DefaultConfigPath is read relative to the working directory
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store       appRepos.Store
	FileStorage *filestorage.LocalStorage
	Hub         *websocket.Hub
	JWTService  *pkgAuth.JWTService
	Publisher   appServices.Publisher

	AuthService         *appServices.AuthService
	RegistrationService *appServices.RegistrationService
	ProjectService      appServices.ProjectService
	DocumentService     appServices.DocumentService
	FeedService         *appServices.FeedService
	NotificationService *appServices.NotificationService

	UserController     *appControllers.UserController
	ProjectController  *appControllers.ProjectController
	DocumentController *appControllers.DocumentController
	HealthController   *appControllers.HealthController
	WSHandler          *websocket.Handler
	AuthMiddleware     *appMiddleware.AuthMiddleware

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenStore connects the configured storage backend and prepares its schema.
// PostgreSQL runs pending migrations; MongoDB creates its unique indexes.
func OpenStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		lgr.Info().Msg("Establishing PostgreSQL connection...")
		pool, err := db.OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}

		lgr.Info().Str("dir", cfg.Database.MigrationsDir).Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(pool, lgr)
		if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
		return postgres.NewStore(pool), nil

	case config.DriverMongo:
		lgr.Info().Msg("Establishing MongoDB connection...")
		client, err := db.OpenMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}

		store := mongodb.NewStore(client, cfg.Database.MongoDatabase)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, fmt.Errorf("failed to create MongoDB indexes: %w", err)
		}
		return store, nil

	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// BuildDependencies initializes services, controllers and the notification fan-out.
// The hub is not started; the caller runs it for the lifetime of the server.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Hub = websocket.NewHub(logger.WithComponent("websocket"))
	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		Timeout:   helpers.ParseDuration(cfg.SMTP.Timeout, email.DefaultTimeout),
		BaseURL:   cfg.Server.BaseURL,
	}, logger.WithComponent("email"))

	deps.Publisher = appServices.MultiPublisher{
		appServices.NewPushPublisher(deps.Hub, store, lgr),
		appServices.NewMailPublisher(mailer, store.Users(), lgr),
	}

	deps.AuthService = appServices.NewAuthService(store, deps.JWTService, lgr)
	deps.RegistrationService = appServices.NewRegistrationService(store, deps.AuthService, deps.Publisher, lgr)
	deps.ProjectService = appServices.NewProjectService(store, deps.Publisher, lgr)
	deps.DocumentService = appServices.NewDocumentService(store, deps.FileStorage, deps.Publisher, cfg.Storage.MaxUploadBytes, lgr)
	deps.FeedService = appServices.NewFeedService(store, lgr)
	deps.NotificationService = appServices.NewNotificationService(store, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.WSHandler = websocket.NewHandler(deps.Hub, appMiddleware.IdentifyUser, cfg.Server.AllowedOrigins, logger.WithComponent("websocket"))

	deps.UserController = appControllers.NewUserController(deps.AuthService, deps.NotificationService, lgr)
	deps.ProjectController = appControllers.NewProjectController(deps.RegistrationService, deps.ProjectService, deps.FeedService, lgr)
	deps.DocumentController = appControllers.NewDocumentController(deps.DocumentService, cfg.Storage.MaxUploadBytes, lgr)
	deps.HealthController = appControllers.NewHealthController(store, lgr)

	return deps, nil
}

// SeedData creates the configured teachers. Failures are logged, not fatal.
func SeedData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	err := seed.CreateTeachers(ctx, deps.Store.Users(), deps.AuthService, cfg.Seed.Teachers, deps.Logger)
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create seed data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.SetupValidator()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	appRoutes.SetupSwagger(router, swaggerHost(cfg))
	appRoutes.SetupRouter(router,
		deps.UserController,
		deps.ProjectController,
		deps.DocumentController,
		deps.HealthController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

func swaggerHost(cfg *config.Config) string {
	if cfg.Server.BaseURL == "" {
		return "localhost:" + cfg.Server.Port
	}
	host := strings.TrimPrefix(cfg.Server.BaseURL, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}
