package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/dawan/studentprojects/internal/app/controllers"
	appRepos "github.com/dawan/studentprojects/internal/app/repositories"
	appRoutes "github.com/dawan/studentprojects/internal/app/routes"
	appServices "github.com/dawan/studentprojects/internal/app/services"
	"github.com/dawan/studentprojects/internal/config"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/dawan/studentprojects/internal/db/memdb"
	appMiddleware "github.com/dawan/studentprojects/internal/middleware"
	pkgAuth "github.com/dawan/studentprojects/internal/pkg/auth"
	"github.com/dawan/studentprojects/internal/pkg/helpers"
	"github.com/dawan/studentprojects/internal/pkg/logger"
	"github.com/dawan/studentprojects/internal/pkg/validation"
	"github.com/dawan/studentprojects/internal/seed"
)

// healthTimeout bounds how long the health endpoint waits for a session
const healthTimeout = 3 * time.Second

// Dependencies holds all the application dependencies
type Dependencies struct {
	Sessions       *db.SessionProvider
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthService    *appServices.AuthService
	ProjectService appServices.ProjectService // Interface type
	StudentService appServices.StudentService // Interface type
	HealthService  *appServices.HealthService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
		File: logger.FileConfig{
			Path:       cfg.Logging.FilePath,
			MaxSizeMB:  cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAge,
			Compress:   cfg.Logging.Compress,
		},
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")

	if cfg.IsDefaultSecret() {
		lgr.Warn().Msg("JWT secret is the built-in default; set SECRET_KEY before exposing this service")
	}
	return cfg, lgr, nil
}

// NewConnector returns the store connector selected by database.driver
func NewConnector(cfg *config.Config) (db.Connector, error) {
	switch cfg.Database.Driver {
	case "memory":
		return memdb.New(), nil
	case "cassandra":
		return db.NewCassandraConnector(db.CassandraConfig{
			Hosts:             cfg.Database.Hosts,
			Port:              cfg.Database.Port,
			Keyspace:          cfg.Database.Keyspace,
			Username:          cfg.Database.Username,
			Password:          cfg.Database.Password,
			Consistency:       cfg.Database.Consistency,
			ReplicationFactor: cfg.Database.ReplicationFactor,
			ConnectTimeout:    helpers.ParseDuration(cfg.Database.ConnectTimeout, 5*time.Second),
			Timeout:           helpers.ParseDuration(cfg.Database.Timeout, 10*time.Second),
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// SetupDatabase builds the session provider and opens the first session,
// which also runs the schema bootstrap.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.SessionProvider, error) {
	connector, err := NewConnector(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to configure database connector")
		return nil, err
	}

	sessions := db.NewSessionProvider(connector,
		db.WithMaxAttempts(cfg.Database.MaxAttempts),
		db.WithRetryDelay(helpers.ParseDuration(cfg.Database.RetryDelay, db.DefaultRetryDelay)),
	)

	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	if _, err := sessions.GetSession(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		sessions.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	return sessions, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, sessions *db.SessionProvider, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Sessions: sessions, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(sessions)

	jwtService, err := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		Algorithm:      cfg.JWT.Algorithm,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	deps.JWTService = jwtService

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, logger.WithComponent("auth"))
	deps.ProjectService = appServices.NewProjectService(deps.Repos.ProjectRepository)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository)
	deps.HealthService = appServices.NewHealthService(sessions, healthTimeout)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	deps.Controllers = appRoutes.Controllers{
		Auth:    appControllers.NewAuthController(deps.AuthService, lgr),
		Project: appControllers.NewProjectController(deps.ProjectService, deps.StudentService, lgr),
		Student: appControllers.NewStudentController(deps.StudentService, lgr),
		Health:  appControllers.NewHealthController(deps.HealthService),
	}

	return deps, nil
}

// SeedDefaultData creates the configured default user, if any.
func SeedDefaultData(ctx context.Context, cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) {
	if err := seed.CreateDefaultUser(ctx, deps.AuthService, seed.User{
		Username: cfg.Seed.Username,
		Email:    cfg.Seed.Email,
		Password: cfg.Seed.Password,
	}, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterCustomValidations(); err != nil {
		return nil, fmt.Errorf("failed to register validations: %w", err)
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestLogger(logger.WithComponent("http")),
		appMiddleware.Recovery(lgr),
		appMiddleware.SecurityHeaders(),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router, nil
}
