package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	appControllers "github.com/TiebenDepaepe/Stepoutx/internal/app/controllers"
	appMigrations "github.com/TiebenDepaepe/Stepoutx/internal/app/migrations"
	appRepos "github.com/TiebenDepaepe/Stepoutx/internal/app/repositories"
	appRoutes "github.com/TiebenDepaepe/Stepoutx/internal/app/routes"
	appServices "github.com/TiebenDepaepe/Stepoutx/internal/app/services"
	"github.com/TiebenDepaepe/Stepoutx/internal/config"
	"github.com/TiebenDepaepe/Stepoutx/internal/db"
	appMiddleware "github.com/TiebenDepaepe/Stepoutx/internal/middleware"
	pkgAuth "github.com/TiebenDepaepe/Stepoutx/internal/pkg/auth"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/filestorage"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/logger"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/metrics"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/websocket"
	"github.com/TiebenDepaepe/Stepoutx/internal/seed"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	AuthService       *appServices.AuthService
	SubmissionService *appServices.SubmissionService
	AdminService      *appServices.AdminService
	Store             filestorage.ObjectStore
	LocalStore        *filestorage.LocalStorage // nil unless the local driver is used
	Redis             *redis.Client             // nil when no Redis is configured
	Hub               *websocket.Hub
	Handlers          appRoutes.Handlers
	Logger            zerolog.Logger
}

// Close releases connections opened by BuildDependencies
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads .env, the configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(dbPool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// SetupRedis connects to Redis when an address is configured. An unreachable
// Redis is not fatal: the caller falls back to in-process alternatives.
func SetupRedis(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured, using in-process rate limiting and no URL cache")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, continuing without it")
		_ = client.Close()
		return nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return client
}

// SetupStorage creates the object store selected by cfg.Storage.Driver
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (filestorage.ObjectStore, *filestorage.LocalStorage, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "s3":
		store, err := filestorage.NewS3Store(ctx, filestorage.S3Config{
			Region:          cfg.Storage.Region,
			Bucket:          cfg.Storage.Bucket,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		lgr.Info().Str("bucket", cfg.Storage.Bucket).Msg("Using S3 media storage")
		return store, nil, nil

	default:
		signer := pkgAuth.NewMediaSigner(cfg.SigningSecret(), cfg.JWT.Issuer+".media")
		local, err := filestorage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Server.PublicBaseURL, signer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		return local, local, nil
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	metrics.Init()

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.Store, deps.LocalStore, err = SetupStorage(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize media storage")
		return nil, err
	}

	deps.Redis = SetupRedis(ctx, cfg, lgr)

	var signer filestorage.URLSigner = deps.Store
	if deps.Redis != nil {
		signer = filestorage.NewCachedSigner(deps.Store, deps.Redis, logger.Component("url-cache"))
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Hub = websocket.NewHub(logger.Component("events"))

	deps.AuthService = appServices.NewAuthService(deps.Repos.AdminRepository, deps.JWTService, logger.Component("auth"))
	deps.SubmissionService = appServices.NewSubmissionService(
		deps.Repos.SubmissionRepository,
		filestorage.NewUploader(deps.Store, logger.Component("uploader")),
		deps.Hub,
		logger.Component("submissions"),
	)
	deps.AdminService = appServices.NewAdminService(
		deps.Repos.SubmissionRepository,
		signer,
		deps.Hub,
		cfg.SignedURLTTL(),
		logger.Component("admin"),
	)

	if err := seed.CreateDefaultData(ctx, deps.AuthService, seed.DefaultAdmin{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	var limiter appMiddleware.Limiter
	if deps.Redis != nil {
		limiter = appMiddleware.NewRedisLimiter(deps.Redis, cfg.RateLimit.SignupsPerWindow, cfg.RateLimitWindow(), logger.Component("ratelimit"))
	} else {
		limiter = appMiddleware.NewIPRateLimiter(cfg.RateLimit.SignupsPerWindow, cfg.RateLimitWindow())
	}

	deps.Handlers = appRoutes.Handlers{
		SubmissionController: appControllers.NewSubmissionController(deps.SubmissionService, cfg.Server.MaxUploadBytes, logger.Component("signup")),
		AdminController:      appControllers.NewAdminController(deps.AdminService, logger.Component("admin")),
		AuthController:       appControllers.NewAuthController(deps.AuthService, logger.Component("auth")),
		EventHandler:         websocket.NewHandler(deps.Hub, cfg.Server.AllowedOrigins, logger.Component("events")),
		AuthMiddleware:       appMiddleware.NewAuthMiddleware(deps.JWTService),
		SignupLimiter:        appMiddleware.RateLimit(limiter, "signup", logger.Component("ratelimit")),
	}
	if deps.LocalStore != nil {
		deps.Handlers.MediaController = appControllers.NewMediaController(deps.LocalStore, logger.Component("media"))
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
	)
	router.MaxMultipartMemory = 8 << 20

	appRoutes.SetupRouter(router, deps.Handlers)

	return router
}
