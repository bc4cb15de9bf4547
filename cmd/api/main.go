package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	accountUseCase "github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/account"
	adminUseCase "github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/admin"
	contactUseCase "github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/contact"
	notificationUseCase "github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/notification"
	payoutUseCase "github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/payout"
	sessionUseCase "github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/session"
	settingsUseCase "github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/settings"
	taskUseCase "github.com/amirhossein-jamali/daily-earn/internal/domain/usecase/task"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/mail"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/security"
	timeProvider "github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/config"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("daily-earn: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate configuration: %w", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.NewZapLogger(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		CallerInfo: cfg.Logger.CallerInfo,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = appLogger.Flush() }()

	if err := middleware.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database and bring the schema up to date
	dbManager := database.NewManager(database.CreateConfigFromViperConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = dbManager.Close() }()

	if err := dbManager.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	uow := dbManager.CreateUnitOfWork()

	// Security
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens, err := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL, tp)
	if err != nil {
		return fmt.Errorf("create token issuer: %w", err)
	}

	revoked, closeRevoked, err := newRevocationStore(ctx, cfg, dbManager.RevokedTokenRepository(), tp, appLogger)
	if err != nil {
		return err
	}
	defer closeRevoked()

	// Use cases
	notifications := notificationUseCase.NewNotificationUseCase(newMailer(cfg, appLogger), appLogger)
	settings := settingsUseCase.NewSettingsUseCase(uow, tp, appLogger)
	sessions := sessionUseCase.NewSessionUseCase(uow, tokens, revoked, tp, appLogger)
	accounts := accountUseCase.NewAccountUseCase(uow, settings, notifications, hasher, tokens, cfg.Mail.VerifyURL, tp, appLogger)
	tasks := taskUseCase.NewTaskUseCase(uow, settings, tp, appLogger)
	payouts := payoutUseCase.NewPayoutUseCase(uow, settings, notifications, tp, appLogger)
	contacts := contactUseCase.NewContactUseCase(uow, notifications, tp, appLogger)
	admins := adminUseCase.NewAdminUseCase(uow, hasher, tokens, tp, appLogger)

	if cfg.Auth.AdminUsername != "" {
		if err := migration.CreateDefaultAdmin(ctx, admins, cfg.Auth.AdminUsername, cfg.Auth.AdminPasswordHash); err != nil {
			appLogger.Error("Failed to create default admin", map[string]any{
				"error": err.Error(),
			})
		}
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, tp, appLogger)

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, cfg.Server.AllowedOrigins)
	routes.SetupRoutes(router, routes.Handlers{
		User:     handler.NewUserHandler(accounts, sessions, appLogger),
		Task:     handler.NewTaskHandler(tasks, appLogger),
		Payout:   handler.NewPayoutHandler(payouts, appLogger),
		Setting:  handler.NewSettingHandler(settings, appLogger),
		Contact:  handler.NewContactHandler(contacts, appLogger),
		Admin:    handler.NewAdminHandler(admins, notifications, appLogger),
		Health:   handler.NewHealthHandler(dbManager),
		Sessions: sessions,
		Limiter:  limiter,
	})

	if cfg.Housekeeping.Enabled {
		housekeeper := scheduler.NewHousekeeper(revoked, tp, appLogger, limiter)
		if err := housekeeper.Start(cfg.Housekeeping.Schedule); err != nil {
			return fmt.Errorf("start housekeeping: %w", err)
		}
		defer housekeeper.Stop()
	}

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Shutting down server...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Server forced to shutdown", map[string]any{
				"error": err.Error(),
			})
			return err
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	appLogger.Info("Server exited gracefully", nil)
	return nil
}

// newRevocationStore picks Redis when enabled, with the database store as its fallback
func newRevocationStore(
	ctx context.Context,
	cfg *config.Config,
	dbStore persistence.RevokedTokenRepository,
	tp coreport.TimeProvider,
	appLogger coreport.Logger,
) (persistence.RevokedTokenRepository, func(), error) {
	if !cfg.Redis.Enabled {
		return dbStore, func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	appLogger.Info("Using Redis for session revocation", map[string]any{
		"addr": cfg.Redis.Addr,
	})
	return cache.NewRedisRevocationStore(client, dbStore, tp, appLogger), func() { _ = client.Close() }, nil
}

func newMailer(cfg *config.Config, appLogger coreport.Logger) notification.Mailer {
	if cfg.Mail.Provider == "sendgrid" {
		return mail.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.FromAddress, cfg.Mail.FromName, cfg.Mail.Timeout, appLogger)
	}
	return mail.NewLogMailer(appLogger)
}
