// Package app wires configuration into the services shared by the API server and campctl.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/integration/alert"
	"github.com/AbdellahBM/orema-camp/internal/integration/gemini"
	"github.com/AbdellahBM/orema-camp/internal/integration/identity"
	"github.com/AbdellahBM/orema-camp/internal/integration/ultramsg"
	"github.com/AbdellahBM/orema-camp/internal/repository"
	"github.com/AbdellahBM/orema-camp/internal/service"
	"github.com/AbdellahBM/orema-camp/pkg/cache"
	"github.com/AbdellahBM/orema-camp/pkg/config"
	"github.com/AbdellahBM/orema-camp/pkg/database"
	"github.com/AbdellahBM/orema-camp/pkg/jobs"
	"github.com/AbdellahBM/orema-camp/pkg/storage"
)

// App holds the process-wide dependencies.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB    *sqlx.DB
	Redis *redis.Client

	Gemini *gemini.Client

	Registrations *repository.RegistrationRepository
	Cache         *repository.CacheRepository
	Photos        *storage.LocalStorage
	Signer        *storage.SignedURLSigner

	Metrics       *service.MetricsService
	Auth          *service.AdminAuthService
	Scoring       *service.ScoringService
	Notifications *service.NotificationService
	Registration  *service.RegistrationService
	Export        *service.ExportService
	ScoringQueue  *jobs.Queue
}

// Build connects to Postgres (and Redis when enabled) and constructs every service.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	rdb, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	a := &App{Config: cfg, Logger: logger, DB: db, Redis: rdb}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg, logger := a.Config, a.Logger
	validate := dto.NewValidator()

	a.Metrics = service.NewMetricsService()
	a.Registrations = repository.NewRegistrationRepository(a.DB, cfg.Database.SessionRole)
	a.Cache = repository.NewCacheRepository(a.Redis, logger.Named("cache"))
	cacheSvc := service.NewCacheService(a.Cache, a.Metrics, cfg.Cache.StatsTTL, logger.Named("cache"), a.Redis != nil)

	photos, err := storage.NewLocalStorage(cfg.Photos.StorageDir, cfg.Photos.MaxFileSizeBytes)
	if err != nil {
		return err
	}
	a.Photos = photos
	a.Signer = storage.NewSignedURLSigner(cfg.Photos.SignedURLSecret, cfg.Photos.SignedURLTTL)

	a.Auth = service.NewAdminAuthService(identityResolver(cfg.Identity), cfg.Identity.AdminEmails, cacheSvc, cfg.Identity.CacheTTL, logger.Named("auth"))

	if cfg.Scoring.APIKey != "" {
		var opts []gemini.Option
		if cfg.Scoring.BaseURL != "" {
			opts = append(opts, option.WithEndpoint(cfg.Scoring.BaseURL))
		}
		client, err := gemini.New(ctx, cfg.Scoring.APIKey, cfg.Scoring.Model, opts...)
		if err != nil {
			return err
		}
		a.Gemini = client
		a.Scoring = service.NewScoringService(client, validate, a.Metrics, cfg.Scoring.Timeout, logger.Named("scoring"))
		logger.Info("scoring enabled", zap.String("model", client.Model()))
	} else {
		logger.Warn("GEMINI_API_KEY not set, scoring disabled")
		a.Scoring = service.NewScoringService(nil, validate, a.Metrics, cfg.Scoring.Timeout, logger.Named("scoring"))
	}

	alerts, err := alert.New(cfg.Alerts.TelegramToken, cfg.Alerts.TelegramChatIDs, logger.Named("alert"))
	if err != nil {
		logger.Warn("telegram alerts disabled", zap.Error(err))
		alerts = alert.Nop{}
	}
	messenger := ultramsg.New(ultramsg.Config{
		BaseURL:    cfg.Messaging.BaseURL,
		InstanceID: cfg.Messaging.InstanceID,
		Token:      cfg.Messaging.Token,
		Timeout:    cfg.Messaging.Timeout,
	}, nil)
	guard := service.NewRedisGuard(a.Cache, cfg.Messaging.GuardTTL, logger.Named("guard"))
	a.Notifications = service.NewNotificationService(a.Registrations, a.Auth, messenger, guard, alerts, a.Metrics,
		cfg.Messaging.Message, logger.Named("notification"))

	a.Registration = service.NewRegistrationService(a.Registrations, a.Photos, a.Signer, a.Scoring, cacheSvc, validate,
		logger.Named("registration"), service.RegistrationServiceConfig{
			MaxPhotoSize: cfg.Photos.MaxFileSizeBytes,
			AllowedMIMEs: cfg.Photos.AllowedMIMEs,
			PhotoBaseURL: cfg.APIPrefix + "/photos",
			AutoScore:    cfg.Scoring.AutoScore,
		})
	a.Export = service.NewExportService(a.Registrations, logger.Named("export"))

	a.ScoringQueue = jobs.NewQueue("scoring", a.Registration.HandleScoringJob, jobs.QueueConfig{
		Workers:    cfg.Jobs.ScoringWorkers,
		BufferSize: cfg.Jobs.ScoringBuffer,
		JobTimeout: cfg.Scoring.Timeout + 5*time.Second,
		Logger:     logger.Named("jobs"),
		OnDone: func(job jobs.Job, err error) {
			a.Metrics.ObserveJob(job.Type, err)
		},
	})
	a.Registration.AttachScoringQueue(a.ScoringQueue)
	return nil
}

// identityResolver prefers local JWT verification and falls back to the auth server.
func identityResolver(cfg config.IdentityConfig) identity.Resolver {
	switch {
	case cfg.JWTSecret != "":
		return identity.NewJWTVerifier(cfg.JWTSecret, "authenticated")
	case cfg.URL != "":
		return identity.NewGoTrueClient(cfg.URL, cfg.AnonKey, cfg.Timeout, nil)
	}
	return nil
}

// Close releases the model client and the database and Redis connections.
func (a *App) Close() {
	if a.Gemini != nil {
		if err := a.Gemini.Close(); err != nil {
			a.Logger.Warn("close gemini client", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn("close database", zap.Error(err))
		}
	}
}
