package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/AbdellahBM/orema-camp/api/swagger"
	"github.com/AbdellahBM/orema-camp/internal/handler"
	"github.com/AbdellahBM/orema-camp/internal/middleware"
	"github.com/AbdellahBM/orema-camp/pkg/config"
	"github.com/AbdellahBM/orema-camp/pkg/logger"
	corsmiddleware "github.com/AbdellahBM/orema-camp/pkg/middleware/cors"
	reqidmiddleware "github.com/AbdellahBM/orema-camp/pkg/middleware/requestid"
)

// Router builds the gin engine with every public, workflow and admin route.
func (a *App) Router() *gin.Engine {
	cfg := a.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(corsmiddleware.New(corsmiddleware.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "apikey", "x-client-info"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	}))
	r.Use(middleware.Metrics(a.Metrics))

	var cachePinger handler.Pinger
	if a.Redis != nil {
		cachePinger = a.Cache
	}
	metricsHandler := handler.NewMetricsHandler(a.Metrics, a.Registrations, cachePinger)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	scoringHandler := handler.NewScoringHandler(a.Scoring)
	notificationHandler := handler.NewNotificationHandler(a.Notifications)
	legacy := r.Group(cfg.LegacyAPIPrefix)
	legacy.POST("/score-participant", scoringHandler.Score)
	legacy.POST("/send-approval-whatsapp", notificationHandler.SendApproval)

	api := r.Group(cfg.APIPrefix)
	api.POST("/registrations", handler.NewRegistrationHandler(a.Registration).Create)
	api.GET("/photos/:key", handler.NewPhotoHandler(a.Photos, a.Signer).Serve)

	adminHandler := handler.NewAdminHandler(a.Registration, a.Export)
	audit := func(action string) gin.HandlerFunc { return middleware.Audit(a.Logger.Named("audit"), action) }
	admin := api.Group("/admin", middleware.AdminAuth(a.Auth))
	{
		admin.GET("/me", adminHandler.Me)
		admin.GET("/registrations", adminHandler.List)
		admin.GET("/registrations/stats", adminHandler.Stats)
		admin.GET("/registrations/export", adminHandler.Export)
		admin.GET("/registrations/:id", adminHandler.Get)
		admin.PUT("/registrations/:id", audit("update_registration"), adminHandler.Update)
		admin.PATCH("/registrations/:id/status", audit("update_status"), adminHandler.UpdateStatus)
		admin.POST("/registrations/:id/score", audit("rescore"), adminHandler.Score)
		admin.DELETE("/registrations/:id", audit("delete_registration"), adminHandler.Delete)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}
