package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/api/handlers"
	"github.com/naebak/admin-service/internal/api/middleware"
	"github.com/naebak/admin-service/internal/config"
	"github.com/naebak/admin-service/internal/database"
	"github.com/naebak/admin-service/internal/metrics"
	"github.com/naebak/admin-service/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	policy, err := services.NewLockoutPolicy(cfg.LockoutThreshold, cfg.LockoutDuration)
	if err != nil {
		return fmt.Errorf("lockout policy: %w", err)
	}

	accountService := services.NewAccountService(db, policy)
	notificationService := services.NewNotificationService(cfg.NotifyURL)
	authService := services.NewAuthService(accountService, notificationService, cfg)
	activityService := services.NewActivityService(db)
	backupService := services.NewBackupService(cfg.DatabasePath, cfg.BackupDir, cfg.BackupRetention)

	router.GET("/api/v1/health", handlers.HealthHandler)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService, activityService)
	settingHandler := handlers.NewSettingHandler(db, activityService)

	api.POST("/auth/login", authHandler.Login)
	settingHandler.RegisterPublicRoutes(api)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authService, accountService))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)
		protected.POST("/auth/2fa/enable", authHandler.EnableTwoFactor)
		protected.POST("/auth/2fa/disable", authHandler.DisableTwoFactor)

		handlers.NewAccountHandler(db, accountService, activityService, notificationService).RegisterRoutes(protected)
		handlers.NewRoleHandler(db, activityService).RegisterRoutes(protected)
		handlers.NewGovernorateHandler(db, activityService).RegisterRoutes(protected)
		handlers.NewPartyHandler(db, activityService).RegisterRoutes(protected)
		handlers.NewComplaintTypeHandler(db, activityService).RegisterRoutes(protected)
		settingHandler.RegisterRoutes(protected)
		handlers.NewActivityHandler(activityService).RegisterRoutes(protected)
		handlers.NewStatsHandler(db).RegisterRoutes(protected)
		handlers.NewSystemHandler(backupService, activityService).RegisterRoutes(protected)
	}

	return nil
}
