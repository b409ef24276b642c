package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/api/handlers"
	"github.com/nginxadmin/backend/internal/api/middleware"
	"github.com/nginxadmin/backend/internal/config"
	"github.com/nginxadmin/backend/internal/metrics"
	"github.com/nginxadmin/backend/internal/models"
	"github.com/nginxadmin/backend/internal/nginx"
	"github.com/nginxadmin/backend/internal/services"
)

// Register migrates the schema, wires up services and registers all API
// routes. The returned expiry service runs its background sweep until stopped.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) (*services.CertExpiryService, error) {
	if err := db.AutoMigrate(
		&models.Upstream{},
		&models.Domain{},
		&models.Certificate{},
		&models.CertificateDomainMapping{},
		&models.ListeningPort{},
		&models.HttpServer{},
		&models.ServerDomainMapping{},
		&models.Location{},
		&models.AccessRule{},
		&models.ConfigVersion{},
		&models.NginxSettings{},
		&models.User{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", handlers.HealthHandler)

	// Services
	runner := nginx.NewScriptRunner(cfg.CommandTimeout)
	settingsService := services.NewSettingsService(db, runner)
	sslFiles := nginx.NewSSLFileManager(settingsService)
	generator, err := nginx.NewGenerator(db, settingsService)
	if err != nil {
		return nil, fmt.Errorf("create config generator: %w", err)
	}
	versionStore := nginx.NewVersionStore(db)
	authService := services.NewAuthService(db, cfg)
	notificationService := services.NewNotificationService(db)
	certExpiryService := services.NewCertExpiryService(db, notificationService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	upstreamHandler := handlers.NewUpstreamHandler(db)
	domainHandler := handlers.NewDomainHandler(db)
	certificateHandler := handlers.NewCertificateHandler(db, sslFiles)
	portHandler := handlers.NewListeningPortHandler(db)
	serverHandler := handlers.NewHttpServerHandler(db)
	locationHandler := handlers.NewLocationHandler(db)
	accessRuleHandler := handlers.NewAccessRuleHandler(db)
	configHandler := handlers.NewNginxConfigHandler(generator, versionStore, settingsService)
	settingsHandler := handlers.NewNginxSettingsHandler(settingsService, sslFiles, notificationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	api := router.Group("/api/v1")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		protected.GET("/upstreams", upstreamHandler.List)
		protected.GET("/upstreams/:id", upstreamHandler.Get)
		protected.POST("/upstreams", upstreamHandler.Create)
		protected.PUT("/upstreams/:id", upstreamHandler.Update)
		protected.DELETE("/upstreams/:id", upstreamHandler.Delete)

		protected.GET("/domains", domainHandler.List)
		protected.GET("/domains/:id", domainHandler.Get)
		protected.POST("/domains", domainHandler.Create)
		protected.PUT("/domains/:id", domainHandler.Update)
		protected.DELETE("/domains/:id", domainHandler.Delete)

		protected.GET("/certificates", certificateHandler.List)
		protected.GET("/certificates/:id", certificateHandler.Get)
		protected.POST("/certificates", certificateHandler.Create)
		protected.PUT("/certificates/:id", certificateHandler.Update)
		protected.DELETE("/certificates/:id", certificateHandler.Delete)

		protected.GET("/listening-ports", portHandler.List)
		protected.GET("/listening-ports/:id", portHandler.Get)
		protected.POST("/listening-ports", portHandler.Create)
		protected.PUT("/listening-ports/:id", portHandler.Update)
		protected.DELETE("/listening-ports/:id", portHandler.Delete)

		protected.GET("/servers", serverHandler.List)
		protected.GET("/servers/:id", serverHandler.Get)
		protected.POST("/servers", serverHandler.Create)
		protected.PUT("/servers/:id", serverHandler.Update)
		protected.DELETE("/servers/:id", serverHandler.Delete)

		protected.GET("/locations", locationHandler.List)
		protected.GET("/locations/:id", locationHandler.Get)
		protected.POST("/locations", locationHandler.Create)
		protected.PUT("/locations/:id", locationHandler.Update)
		protected.DELETE("/locations/:id", locationHandler.Delete)

		protected.GET("/access-rules", accessRuleHandler.List)
		protected.POST("/access-rules", accessRuleHandler.Create)
		protected.PUT("/access-rules/:id", accessRuleHandler.Update)
		protected.DELETE("/access-rules/:id", accessRuleHandler.Delete)

		protected.GET("/nginx/config", configHandler.GetConfig)
		protected.GET("/nginx/config/download", configHandler.Download)
		protected.GET("/nginx/config/server/:id", configHandler.GetServerConfig)
		protected.GET("/nginx/config/validate", configHandler.Validate)
		protected.POST("/nginx/config/validate", configHandler.Validate)
		protected.POST("/nginx/config/deploy", configHandler.Deploy)
		protected.POST("/nginx/config/versions", configHandler.SaveVersion)
		protected.GET("/nginx/config/versions", configHandler.ListVersions)
		protected.GET("/nginx/config/versions/active", configHandler.GetActiveVersion)
		protected.PUT("/nginx/config/versions/:id", configHandler.RenameVersion)

		protected.GET("/nginx/settings", settingsHandler.Get)
		protected.POST("/nginx/settings", settingsHandler.Save)
		protected.POST("/nginx/test", settingsHandler.Test)
		protected.POST("/nginx/reload", settingsHandler.Reload)
		protected.POST("/nginx/ssl", settingsHandler.SaveSSLFiles)
		protected.DELETE("/nginx/ssl/:name", settingsHandler.DeleteSSLFiles)

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notification-providers", notificationHandler.ListProviders)
		protected.POST("/notification-providers", notificationHandler.CreateProvider)
		protected.PUT("/notification-providers/:id", notificationHandler.UpdateProvider)
		protected.DELETE("/notification-providers/:id", notificationHandler.DeleteProvider)
	}

	if err := certExpiryService.Start(); err != nil {
		return nil, err
	}

	return certExpiryService, nil
}
