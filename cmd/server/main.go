package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"campusperks/internal/codec"
	"campusperks/internal/config"
	"campusperks/internal/handlers"
	"campusperks/internal/middleware"
	"campusperks/internal/repositories/mongodb"
	"campusperks/internal/services"
	"campusperks/pkg/cache"
	"campusperks/pkg/database"
	"campusperks/pkg/logger"
	"campusperks/pkg/push"
	"campusperks/pkg/qrcode"
	"campusperks/pkg/storage"
	"campusperks/pkg/websocket"
	"campusperks/routes"

	"github.com/gin-gonic/gin"
)

const qrRenderSize = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	store, err := buildStorage(cfg.Storage)
	if err != nil {
		appLogger.Fatalf("Failed to initialize file storage: %v", err)
	}

	userRepo := mongodb.NewUserRepository(db.Database)
	roleRepo := mongodb.NewRoleRepository(db.Database)
	benefitRepo := mongodb.NewBenefitRepository(db.Database, redisCache)
	redemptionRepo := mongodb.NewRedemptionRepository(db.Database)
	announcementRepo := mongodb.NewAnnouncementRepository(db.Database)
	appointmentRepo := mongodb.NewAppointmentRepository(db.Database)

	payloadCodec := codec.New(cfg.Security.CodeSigningSecret)
	qrRenderer := qrcode.NewRenderer(qrRenderSize)
	notifier := buildNotifier(cfg.Push, appLogger)

	identityService := services.NewIdentityService(roleRepo, appLogger)
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, appLogger)
	benefitService := services.NewBenefitService(benefitRepo, store, appLogger)
	redemptionService := services.NewRedemptionService(db, benefitRepo, redemptionRepo, payloadCodec, qrRenderer, appLogger)
	validationService := services.NewValidationService(db, identityService, redemptionRepo, userRepo, payloadCodec, notifier, appLogger)
	statsService := services.NewStatsService(redemptionRepo, userRepo, redisCache, appLogger)
	announcementService := services.NewAnnouncementService(announcementRepo, userRepo, notifier, appLogger)
	appointmentService := services.NewAppointmentService(appointmentRepo, appLogger)

	wsHandler := websocket.NewHandler()
	feedService := services.NewFeedService(redemptionRepo, wsHandler, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := feedService.Run(ctx); err != nil {
			appLogger.Errorf("Redemption feed stopped: %v", err)
		}
	}()

	authHandler := handlers.NewAuthHandler(authService)
	benefitHandler := handlers.NewBenefitHandler(benefitService)
	redemptionHandler := handlers.NewRedemptionHandler(redemptionService, validationService)
	statsHandler := handlers.NewStatsHandler(statsService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	adminHandler := handlers.NewAdminHandler(roleRepo)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			appLogger.Fatalf("Invalid trusted proxies: %v", err)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	jwtSecret := cfg.Security.JWTSecret
	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler, jwtSecret)
		routes.SetupBenefitRoutes(v1, benefitHandler, identityService, jwtSecret)
		routes.SetupRedemptionRoutes(v1, redemptionHandler, identityService, jwtSecret)
		routes.SetupStatsRoutes(v1, statsHandler, identityService, jwtSecret)
		routes.SetupAnnouncementRoutes(v1, announcementHandler, identityService, jwtSecret)
		routes.SetupAppointmentRoutes(v1, appointmentHandler, identityService, jwtSecret)
		routes.SetupAdminRoutes(v1, adminHandler, benefitHandler, identityService, jwtSecret)
		routes.SetupFeedRoutes(v1, wsHandler, identityService, jwtSecret)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Starting server on port %d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}
}

func buildStorage(cfg *config.StorageConfig) (storage.StorageProvider, error) {
	switch cfg.Provider {
	case "aws":
		return storage.NewAWSS3Storage(cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
	case "gcp":
		return storage.NewGCPStorage(cfg.GCP.Bucket, cfg.GCP.CredentialsFile, cfg.GCP.CDNDomain)
	default:
		return storage.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	}
}

// buildNotifier wires whichever push providers are configured. Missing
// credentials disable that platform rather than failing startup.
func buildNotifier(cfg *config.PushConfig, log *logger.Logger) services.Notifier {
	var android, ios push.PushProvider

	if cfg.FCM.Credentials != "" {
		provider, err := push.NewFCMProvider(cfg.FCM.Credentials)
		if err != nil {
			log.Errorf("Failed to initialize FCM provider: %v", err)
		} else {
			android = provider
		}
	}

	if cfg.APNS.KeyFile != "" {
		provider, err := push.NewAPNSProvider(cfg.APNS.KeyFile, cfg.APNS.KeyID, cfg.APNS.TeamID, cfg.APNS.BundleID, cfg.APNS.Production)
		if err != nil {
			log.Errorf("Failed to initialize APNS provider: %v", err)
		} else {
			ios = provider
		}
	}

	if android == nil && ios == nil {
		return nil
	}
	return services.NewPushNotifier(android, ios, log)
}
