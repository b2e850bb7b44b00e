package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/logger"
	"inventory/internal/query"
	"inventory/internal/schema"
	"inventory/internal/server"
	"inventory/internal/services"
	redisstore "inventory/internal/store/redis"
	"inventory/internal/validator"

	"gorm.io/gorm"

	_ "inventory/internal/docs" // Import swagger docs
)

// @title           Inventory API
// @version         1.0
// @description     Schema-driven inventory of hosts, VMs and users with search, bulk edits, CSV transfer and a change log.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Shared key of the power-control service.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()

	store, closeStore, err := preferenceStore(appConfig, db)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize services
	registry := schema.Default()
	builder := query.NewBuilder(db, appConfig.DefaultPageSize)
	auditService := services.NewAuditService(dbManager.AuditDB())
	preferenceService := services.NewPreferenceService(registry, store)
	operationService := services.NewOperationService(db)

	router := server.NewRouter(server.Services{
		Resources:   services.NewResourceService(db, registry, builder, auditService, preferenceService),
		Transfer:    services.NewTransferService(db, registry, builder, auditService, preferenceService),
		Preferences: preferenceService,
		Operations:  operationService,
		Dashboard:   services.NewDashboardService(db, operationService),
		Users:       services.NewUserService(db),
	}, server.Options{
		ServiceKey: appConfig.ServiceAPIKey,
		Swagger:    appConfig.Env != "production",
	})

	if appConfig.ServiceAPIKey == "" {
		log.Warn("SERVICE_API_KEY is not set; operation reporting is disabled")
	}
	log.Infof("Starting inventory server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// preferenceStore picks where saved views live. The returned func releases
// the store.
func preferenceStore(cfg *config.Config, db *gorm.DB) (services.PreferenceStore, func(), error) {
	if cfg.PreferenceStore != "redis" {
		return services.NewDBPreferenceStore(db), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := redisstore.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Get().Infow("view preferences stored in redis", "addr", cfg.RedisAddr)
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Get().Warnf("redis close error: %v", err)
		}
	}, nil
}
