package main

import (
	"log"
	"time"

	"github.com/SAP-F-2025/attainment-service/internal/config"
	"github.com/SAP-F-2025/attainment-service/internal/handlers"
	"github.com/SAP-F-2025/attainment-service/internal/ratelimit"
	"github.com/SAP-F-2025/attainment-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/attainment-service/internal/services"
	"github.com/SAP-F-2025/attainment-service/internal/utils"
	"github.com/SAP-F-2025/attainment-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}

	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, report rate limiting disabled", "error", err)
	} else {
		limiter = ratelimit.NewRedisLimiter(redisClient,
			cfg.RateLimitRequests,
			time.Duration(cfg.RateLimitWindowS)*time.Second,
			logger.Slog())
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		log.Fatalf("failed to create event publisher: %v", err)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()

	attainment := services.NewAttainmentService(repo, logger.Slog(), validator)
	aggregation := services.NewAggregationService(repo, attainment, logger.Slog(), validator)
	reports := services.NewReportService(repo, attainment, aggregation, publisher, logger.Slog())

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	manager := handlers.NewHandlerManager(attainment, aggregation, reports, cfg.Thresholds, limiter, logger)
	manager.SetupRoutes(router)

	logger.Info("Starting attainment service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
