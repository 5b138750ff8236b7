package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/ratelimit"
	"github.com/SAP-F-2025/attainment-service/internal/services"
	"github.com/SAP-F-2025/attainment-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	attainmentHandler *AttainmentHandler
	reportHandler     *ReportHandler
	limiter           ratelimit.Limiter
	logger            utils.Logger
}

func NewHandlerManager(
	attainment services.AttainmentService,
	aggregation services.AggregationService,
	reports services.ReportService,
	defaults models.Thresholds,
	limiter ratelimit.Limiter,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		attainmentHandler: NewAttainmentHandler(attainment, aggregation, defaults, logger),
		reportHandler:     NewReportHandler(reports, defaults, logger),
		limiter:           limiter,
		logger:            logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Raw attainment computations
		attainment := v1.Group("/attainment")
		{
			attainment.GET("/clo/:offering_id/:clo_id", hm.attainmentHandler.GetCLOAttainment)
			attainment.GET("/offering/:offering_id", hm.attainmentHandler.GetOfferingAttainment)
			attainment.GET("/plo/:program_id/:semester_id", hm.attainmentHandler.GetPLOAttainment)
		}

		// Assembled reports are the expensive surface; rate limited.
		reports := v1.Group("/reports")
		reports.Use(hm.RateLimitMiddleware())
		{
			reports.GET("/attainment/:program_id/:semester_id", hm.reportHandler.GetAttainmentReport)
			reports.GET("/attainment/:program_id/:semester_id/export", hm.reportHandler.ExportAttainmentReport)
			reports.GET("/offering/:offering_id", hm.reportHandler.GetOfferingReport)
			reports.GET("/runs/:program_id", hm.reportHandler.ListReportRuns)
		}
	}
}

// RateLimitMiddleware gates report assembly per client IP. The limiter is an
// injected dependency; a limiter error fails open so reporting stays
// available when Redis is down.
func (hm *HandlerManager) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := hm.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			hm.logger.Warn("Rate limiter unavailable, failing open", "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Message: "Too many report requests",
				Code:    "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
