package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/attainment-service/internal/services"
	"github.com/SAP-F-2025/attainment-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error mapping for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// HandleServiceError maps the service error taxonomy onto HTTP statuses.
// Data-integrity faults get 422 with an explicit code so reporting UIs can
// show an error banner distinct from "not yet measured" and from a
// percentage.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	switch {
	case services.IsDataIntegrity(err):
		h.logger.Warn("Data integrity fault", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Data integrity fault",
			Details: err.Error(),
			Code:    "DATA_INTEGRITY",
		})
	case services.IsConfiguration(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid configuration",
			Details: err.Error(),
			Code:    "CONFIGURATION",
		})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
			Code:    "VALIDATION",
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
			Details: err.Error(),
			Code:    "NOT_FOUND",
		})
	default:
		h.logger.Error("Internal error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
			Code:    "INTERNAL",
		})
	}
}

// HealthCheck is a simple liveness endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "attainment-service"})
}
