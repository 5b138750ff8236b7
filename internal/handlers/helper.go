package handlers

import (
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/gin-gonic/gin"
)

// ParseUintParam parses a numeric path parameter, writing a 400 response and
// returning ok=false on failure.
func ParseUintParam(c *gin.Context, param string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0, false
	}
	return uint(value), true
}

// ParseThresholds reads optional threshold overrides from query parameters,
// falling back to the configured defaults. Range validation happens in the
// service layer.
func ParseThresholds(c *gin.Context, defaults models.Thresholds) (models.Thresholds, error) {
	thresholds := defaults
	overrides := map[string]*float64{
		"student_threshold": &thresholds.Student,
		"course_threshold":  &thresholds.Course,
		"program_threshold": &thresholds.Program,
	}
	for name, target := range overrides {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return thresholds, err
		}
		*target = value
	}
	return thresholds, nil
}
