package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/services"
	"github.com/SAP-F-2025/attainment-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// AttainmentHandler exposes the raw calculator and aggregator results.
type AttainmentHandler struct {
	BaseHandler
	attainment  services.AttainmentService
	aggregation services.AggregationService
	defaults    models.Thresholds
}

func NewAttainmentHandler(attainment services.AttainmentService, aggregation services.AggregationService, defaults models.Thresholds, logger utils.Logger) *AttainmentHandler {
	return &AttainmentHandler{
		BaseHandler: NewBaseHandler(logger),
		attainment:  attainment,
		aggregation: aggregation,
		defaults:    defaults,
	}
}

// GetCLOAttainment computes one CLO's attainment for a course offering.
// GET /api/v1/attainment/clo/:offering_id/:clo_id
func (h *AttainmentHandler) GetCLOAttainment(c *gin.Context) {
	offeringID, ok := ParseUintParam(c, "offering_id")
	if !ok {
		return
	}
	cloID, ok := ParseUintParam(c, "clo_id")
	if !ok {
		return
	}
	thresholds, err := ParseThresholds(c, h.defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid threshold override", Details: err.Error()})
		return
	}

	result, err := h.attainment.ComputeCLOAttainment(c.Request.Context(), offeringID, cloID, thresholds)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "CLO attainment computed", Data: result})
}

// GetOfferingAttainment computes attainment for every CLO of an offering.
// GET /api/v1/attainment/offering/:offering_id
func (h *AttainmentHandler) GetOfferingAttainment(c *gin.Context) {
	offeringID, ok := ParseUintParam(c, "offering_id")
	if !ok {
		return
	}
	thresholds, err := ParseThresholds(c, h.defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid threshold override", Details: err.Error()})
		return
	}

	results, err := h.attainment.ComputeOfferingAttainment(c.Request.Context(), offeringID, thresholds)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Offering attainment computed", Data: results})
}

// GetPLOAttainment computes attainment for every PLO of a program in a
// semester.
// GET /api/v1/attainment/plo/:program_id/:semester_id
func (h *AttainmentHandler) GetPLOAttainment(c *gin.Context) {
	programID, ok := ParseUintParam(c, "program_id")
	if !ok {
		return
	}
	semesterID, ok := ParseUintParam(c, "semester_id")
	if !ok {
		return
	}
	thresholds, err := ParseThresholds(c, h.defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid threshold override", Details: err.Error()})
		return
	}

	results, err := h.aggregation.ComputePLOAttainment(c.Request.Context(), programID, semesterID, thresholds)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "PLO attainment computed", Data: results})
}
