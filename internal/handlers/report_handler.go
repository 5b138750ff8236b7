package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/services"
	"github.com/SAP-F-2025/attainment-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves assembled attainment reports and their exports.
type ReportHandler struct {
	BaseHandler
	reports  services.ReportService
	defaults models.Thresholds
}

func NewReportHandler(reports services.ReportService, defaults models.Thresholds, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		reports:     reports,
		defaults:    defaults,
	}
}

// GetAttainmentReport assembles the full PLO attainment report.
// GET /api/v1/reports/attainment/:program_id/:semester_id
func (h *ReportHandler) GetAttainmentReport(c *gin.Context) {
	report, ok := h.assembleReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Attainment report assembled", Data: report})
}

// ExportAttainmentReport streams the report as CSV or Excel.
// GET /api/v1/reports/attainment/:program_id/:semester_id/export?format=csv|xlsx
func (h *ReportHandler) ExportAttainmentReport(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid format",
			Details: "format must be csv or xlsx",
		})
		return
	}

	report, ok := h.assembleReport(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("attainment_p%d_s%d.%s", report.ProgramID, report.SemesterID, format)
	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case "csv":
		data, err = h.reports.ExportAttainmentReportCSV(report)
		contentType = "text/csv"
	case "xlsx":
		data, err = h.reports.ExportAttainmentReportExcel(report)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// GetOfferingReport assembles the per-CLO report for one course offering.
// GET /api/v1/reports/offering/:offering_id
func (h *ReportHandler) GetOfferingReport(c *gin.Context) {
	offeringID, ok := ParseUintParam(c, "offering_id")
	if !ok {
		return
	}
	thresholds, err := ParseThresholds(c, h.defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid threshold override", Details: err.Error()})
		return
	}

	report, err := h.reports.AssembleOfferingReport(c.Request.Context(), offeringID, thresholds)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Offering report assembled", Data: report})
}

// ListReportRuns returns the report-run audit trail for a program.
// GET /api/v1/reports/runs/:program_id
func (h *ReportHandler) ListReportRuns(c *gin.Context) {
	programID, ok := ParseUintParam(c, "program_id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := h.reports.ListReportRuns(c.Request.Context(), programID, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Report runs listed", Data: runs})
}

func (h *ReportHandler) assembleReport(c *gin.Context) (*services.AttainmentReport, bool) {
	programID, ok := ParseUintParam(c, "program_id")
	if !ok {
		return nil, false
	}
	semesterID, ok := ParseUintParam(c, "semester_id")
	if !ok {
		return nil, false
	}
	thresholds, err := ParseThresholds(c, h.defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid threshold override", Details: err.Error()})
		return nil, false
	}

	report, err := h.reports.AssembleAttainmentReport(c.Request.Context(), programID, semesterID, thresholds)
	if err != nil {
		h.HandleServiceError(c, err)
		return nil, false
	}
	return report, true
}
