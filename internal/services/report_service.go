package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SAP-F-2025/attainment-service/internal/events"
	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ReportService packages calculator and aggregator output into report
// payloads that pair each outcome with its human-readable code and
// description, suitable for charting and export. Assembly is a pure
// transformation; the only write is an append-only report-run audit row.
type ReportService interface {
	AssembleAttainmentReport(ctx context.Context, programID, semesterID uint, thresholds models.Thresholds) (*AttainmentReport, error)
	AssembleOfferingReport(ctx context.Context, courseOfferingID uint, thresholds models.Thresholds) (*OfferingReport, error)

	ExportAttainmentReportCSV(report *AttainmentReport) ([]byte, error)
	ExportAttainmentReportExcel(report *AttainmentReport) ([]byte, error)

	ListReportRuns(ctx context.Context, programID uint, limit int) ([]*models.ReportRun, error)
}

type reportService struct {
	repo        repositories.Repository
	attainment  AttainmentService
	aggregation AggregationService
	publisher   events.EventPublisher
	logger      *slog.Logger
	ops         *ServiceLogger
}

func NewReportService(repo repositories.Repository, attainment AttainmentService, aggregation AggregationService, publisher events.EventPublisher, logger *slog.Logger) ReportService {
	return &reportService{
		repo:        repo,
		attainment:  attainment,
		aggregation: aggregation,
		publisher:   publisher,
		logger:      logger,
		ops:         NewServiceLogger(logger, LogConfig{Service: "attainment", Component: "report"}),
	}
}

// ===== REPORT STRUCTURES =====

type ContributionEntry struct {
	CLOID                uint    `json:"clo_id"`
	Code                 string  `json:"code"`
	Description          string  `json:"description"`
	AttainmentPercentage float64 `json:"attainment_percentage"`
	Weight               float64 `json:"weight"`
}

type PLOReportEntry struct {
	PLOID                uint                     `json:"plo_id"`
	Code                 string                   `json:"code"`
	Description          string                   `json:"description"`
	Status               models.MeasurementStatus `json:"status"`
	AttainmentPercentage float64                  `json:"attainment_percentage"`
	IsAttained           bool                     `json:"is_attained"`
	Contributions        []ContributionEntry      `json:"contributions,omitempty"`
	Fault                string                   `json:"fault,omitempty"`
}

type AttainmentReport struct {
	ProgramID   uint              `json:"program_id"`
	SemesterID  uint              `json:"semester_id"`
	Thresholds  models.Thresholds `json:"thresholds"`
	PLOs        []PLOReportEntry  `json:"plos"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type CLOReportEntry struct {
	CLOID                uint                     `json:"clo_id"`
	Code                 string                   `json:"code"`
	Description          string                   `json:"description"`
	Status               models.MeasurementStatus `json:"status"`
	StudentCount         int                      `json:"student_count"`
	AttainedCount        int                      `json:"attained_count"`
	AttainmentPercentage float64                  `json:"attainment_percentage"`
	IsAttained           bool                     `json:"is_attained"`
	Fault                string                   `json:"fault,omitempty"`
}

type OfferingReport struct {
	CourseOfferingID uint              `json:"course_offering_id"`
	CourseCode       string            `json:"course_code"`
	CourseTitle      string            `json:"course_title"`
	Thresholds       models.Thresholds `json:"thresholds"`
	CLOs             []CLOReportEntry  `json:"clos"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// ===== ASSEMBLY =====

func (s *reportService) AssembleAttainmentReport(ctx context.Context, programID, semesterID uint, thresholds models.Thresholds) (_ *AttainmentReport, retErr error) {
	start := time.Now()
	stop := s.ops.TimeOperation(ctx, "assemble_attainment_report", map[string]any{
		"program_id":  programID,
		"semester_id": semesterID,
	})
	defer func() { stop(retErr) }()

	results, err := s.aggregation.ComputePLOAttainment(ctx, programID, semesterID, thresholds)
	if err != nil {
		return nil, err
	}

	plos, err := s.repo.Outcomes().GetPLOsByProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to list PLOs: %w", err)
	}
	ploByID := make(map[uint]*models.PLO, len(plos))
	for _, plo := range plos {
		ploByID[plo.ID] = plo
	}

	cloByID, err := s.resolveContributingCLOs(ctx, results)
	if err != nil {
		return nil, err
	}

	report := &AttainmentReport{
		ProgramID:   programID,
		SemesterID:  semesterID,
		Thresholds:  thresholds,
		PLOs:        make([]PLOReportEntry, 0, len(results)),
		GeneratedAt: time.Now().UTC(),
	}

	measured, attained, faults := 0, 0, 0
	for _, result := range results {
		entry := PLOReportEntry{
			PLOID:                result.PLOID,
			Status:               result.Status,
			AttainmentPercentage: result.AttainmentPercentage,
			IsAttained:           result.IsAttained,
			Fault:                result.Fault,
		}
		if plo := ploByID[result.PLOID]; plo != nil {
			entry.Code = plo.Code
			entry.Description = plo.Description
		}
		for _, c := range result.Contributions {
			ce := ContributionEntry{
				CLOID:                c.CLOID,
				AttainmentPercentage: c.AttainmentPercentage,
				Weight:               c.Weight,
			}
			if clo := cloByID[c.CLOID]; clo != nil {
				ce.Code = clo.Code
				ce.Description = clo.Description
			}
			entry.Contributions = append(entry.Contributions, ce)
		}

		switch result.Status {
		case models.MeasurementMeasured:
			measured++
			if result.IsAttained {
				attained++
			}
		case models.MeasurementError:
			faults++
			s.publishIntegrityFault(ctx, programID, semesterID, result)
		}
		report.PLOs = append(report.PLOs, entry)
	}

	duration := time.Since(start)
	s.recordReportRun(ctx, report, duration)
	s.publishReportComputed(ctx, report, measured, attained, faults, duration)

	return report, nil
}

// AssembleOfferingReport degrades per CLO: one CLO's data-integrity fault
// becomes an explicit error entry instead of aborting the whole report.
func (s *reportService) AssembleOfferingReport(ctx context.Context, courseOfferingID uint, thresholds models.Thresholds) (_ *OfferingReport, retErr error) {
	stop := s.ops.TimeOperation(ctx, "assemble_offering_report", map[string]any{
		"course_offering_id": courseOfferingID,
	})
	defer func() { stop(retErr) }()

	offering, err := s.repo.Curriculum().GetCourseOffering(ctx, courseOfferingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course offering: %w", err)
	}

	clos, err := s.repo.Outcomes().GetCLOsByCourse(ctx, offering.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list CLOs: %w", err)
	}

	report := &OfferingReport{
		CourseOfferingID: courseOfferingID,
		CourseCode:       offering.Course.Code,
		CourseTitle:      offering.Course.Title,
		Thresholds:       thresholds,
		CLOs:             make([]CLOReportEntry, 0, len(clos)),
		GeneratedAt:      time.Now().UTC(),
	}

	for _, clo := range clos {
		entry := CLOReportEntry{
			CLOID:       clo.ID,
			Code:        clo.Code,
			Description: clo.Description,
		}
		result, err := s.attainment.ComputeCLOAttainment(ctx, courseOfferingID, clo.ID, thresholds)
		switch {
		case err == nil:
			entry.Status = result.Status
			entry.StudentCount = result.StudentCount
			entry.AttainedCount = result.AttainedCount
			entry.AttainmentPercentage = result.AttainmentPercentage
			entry.IsAttained = result.IsAttained
		case IsDataIntegrity(err):
			entry.Status = models.MeasurementError
			entry.Fault = err.Error()
		default:
			return nil, err
		}
		report.CLOs = append(report.CLOs, entry)
	}
	return report, nil
}

func (s *reportService) resolveContributingCLOs(ctx context.Context, results []*PLOAttainmentResult) (map[uint]*models.CLO, error) {
	var cloIDs []uint
	seen := make(map[uint]struct{})
	for _, result := range results {
		for _, c := range result.Contributions {
			if _, ok := seen[c.CLOID]; !ok {
				seen[c.CLOID] = struct{}{}
				cloIDs = append(cloIDs, c.CLOID)
			}
		}
	}
	if len(cloIDs) == 0 {
		return map[uint]*models.CLO{}, nil
	}

	clos, err := s.repo.Outcomes().GetCLOsByIDs(ctx, cloIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contributing CLOs: %w", err)
	}
	cloByID := make(map[uint]*models.CLO, len(clos))
	for _, clo := range clos {
		cloByID[clo.ID] = clo
	}
	return cloByID, nil
}

// ===== EXPORT =====

var attainmentCSVHeader = []string{
	"plo_code", "plo_status", "plo_attainment_pct", "plo_attained",
	"clo_code", "clo_attainment_pct", "weight", "fault",
}

func (s *reportService) ExportAttainmentReportCSV(report *AttainmentReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(attainmentCSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, plo := range report.PLOs {
		rows := ploCSVRows(plo)
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ploCSVRows renders one row per contribution, or a single row for
// not-measured and error outcomes so the three states stay distinct in the
// exported file.
func ploCSVRows(plo PLOReportEntry) [][]string {
	switch plo.Status {
	case models.MeasurementNotMeasured:
		return [][]string{{plo.Code, string(plo.Status), "", "", "", "", "", ""}}
	case models.MeasurementError:
		return [][]string{{plo.Code, string(plo.Status), "", "", "", "", "", plo.Fault}}
	}

	rows := make([][]string, 0, len(plo.Contributions))
	for _, c := range plo.Contributions {
		rows = append(rows, []string{
			plo.Code,
			string(plo.Status),
			formatPercent(plo.AttainmentPercentage),
			strconv.FormatBool(plo.IsAttained),
			c.Code,
			formatPercent(c.AttainmentPercentage),
			strconv.FormatFloat(c.Weight, 'f', -1, 64),
			"",
		})
	}
	return rows
}

func (s *reportService) ExportAttainmentReportExcel(report *AttainmentReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "PLO Attainment"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"PLO", "Description", "Status", "Attainment %", "Attained", "Contributing CLOs", "Fault"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, plo := range report.PLOs {
		row := rowIdx + 2
		values := []interface{}{plo.Code, plo.Description, string(plo.Status)}
		if plo.Status == models.MeasurementMeasured {
			values = append(values, plo.AttainmentPercentage, plo.IsAttained, contributionSummary(plo.Contributions), "")
		} else {
			values = append(values, nil, nil, "", plo.Fault)
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func contributionSummary(contributions []ContributionEntry) string {
	var buf bytes.Buffer
	for i, c := range contributions {
		if i > 0 {
			buf.WriteString("; ")
		}
		fmt.Fprintf(&buf, "%s %.2f%% (w=%.2f)", c.Code, c.AttainmentPercentage, c.Weight)
	}
	return buf.String()
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ===== AUDIT & EVENTS =====

func (s *reportService) ListReportRuns(ctx context.Context, programID uint, limit int) ([]*models.ReportRun, error) {
	return s.repo.ReportRuns().ListByProgram(ctx, programID, limit)
}

type reportRunSummaryEntry struct {
	PLOCode              string                   `json:"plo_code"`
	Status               models.MeasurementStatus `json:"status"`
	AttainmentPercentage float64                  `json:"attainment_percentage"`
	IsAttained           bool                     `json:"is_attained"`
}

func (s *reportService) recordReportRun(ctx context.Context, report *AttainmentReport, duration time.Duration) {
	thresholdsJSON, err := json.Marshal(report.Thresholds)
	if err != nil {
		s.logger.Error("Failed to marshal report run thresholds", "error", err)
		return
	}

	summary := make([]reportRunSummaryEntry, 0, len(report.PLOs))
	for _, plo := range report.PLOs {
		summary = append(summary, reportRunSummaryEntry{
			PLOCode:              plo.Code,
			Status:               plo.Status,
			AttainmentPercentage: plo.AttainmentPercentage,
			IsAttained:           plo.IsAttained,
		})
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		s.logger.Error("Failed to marshal report run summary", "error", err)
		return
	}

	run := &models.ReportRun{
		ProgramID:  report.ProgramID,
		SemesterID: report.SemesterID,
		Thresholds: thresholdsJSON,
		Summary:    summaryJSON,
		Duration:   duration.Milliseconds(),
	}
	// The audit row is best-effort: a failed write must not fail the report.
	if err := s.repo.ReportRuns().Create(ctx, run); err != nil {
		s.logger.Error("Failed to record report run", "error", err)
	}
}

func (s *reportService) publishReportComputed(ctx context.Context, report *AttainmentReport, measured, attained, faults int, duration time.Duration) {
	event := events.NewAttainmentEvent(events.EventReportComputed, events.ReportComputedEvent{
		ProgramID:     report.ProgramID,
		SemesterID:    report.SemesterID,
		Thresholds:    report.Thresholds,
		PLOCount:      len(report.PLOs),
		MeasuredCount: measured,
		AttainedCount: attained,
		ErrorCount:    faults,
		DurationMS:    duration.Milliseconds(),
		GeneratedAt:   report.GeneratedAt,
	})
	if err := s.publisher.PublishAttainmentEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish report computed event", "error", err)
	}
}

func (s *reportService) publishIntegrityFault(ctx context.Context, programID, semesterID uint, result *PLOAttainmentResult) {
	event := events.NewAttainmentEvent(events.EventIntegrityFault, events.IntegrityFaultEvent{
		ProgramID:  programID,
		SemesterID: semesterID,
		PLOID:      result.PLOID,
		Message:    result.Fault,
	})
	if err := s.publisher.PublishAttainmentEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish integrity fault event", "error", err)
	}
}
