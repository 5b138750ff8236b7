package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/repositories"
	"github.com/SAP-F-2025/attainment-service/internal/utils"
	"golang.org/x/sync/errgroup"
)

// maxParallelCLOComputations bounds the fan-out of per-CLO computations in a
// single report. Reports span tens of CLOs, not thousands.
const maxParallelCLOComputations = 8

// AggregationService rolls CLO attainment up into PLO attainment for a
// program and semester, weighted by the CLO→PLO mapping.
type AggregationService interface {
	ComputePLOAttainment(ctx context.Context, programID, semesterID uint, thresholds models.Thresholds) ([]*PLOAttainmentResult, error)
}

type aggregationService struct {
	repo       repositories.Repository
	attainment AttainmentService
	logger     *slog.Logger
	validator  *utils.Validator
}

func NewAggregationService(repo repositories.Repository, attainment AttainmentService, logger *slog.Logger, validator *utils.Validator) AggregationService {
	return &aggregationService{
		repo:       repo,
		attainment: attainment,
		logger:     logger,
		validator:  validator,
	}
}

// ===== RESULT STRUCTURES =====

// CLOContribution is one CLO's share of a PLO result. Only measured CLOs
// appear: a CLO with no data is excluded from numerator and weight sum alike.
type CLOContribution struct {
	CLOID                uint    `json:"clo_id"`
	AttainmentPercentage float64 `json:"attainment_percentage"`
	Weight               float64 `json:"weight"`
}

type PLOAttainmentResult struct {
	PLOID      uint                     `json:"plo_id"`
	ProgramID  uint                     `json:"program_id"`
	SemesterID uint                     `json:"semester_id"`
	Status     models.MeasurementStatus `json:"status"`

	// Populated only when Status is measured.
	AttainmentPercentage float64           `json:"attainment_percentage"`
	IsAttained           bool              `json:"is_attained"`
	Contributions        []CLOContribution `json:"contributions,omitempty"`

	// Fault carries the integrity/configuration message when Status is error.
	// An affected PLO appears as an explicit error entry, never silently as
	// a percentage and never dropped.
	Fault string `json:"fault,omitempty"`
}

func (r *PLOAttainmentResult) NotMeasured() bool {
	return r.Status == models.MeasurementNotMeasured
}

// cloSemesterResult is a CLO's attainment combined across every section of
// its course in the semester.
type cloSemesterResult struct {
	status     models.MeasurementStatus
	percentage float64
	fault      string
}

// ===== COMPUTATION =====

func (s *aggregationService) ComputePLOAttainment(ctx context.Context, programID, semesterID uint, thresholds models.Thresholds) ([]*PLOAttainmentResult, error) {
	if err := validateThresholds(s.validator, thresholds); err != nil {
		return nil, err
	}

	plos, err := s.repo.Outcomes().GetPLOsByProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to list PLOs: %w", err)
	}

	mappings, err := s.repo.Outcomes().ListCLOPLOMappings(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to list CLO-PLO mappings: %w", err)
	}
	mappingsByPLO := make(map[uint][]*models.CLOPLOMapping)
	for _, m := range mappings {
		mappingsByPLO[m.PLOID] = append(mappingsByPLO[m.PLOID], m)
	}

	cloResults, err := s.computeSemesterCLOResults(ctx, programID, semesterID, mappings, thresholds)
	if err != nil {
		return nil, err
	}

	results := make([]*PLOAttainmentResult, 0, len(plos))
	for _, plo := range plos {
		results = append(results, s.aggregatePLO(plo, programID, semesterID, mappingsByPLO[plo.ID], cloResults, thresholds))
	}
	return results, nil
}

// computeSemesterCLOResults runs the CLO calculator for every distinct CLO in
// the mapping set, once per CLO even when it feeds several PLOs. The fan-out
// runs in parallel with a bounded worker count; computations are independent.
func (s *aggregationService) computeSemesterCLOResults(ctx context.Context, programID, semesterID uint, mappings []*models.CLOPLOMapping, thresholds models.Thresholds) (map[uint]*cloSemesterResult, error) {
	cloIDs := make([]uint, 0, len(mappings))
	seen := make(map[uint]struct{}, len(mappings))
	for _, m := range mappings {
		if _, ok := seen[m.CLOID]; !ok {
			seen[m.CLOID] = struct{}{}
			cloIDs = append(cloIDs, m.CLOID)
		}
	}
	sort.Slice(cloIDs, func(i, j int) bool { return cloIDs[i] < cloIDs[j] })

	if len(cloIDs) == 0 {
		return map[uint]*cloSemesterResult{}, nil
	}

	clos, err := s.repo.Outcomes().GetCLOsByIDs(ctx, cloIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mapped CLOs: %w", err)
	}
	courseByCLO := make(map[uint]uint, len(clos))
	for _, clo := range clos {
		courseByCLO[clo.ID] = clo.CourseID
	}

	offerings, err := s.repo.Curriculum().GetCourseOfferingsForSemester(ctx, programID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list semester offerings: %w", err)
	}
	offeringsByCourse := make(map[uint][]uint)
	for _, offering := range offerings {
		offeringsByCourse[offering.CourseID] = append(offeringsByCourse[offering.CourseID], offering.ID)
	}

	resultSlots := make([]*cloSemesterResult, len(cloIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelCLOComputations)
	for i, cloID := range cloIDs {
		i, cloID := i, cloID
		g.Go(func() error {
			courseID, ok := courseByCLO[cloID]
			if !ok {
				resultSlots[i] = &cloSemesterResult{
					status: models.MeasurementError,
					fault:  fmt.Sprintf("mapping references CLO %d which does not exist", cloID),
				}
				return nil
			}
			resultSlots[i] = s.combineSections(gctx, cloID, offeringsByCourse[courseID], thresholds)
			if resultSlots[i] == nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make(map[uint]*cloSemesterResult, len(cloIDs))
	for i, cloID := range cloIDs {
		results[cloID] = resultSlots[i]
	}
	return results, nil
}

// combineSections averages a CLO's attainment across the sections of its
// course, weighted by each section's assessed-student count so a
// low-enrollment section cannot skew the result equally with a large one.
// Returns nil only on context cancellation.
func (s *aggregationService) combineSections(ctx context.Context, cloID uint, offeringIDs []uint, thresholds models.Thresholds) *cloSemesterResult {
	var weightedSum, countSum float64
	for _, offeringID := range offeringIDs {
		result, err := s.attainment.ComputeCLOAttainment(ctx, offeringID, cloID, thresholds)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// A bad section poisons the CLO for this semester: surface it
			// as an error state instead of a misleading number.
			s.logger.Warn("CLO computation failed during aggregation",
				"clo_id", cloID, "offering_id", offeringID, "error", err)
			return &cloSemesterResult{
				status: models.MeasurementError,
				fault:  err.Error(),
			}
		}
		if result.NotMeasured() {
			continue
		}
		weightedSum += result.AttainmentPercentage * float64(result.StudentCount)
		countSum += float64(result.StudentCount)
	}

	if countSum == 0 {
		return &cloSemesterResult{status: models.MeasurementNotMeasured}
	}
	return &cloSemesterResult{
		status:     models.MeasurementMeasured,
		percentage: weightedSum / countSum,
	}
}

// aggregatePLO folds the per-CLO semester results into one PLO result.
// Weights are never renormalized up front: the denominator is recomputed
// from whichever CLOs actually have data.
func (s *aggregationService) aggregatePLO(plo *models.PLO, programID, semesterID uint, mappings []*models.CLOPLOMapping, cloResults map[uint]*cloSemesterResult, thresholds models.Thresholds) *PLOAttainmentResult {
	result := &PLOAttainmentResult{
		PLOID:      plo.ID,
		ProgramID:  programID,
		SemesterID: semesterID,
	}

	// Curriculum misconfiguration, not a crash: a PLO nothing maps to has
	// no data by definition.
	if len(mappings) == 0 {
		result.Status = models.MeasurementNotMeasured
		return result
	}

	sorted := make([]*models.CLOPLOMapping, len(mappings))
	copy(sorted, mappings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CLOID < sorted[j].CLOID })

	var weightedSum, weightSum float64
	for _, m := range sorted {
		if m.Weight <= 0 {
			result.Status = models.MeasurementError
			result.Fault = fmt.Sprintf("mapping CLO %d → PLO %d has non-positive weight %.2f", m.CLOID, m.PLOID, m.Weight)
			result.Contributions = nil
			return result
		}

		cloResult := cloResults[m.CLOID]
		if cloResult == nil {
			continue
		}
		switch cloResult.status {
		case models.MeasurementError:
			result.Status = models.MeasurementError
			result.Fault = cloResult.fault
			result.Contributions = nil
			return result
		case models.MeasurementNotMeasured:
			continue
		}

		weightedSum += m.Weight * cloResult.percentage
		weightSum += m.Weight
		result.Contributions = append(result.Contributions, CLOContribution{
			CLOID:                m.CLOID,
			AttainmentPercentage: cloResult.percentage,
			Weight:               m.Weight,
		})
	}

	// Every contributing CLO is unmeasured: the PLO is unmeasured too,
	// never 0%.
	if weightSum == 0 {
		result.Status = models.MeasurementNotMeasured
		result.Contributions = nil
		return result
	}

	result.Status = models.MeasurementMeasured
	result.AttainmentPercentage = weightedSum / weightSum
	result.IsAttained = result.AttainmentPercentage >= thresholds.Program*100
	return result
}
