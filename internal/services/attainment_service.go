package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/repositories"
	"github.com/SAP-F-2025/attainment-service/internal/utils"
	"gorm.io/gorm"
)

// AttainmentService computes CLO attainment for a course offering from
// recorded marks. Pure read-side computation: it never writes, so it is safe
// to call concurrently and repeatedly with identical results.
type AttainmentService interface {
	// ComputeCLOAttainment computes one CLO's attainment for the enrolled
	// population of a course offering.
	ComputeCLOAttainment(ctx context.Context, courseOfferingID, cloID uint, thresholds models.Thresholds) (*CLOAttainmentResult, error)

	// ComputeOfferingAttainment computes attainment for every CLO of the
	// offering's course.
	ComputeOfferingAttainment(ctx context.Context, courseOfferingID uint, thresholds models.Thresholds) ([]*CLOAttainmentResult, error)
}

type attainmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewAttainmentService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) AttainmentService {
	return &attainmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== RESULT STRUCTURES =====

// StudentAttainment is the per-student breakdown behind a CLO result.
// Students with no recorded mark on any item of the CLO carry
// HasMarks=false and are excluded from the aggregate denominator.
type StudentAttainment struct {
	StudentID     uint    `json:"student_id"`
	ObtainedTotal float64 `json:"obtained_total"`
	MaxTotal      float64 `json:"max_total"`
	Ratio         float64 `json:"ratio"`
	Attained      bool    `json:"attained"`
	HasMarks      bool    `json:"has_marks"`
}

type CLOAttainmentResult struct {
	CLOID            uint                     `json:"clo_id"`
	CourseOfferingID uint                     `json:"course_offering_id"`
	Status           models.MeasurementStatus `json:"status"`

	// Populated only when Status is measured.
	StudentCount         int                 `json:"student_count"`
	AttainedCount        int                 `json:"attained_count"`
	AttainmentPercentage float64             `json:"attainment_percentage"`
	IsAttained           bool                `json:"is_attained"`
	Students             []StudentAttainment `json:"students,omitempty"`
}

// NotMeasured reports whether the CLO had no measurable data. Distinct from
// a computed 0%.
func (r *CLOAttainmentResult) NotMeasured() bool {
	return r.Status == models.MeasurementNotMeasured
}

// ===== COMPUTATION =====

func (s *attainmentService) ComputeCLOAttainment(ctx context.Context, courseOfferingID, cloID uint, thresholds models.Thresholds) (*CLOAttainmentResult, error) {
	if err := validateThresholds(s.validator, thresholds); err != nil {
		return nil, err
	}

	offering, err := s.repo.Curriculum().GetCourseOffering(ctx, courseOfferingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: offering %d", ErrOfferingNotFound, courseOfferingID)
		}
		return nil, fmt.Errorf("failed to get course offering: %w", err)
	}

	clo, err := s.repo.Outcomes().GetCLO(ctx, cloID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: CLO %d", ErrCLONotFound, cloID)
		}
		return nil, fmt.Errorf("failed to get CLO: %w", err)
	}

	if clo.CourseID != offering.CourseID {
		return nil, NewDataIntegrityError("clo_course_mismatch",
			fmt.Sprintf("CLO %d belongs to course %d, not course %d of the requested offering", cloID, clo.CourseID, offering.CourseID),
			map[string]interface{}{"clo_id": cloID, "offering_id": courseOfferingID})
	}

	items, err := s.repo.Scores().ListAssessmentItems(ctx, courseOfferingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment items: %w", err)
	}

	if err := s.checkItemIntegrity(ctx, offering, items); err != nil {
		return nil, err
	}

	itemSet := make([]*models.AssessmentItem, 0, len(items))
	for _, item := range items {
		if item.CLOID == cloID {
			itemSet = append(itemSet, item)
		}
	}

	// No items measure this CLO in this offering: "no data", not 0%.
	if len(itemSet) == 0 {
		return &CLOAttainmentResult{
			CLOID:            cloID,
			CourseOfferingID: courseOfferingID,
			Status:           models.MeasurementNotMeasured,
		}, nil
	}

	return s.computeFromItemSet(ctx, courseOfferingID, cloID, itemSet, thresholds)
}

func (s *attainmentService) ComputeOfferingAttainment(ctx context.Context, courseOfferingID uint, thresholds models.Thresholds) ([]*CLOAttainmentResult, error) {
	offering, err := s.repo.Curriculum().GetCourseOffering(ctx, courseOfferingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: offering %d", ErrOfferingNotFound, courseOfferingID)
		}
		return nil, fmt.Errorf("failed to get course offering: %w", err)
	}

	clos, err := s.repo.Outcomes().GetCLOsByCourse(ctx, offering.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list CLOs: %w", err)
	}

	results := make([]*CLOAttainmentResult, 0, len(clos))
	for _, clo := range clos {
		result, err := s.ComputeCLOAttainment(ctx, courseOfferingID, clo.ID, thresholds)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *attainmentService) computeFromItemSet(ctx context.Context, courseOfferingID, cloID uint, itemSet []*models.AssessmentItem, thresholds models.Thresholds) (*CLOAttainmentResult, error) {
	var maxTotal float64
	itemMax := make(map[uint]float64, len(itemSet))
	itemIDs := make([]uint, 0, len(itemSet))
	for _, item := range itemSet {
		if item.Marks <= 0 {
			return nil, NewDataIntegrityError("item_marks_not_positive",
				fmt.Sprintf("assessment item %d has non-positive maximum marks %.2f", item.ID, item.Marks),
				map[string]interface{}{"item_id": item.ID})
		}
		maxTotal += item.Marks
		itemMax[item.ID] = item.Marks
		itemIDs = append(itemIDs, item.ID)
	}

	marks, err := s.repo.Scores().GetMarksForItems(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list marks: %w", err)
	}

	// obtained[student][item], rejecting marks that slipped past entry-time
	// validation.
	obtained := make(map[uint]map[uint]float64)
	for _, mark := range marks {
		maxMarks := itemMax[mark.AssessmentItemID]
		if mark.ObtainedMarks < 0 || mark.ObtainedMarks > maxMarks {
			return nil, NewDataIntegrityError("mark_out_of_range",
				fmt.Sprintf("mark %.2f for student %d on item %d is outside [0, %.2f]", mark.ObtainedMarks, mark.StudentID, mark.AssessmentItemID, maxMarks),
				map[string]interface{}{"student_id": mark.StudentID, "item_id": mark.AssessmentItemID})
		}
		byItem, ok := obtained[mark.StudentID]
		if !ok {
			byItem = make(map[uint]float64, len(itemSet))
			obtained[mark.StudentID] = byItem
		}
		byItem[mark.AssessmentItemID] = mark.ObtainedMarks
	}

	studentIDs, err := s.repo.Curriculum().ListEnrolledStudents(ctx, courseOfferingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled students: %w", err)
	}
	sort.Slice(studentIDs, func(i, j int) bool { return studentIDs[i] < studentIDs[j] })

	students := make([]StudentAttainment, 0, len(studentIDs))
	studentCount := 0
	attainedCount := 0
	for _, studentID := range studentIDs {
		byItem := obtained[studentID]

		sa := StudentAttainment{
			StudentID: studentID,
			MaxTotal:  maxTotal,
			HasMarks:  len(byItem) > 0,
		}
		// A missing mark scores zero; a student missing every mark is "not
		// assessed" and stays out of the denominator.
		for _, itemID := range itemIDs {
			sa.ObtainedTotal += byItem[itemID]
		}
		sa.Ratio = sa.ObtainedTotal / maxTotal
		sa.Attained = sa.HasMarks && sa.Ratio >= thresholds.Student

		if sa.HasMarks {
			studentCount++
			if sa.Attained {
				attainedCount++
			}
		}
		students = append(students, sa)
	}

	if studentCount == 0 {
		return &CLOAttainmentResult{
			CLOID:            cloID,
			CourseOfferingID: courseOfferingID,
			Status:           models.MeasurementNotMeasured,
			Students:         students,
		}, nil
	}

	percentage := float64(attainedCount) / float64(studentCount) * 100

	s.logger.Debug("Computed CLO attainment",
		"clo_id", cloID,
		"offering_id", courseOfferingID,
		"student_count", studentCount,
		"attained_count", attainedCount,
		"percentage", percentage)

	return &CLOAttainmentResult{
		CLOID:                cloID,
		CourseOfferingID:     courseOfferingID,
		Status:               models.MeasurementMeasured,
		StudentCount:         studentCount,
		AttainedCount:        attainedCount,
		AttainmentPercentage: percentage,
		IsAttained:           percentage >= thresholds.Course*100,
		Students:             students,
	}, nil
}

// checkItemIntegrity rejects any item in the offering whose CLO does not
// belong to the offering's course.
func (s *attainmentService) checkItemIntegrity(ctx context.Context, offering *models.CourseOffering, items []*models.AssessmentItem) error {
	if len(items) == 0 {
		return nil
	}

	clos, err := s.repo.Outcomes().GetCLOsByCourse(ctx, offering.CourseID)
	if err != nil {
		return fmt.Errorf("failed to list course CLOs: %w", err)
	}
	courseCLOs := make(map[uint]struct{}, len(clos))
	for _, clo := range clos {
		courseCLOs[clo.ID] = struct{}{}
	}

	for _, item := range items {
		if _, ok := courseCLOs[item.CLOID]; !ok {
			return NewDataIntegrityError("item_clo_outside_course",
				fmt.Sprintf("assessment item %d references CLO %d which does not belong to course %d", item.ID, item.CLOID, offering.CourseID),
				map[string]interface{}{"item_id": item.ID, "clo_id": item.CLOID, "course_id": offering.CourseID})
		}
	}
	return nil
}

// validateThresholds rejects cut-offs outside (0,1] before any computation.
func validateThresholds(v *utils.Validator, thresholds models.Thresholds) error {
	if err := v.Struct(thresholds); err != nil {
		return NewConfigurationError("thresholds", thresholds, err.Error())
	}
	return nil
}
