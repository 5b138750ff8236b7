package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAttainmentService(repo *mockRepository) AttainmentService {
	return NewAttainmentService(repo, testLogger(), utils.NewValidator())
}

// setupSingleCLOOffering wires offering 10 (course 100) with CLO 1 measured
// by a single 10-mark item, the given enrollment, and the given marks.
func setupSingleCLOOffering(repo *mockRepository, enrolled []uint, marks map[uint]float64) {
	clo := &models.CLO{ID: 1, Code: "CLO1", CourseID: 100, Description: "Apply basic concepts"}

	repo.curriculum.On("GetCourseOffering", mock.Anything, uint(10)).
		Return(&models.CourseOffering{ID: 10, CourseID: 100, SemesterID: 2, Section: "A"}, nil)
	repo.outcomes.On("GetCLO", mock.Anything, uint(1)).Return(clo, nil)
	repo.outcomes.On("GetCLOsByCourse", mock.Anything, uint(100)).Return([]*models.CLO{clo}, nil)
	repo.scores.On("ListAssessmentItems", mock.Anything, uint(10)).Return([]*models.AssessmentItem{
		{ID: 1, AssessmentID: 1, QuestionNo: 1, Marks: 10, CLOID: 1},
	}, nil)

	recorded := make([]*models.Mark, 0, len(marks))
	for studentID, obtained := range marks {
		recorded = append(recorded, &models.Mark{StudentID: studentID, AssessmentItemID: 1, ObtainedMarks: obtained})
	}
	repo.scores.On("GetMarksForItems", mock.Anything, []uint{1}).Return(recorded, nil)
	repo.curriculum.On("ListEnrolledStudents", mock.Anything, uint(10)).Return(enrolled, nil)
}

func TestComputeCLOAttainment_BasicScenario(t *testing.T) {
	// Three students score 8, 5, 0 on a single 10-mark item. The recorded
	// zero counts as assessed-and-failed, not as missing.
	repo := newMockRepository()
	setupSingleCLOOffering(repo, []uint{501, 502, 503}, map[uint]float64{501: 8, 502: 5, 503: 0})
	svc := newTestAttainmentService(repo)

	result, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, models.DefaultThresholds())
	require.NoError(t, err)

	assert.Equal(t, models.MeasurementMeasured, result.Status)
	assert.Equal(t, 3, result.StudentCount)
	assert.Equal(t, 1, result.AttainedCount)
	assert.InDelta(t, 33.3333, result.AttainmentPercentage, 0.01)
	assert.False(t, result.IsAttained)
}

func TestComputeCLOAttainment_UnassessedStudentExcluded(t *testing.T) {
	// A fourth enrolled student with no recorded mark at all stays out of
	// the denominator.
	repo := newMockRepository()
	setupSingleCLOOffering(repo, []uint{501, 502, 503, 504}, map[uint]float64{501: 8, 502: 5, 503: 0})
	svc := newTestAttainmentService(repo)

	result, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, models.DefaultThresholds())
	require.NoError(t, err)

	assert.Equal(t, 3, result.StudentCount)
	assert.Equal(t, 1, result.AttainedCount)
	assert.InDelta(t, 33.3333, result.AttainmentPercentage, 0.01)

	require.Len(t, result.Students, 4)
	unassessed := result.Students[3]
	assert.Equal(t, uint(504), unassessed.StudentID)
	assert.False(t, unassessed.HasMarks)
	assert.False(t, unassessed.Attained)
}

func TestComputeCLOAttainment_NoItemsIsNotMeasured(t *testing.T) {
	clo := &models.CLO{ID: 1, Code: "CLO1", CourseID: 100, Description: "Apply basic concepts"}
	repo := newMockRepository()
	repo.curriculum.On("GetCourseOffering", mock.Anything, uint(10)).
		Return(&models.CourseOffering{ID: 10, CourseID: 100}, nil)
	repo.outcomes.On("GetCLO", mock.Anything, uint(1)).Return(clo, nil)
	repo.scores.On("ListAssessmentItems", mock.Anything, uint(10)).Return([]*models.AssessmentItem{}, nil)
	svc := newTestAttainmentService(repo)

	result, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, models.DefaultThresholds())
	require.NoError(t, err)

	assert.True(t, result.NotMeasured())
	assert.Equal(t, 0, result.StudentCount)
	assert.Zero(t, result.AttainmentPercentage)
}

func TestComputeCLOAttainment_NoAssessedStudentsIsNotMeasured(t *testing.T) {
	repo := newMockRepository()
	setupSingleCLOOffering(repo, []uint{501, 502}, map[uint]float64{})
	svc := newTestAttainmentService(repo)

	result, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, models.DefaultThresholds())
	require.NoError(t, err)

	assert.True(t, result.NotMeasured())
}

func TestComputeCLOAttainment_MarkAboveMaxRejected(t *testing.T) {
	// A mark of 12 on a 10-mark item slipped past entry-time validation:
	// the computation must fail fast, not produce a number.
	repo := newMockRepository()
	setupSingleCLOOffering(repo, []uint{501}, map[uint]float64{501: 12})
	svc := newTestAttainmentService(repo)

	result, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, models.DefaultThresholds())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsDataIntegrity(err))
	assert.Contains(t, err.Error(), "mark_out_of_range")
}

func TestComputeCLOAttainment_CLOFromOtherCourseRejected(t *testing.T) {
	repo := newMockRepository()
	repo.curriculum.On("GetCourseOffering", mock.Anything, uint(10)).
		Return(&models.CourseOffering{ID: 10, CourseID: 100}, nil)
	repo.outcomes.On("GetCLO", mock.Anything, uint(7)).
		Return(&models.CLO{ID: 7, Code: "CLO2", CourseID: 999}, nil)
	svc := newTestAttainmentService(repo)

	_, err := svc.ComputeCLOAttainment(context.Background(), 10, 7, models.DefaultThresholds())
	require.Error(t, err)
	assert.True(t, IsDataIntegrity(err))
	assert.Contains(t, err.Error(), "clo_course_mismatch")
}

func TestComputeCLOAttainment_ItemReferencingForeignCLORejected(t *testing.T) {
	clo := &models.CLO{ID: 1, Code: "CLO1", CourseID: 100}
	repo := newMockRepository()
	repo.curriculum.On("GetCourseOffering", mock.Anything, uint(10)).
		Return(&models.CourseOffering{ID: 10, CourseID: 100}, nil)
	repo.outcomes.On("GetCLO", mock.Anything, uint(1)).Return(clo, nil)
	repo.outcomes.On("GetCLOsByCourse", mock.Anything, uint(100)).Return([]*models.CLO{clo}, nil)
	repo.scores.On("ListAssessmentItems", mock.Anything, uint(10)).Return([]*models.AssessmentItem{
		{ID: 1, Marks: 10, CLOID: 1},
		{ID: 2, Marks: 5, CLOID: 42}, // CLO 42 belongs to no course here
	}, nil)
	svc := newTestAttainmentService(repo)

	_, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, models.DefaultThresholds())
	require.Error(t, err)
	assert.True(t, IsDataIntegrity(err))
	assert.Contains(t, err.Error(), "item_clo_outside_course")
}

func TestComputeCLOAttainment_ThresholdOutOfRangeRejected(t *testing.T) {
	repo := newMockRepository()
	svc := newTestAttainmentService(repo)

	cases := []models.Thresholds{
		{Student: 1.5, Course: 0.6, Program: 0.6},
		{Student: 0.6, Course: 0, Program: 0.6},
		{Student: 0.6, Course: 0.6, Program: -0.2},
	}
	for _, thresholds := range cases {
		_, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, thresholds)
		require.Error(t, err)
		assert.True(t, IsConfiguration(err))
	}
}

func TestComputeCLOAttainment_Idempotent(t *testing.T) {
	repo := newMockRepository()
	setupSingleCLOOffering(repo, []uint{501, 502, 503}, map[uint]float64{501: 8, 502: 5, 503: 0})
	svc := newTestAttainmentService(repo)

	first, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, models.DefaultThresholds())
	require.NoError(t, err)
	second, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, models.DefaultThresholds())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeCLOAttainment_MonotoneUnderRaisedMarks(t *testing.T) {
	compute := func(marks map[uint]float64) float64 {
		repo := newMockRepository()
		setupSingleCLOOffering(repo, []uint{501, 502, 503}, marks)
		svc := newTestAttainmentService(repo)
		result, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, models.DefaultThresholds())
		require.NoError(t, err)
		return result.AttainmentPercentage
	}

	before := compute(map[uint]float64{501: 8, 502: 5, 503: 0})
	after := compute(map[uint]float64{501: 9, 502: 7, 503: 2})

	assert.GreaterOrEqual(t, after, before)
	assert.InDelta(t, 66.6667, after, 0.01)
}

func TestComputeCLOAttainment_BoundsHold(t *testing.T) {
	markSets := []map[uint]float64{
		{501: 0, 502: 0, 503: 0},
		{501: 10, 502: 10, 503: 10},
		{501: 6, 502: 6},
	}
	for _, marks := range markSets {
		repo := newMockRepository()
		setupSingleCLOOffering(repo, []uint{501, 502, 503}, marks)
		svc := newTestAttainmentService(repo)

		result, err := svc.ComputeCLOAttainment(context.Background(), 10, 1, models.DefaultThresholds())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.AttainmentPercentage, 0.0)
		assert.LessOrEqual(t, result.AttainmentPercentage, 100.0)
	}
}

func TestComputeOfferingAttainment_CoversEveryCLO(t *testing.T) {
	cloOne := &models.CLO{ID: 1, Code: "CLO1", CourseID: 100}
	cloTwo := &models.CLO{ID: 2, Code: "CLO2", CourseID: 100}
	repo := newMockRepository()
	repo.curriculum.On("GetCourseOffering", mock.Anything, uint(10)).
		Return(&models.CourseOffering{ID: 10, CourseID: 100}, nil)
	repo.outcomes.On("GetCLOsByCourse", mock.Anything, uint(100)).Return([]*models.CLO{cloOne, cloTwo}, nil)
	repo.outcomes.On("GetCLO", mock.Anything, uint(1)).Return(cloOne, nil)
	repo.outcomes.On("GetCLO", mock.Anything, uint(2)).Return(cloTwo, nil)
	repo.scores.On("ListAssessmentItems", mock.Anything, uint(10)).Return([]*models.AssessmentItem{
		{ID: 1, Marks: 10, CLOID: 1},
	}, nil)
	repo.scores.On("GetMarksForItems", mock.Anything, []uint{1}).Return([]*models.Mark{
		{StudentID: 501, AssessmentItemID: 1, ObtainedMarks: 7},
	}, nil)
	repo.curriculum.On("ListEnrolledStudents", mock.Anything, uint(10)).Return([]uint{501}, nil)
	svc := newTestAttainmentService(repo)

	results, err := svc.ComputeOfferingAttainment(context.Background(), 10, models.DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, results, 2)

	// CLO1 is measured, CLO2 has no items: the two states stay distinct.
	assert.Equal(t, models.MeasurementMeasured, results[0].Status)
	assert.True(t, results[0].IsAttained)
	assert.True(t, results[1].NotMeasured())
}
