package services

import (
	"context"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockOutcomeRepository is a mock implementation of OutcomeRepository
type MockOutcomeRepository struct {
	mock.Mock
}

func (m *MockOutcomeRepository) GetCLO(ctx context.Context, id uint) (*models.CLO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CLO), args.Error(1)
}

func (m *MockOutcomeRepository) GetCLOsByIDs(ctx context.Context, ids []uint) ([]*models.CLO, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CLO), args.Error(1)
}

func (m *MockOutcomeRepository) GetCLOsByCourse(ctx context.Context, courseID uint) ([]*models.CLO, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CLO), args.Error(1)
}

func (m *MockOutcomeRepository) GetPLO(ctx context.Context, id uint) (*models.PLO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PLO), args.Error(1)
}

func (m *MockOutcomeRepository) GetPLOsByProgram(ctx context.Context, programID uint) ([]*models.PLO, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PLO), args.Error(1)
}

func (m *MockOutcomeRepository) ListCLOPLOMappings(ctx context.Context, programID uint) ([]*models.CLOPLOMapping, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CLOPLOMapping), args.Error(1)
}

// MockScoreRepository is a mock implementation of ScoreRepository
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) ListAssessmentItems(ctx context.Context, courseOfferingID uint) ([]*models.AssessmentItem, error) {
	args := m.Called(ctx, courseOfferingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AssessmentItem), args.Error(1)
}

func (m *MockScoreRepository) GetMarksForItems(ctx context.Context, itemIDs []uint) ([]*models.Mark, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mark), args.Error(1)
}

// MockCurriculumRepository is a mock implementation of CurriculumRepository
type MockCurriculumRepository struct {
	mock.Mock
}

func (m *MockCurriculumRepository) GetCourseOffering(ctx context.Context, id uint) (*models.CourseOffering, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CourseOffering), args.Error(1)
}

func (m *MockCurriculumRepository) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCurriculumRepository) ListEnrolledStudents(ctx context.Context, courseOfferingID uint) ([]uint, error) {
	args := m.Called(ctx, courseOfferingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockCurriculumRepository) GetCourseOfferingsForSemester(ctx context.Context, programID, semesterID uint) ([]*models.CourseOffering, error) {
	args := m.Called(ctx, programID, semesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CourseOffering), args.Error(1)
}

// MockReportRunRepository is a mock implementation of ReportRunRepository
type MockReportRunRepository struct {
	mock.Mock
}

func (m *MockReportRunRepository) Create(ctx context.Context, run *models.ReportRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockReportRunRepository) ListByProgram(ctx context.Context, programID uint, limit int) ([]*models.ReportRun, error) {
	args := m.Called(ctx, programID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReportRun), args.Error(1)
}

// mockRepository bundles the mocks behind the aggregate Repository interface
type mockRepository struct {
	outcomes   *MockOutcomeRepository
	scores     *MockScoreRepository
	curriculum *MockCurriculumRepository
	reportRuns *MockReportRunRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		outcomes:   new(MockOutcomeRepository),
		scores:     new(MockScoreRepository),
		curriculum: new(MockCurriculumRepository),
		reportRuns: new(MockReportRunRepository),
	}
}

func (m *mockRepository) Outcomes() repositories.OutcomeRepository      { return m.outcomes }
func (m *mockRepository) Scores() repositories.ScoreRepository          { return m.scores }
func (m *mockRepository) Curriculum() repositories.CurriculumRepository { return m.curriculum }
func (m *mockRepository) ReportRuns() repositories.ReportRunRepository  { return m.reportRuns }
