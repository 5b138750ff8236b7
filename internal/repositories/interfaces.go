package repositories

import (
	"context"

	"github.com/SAP-F-2025/attainment-service/internal/models"
)

// ===== OUTCOME DEFINITION STORE =====

// OutcomeRepository reads CLO/PLO definitions and the CLO→PLO mapping.
// The attainment engine only ever reads from this store.
type OutcomeRepository interface {
	GetCLO(ctx context.Context, id uint) (*models.CLO, error)
	GetCLOsByIDs(ctx context.Context, ids []uint) ([]*models.CLO, error)
	GetCLOsByCourse(ctx context.Context, courseID uint) ([]*models.CLO, error)
	GetPLO(ctx context.Context, id uint) (*models.PLO, error)
	GetPLOsByProgram(ctx context.Context, programID uint) ([]*models.PLO, error)

	// ListCLOPLOMappings returns every mapping whose CLO belongs to a course
	// of the given program.
	ListCLOPLOMappings(ctx context.Context, programID uint) ([]*models.CLOPLOMapping, error)
}

// ===== ASSESSMENT SCORE STORE =====

// ScoreRepository reads assessment items and recorded marks.
type ScoreRepository interface {
	// ListAssessmentItems returns all items across all assessments in the
	// offering, regardless of which CLO they measure.
	ListAssessmentItems(ctx context.Context, courseOfferingID uint) ([]*models.AssessmentItem, error)

	// GetMarksForItems returns every recorded mark for the given items.
	// Students without a mark on an item simply have no row.
	GetMarksForItems(ctx context.Context, itemIDs []uint) ([]*models.Mark, error)
}

// ===== CURRICULUM / ENROLLMENT =====

type CurriculumRepository interface {
	GetCourseOffering(ctx context.Context, id uint) (*models.CourseOffering, error)
	GetCourse(ctx context.Context, id uint) (*models.Course, error)

	// ListEnrolledStudents returns the IDs of actively enrolled students.
	ListEnrolledStudents(ctx context.Context, courseOfferingID uint) ([]uint, error)

	// GetCourseOfferingsForSemester returns all offerings in the semester
	// belonging to courses of the program.
	GetCourseOfferingsForSemester(ctx context.Context, programID, semesterID uint) ([]*models.CourseOffering, error)
}

// ===== REPORT RUN AUDIT =====

type ReportRunRepository interface {
	Create(ctx context.Context, run *models.ReportRun) error
	ListByProgram(ctx context.Context, programID uint, limit int) ([]*models.ReportRun, error)
}

// ===== AGGREGATE =====

// Repository bundles the stores the attainment engine depends on.
type Repository interface {
	Outcomes() OutcomeRepository
	Scores() ScoreRepository
	Curriculum() CurriculumRepository
	ReportRuns() ReportRunRepository
}
