package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/repositories"
	"gorm.io/gorm"
)

type CurriculumPostgreSQL struct {
	db *gorm.DB
}

func NewCurriculumPostgreSQL(db *gorm.DB) repositories.CurriculumRepository {
	return &CurriculumPostgreSQL{db: db}
}

func (c *CurriculumPostgreSQL) GetCourseOffering(ctx context.Context, id uint) (*models.CourseOffering, error) {
	var offering models.CourseOffering
	err := c.db.WithContext(ctx).
		Preload("Course").
		First(&offering, id).Error
	if err != nil {
		return nil, err
	}
	return &offering, nil
}

func (c *CurriculumPostgreSQL) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CurriculumPostgreSQL) ListEnrolledStudents(ctx context.Context, courseOfferingID uint) ([]uint, error) {
	var studentIDs []uint
	err := c.db.WithContext(ctx).
		Model(&models.StudentEnrollment{}).
		Where("course_offering_id = ? AND status IN ?", courseOfferingID,
			[]models.EnrollmentStatus{models.EnrollmentActive, models.EnrollmentCompleted}).
		Order("student_id ASC").
		Pluck("student_id", &studentIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled students for offering %d: %w", courseOfferingID, err)
	}
	return studentIDs, nil
}

func (c *CurriculumPostgreSQL) GetCourseOfferingsForSemester(ctx context.Context, programID, semesterID uint) ([]*models.CourseOffering, error) {
	var offerings []*models.CourseOffering
	err := c.db.WithContext(ctx).
		Joins("JOIN courses ON courses.id = course_offerings.course_id").
		Where("courses.program_id = ? AND course_offerings.semester_id = ?", programID, semesterID).
		Order("course_offerings.course_id ASC, course_offerings.section ASC").
		Find(&offerings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings for program %d semester %d: %w", programID, semesterID, err)
	}
	return offerings, nil
}
