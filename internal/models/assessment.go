package models

import (
	"time"

	"gorm.io/gorm"
)

type AssessmentType string

const (
	AssessmentQuiz       AssessmentType = "Quiz"
	AssessmentAssignment AssessmentType = "Assignment"
	AssessmentMidterm    AssessmentType = "Midterm"
	AssessmentFinal      AssessmentType = "Final"
	AssessmentLab        AssessmentType = "Lab"
)

// Assessment groups graded items within a course offering.
type Assessment struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Title            string         `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Type             AssessmentType `json:"type" gorm:"not null;index" validate:"required,oneof=Quiz Assignment Midterm Final Lab"`
	CourseOfferingID uint           `json:"course_offering_id" gorm:"not null;index" validate:"required"`
	ConductedAt      *time.Time     `json:"conducted_at"`

	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Offering CourseOffering   `json:"-" gorm:"foreignKey:CourseOfferingID"`
	Items    []AssessmentItem `json:"items,omitempty" gorm:"foreignKey:AssessmentID"`

	// Computed fields (not stored)
	TotalMarks float64 `json:"total_marks" gorm:"-"`
}

// AssessmentItem is a single graded question. An item measures exactly one
// CLO and becomes immutable once marks have been recorded against it.
type AssessmentItem struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	AssessmentID uint    `json:"assessment_id" gorm:"not null;uniqueIndex:idx_item_assessment_question" validate:"required"`
	QuestionNo   int     `json:"question_no" gorm:"not null;uniqueIndex:idx_item_assessment_question" validate:"required,min=1"`
	Marks        float64 `json:"marks" gorm:"not null" validate:"required,gt=0"` // max achievable
	CLOID        uint    `json:"clo_id" gorm:"not null;index" validate:"required"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Assessment Assessment `json:"-" gorm:"foreignKey:AssessmentID"`
	CLO        CLO        `json:"clo,omitempty" gorm:"foreignKey:CLOID"`
}

// Mark is the recorded score of one student on one assessment item.
// Re-submitting for the same (student, item) overwrites, never duplicates.
type Mark struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	StudentID        uint    `json:"student_id" gorm:"not null;uniqueIndex:idx_mark_student_item" validate:"required"`
	AssessmentItemID uint    `json:"assessment_item_id" gorm:"not null;uniqueIndex:idx_mark_student_item" validate:"required"`
	ObtainedMarks    float64 `json:"obtained_marks" gorm:"not null" validate:"gte=0"`

	GradedBy  uint      `json:"graded_by" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Item AssessmentItem `json:"-" gorm:"foreignKey:AssessmentItemID"`
}

func (Assessment) TableName() string     { return "assessments" }
func (AssessmentItem) TableName() string { return "assessment_items" }
func (Mark) TableName() string           { return "marks" }
