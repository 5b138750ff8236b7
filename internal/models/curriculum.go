package models

import (
	"time"

	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "Active"
	EnrollmentDropped   EnrollmentStatus = "Dropped"
	EnrollmentCompleted EnrollmentStatus = "Completed"
)

type Program struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Code        string  `json:"code" gorm:"not null;size:20;uniqueIndex" validate:"required,min=2,max=20"`
	Name        string  `json:"name" gorm:"not null;size:200" validate:"required,min=2,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Courses []Course `json:"courses,omitempty" gorm:"foreignKey:ProgramID"`
	PLOs    []PLO    `json:"plos,omitempty" gorm:"foreignKey:ProgramID"`
}

type Course struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Code        string `json:"code" gorm:"not null;size:20;index" validate:"required,min=2,max=20"`
	Title       string `json:"title" gorm:"not null;size:200" validate:"required,min=2,max=200"`
	ProgramID   uint   `json:"program_id" gorm:"not null;index" validate:"required"`
	CreditHours int    `json:"credit_hours" gorm:"default:3" validate:"min=1,max=6"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Program Program `json:"-" gorm:"foreignKey:ProgramID"`
	CLOs    []CLO   `json:"clos,omitempty" gorm:"foreignKey:CourseID"`
}

type Semester struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:50;uniqueIndex" validate:"required"` // e.g. "Fall 2025"
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseOffering is one instance of a course taught in a semester/section.
type CourseOffering struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	CourseID   uint   `json:"course_id" gorm:"not null;index:idx_offering_course_sem" validate:"required"`
	SemesterID uint   `json:"semester_id" gorm:"not null;index:idx_offering_course_sem" validate:"required"`
	Section    string `json:"section" gorm:"not null;size:10;default:'A'" validate:"required,max=10"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course      Course              `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Semester    Semester            `json:"semester,omitempty" gorm:"foreignKey:SemesterID"`
	Enrollments []StudentEnrollment `json:"-" gorm:"foreignKey:CourseOfferingID"`
	Assessments []Assessment        `json:"-" gorm:"foreignKey:CourseOfferingID"`
}

// StudentEnrollment associates a student with a course offering. Only enrolled
// students are eligible to be counted in attainment denominators.
type StudentEnrollment struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	StudentID        uint             `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_student_offering" validate:"required"`
	CourseOfferingID uint             `json:"course_offering_id" gorm:"not null;uniqueIndex:idx_enrollment_student_offering" validate:"required"`
	Status           EnrollmentStatus `json:"status" gorm:"default:Active;index" validate:"omitempty,oneof=Active Dropped Completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Offering CourseOffering `json:"-" gorm:"foreignKey:CourseOfferingID"`
}

func (Program) TableName() string           { return "programs" }
func (Course) TableName() string            { return "courses" }
func (Semester) TableName() string          { return "semesters" }
func (CourseOffering) TableName() string    { return "course_offerings" }
func (StudentEnrollment) TableName() string { return "student_enrollments" }
