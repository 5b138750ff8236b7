package models

import (
	"time"

	"gorm.io/gorm"
)

type OutcomeStatus string

const (
	OutcomeActive   OutcomeStatus = "Active"
	OutcomeInactive OutcomeStatus = "Inactive"
)

// BloomLevel is an optional taxonomy tag on a CLO.
type BloomLevel string

const (
	BloomRemember   BloomLevel = "Remember"
	BloomUnderstand BloomLevel = "Understand"
	BloomApply      BloomLevel = "Apply"
	BloomAnalyze    BloomLevel = "Analyze"
	BloomEvaluate   BloomLevel = "Evaluate"
	BloomCreate     BloomLevel = "Create"
)

// CLO is a Course Learning Outcome. Once assessment items reference a CLO it
// is immutable apart from description edits and is soft-disabled via Status
// rather than deleted.
type CLO struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Code        string        `json:"code" gorm:"not null;size:10;uniqueIndex:idx_clo_code_course" validate:"required,clo_code"`
	CourseID    uint          `json:"course_id" gorm:"not null;uniqueIndex:idx_clo_code_course;index" validate:"required"`
	Description string        `json:"description" gorm:"type:text;not null" validate:"required,max=1000"`
	BloomLevel  *BloomLevel   `json:"bloom_level" gorm:"size:20" validate:"omitempty,bloom_level"`
	Status      OutcomeStatus `json:"status" gorm:"default:Active;index" validate:"omitempty,oneof=Active Inactive"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course   Course          `json:"-" gorm:"foreignKey:CourseID"`
	Mappings []CLOPLOMapping `json:"mappings,omitempty" gorm:"foreignKey:CLOID"`
}

// PLO is a Program Learning Outcome, fed by one or more CLOs.
type PLO struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Code        string `json:"code" gorm:"not null;size:10;uniqueIndex:idx_plo_code_program" validate:"required,plo_code"`
	ProgramID   uint   `json:"program_id" gorm:"not null;uniqueIndex:idx_plo_code_program;index" validate:"required"`
	Description string `json:"description" gorm:"type:text;not null" validate:"required,max=1000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Program  Program         `json:"-" gorm:"foreignKey:ProgramID"`
	Mappings []CLOPLOMapping `json:"mappings,omitempty" gorm:"foreignKey:PLOID"`
}

// CLOPLOMapping links a CLO to a PLO with a positive weight. A CLO may feed
// multiple PLOs with different weights.
type CLOPLOMapping struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	CLOID  uint    `json:"clo_id" gorm:"not null;uniqueIndex:idx_mapping_clo_plo" validate:"required"`
	PLOID  uint    `json:"plo_id" gorm:"not null;uniqueIndex:idx_mapping_clo_plo" validate:"required"`
	Weight float64 `json:"weight" gorm:"not null" validate:"required,gt=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	CLO CLO `json:"clo,omitempty" gorm:"foreignKey:CLOID"`
	PLO PLO `json:"plo,omitempty" gorm:"foreignKey:PLOID"`
}

func (CLO) TableName() string           { return "clos" }
func (PLO) TableName() string           { return "plos" }
func (CLOPLOMapping) TableName() string { return "clo_plo_mappings" }
