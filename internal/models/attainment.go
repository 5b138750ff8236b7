package models

import (
	"time"

	"gorm.io/datatypes"
)

// MeasurementStatus separates the three user-visible states of an attainment
// result: a computed percentage, "no data yet", and a computation fault.
// These must never be collapsed into one.
type MeasurementStatus string

const (
	MeasurementMeasured    MeasurementStatus = "measured"
	MeasurementNotMeasured MeasurementStatus = "not_measured"
	MeasurementError       MeasurementStatus = "error"
)

// Thresholds configures the three attainment cut-offs, all fractions in (0,1].
//   - Student: minimum score ratio for a single student to attain a CLO.
//   - Course: minimum fraction of assessed students for a CLO to be attained.
//   - Program: minimum weighted CLO attainment for a PLO to be attained.
type Thresholds struct {
	Student float64 `json:"student_threshold" validate:"required,fraction"`
	Course  float64 `json:"course_threshold" validate:"required,fraction"`
	Program float64 `json:"program_threshold" validate:"required,fraction"`
}

const defaultThreshold = 0.60

// DefaultThresholds returns the conventional OBE cut-offs (60% at every level).
func DefaultThresholds() Thresholds {
	return Thresholds{
		Student: defaultThreshold,
		Course:  defaultThreshold,
		Program: defaultThreshold,
	}
}

// ReportRun is an append-only audit row recorded for every assembled
// attainment report. It is a log of what was computed and with which
// parameters, never a cache: results stay reproducible from marks and
// mappings alone.
type ReportRun struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ProgramID  uint           `json:"program_id" gorm:"not null;index"`
	SemesterID uint           `json:"semester_id" gorm:"not null;index"`
	Thresholds datatypes.JSON `json:"thresholds" gorm:"type:jsonb"` // Thresholds
	Summary    datatypes.JSON `json:"summary" gorm:"type:jsonb"`    // per-PLO status/percentage digest
	Duration   int64          `json:"duration_ms" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (ReportRun) TableName() string { return "report_runs" }
