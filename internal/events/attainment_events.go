package events

import (
	"time"

	"github.com/SAP-F-2025/attainment-service/internal/models"
)

// EventType represents the attainment events this service emits
type EventType string

const (
	// EventReportComputed fires after an attainment report was assembled.
	EventReportComputed EventType = "attainment.report_computed"

	// EventIntegrityFault fires when a computation rejected bad data, so
	// curriculum admins can be alerted instead of the fault being masked.
	EventIntegrityFault EventType = "attainment.integrity_fault"
)

// AttainmentEvent is the envelope for all events published by this service
type AttainmentEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type ReportComputedEvent struct {
	ProgramID       uint              `json:"program_id"`
	SemesterID      uint              `json:"semester_id"`
	Thresholds      models.Thresholds `json:"thresholds"`
	PLOCount        int               `json:"plo_count"`
	MeasuredCount   int               `json:"measured_count"`
	AttainedCount   int               `json:"attained_count"`
	ErrorCount      int               `json:"error_count"`
	DurationMS      int64             `json:"duration_ms"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

type IntegrityFaultEvent struct {
	ProgramID  uint   `json:"program_id,omitempty"`
	SemesterID uint   `json:"semester_id,omitempty"`
	PLOID      uint   `json:"plo_id,omitempty"`
	CLOID      uint   `json:"clo_id,omitempty"`
	OfferingID uint   `json:"offering_id,omitempty"`
	Rule       string `json:"rule,omitempty"`
	Message    string `json:"message"`
}
