package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/attainment-service/internal/errors"
	"gorm.io/gorm"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal server error")

	// Outcome definition errors
	ErrCLONotFound     = errors.New("CLO not found")
	ErrPLONotFound     = errors.New("PLO not found")
	ErrProgramNotFound = errors.New("program not found")

	// Offering / enrollment errors
	ErrOfferingNotFound = errors.New("course offering not found")
	ErrSemesterEmpty    = errors.New("no course offerings in semester")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// DataIntegrityError marks input data that must never be turned into a
// number: an item pointing at a CLO outside the requested course, a mark
// above its item's maximum, or a non-positive mapping weight. It is fatal
// for the single computation it occurred in and is surfaced, never masked.
type DataIntegrityError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (die *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation (%s): %s", die.Rule, die.Message)
}

// ConfigurationError marks threshold values outside (0,1].
type ConfigurationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Message string      `json:"message"`
}

func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error on %s: %s (got %v)", ce.Field, ce.Message, ce.Value)
}

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewDataIntegrityError(rule, message string, context map[string]interface{}) *DataIntegrityError {
	return &DataIntegrityError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewConfigurationError(field string, value interface{}, message string) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ===== ERROR CLASSIFICATION =====

func IsDataIntegrity(err error) bool {
	var die *DataIntegrityError
	return errors.As(err, &die)
}

func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCLONotFound) ||
		errors.Is(err, ErrPLONotFound) ||
		errors.Is(err, ErrOfferingNotFound) ||
		errors.Is(err, gorm.ErrRecordNotFound)
}
