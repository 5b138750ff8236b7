package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("student_threshold", "must be a fraction in (0,1]", 1.5)

	if err.Field != "student_threshold" {
		t.Errorf("Expected field to be 'student_threshold', got '%s'", err.Field)
	}

	if err.Message != "must be a fraction in (0,1]" {
		t.Errorf("Unexpected message: '%s'", err.Message)
	}

	if err.Value != 1.5 {
		t.Errorf("Expected value to be 1.5, got '%v'", err.Value)
	}

	expected := "validation error on field 'student_threshold': must be a fraction in (0,1]"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("code", "is required", nil))
	expected := "validation failed: code is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("weight", "must be greater than 0", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("code", "must match the pattern CLO<n>", "clo_code", "XYZ1")

	if err.Rule != "clo_code" {
		t.Errorf("Expected rule to be 'clo_code', got '%s'", err.Rule)
	}

	if err.Field != "code" {
		t.Errorf("Expected field to be 'code', got '%s'", err.Field)
	}
}
