package utils

import (
	"regexp"

	apperrors "github.com/SAP-F-2025/attainment-service/internal/errors"
	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	cloCodePattern = regexp.MustCompile(`^CLO[1-9][0-9]*$`)
	ploCodePattern = regexp.MustCompile(`^PLO[1-9][0-9]*$`)
)

// Custom validation functions

// ValidateFraction accepts values in (0,1] — the range every attainment
// threshold must lie in.
func ValidateFraction(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return v > 0 && v <= 1
}

func ValidateCLOCode(fl validator.FieldLevel) bool {
	return cloCodePattern.MatchString(fl.Field().String())
}

func ValidatePLOCode(fl validator.FieldLevel) bool {
	return ploCodePattern.MatchString(fl.Field().String())
}

func ValidateBloomLevel(fl validator.FieldLevel) bool {
	validLevels := []models.BloomLevel{
		models.BloomRemember,
		models.BloomUnderstand,
		models.BloomApply,
		models.BloomAnalyze,
		models.BloomEvaluate,
		models.BloomCreate,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("fraction", ValidateFraction)
	validate.RegisterValidation("clo_code", ValidateCLOCode)
	validate.RegisterValidation("plo_code", ValidatePLOCode)
	validate.RegisterValidation("bloom_level", ValidateBloomLevel)
}

// Validator wraps go-playground/validator with the custom rules registered.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// Struct validates a struct and converts failures to shared ValidationErrors.
func (v *Validator) Struct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}
