package utils

import (
	"testing"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorFractionRule(t *testing.T) {
	v := NewValidator()

	valid := []float64{0.01, 0.5, 0.6, 1.0}
	for _, value := range valid {
		assert.NoError(t, v.Var(value, "fraction"), "value %v", value)
	}

	invalid := []float64{0, -0.1, 1.01, 2}
	for _, value := range invalid {
		assert.Error(t, v.Var(value, "fraction"), "value %v", value)
	}
}

func TestValidatorThresholds(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Struct(models.DefaultThresholds()))

	err := v.Struct(models.Thresholds{Student: 0.6, Course: 1.5, Program: 0.6})
	require.Error(t, err)
}

func TestValidatorOutcomeCodes(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Var("CLO1", "clo_code"))
	assert.NoError(t, v.Var("CLO12", "clo_code"))
	assert.Error(t, v.Var("CLO0", "clo_code"))
	assert.Error(t, v.Var("clo1", "clo_code"))
	assert.Error(t, v.Var("PLO1", "clo_code"))

	assert.NoError(t, v.Var("PLO3", "plo_code"))
	assert.Error(t, v.Var("PLO", "plo_code"))
}

func TestValidatorBloomLevel(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Var("Apply", "bloom_level"))
	assert.NoError(t, v.Var("Create", "bloom_level"))
	assert.Error(t, v.Var("Memorize", "bloom_level"))
}
