package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/repositories"
	"gorm.io/gorm"
)

type ReportRunPostgreSQL struct {
	db *gorm.DB
}

func NewReportRunPostgreSQL(db *gorm.DB) repositories.ReportRunRepository {
	return &ReportRunPostgreSQL{db: db}
}

func (r *ReportRunPostgreSQL) Create(ctx context.Context, run *models.ReportRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record report run: %w", err)
	}
	return nil
}

func (r *ReportRunPostgreSQL) ListByProgram(ctx context.Context, programID uint, limit int) ([]*models.ReportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*models.ReportRun
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list report runs for program %d: %w", programID, err)
	}
	return runs, nil
}
