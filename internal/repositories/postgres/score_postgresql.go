package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/repositories"
	"gorm.io/gorm"
)

type ScorePostgreSQL struct {
	db *gorm.DB
}

func NewScorePostgreSQL(db *gorm.DB) repositories.ScoreRepository {
	return &ScorePostgreSQL{db: db}
}

func (s *ScorePostgreSQL) ListAssessmentItems(ctx context.Context, courseOfferingID uint) ([]*models.AssessmentItem, error) {
	var items []*models.AssessmentItem
	err := s.db.WithContext(ctx).
		Joins("JOIN assessments ON assessments.id = assessment_items.assessment_id").
		Where("assessments.course_offering_id = ? AND assessments.deleted_at IS NULL", courseOfferingID).
		Order("assessment_items.assessment_id ASC, assessment_items.question_no ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment items for offering %d: %w", courseOfferingID, err)
	}
	return items, nil
}

func (s *ScorePostgreSQL) GetMarksForItems(ctx context.Context, itemIDs []uint) ([]*models.Mark, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var marks []*models.Mark
	err := s.db.WithContext(ctx).
		Where("assessment_item_id IN ?", itemIDs).
		Order("student_id ASC, assessment_item_id ASC").
		Find(&marks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list marks: %w", err)
	}
	return marks, nil
}
