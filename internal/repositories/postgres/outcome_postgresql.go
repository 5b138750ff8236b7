package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/attainment-service/internal/models"
	"github.com/SAP-F-2025/attainment-service/internal/repositories"
	"gorm.io/gorm"
)

type OutcomePostgreSQL struct {
	db *gorm.DB
}

func NewOutcomePostgreSQL(db *gorm.DB) repositories.OutcomeRepository {
	return &OutcomePostgreSQL{db: db}
}

func (o *OutcomePostgreSQL) GetCLO(ctx context.Context, id uint) (*models.CLO, error) {
	var clo models.CLO
	if err := o.db.WithContext(ctx).First(&clo, id).Error; err != nil {
		return nil, err
	}
	return &clo, nil
}

func (o *OutcomePostgreSQL) GetCLOsByIDs(ctx context.Context, ids []uint) ([]*models.CLO, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var clos []*models.CLO
	err := o.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("course_id ASC, code ASC").
		Find(&clos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list CLOs by ids: %w", err)
	}
	return clos, nil
}

func (o *OutcomePostgreSQL) GetCLOsByCourse(ctx context.Context, courseID uint) ([]*models.CLO, error) {
	var clos []*models.CLO
	err := o.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("code ASC").
		Find(&clos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list CLOs for course %d: %w", courseID, err)
	}
	return clos, nil
}

func (o *OutcomePostgreSQL) GetPLO(ctx context.Context, id uint) (*models.PLO, error) {
	var plo models.PLO
	if err := o.db.WithContext(ctx).First(&plo, id).Error; err != nil {
		return nil, err
	}
	return &plo, nil
}

func (o *OutcomePostgreSQL) GetPLOsByProgram(ctx context.Context, programID uint) ([]*models.PLO, error) {
	var plos []*models.PLO
	err := o.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("code ASC").
		Find(&plos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list PLOs for program %d: %w", programID, err)
	}
	return plos, nil
}

// ListCLOPLOMappings joins through clos/courses so the contributing set is
// exactly the mappings whose CLO belongs to a course of the program.
func (o *OutcomePostgreSQL) ListCLOPLOMappings(ctx context.Context, programID uint) ([]*models.CLOPLOMapping, error) {
	var mappings []*models.CLOPLOMapping
	err := o.db.WithContext(ctx).
		Joins("JOIN clos ON clos.id = clo_plo_mappings.clo_id").
		Joins("JOIN courses ON courses.id = clos.course_id").
		Where("courses.program_id = ?", programID).
		Order("clo_plo_mappings.plo_id ASC, clo_plo_mappings.clo_id ASC").
		Find(&mappings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list CLO-PLO mappings for program %d: %w", programID, err)
	}
	return mappings, nil
}
