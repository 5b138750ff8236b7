package postgres

import (
	"github.com/SAP-F-2025/attainment-service/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	outcomes   repositories.OutcomeRepository
	scores     repositories.ScoreRepository
	curriculum repositories.CurriculumRepository
	reportRuns repositories.ReportRunRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		outcomes:   NewOutcomePostgreSQL(db),
		scores:     NewScorePostgreSQL(db),
		curriculum: NewCurriculumPostgreSQL(db),
		reportRuns: NewReportRunPostgreSQL(db),
	}
}

func (r *Repository) Outcomes() repositories.OutcomeRepository      { return r.outcomes }
func (r *Repository) Scores() repositories.ScoreRepository          { return r.scores }
func (r *Repository) Curriculum() repositories.CurriculumRepository { return r.curriculum }
func (r *Repository) ReportRuns() repositories.ReportRunRepository  { return r.reportRuns }
