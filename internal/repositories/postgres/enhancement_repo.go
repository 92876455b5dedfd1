package postgres

import (
	"context"

	"github.com/talentbase/resumeflow/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnhancementRepository interface {
	Upsert(ctx context.Context, e *models.Enhancement) error
	GetByResumeAndJD(ctx context.Context, resumeID, jobDescriptionID string) (*models.Enhancement, error)
}

type enhancementRepo struct {
	db *gorm.DB
}

func NewEnhancementRepo(db *gorm.DB) EnhancementRepository {
	return &enhancementRepo{db: db}
}

// Upsert keys on (resume_id, job_description_id): re-running enhancement with
// the same job description overwrites the previous row.
func (r *enhancementRepo) Upsert(ctx context.Context, e *models.Enhancement) error {
	return withPartition(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "resume_id"}, {Name: "job_description_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enhanced_summary", "enhanced_skills", "match_score",
				"recommendations", "provider_used", "updated_at",
			}),
		}).Create(e).Error
	})
}

func (r *enhancementRepo) GetByResumeAndJD(ctx context.Context, resumeID, jobDescriptionID string) (*models.Enhancement, error) {
	var row models.Enhancement
	err := withPartition(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Where("resume_id = ? AND job_description_id = ?", resumeID, jobDescriptionID).Take(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}
