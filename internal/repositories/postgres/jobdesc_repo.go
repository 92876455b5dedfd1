package postgres

import (
	"context"
	"errors"

	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/utils"
	"gorm.io/gorm"
)

type JobDescriptionRepository interface {
	Insert(ctx context.Context, jd *models.JobDescription) error
	GetByID(ctx context.Context, id string) (*models.JobDescription, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]models.JobDescription, error)
}

type jobDescriptionRepo struct {
	db *gorm.DB
}

func NewJobDescriptionRepo(db *gorm.DB) JobDescriptionRepository {
	return &jobDescriptionRepo{db: db}
}

func (r *jobDescriptionRepo) Insert(ctx context.Context, jd *models.JobDescription) error {
	return withPartition(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Create(jd).Error
	})
}

func (r *jobDescriptionRepo) GetByID(ctx context.Context, id string) (*models.JobDescription, error) {
	var row models.JobDescription
	err := withPartition(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Take(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeNotFound, "JobDescriptionRepo.GetByID", "job description not found", err)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *jobDescriptionRepo) ListRecent(ctx context.Context, userID string, limit int) ([]models.JobDescription, error) {
	var rows []models.JobDescription
	err := withPartition(ctx, r.db, func(tx *gorm.DB) error {
		q := tx.Order("created_at DESC")
		if userID != "" {
			q = q.Where("user_id = ?", userID)
		}
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Find(&rows).Error
	})
	return rows, err
}
