package postgres

import (
	"context"
	"time"

	"github.com/talentbase/resumeflow/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RunRepository interface {
	Insert(ctx context.Context, run *models.ProcessingRun) error
	Complete(ctx context.Context, id string, payload datatypes.JSON, matchScore *float64, completedAt time.Time) error
	Fail(ctx context.Context, id, errMsg string, completedAt time.Time) error
	ListByResume(ctx context.Context, resumeID string) ([]models.ProcessingRun, error)
	ResetStuck(ctx context.Context, olderThan time.Time) (int64, error)
}

type runRepo struct {
	db *gorm.DB
}

func NewRunRepo(db *gorm.DB) RunRepository {
	return &runRepo{db: db}
}

func (r *runRepo) Insert(ctx context.Context, run *models.ProcessingRun) error {
	return withPartition(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
}

func (r *runRepo) Complete(ctx context.Context, id string, payload datatypes.JSON, matchScore *float64, completedAt time.Time) error {
	return withPartition(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Model(&models.ProcessingRun{}).Where("id = ?", id).Updates(map[string]any{
			"status":         models.RunStatusCompleted,
			"completed_at":   completedAt,
			"result_payload": payload,
			"match_score":    matchScore,
			"error_message":  "",
		}).Error
	})
}

func (r *runRepo) Fail(ctx context.Context, id, errMsg string, completedAt time.Time) error {
	return withPartition(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Model(&models.ProcessingRun{}).Where("id = ?", id).Updates(map[string]any{
			"status":        models.RunStatusFailed,
			"completed_at":  completedAt,
			"error_message": errMsg,
		}).Error
	})
}

func (r *runRepo) ListByResume(ctx context.Context, resumeID string) ([]models.ProcessingRun, error) {
	var rows []models.ProcessingRun
	err := withPartition(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Where("resume_id = ?", resumeID).Order("created_at DESC").Find(&rows).Error
	})
	return rows, err
}

func (r *runRepo) ResetStuck(ctx context.Context, olderThan time.Time) (int64, error) {
	var reset int64
	err := withPartition(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Model(&models.ProcessingRun{}).
			Where("status = ? AND started_at < ?", models.RunStatusProcessing, olderThan).
			Updates(map[string]any{
				"status":        models.RunStatusPending,
				"started_at":    nil,
				"error_message": "processing timeout - reset for retry",
			})
		reset = res.RowsAffected
		return res.Error
	})
	return reset, err
}
