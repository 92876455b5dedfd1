package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/utils"
	"gorm.io/gorm"
)

// ResumeRepository is the resume half of the processing record store. Every
// multi-field write is a single UPDATE: readers never observe a completed
// resume with missing extracted fields, and concurrent duplicate runs settle
// on whichever writer lands last - one coherent result, never a mix of two.
type ResumeRepository interface {
	Insert(ctx context.Context, r *models.Resume) error
	GetByID(ctx context.Context, id string) (*models.Resume, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]models.Resume, error)

	MarkQueued(ctx context.Context, id string) error
	MarkProcessing(ctx context.Context, id string, startedAt time.Time) error
	MarkCompleted(ctx context.Context, res *models.Resume, completedAt time.Time) error
	MarkFailed(ctx context.Context, id, errMsg string, completedAt time.Time) error
	ResetForReprocess(ctx context.Context, id string) error

	ResetStuck(ctx context.Context, olderThan time.Time, diagnostic string) (int64, error)
}

type resumeRepo struct {
	db *gorm.DB
}

func NewResumeRepo(db *gorm.DB) ResumeRepository {
	return &resumeRepo{db: db}
}

func (r *resumeRepo) Insert(ctx context.Context, row *models.Resume) error {
	return withPartition(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
}

func (r *resumeRepo) GetByID(ctx context.Context, id string) (*models.Resume, error) {
	var row models.Resume
	err := withPartition(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Take(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeNotFound, "ResumeRepo.GetByID", "resume not found", err)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *resumeRepo) ListRecent(ctx context.Context, userID string, limit int) ([]models.Resume, error) {
	var rows []models.Resume
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

func (r *resumeRepo) MarkQueued(ctx context.Context, id string) error {
	return r.update(ctx, id, map[string]any{
		"processing_status": models.ProcessingQueued,
	})
}

func (r *resumeRepo) MarkProcessing(ctx context.Context, id string, startedAt time.Time) error {
	return r.update(ctx, id, map[string]any{
		"status":                models.ResumeStatusProcessing,
		"processing_status":     models.ProcessingProcessing,
		"processing_started_at": startedAt,
		"processing_error":      "",
	})
}

// MarkCompleted applies the whole canonical extraction result and the terminal
// status in one write. res carries the extracted fields keyed by res.ID.
func (r *resumeRepo) MarkCompleted(ctx context.Context, res *models.Resume, completedAt time.Time) error {
	return r.update(ctx, res.ID, map[string]any{
		"status":                  models.ResumeStatusProcessed,
		"processing_status":       models.ProcessingCompleted,
		"processing_completed_at": completedAt,
		"processing_error":        "",
		"provider_used":           res.ProviderUsed,
		"extraction_confidence":   res.ExtractionConfidence,
		"extracted_name":          res.ExtractedName,
		"extracted_email":         res.ExtractedEmail,
		"extracted_phone":         res.ExtractedPhone,
		"extracted_location":      res.ExtractedLocation,
		"extracted_summary":       res.ExtractedSummary,
		"extracted_skills":        res.ExtractedSkills,
		"extracted_experience":    res.ExtractedExperience,
		"extracted_education":     res.ExtractedEducation,
		"raw_text":                res.RawText,
	})
}

func (r *resumeRepo) MarkFailed(ctx context.Context, id, errMsg string, completedAt time.Time) error {
	return r.update(ctx, id, map[string]any{
		"status":                  models.ResumeStatusFailed,
		"processing_status":       models.ProcessingFailed,
		"processing_completed_at": completedAt,
		"processing_error":        errMsg,
	})
}

// ResetForReprocess clears the extracted fields and rewinds the state machine
// to pending in one atomic write, so a reader never sees stale extraction data
// on a resume that is about to be re-queued.
func (r *resumeRepo) ResetForReprocess(ctx context.Context, id string) error {
	return r.update(ctx, id, map[string]any{
		"status":                  models.ResumeStatusUploaded,
		"processing_status":       models.ProcessingPending,
		"processing_started_at":   nil,
		"processing_completed_at": nil,
		"processing_error":        "",
		"provider_used":           "",
		"extraction_confidence":   0,
		"extracted_name":          "",
		"extracted_email":         "",
		"extracted_phone":         "",
		"extracted_location":      "",
		"extracted_summary":       "",
		"extracted_skills":        nil,
		"extracted_experience":    nil,
		"extracted_education":     nil,
		"raw_text":                "",
	})
}

func (r *resumeRepo) ResetStuck(ctx context.Context, olderThan time.Time, diagnostic string) (int64, error) {
	var reset int64
	err := withPartition(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Model(&models.Resume{}).
			Where("processing_status = ? AND processing_started_at < ?", models.ProcessingProcessing, olderThan).
			Updates(map[string]any{
				"processing_status":     models.ProcessingPending,
				"processing_started_at": nil,
				"processing_error":      diagnostic,
			})
		reset = res.RowsAffected
		return res.Error
	})
	return reset, err
}

func (r *resumeRepo) update(ctx context.Context, id string, fields map[string]any) error {
	return withPartition(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Model(&models.Resume{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.E(utils.CodeNotFound, "ResumeRepo.update", "resume not found", nil)
		}
		return nil
	})
}
