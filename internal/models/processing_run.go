package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RunTypeExtraction  = "extraction"
	RunTypeEnhancement = "enhancement"
	RunTypeMatching    = "matching"
)

const (
	RunStatusPending    = "pending"
	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

// ProcessingRun is one attempt at extraction or enhancement. A resume can
// accumulate many over its lifetime (reprocessing, multiple job descriptions).
type ProcessingRun struct {
	ID               string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ResumeID         string  `gorm:"column:resume_id;type:uuid;index" json:"resume_id"`
	JobDescriptionID *string `gorm:"column:job_description_id;type:uuid;index" json:"job_description_id,omitempty"`
	UserID           string  `gorm:"column:user_id;type:uuid" json:"user_id"`

	Type   string `gorm:"column:processing_type;type:text" json:"processing_type"` // extraction|enhancement|matching
	Status string `gorm:"column:status;type:text;default:pending;index" json:"status"`

	StartedAt   *time.Time `gorm:"column:started_at;type:timestamptz" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at;type:timestamptz" json:"completed_at,omitempty"`

	MatchScore    *float64       `gorm:"column:match_score;type:decimal(5,2)" json:"match_score,omitempty"`
	ResultPayload datatypes.JSON `gorm:"column:result_payload;type:jsonb" json:"result_payload,omitempty"`
	ErrorMessage  string         `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (ProcessingRun) TableName() string { return "processing_runs" }

func (r *ProcessingRun) ProcessingTime() *float64 {
	if r.StartedAt == nil || r.CompletedAt == nil {
		return nil
	}
	s := r.CompletedAt.Sub(*r.StartedAt).Seconds()
	return &s
}
