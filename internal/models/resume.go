package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	ResumeStatusUploaded   = "uploaded"
	ResumeStatusProcessing = "processing"
	ResumeStatusProcessed  = "processed"
	ResumeStatusFailed     = "failed"
)

const (
	ProcessingPending    = "pending"
	ProcessingQueued     = "queued"
	ProcessingProcessing = "processing"
	ProcessingCompleted  = "completed"
	ProcessingFailed     = "failed"
)

type Resume struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index" json:"user_id"` // user lives in the shared partition; no FK
	Title  string `gorm:"column:title;type:text" json:"title"`

	FileName string `gorm:"column:file_name;type:text" json:"file_name"`
	FilePath string `gorm:"column:file_path;type:text" json:"file_path"` // storage object key
	FileSize int    `gorm:"column:file_size;type:integer" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mime_type"`

	Status           string `gorm:"column:status;type:text;default:uploaded" json:"status"`
	ProcessingStatus string `gorm:"column:processing_status;type:text;default:pending;index" json:"processing_status"`

	ProcessingStartedAt   *time.Time `gorm:"column:processing_started_at;type:timestamptz" json:"processing_started_at,omitempty"`
	ProcessingCompletedAt *time.Time `gorm:"column:processing_completed_at;type:timestamptz" json:"processing_completed_at,omitempty"`
	ProcessingError       string     `gorm:"column:processing_error;type:text" json:"processing_error,omitempty"`

	ProviderUsed         string  `gorm:"column:provider_used;type:text" json:"provider_used,omitempty"`
	ExtractionConfidence float64 `gorm:"column:extraction_confidence;type:decimal(3,2)" json:"extraction_confidence"`

	ExtractedName     string `gorm:"column:extracted_name;type:text" json:"extracted_name,omitempty"`
	ExtractedEmail    string `gorm:"column:extracted_email;type:text" json:"extracted_email,omitempty"`
	ExtractedPhone    string `gorm:"column:extracted_phone;type:text" json:"extracted_phone,omitempty"`
	ExtractedLocation string `gorm:"column:extracted_location;type:text" json:"extracted_location,omitempty"`
	ExtractedSummary  string `gorm:"column:extracted_summary;type:text" json:"extracted_summary,omitempty"`

	ExtractedSkills     pq.StringArray `gorm:"column:extracted_skills;type:text[]" json:"extracted_skills,omitempty"`
	ExtractedExperience datatypes.JSON `gorm:"column:extracted_experience;type:jsonb" json:"extracted_experience,omitempty"`
	ExtractedEducation  datatypes.JSON `gorm:"column:extracted_education;type:jsonb" json:"extracted_education,omitempty"`

	RawText string `gorm:"column:raw_text;type:text" json:"raw_text,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Resume) TableName() string { return "resumes" }

func (r *Resume) Terminal() bool {
	return r.ProcessingStatus == ProcessingCompleted || r.ProcessingStatus == ProcessingFailed
}

// ProcessingTimeSeconds is nil until the run reaches a terminal state.
func (r *Resume) ProcessingTimeSeconds() *float64 {
	if r.ProcessingStartedAt == nil || r.ProcessingCompletedAt == nil {
		return nil
	}
	s := r.ProcessingCompletedAt.Sub(*r.ProcessingStartedAt).Seconds()
	return &s
}
