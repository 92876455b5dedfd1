package models

import (
	"time"

	"github.com/lib/pq"
)

// Enhancement is unique per (resume, job description); re-running the stage
// with the same job description overwrites instead of duplicating.
type Enhancement struct {
	ID               string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ResumeID         string `gorm:"column:resume_id;type:uuid;uniqueIndex:idx_enhancements_resume_jd" json:"resume_id"`
	JobDescriptionID string `gorm:"column:job_description_id;type:uuid;uniqueIndex:idx_enhancements_resume_jd" json:"job_description_id"`

	EnhancedSummary string         `gorm:"column:enhanced_summary;type:text" json:"enhanced_summary,omitempty"`
	EnhancedSkills  pq.StringArray `gorm:"column:enhanced_skills;type:text[]" json:"enhanced_skills,omitempty"`
	MatchScore      float64        `gorm:"column:match_score;type:decimal(5,2)" json:"match_score"`
	Recommendations pq.StringArray `gorm:"column:recommendations;type:text[]" json:"recommendations,omitempty"`
	ProviderUsed    string         `gorm:"column:provider_used;type:text" json:"provider_used"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Enhancement) TableName() string { return "enhancements" }
