package models

import (
	"time"

	"github.com/lib/pq"
)

type JobDescription struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title   string `gorm:"column:title;type:text" json:"title"`
	Company string `gorm:"column:company;type:text" json:"company"`
	Content string `gorm:"column:content;type:text" json:"content"`

	// Computed once at write time; read-only input to the enhancement stage.
	DerivedKeywords pq.StringArray `gorm:"column:derived_keywords;type:text[]" json:"derived_keywords"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (JobDescription) TableName() string { return "job_descriptions" }
