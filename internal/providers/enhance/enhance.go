package enhance

import (
	"context"

	"github.com/talentbase/resumeflow/internal/providers/extract"
)

// Result is what one enhancement attempt produces: a 0-100 match score and a
// short list of actionable suggestions.
type Result struct {
	EnhancedSummary string   `json:"enhanced_summary,omitempty"`
	EnhancedSkills  []string `json:"enhanced_skills,omitempty"`
	MatchScore      float64  `json:"match_score"`
	Recommendations []string `json:"recommendations"`
	Provider        string   `json:"provider_used"`
}

// MaxRecommendations caps the suggestion list.
const MaxRecommendations = 5

// Provider scores an accepted canonical extraction result against a job
// description. Failures here never fail the pipeline; the stage boundary
// swallows them.
type Provider interface {
	Name() string
	Enhance(ctx context.Context, res *extract.Result, jobDescription string, keywords []string) (*Result, error)
}
