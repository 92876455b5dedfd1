package enhance

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/talentbase/resumeflow/internal/providers/extract"
	"github.com/talentbase/resumeflow/internal/utils"
	"github.com/tidwall/gjson"
)

// RemoteService asks the extraction microservice to score and improve a
// parsed resume against a job description.
//
// Contract: POST /enhance (JSON resume_data + job_description) ->
// {enhanced_resume, match_score, recommendations, provider_used} on
// success, {skipped: true} or {error} when the service declines.
type RemoteService struct {
	client *resty.Client
}

func NewRemoteService(baseURL string) *RemoteService {
	return &RemoteService{client: resty.New().SetBaseURL(baseURL)}
}

func (p *RemoteService) Name() string { return "ai-service" }

func (p *RemoteService) Enhance(ctx context.Context, res *extract.Result, jobDescription string, keywords []string) (*Result, error) {
	const op = "RemoteService.Enhance"

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"resume_data":     res,
			"job_description": jobDescription,
		}).
		Post("/enhance")
	if err != nil {
		if ctx.Err() != nil {
			return nil, utils.E(utils.CodeTimeout, op, "enhancement deadline exceeded", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "enhancement request failed", err)
	}

	body := resp.String()
	if !resp.IsSuccess() {
		msg := gjson.Get(body, "error").String()
		if msg == "" {
			msg = fmt.Sprintf("enhancement service returned %d", resp.StatusCode())
		}
		return nil, utils.E(utils.CodeUnavailable, op, msg, nil)
	}
	if gjson.Get(body, "skipped").Bool() {
		return nil, utils.E(utils.CodeUnavailable, op, "enhancement skipped by service", nil)
	}

	out := &Result{
		EnhancedSummary: gjson.Get(body, "enhanced_resume.enhanced_summary").String(),
		MatchScore:      gjson.Get(body, "match_score").Float(),
		Provider:        p.Name(),
		Recommendations: []string{},
	}
	if pu := gjson.Get(body, "provider_used").String(); pu != "" {
		out.Provider = pu
	}
	for _, s := range gjson.Get(body, "enhanced_resume.enhanced_skills").Array() {
		if v := s.String(); v != "" {
			out.EnhancedSkills = append(out.EnhancedSkills, v)
		}
	}
	for _, r := range gjson.Get(body, "recommendations").Array() {
		if v := r.String(); v != "" && len(out.Recommendations) < MaxRecommendations {
			out.Recommendations = append(out.Recommendations, v)
		}
	}
	return out, nil
}
