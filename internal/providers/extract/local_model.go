package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/talentbase/resumeflow/internal/utils"
	"github.com/tidwall/gjson"
)

// LocalModel talks to an Ollama-style local model server: cheap, fair
// quality, sometimes slow to answer and occasionally refuses outright.
type LocalModel struct {
	client *resty.Client
	model  string
}

func NewLocalModel(baseURL, model string) *LocalModel {
	if model == "" {
		model = "llama3.2:3b"
	}
	return &LocalModel{
		client: resty.New().SetBaseURL(baseURL),
		model:  model,
	}
}

func (p *LocalModel) Name() string { return "local-model" }

func (p *LocalModel) Probe(ctx context.Context) error {
	const op = "LocalModel.Probe"
	resp, err := p.client.R().SetContext(ctx).Get("/api/tags")
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "local model unreachable", err)
	}
	if !resp.IsSuccess() {
		return utils.E(utils.CodeUnavailable, op, fmt.Sprintf("local model returned %d", resp.StatusCode()), nil)
	}
	return nil
}

func (p *LocalModel) Extract(ctx context.Context, in Input) (*Result, error) {
	const op = "LocalModel.Extract"

	if strings.TrimSpace(in.RawText) == "" {
		return nil, utils.E(utils.CodeUnavailable, op, "no raw text to prompt with", nil)
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model":  p.model,
			"prompt": extractionPrompt(in.RawText),
			"stream": false,
			"options": map[string]any{
				"temperature": 0.1,
				"top_p":       0.9,
				"num_predict": 800,
				"num_ctx":     2048,
			},
		}).
		Post("/api/generate")
	if err != nil {
		if ctx.Err() != nil {
			return nil, utils.E(utils.CodeTimeout, op, "local model deadline exceeded", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "local model request failed", err)
	}
	if !resp.IsSuccess() {
		return nil, utils.E(utils.CodeUnavailable, op, fmt.Sprintf("local model returned %d", resp.StatusCode()), nil)
	}

	content := gjson.Get(resp.String(), "response").String()
	if refused(content) {
		return nil, utils.E(utils.CodeMalformed, op, "local model refused to process content", nil)
	}
	return Normalize(content, in, p.Name(), 0.7), nil
}

// refused catches the model declining or answering with noise too short to
// carry any fields.
func refused(content string) bool {
	lower := strings.ToLower(content)
	return len(content) < 50 ||
		strings.Contains(lower, "i can't help") ||
		strings.Contains(lower, "cannot help")
}

func extractionPrompt(text string) string {
	if len(text) > 2000 {
		text = text[:2000]
	}
	return `You are a resume parser. Extract the following from the resume text below and answer STRICTLY as JSON:
{
  "contact_info": {"name": "", "email": "", "phone": "", "location": ""},
  "summary": "",
  "skills": [],
  "experience": [{"company": "", "title": "", "duration": "", "description": ""}],
  "education": [{"degree": "", "institution": "", "year": ""}]
}

Resume text:
` + text
}
