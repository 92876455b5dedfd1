package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/talentbase/resumeflow/internal/utils"
	"github.com/tidwall/gjson"
)

// RemoteService is the dedicated extraction microservice: highest quality,
// costs a network round trip per document.
//
// Contract: GET /health -> {status,...}; POST /extract (multipart file +
// provider) -> {structured_data|data, provider_used, confidence_score,
// original_text|text} on success, {error, provider_tried} on failure.
type RemoteService struct {
	client *resty.Client
}

func NewRemoteService(baseURL string) *RemoteService {
	return &RemoteService{client: resty.New().SetBaseURL(baseURL)}
}

func (p *RemoteService) Name() string { return "ai-service" }

func (p *RemoteService) Probe(ctx context.Context) error {
	const op = "RemoteService.Probe"
	resp, err := p.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "extraction service unreachable", err)
	}
	if !resp.IsSuccess() {
		return utils.E(utils.CodeUnavailable, op, fmt.Sprintf("extraction service returned %d", resp.StatusCode()), nil)
	}
	switch gjson.Get(resp.String(), "status").String() {
	case "healthy", "ok":
		return nil
	}
	return utils.E(utils.CodeUnavailable, op, "extraction service not healthy", nil)
}

func (p *RemoteService) Extract(ctx context.Context, in Input) (*Result, error) {
	const op = "RemoteService.Extract"

	if len(in.FileBytes) == 0 {
		return nil, utils.E(utils.CodeUnavailable, op, "no file bytes to send", nil)
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetFileReader("file", in.FileName, bytes.NewReader(in.FileBytes)).
		SetFormData(map[string]string{"provider": in.Preference}).
		Post("/extract")
	if err != nil {
		if ctx.Err() != nil {
			return nil, utils.E(utils.CodeTimeout, op, "extraction service deadline exceeded", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "extraction request failed", err)
	}

	body := resp.String()
	if !resp.IsSuccess() {
		msg := gjson.Get(body, "error").String()
		if msg == "" {
			msg = fmt.Sprintf("extraction service returned %d", resp.StatusCode())
		}
		return nil, utils.E(utils.CodeUnavailable, op, msg, nil)
	}

	payload := gjson.Get(body, "structured_data")
	if !payload.Exists() {
		payload = gjson.Get(body, "data")
	}
	if !payload.Exists() || !payload.IsObject() {
		return nil, utils.E(utils.CodeMalformed, op, "no structured payload in response", nil)
	}

	res := Normalize(payload.Raw, in, p.Name(), 0.9)
	if c := gjson.Get(body, "confidence_score"); c.Exists() {
		res.Confidence = c.Float()
	}
	if t := gjson.Get(body, "original_text"); t.Exists() && t.String() != "" {
		res.RawText = t.String()
	} else if t := gjson.Get(body, "text"); t.Exists() && t.String() != "" && res.RawText == "" {
		res.RawText = t.String()
	}
	return res, nil
}
