package extract

import (
	"context"
	"strings"
)

// Input is everything a provider may need for one extraction attempt. RawText
// is best-effort pre-extracted text; file bytes are there for providers that
// parse the document themselves.
type Input struct {
	ResumeID   string
	Title      string
	FileName   string
	MimeType   string
	FileBytes  []byte
	RawText    string
	Preference string
}

type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type Experience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Result is the canonical schema every provider is coerced into. Downstream
// code never branches on provider-specific shapes.
type Result struct {
	Contact    Contact      `json:"contact_info"`
	Summary    string       `json:"summary"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	RawText    string       `json:"raw_text"`
	Provider   string       `json:"provider_used"`
	Confidence float64      `json:"confidence"`
}

// Usable is the minimal validity bar: non-empty raw text, or resolvable
// contact/skills data.
func (r *Result) Usable() bool {
	if r == nil {
		return false
	}
	return strings.TrimSpace(r.RawText) != "" ||
		r.Contact.Name != "" || r.Contact.Email != "" || len(r.Skills) > 0
}

// Provider is one extraction backend with its own cost/latency/quality
// profile. Probe must be cheap; the chain gives it its own short deadline
// before paying for Extract.
type Provider interface {
	Name() string
	Probe(ctx context.Context) error
	Extract(ctx context.Context, in Input) (*Result, error)
}
