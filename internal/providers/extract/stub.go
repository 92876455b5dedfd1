package extract

import (
	"context"
	"path/filepath"
	"strings"
)

// Stub always succeeds with a placeholder record at near-zero confidence.
// It terminates the chain: exhausting every real provider still yields a
// structured result, never an error.
type Stub struct{}

func (Stub) Name() string { return "fallback" }

func (Stub) Probe(ctx context.Context) error { return nil }

func (Stub) Extract(ctx context.Context, in Input) (*Result, error) {
	return FallbackResult(in), nil
}

// DefaultName is the name used when a provider could not find one: the
// resume's title, else the file name without its extension.
func DefaultName(title, fileName string) string {
	name := strings.TrimSpace(title)
	if name == "" && fileName != "" {
		name = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
	if name == "" {
		name = "Unknown"
	}
	return name
}

func FallbackResult(in Input) *Result {
	name := DefaultName(in.Title, in.FileName)
	raw := in.RawText
	if strings.TrimSpace(raw) == "" {
		raw = "Text extraction failed"
	}
	return &Result{
		Contact:    Contact{Name: name},
		Summary:    "Unable to extract summary - please review manually",
		Skills:     []string{},
		RawText:    raw,
		Provider:   "fallback",
		Confidence: 0.1,
	}
}
