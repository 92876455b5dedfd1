package extract

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	emailJunkRe  = regexp.MustCompile(`[^\w@.\-]`)
	emailLeadRe  = regexp.MustCompile(`^[^a-zA-Z0-9]+`)
	emailRe      = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// Normalize coerces one provider's raw output - well-formed JSON, a free-text
// answer, or JSON buried in a fenced block - into the canonical schema.
// Parsing order: direct structured parse, embedded structured block, heuristic
// field extraction over the text.
func Normalize(raw string, in Input, provider string, confidence float64) *Result {
	if j, ok := embeddedJSON(raw); ok {
		return fromJSON(j, raw, in, provider, confidence)
	}
	res := heuristicFields(raw + "\n" + in.RawText)
	res.Summary = firstLines(raw, 3, 200)
	res.RawText = pickText(in.RawText, raw)
	res.Provider = provider
	res.Confidence = confidence
	return res
}

// embeddedJSON finds a structured object in text: the whole string, or the
// first fenced ``` block containing one.
func embeddedJSON(s string) (gjson.Result, bool) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "{") && gjson.Valid(t) {
		return gjson.Parse(t), true
	}
	if m := fencedJSONRe.FindStringSubmatch(s); m != nil && gjson.Valid(m[1]) {
		return gjson.Parse(m[1]), true
	}
	return gjson.Result{}, false
}

func fromJSON(j gjson.Result, raw string, in Input, provider string, confidence float64) *Result {
	// Some providers wrap the real payload in an ai_response text field;
	// fields parsed out of it take precedence over the outer object.
	primary := j
	if ar := j.Get("ai_response"); ar.Exists() && ar.String() != "" {
		if emb, ok := embeddedJSON(ar.String()); ok {
			primary = emb
		}
	}
	get := func(paths ...string) gjson.Result {
		for _, p := range paths {
			if v := primary.Get(p); v.Exists() {
				return v
			}
		}
		for _, p := range paths {
			if v := j.Get(p); v.Exists() {
				return v
			}
		}
		return gjson.Result{}
	}

	res := &Result{
		Contact: Contact{
			Name:     get("contact_info.name", "personal_info.name").String(),
			Email:    SanitizeEmail(get("contact_info.email", "personal_info.email").String()),
			Phone:    get("contact_info.phone", "personal_info.phone").String(),
			Location: get("contact_info.location", "personal_info.location").String(),
		},
		Summary:    get("summary").String(),
		Skills:     splitSkills(get("skills")),
		Provider:   provider,
		Confidence: confidence,
	}

	get("experience").ForEach(func(_, v gjson.Result) bool {
		res.Experience = append(res.Experience, Experience{
			Company:     v.Get("company").String(),
			Title:       v.Get("title").String(),
			Duration:    v.Get("duration").String(),
			Description: v.Get("description").String(),
		})
		return true
	})
	get("education").ForEach(func(_, v gjson.Result) bool {
		res.Education = append(res.Education, Education{
			Degree:      v.Get("degree").String(),
			Institution: v.Get("institution").String(),
			Year:        v.Get("year").String(),
		})
		return true
	})

	if c := get("confidence_score"); c.Exists() {
		res.Confidence = c.Float()
	}
	res.RawText = pickText(get("raw_text", "original_text", "text").String(), in.RawText, raw)
	return res
}

// splitSkills flattens a skills array, breaking "Category: item1, item2"
// groups into individual skill strings.
func splitSkills(v gjson.Result) []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	v.ForEach(func(_, item gjson.Result) bool {
		s := item.String()
		if idx := strings.Index(s, ":"); idx >= 0 {
			for _, part := range strings.Split(s[idx+1:], ",") {
				add(part)
			}
		} else {
			add(s)
		}
		return true
	})
	return out
}

// SanitizeEmail strips characters outside [\w@.-] and validates what remains;
// garbage is stored as absent, never as-is.
func SanitizeEmail(s string) string {
	if s == "" {
		return ""
	}
	s = emailJunkRe.ReplaceAllString(s, "")
	s = emailLeadRe.ReplaceAllString(s, "")
	if !emailRe.MatchString(s) {
		return ""
	}
	return s
}

func pickText(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}

func firstLines(s string, n, maxLen int) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	out := strings.Join(lines, " ")
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}
