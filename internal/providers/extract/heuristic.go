package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/talentbase/resumeflow/internal/utils"
)

var (
	anyEmailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	phoneRe    = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	yearRe     = regexp.MustCompile(`(19|20)\d{2}`)
	dateSpanRe = regexp.MustCompile(`(?i)\d{4}\s*[-–]\s*(\d{4}|present)`)
)

var knownSkills = []string{
	"Python", "Java", "JavaScript", "TypeScript", "Go", "Ruby", "Rails",
	"React", "Node.js", "SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis",
	"HTML", "CSS", "Git", "AWS", "Azure", "GCP", "Docker", "Kubernetes",
	"Linux", "Terraform", "Machine Learning", "Data Analysis",
	"Project Management", "Agile",
}

var educationKeywords = []string{"university", "college", "bachelor", "master", "phd", "degree", "diploma"}
var roleKeywords = []string{"Manager", "Developer", "Engineer", "Analyst", "Consultant", "Director", "Architect"}

// Heuristic is the deterministic regex/keyword parser: no network call,
// near-instant, low confidence. It needs already-available raw text.
type Heuristic struct{}

func (Heuristic) Name() string { return "heuristic" }

func (Heuristic) Probe(ctx context.Context) error { return nil }

func (Heuristic) Extract(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.RawText) == "" {
		return nil, utils.E(utils.CodeUnavailable, "Heuristic.Extract", "no raw text available", nil)
	}
	res := heuristicFields(in.RawText)
	res.Summary = firstLines(in.RawText, 3, 200)
	res.RawText = in.RawText
	res.Provider = "heuristic"
	res.Confidence = 0.3
	return res, nil
}

func heuristicFields(text string) *Result {
	res := &Result{}

	res.Contact.Email = SanitizeEmail(anyEmailRe.FindString(text))
	res.Contact.Phone = phoneRe.FindString(text)

	lower := strings.ToLower(text)
	for _, skill := range knownSkills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			res.Skills = append(res.Skills, skill)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(res.Education) < 3 && containsAnyFold(line, educationKeywords) {
			res.Education = append(res.Education, Education{
				Institution: line,
				Year:        yearRe.FindString(line),
			})
			continue
		}
		if len(res.Experience) < 5 && (containsAny(line, roleKeywords) || dateSpanRe.MatchString(line)) {
			res.Experience = append(res.Experience, Experience{
				Description: line,
				Duration:    dateSpanRe.FindString(line),
			})
		}
	}
	return res
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func containsAnyFold(s string, words []string) bool {
	s = strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
