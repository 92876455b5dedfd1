package enhance

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/talentbase/resumeflow/internal/providers/extract"
	"github.com/talentbase/resumeflow/internal/utils"
)

var wordRe = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+#.-]{3,}`)

var stopwords = map[string]struct{}{
	"with": {}, "that": {}, "this": {}, "have": {}, "will": {}, "your": {},
	"from": {}, "they": {}, "their": {}, "about": {}, "would": {}, "there": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "should": {},
	"must": {}, "able": {}, "more": {}, "than": {}, "other": {}, "into": {},
	"also": {}, "been": {}, "being": {}, "both": {}, "each": {}, "such": {},
	"team": {}, "work": {}, "working": {}, "years": {}, "experience": {},
	"role": {}, "candidate": {}, "looking": {}, "required": {}, "preferred": {},
	"strong": {}, "skills": {}, "knowledge": {}, "ability": {}, "including": {},
}

// DeriveKeywords pulls the distinct significant words out of a job
// description, lowercased, in first-appearance order. Stored alongside the
// description so scoring never re-tokenizes.
func DeriveKeywords(content string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, w := range wordRe.FindAllString(content, -1) {
		w = strings.ToLower(w)
		if _, skip := stopwords[w]; skip {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
	}
	return keywords
}

// Keyword scores by keyword overlap: the fraction of job-description
// keywords present in the resume's skills or raw text, scaled to 0-100. No
// network, no model, deterministic.
type Keyword struct{}

func (Keyword) Name() string { return "keyword" }

func (Keyword) Enhance(ctx context.Context, res *extract.Result, jobDescription string, keywords []string) (*Result, error) {
	const op = "Keyword.Enhance"

	if len(keywords) == 0 {
		keywords = DeriveKeywords(jobDescription)
	}
	if len(keywords) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job description has no scoreable keywords", nil)
	}

	haystack := strings.ToLower(strings.Join(res.Skills, " ") + " " + res.RawText)

	var matched, missing []string
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	score := math.Round(float64(len(matched))/float64(len(keywords))*100*100) / 100

	return &Result{
		MatchScore:      score,
		Recommendations: recommendations(res, score, missing),
		Provider:        "keyword",
	}, nil
}

func recommendations(res *extract.Result, score float64, missing []string) []string {
	var recs []string

	if len(missing) > 0 {
		sort.Strings(missing)
		if len(missing) > 5 {
			missing = missing[:5]
		}
		recs = append(recs, fmt.Sprintf("Add experience with: %s", strings.Join(missing, ", ")))
	}
	if score < 50 {
		recs = append(recs, "Tailor your summary to the role's core requirements")
	}
	if strings.TrimSpace(res.Summary) == "" {
		recs = append(recs, "Add a professional summary highlighting relevant experience")
	}
	if len(res.Skills) < 5 {
		recs = append(recs, "List more of your technical and domain skills explicitly")
	}
	if len(res.Experience) == 0 {
		recs = append(recs, "Describe recent positions with concrete accomplishments")
	}
	if res.Contact.Email == "" {
		recs = append(recs, "Include a contact email address")
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	if recs == nil {
		recs = []string{}
	}
	return recs
}
