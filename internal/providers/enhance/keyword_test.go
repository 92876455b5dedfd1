package enhance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbase/resumeflow/internal/providers/extract"
)

func TestDeriveKeywords(t *testing.T) {
	got := DeriveKeywords("Looking for a Golang engineer with Redis and PostgreSQL experience. Golang required.")
	assert.Equal(t, []string{"golang", "engineer", "redis", "postgresql"}, got)
}

func TestDeriveKeywordsEmpty(t *testing.T) {
	assert.Empty(t, DeriveKeywords("a an to of"))
}

func TestKeywordEnhanceScoresOverlap(t *testing.T) {
	res := &extract.Result{
		Skills:  []string{"Golang", "Redis"},
		RawText: "built services in golang using redis streams",
		Summary: "Backend engineer",
		Contact: extract.Contact{Email: "a@b.com"},
	}

	out, err := Keyword{}.Enhance(context.Background(), res, "", []string{"golang", "redis", "kubernetes", "terraform"})
	require.NoError(t, err)

	assert.Equal(t, "keyword", out.Provider)
	assert.Equal(t, 50.0, out.MatchScore)
	require.NotEmpty(t, out.Recommendations)
	assert.Contains(t, out.Recommendations[0], "kubernetes")
	assert.Contains(t, out.Recommendations[0], "terraform")
	assert.LessOrEqual(t, len(out.Recommendations), MaxRecommendations)
}

func TestKeywordEnhanceFullMatch(t *testing.T) {
	res := &extract.Result{
		Skills:     []string{"python", "django", "postgresql", "docker", "aws"},
		Summary:    "Senior engineer",
		Experience: []extract.Experience{{Company: "Acme"}},
		Contact:    extract.Contact{Email: "dev@acme.io"},
	}

	out, err := Keyword{}.Enhance(context.Background(), res, "", []string{"python", "django"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, out.MatchScore)
	assert.Empty(t, out.Recommendations)
}

func TestKeywordEnhanceDerivesWhenKeywordsMissing(t *testing.T) {
	res := &extract.Result{RawText: "kotlin android developer"}

	out, err := Keyword{}.Enhance(context.Background(), res, "Kotlin developer for Android apps", nil)
	require.NoError(t, err)
	assert.Greater(t, out.MatchScore, 0.0)
}

func TestKeywordEnhanceNoKeywords(t *testing.T) {
	_, err := Keyword{}.Enhance(context.Background(), &extract.Result{}, "", nil)
	assert.Error(t, err)
}
