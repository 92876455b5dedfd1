package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirectJSON(t *testing.T) {
	raw := `{
		"contact_info": {"name": "Jane Doe", "email": "jane@example.com", "phone": "555-123-4567", "location": "Berlin"},
		"summary": "Backend engineer",
		"skills": ["Go", "PostgreSQL"],
		"experience": [{"company": "Acme", "title": "Engineer", "duration": "2020-2023", "description": "APIs"}],
		"education": [{"degree": "BSc", "institution": "TU Berlin", "year": "2019"}]
	}`

	res := Normalize(raw, Input{RawText: "resume text"}, "local-model", 0.7)

	assert.Equal(t, "Jane Doe", res.Contact.Name)
	assert.Equal(t, "jane@example.com", res.Contact.Email)
	assert.Equal(t, "555-123-4567", res.Contact.Phone)
	assert.Equal(t, "Backend engineer", res.Summary)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, res.Skills)
	require.Len(t, res.Experience, 1)
	assert.Equal(t, "Acme", res.Experience[0].Company)
	require.Len(t, res.Education, 1)
	assert.Equal(t, "TU Berlin", res.Education[0].Institution)
	assert.Equal(t, "resume text", res.RawText)
	assert.Equal(t, "local-model", res.Provider)
	assert.Equal(t, 0.7, res.Confidence)
}

func TestNormalizeFencedJSON(t *testing.T) {
	raw := "Here is what I found:\n```json\n{\"contact_info\": {\"name\": \"Bob\"}, \"skills\": [\"Python\"]}\n```\nHope that helps."

	res := Normalize(raw, Input{}, "local-model", 0.7)

	assert.Equal(t, "Bob", res.Contact.Name)
	assert.Equal(t, []string{"Python"}, res.Skills)
}

func TestNormalizeInnerPayloadPrecedence(t *testing.T) {
	raw := `{"ai_response": "{\"contact_info\": {\"name\": \"Inner Name\"}}", "contact_info": {"name": "Outer Name"}}`

	res := Normalize(raw, Input{}, "ai-service", 0.9)
	assert.Equal(t, "Inner Name", res.Contact.Name)
}

func TestNormalizePersonalInfoAlias(t *testing.T) {
	raw := `{"personal_info": {"name": "Alice", "email": "alice@example.com"}}`

	res := Normalize(raw, Input{}, "ai-service", 0.9)
	assert.Equal(t, "Alice", res.Contact.Name)
	assert.Equal(t, "alice@example.com", res.Contact.Email)
}

func TestNormalizeConfidenceOverride(t *testing.T) {
	raw := `{"contact_info": {"name": "X"}, "confidence_score": 0.42}`

	res := Normalize(raw, Input{}, "ai-service", 0.9)
	assert.Equal(t, 0.42, res.Confidence)
}

func TestNormalizeFreeTextFallsBackToHeuristics(t *testing.T) {
	raw := "John Smith is a developer.\nReach him at john@company.io.\nKnows Python and Docker."

	res := Normalize(raw, Input{RawText: ""}, "local-model", 0.7)

	assert.Equal(t, "john@company.io", res.Contact.Email)
	assert.Contains(t, res.Skills, "Python")
	assert.Contains(t, res.Skills, "Docker")
	assert.NotEmpty(t, res.Summary)
	assert.Equal(t, raw, res.RawText)
}

func TestSplitSkillsCategoryGroups(t *testing.T) {
	raw := `{"contact_info": {"name": "X"}, "skills": ["Languages: Go, Python", "Docker"]}`

	res := Normalize(raw, Input{}, "ai-service", 0.9)
	assert.Equal(t, []string{"Go", "Python", "Docker"}, res.Skills)
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", SanitizeEmail("<jane@example.com>"))
	assert.Equal(t, "jane@example.com", SanitizeEmail("jane@example.com"))
	assert.Equal(t, "", SanitizeEmail("not an email"))
	assert.Equal(t, "", SanitizeEmail(""))
	assert.Equal(t, "", SanitizeEmail("@@@"))
}

func TestResultUsable(t *testing.T) {
	assert.False(t, (&Result{}).Usable())
	assert.False(t, (*Result)(nil).Usable())
	assert.True(t, (&Result{RawText: "text"}).Usable())
	assert.True(t, (&Result{Contact: Contact{Name: "X"}}).Usable())
	assert.True(t, (&Result{Skills: []string{"Go"}}).Usable())
}
