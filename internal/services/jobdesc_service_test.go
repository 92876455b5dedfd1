package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/utils"
)

type recordingJDs struct {
	fakeJDs
	inserted *models.JobDescription
}

func (f *recordingJDs) Insert(ctx context.Context, jd *models.JobDescription) error {
	f.inserted = jd
	return nil
}

func TestJobDescriptionCreateDerivesKeywords(t *testing.T) {
	repo := &recordingJDs{}
	svc := NewJobDescriptionService(repo)

	jd, err := svc.Create(context.Background(), "u1", "Backend Engineer", "Acme",
		"Looking for a Golang engineer with Redis experience")
	require.NoError(t, err)

	assert.NotEmpty(t, jd.ID)
	assert.Equal(t, "u1", jd.UserID)
	assert.Contains(t, []string(jd.DerivedKeywords), "golang")
	assert.Contains(t, []string(jd.DerivedKeywords), "redis")
	assert.NotContains(t, []string(jd.DerivedKeywords), "with")
	require.NotNil(t, repo.inserted)
	assert.Equal(t, jd.ID, repo.inserted.ID)
}

func TestJobDescriptionCreateValidates(t *testing.T) {
	svc := NewJobDescriptionService(&recordingJDs{})

	_, err := svc.Create(context.Background(), "u1", "", "Acme", "content")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Create(context.Background(), "", "Title", "Acme", "content")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}

func TestJobDescriptionGetEnforcesOwnership(t *testing.T) {
	repo := &recordingJDs{fakeJDs: fakeJDs{rows: map[string]*models.JobDescription{
		"jd1": {ID: "jd1", UserID: "owner"},
	}}}
	svc := NewJobDescriptionService(repo)

	_, err := svc.Get(context.Background(), "someone-else", "jd1")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	jd, err := svc.Get(context.Background(), "owner", "jd1")
	require.NoError(t, err)
	assert.Equal(t, "jd1", jd.ID)
}
