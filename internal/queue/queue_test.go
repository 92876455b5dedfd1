package queue

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/talentbase/resumeflow/internal/tenant"
)

func TestParseJob(t *testing.T) {
	job := ParseJob(redis.XMessage{Values: map[string]any{
		"resume_id":          "r1",
		"job_description_id": "jd1",
		"provider":           "local-model",
		"partition":          "tenant_acme",
		"user_id":            "u1",
		"attempt":            "2",
	}})

	assert.Equal(t, "r1", job.ResumeID)
	assert.Equal(t, "jd1", job.JobDescriptionID)
	assert.Equal(t, "local-model", job.Provider)
	assert.Equal(t, tenant.Partition("tenant_acme"), job.Partition)
	assert.Equal(t, "u1", job.UserID)
	assert.Equal(t, 2, job.Attempt)
}

func TestParseJobGarbageAttempt(t *testing.T) {
	job := ParseJob(redis.XMessage{Values: map[string]any{
		"resume_id": "r1",
		"attempt":   "not-a-number",
	}})
	assert.Equal(t, 0, job.Attempt)
}
