package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/tenant"
	"github.com/talentbase/resumeflow/internal/utils"
	"gorm.io/datatypes"
)

type fakeTenants struct {
	partitions []string
	err        error
}

func (f *fakeTenants) Insert(ctx context.Context, t *models.Tenant) error { return nil }

func (f *fakeTenants) ActiveBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	return nil, utils.E(utils.CodeNotFound, "fakeTenants", "not found", nil)
}

func (f *fakeTenants) ActivePartitions(ctx context.Context) ([]string, error) {
	return f.partitions, f.err
}

type fakeStuckResumes struct {
	swept       []tenant.Partition
	diagnostics []string
	reset       int64
	err         map[tenant.Partition]error
}

func (f *fakeStuckResumes) Insert(ctx context.Context, r *models.Resume) error { return nil }
func (f *fakeStuckResumes) GetByID(ctx context.Context, id string) (*models.Resume, error) {
	return nil, nil
}
func (f *fakeStuckResumes) ListRecent(ctx context.Context, userID string, limit int) ([]models.Resume, error) {
	return nil, nil
}
func (f *fakeStuckResumes) MarkQueued(ctx context.Context, id string) error { return nil }
func (f *fakeStuckResumes) MarkProcessing(ctx context.Context, id string, startedAt time.Time) error {
	return nil
}
func (f *fakeStuckResumes) MarkCompleted(ctx context.Context, res *models.Resume, completedAt time.Time) error {
	return nil
}
func (f *fakeStuckResumes) MarkFailed(ctx context.Context, id, errMsg string, completedAt time.Time) error {
	return nil
}
func (f *fakeStuckResumes) ResetForReprocess(ctx context.Context, id string) error { return nil }

func (f *fakeStuckResumes) ResetStuck(ctx context.Context, olderThan time.Time, diagnostic string) (int64, error) {
	p, _ := tenant.FromContext(ctx)
	if err := f.err[p]; err != nil {
		return 0, err
	}
	f.swept = append(f.swept, p)
	f.diagnostics = append(f.diagnostics, diagnostic)
	return f.reset, nil
}

type fakeStuckRuns struct {
	swept []tenant.Partition
	reset int64
}

func (f *fakeStuckRuns) Insert(ctx context.Context, run *models.ProcessingRun) error { return nil }
func (f *fakeStuckRuns) Complete(ctx context.Context, id string, payload datatypes.JSON, matchScore *float64, completedAt time.Time) error {
	return nil
}
func (f *fakeStuckRuns) Fail(ctx context.Context, id, errMsg string, completedAt time.Time) error {
	return nil
}
func (f *fakeStuckRuns) ListByResume(ctx context.Context, resumeID string) ([]models.ProcessingRun, error) {
	return nil, nil
}

func (f *fakeStuckRuns) ResetStuck(ctx context.Context, olderThan time.Time) (int64, error) {
	p, _ := tenant.FromContext(ctx)
	f.swept = append(f.swept, p)
	return f.reset, nil
}

func TestReaperSweepsEveryActivePartition(t *testing.T) {
	resumes := &fakeStuckResumes{reset: 2}
	runs := &fakeStuckRuns{reset: 1}
	r := &Reaper{
		Tenants:  &fakeTenants{partitions: []string{"tenant_a", "tenant_b"}},
		Resumes:  resumes,
		Runs:     runs,
		StuckFor: 3 * time.Minute,
	}

	r.sweep(context.Background())

	assert.Equal(t, []tenant.Partition{"tenant_a", "tenant_b"}, resumes.swept)
	assert.Equal(t, []tenant.Partition{"tenant_a", "tenant_b"}, runs.swept)
	require.NotEmpty(t, resumes.diagnostics)
	assert.Equal(t, "processing timeout - reset for retry", resumes.diagnostics[0])
}

func TestReaperIncludesDefaultPartition(t *testing.T) {
	resumes := &fakeStuckResumes{}
	r := &Reaper{
		Tenants:          &fakeTenants{partitions: []string{"tenant_a"}},
		Resumes:          resumes,
		Runs:             &fakeStuckRuns{},
		DefaultPartition: "tenant_dev",
	}

	r.sweep(context.Background())

	assert.Equal(t, []tenant.Partition{"tenant_a", "tenant_dev"}, resumes.swept)
}

func TestReaperBrokenPartitionDoesNotStopSweep(t *testing.T) {
	resumes := &fakeStuckResumes{
		err: map[tenant.Partition]error{"tenant_a": errors.New("schema missing")},
	}
	runs := &fakeStuckRuns{}
	r := &Reaper{
		Tenants: &fakeTenants{partitions: []string{"tenant_a", "tenant_b"}},
		Resumes: resumes,
		Runs:    runs,
	}

	r.sweep(context.Background())

	assert.Equal(t, []tenant.Partition{"tenant_b"}, resumes.swept)
	assert.Equal(t, []tenant.Partition{"tenant_b"}, runs.swept)
}

func TestReaperListFailureStillSweepsDefault(t *testing.T) {
	resumes := &fakeStuckResumes{}
	r := &Reaper{
		Tenants:          &fakeTenants{err: errors.New("db down")},
		Resumes:          resumes,
		Runs:             &fakeStuckRuns{},
		DefaultPartition: "tenant_dev",
	}

	r.sweep(context.Background())

	assert.Equal(t, []tenant.Partition{"tenant_dev"}, resumes.swept)
}
