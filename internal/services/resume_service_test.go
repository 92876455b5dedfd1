package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/queue"
	"github.com/talentbase/resumeflow/internal/tenant"
	"github.com/talentbase/resumeflow/internal/utils"
)

type fakeUploader struct {
	objectName string
}

func (f *fakeUploader) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	f.objectName = objectName
	return objectName, nil
}

type recordingResumes struct {
	fakeResumes
	queued []string
	reset  []string
}

func (r *recordingResumes) MarkQueued(ctx context.Context, id string) error {
	r.queued = append(r.queued, id)
	return nil
}

func (r *recordingResumes) ResetForReprocess(ctx context.Context, id string) error {
	r.reset = append(r.reset, id)
	return nil
}

type fakeJobs struct {
	jobs []queue.Job
	err  error
}

func (f *fakeJobs) Enqueue(ctx context.Context, job queue.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func tenantCtx() context.Context {
	return tenant.WithPartition(context.Background(), "tenant_acme")
}

func newResumeSvc() (ResumeService, *recordingResumes, *fakeRuns, *fakeUploader, *fakeJobs) {
	resumes := &recordingResumes{fakeResumes: fakeResumes{rows: map[string]*models.Resume{}}}
	runs := &fakeRuns{}
	store := &fakeUploader{}
	jobs := &fakeJobs{}
	return NewResumeService(resumes, runs, store, jobs), resumes, runs, store, jobs
}

func TestUploadEnqueuesProcessing(t *testing.T) {
	svc, resumes, _, store, jobs := newResumeSvc()

	row, err := svc.Upload(tenantCtx(), UploadInput{
		UserID:           "u1",
		FileName:         "cv.txt",
		MimeType:         "text/plain",
		FileSize:         42,
		File:             strings.NewReader("hello"),
		JobDescriptionID: "jd1",
		Provider:         "local",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ProcessingQueued, row.ProcessingStatus)
	assert.Equal(t, "cv.txt", row.Title)
	assert.True(t, strings.HasPrefix(store.objectName, "resumes/"+row.ID+"/"))

	require.Contains(t, resumes.rows, row.ID)
	assert.Equal(t, []string{row.ID}, resumes.queued)

	require.Len(t, jobs.jobs, 1)
	job := jobs.jobs[0]
	assert.Equal(t, row.ID, job.ResumeID)
	assert.Equal(t, "jd1", job.JobDescriptionID)
	assert.Equal(t, "local", job.Provider)
	assert.Equal(t, tenant.Partition("tenant_acme"), job.Partition)
	assert.Equal(t, "u1", job.UserID)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc, _, _, _, jobs := newResumeSvc()

	_, err := svc.Upload(tenantCtx(), UploadInput{
		UserID:   "u1",
		FileName: "cv.png",
		MimeType: "image/png",
		File:     strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Empty(t, jobs.jobs)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, _, _, _, _ := newResumeSvc()

	_, err := svc.Upload(tenantCtx(), UploadInput{
		UserID:   "u1",
		FileName: "cv.txt",
		MimeType: "text/plain",
		FileSize: maxUploadBytes + 1,
		File:     strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestUploadRequiresPartition(t *testing.T) {
	svc, _, _, _, _ := newResumeSvc()

	_, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		FileName: "cv.txt",
		MimeType: "text/plain",
		File:     strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, resumes, _, _, _ := newResumeSvc()
	resumes.rows["r1"] = &models.Resume{ID: "r1", UserID: "u1"}

	_, err := svc.Get(tenantCtx(), "intruder", "r1")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestStatusProjectsExtractedDataWhenCompleted(t *testing.T) {
	svc, resumes, _, _, _ := newResumeSvc()

	started := time.Now().UTC().Add(-3 * time.Second)
	completed := time.Now().UTC()
	resumes.rows["r1"] = &models.Resume{
		ID:                    "r1",
		UserID:                "u1",
		Status:                models.ResumeStatusProcessed,
		ProcessingStatus:      models.ProcessingCompleted,
		ProcessingStartedAt:   &started,
		ProcessingCompletedAt: &completed,
		ProviderUsed:          "local-model",
		ExtractionConfidence:  0.7,
		ExtractedName:         "Jane Doe",
		ExtractedEmail:        "jane@example.com",
		ExtractedSkills:       []string{"Go", "Redis"},
	}

	view, err := svc.Status(tenantCtx(), "u1", "r1")
	require.NoError(t, err)

	assert.Equal(t, models.ProcessingCompleted, view.ProcessingStatus)
	require.NotNil(t, view.ProcessingTime)
	assert.InDelta(t, 3.0, *view.ProcessingTime, 0.1)
	require.NotNil(t, view.ExtractedData)
	assert.Equal(t, "Jane Doe", view.ExtractedData.Name)
	assert.Equal(t, []string{"Go", "Redis"}, view.ExtractedData.Skills)
}

func TestStatusHidesExtractedDataWhilePending(t *testing.T) {
	svc, resumes, _, _, _ := newResumeSvc()
	resumes.rows["r1"] = &models.Resume{
		ID:               "r1",
		UserID:           "u1",
		Status:           models.ResumeStatusUploaded,
		ProcessingStatus: models.ProcessingQueued,
		ExtractedName:    "stale",
	}

	view, err := svc.Status(tenantCtx(), "u1", "r1")
	require.NoError(t, err)
	assert.Nil(t, view.ExtractedData)
	assert.Nil(t, view.ProcessingTime)
}

func TestReprocessConflictsWhileInFlight(t *testing.T) {
	svc, resumes, _, _, jobs := newResumeSvc()
	resumes.rows["r1"] = &models.Resume{ID: "r1", UserID: "u1", ProcessingStatus: models.ProcessingProcessing}

	err := svc.Reprocess(tenantCtx(), "u1", "r1", "", "")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
	assert.Empty(t, jobs.jobs)
}

func TestReprocessResetsAndRequeues(t *testing.T) {
	svc, resumes, _, _, jobs := newResumeSvc()
	resumes.rows["r1"] = &models.Resume{ID: "r1", UserID: "u1", ProcessingStatus: models.ProcessingFailed}

	err := svc.Reprocess(tenantCtx(), "u1", "r1", "jd9", "remote")
	require.NoError(t, err)

	assert.Equal(t, []string{"r1"}, resumes.reset)
	require.Len(t, jobs.jobs, 1)
	assert.Equal(t, "jd9", jobs.jobs[0].JobDescriptionID)
	assert.Equal(t, "remote", jobs.jobs[0].Provider)
}
