package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbase/resumeflow/internal/queue"
	"github.com/talentbase/resumeflow/internal/utils"
)

type fakeProcessor struct {
	err     error
	calls   []queue.Job
	aborted []queue.Job
}

func (f *fakeProcessor) Process(ctx context.Context, job queue.Job) error {
	f.calls = append(f.calls, job)
	return f.err
}

func (f *fakeProcessor) Abort(ctx context.Context, job queue.Job, cause error) {
	f.aborted = append(f.aborted, job)
}

type fakeEnqueuer struct {
	jobs []queue.Job
	err  error
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, job queue.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func msgFor(job queue.Job) redis.XMessage {
	return redis.XMessage{
		ID: "1-0",
		Values: map[string]any{
			"resume_id":          job.ResumeID,
			"job_description_id": job.JobDescriptionID,
			"provider":           job.Provider,
			"partition":          string(job.Partition),
			"user_id":            job.UserID,
			"attempt":            "0",
		},
	}
}

func newPool(proc *fakeProcessor, jobs *fakeEnqueuer) *ProcessWorkerPool {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &ProcessWorkerPool{Processor: proc, Jobs: jobs, Logger: log}
}

func TestHandleMsgSuccess(t *testing.T) {
	proc := &fakeProcessor{}
	jobs := &fakeEnqueuer{}
	p := newPool(proc, jobs)

	p.handleMsg(context.Background(), msgFor(queue.Job{ResumeID: "r1", Partition: "tenant_a", UserID: "u1"}))

	require.Len(t, proc.calls, 1)
	assert.Equal(t, "r1", proc.calls[0].ResumeID)
	assert.Empty(t, jobs.jobs)
	assert.Empty(t, proc.aborted)
}

func TestHandleMsgTransientErrorRequeues(t *testing.T) {
	proc := &fakeProcessor{err: utils.E(utils.CodeUnavailable, "test", "bucket down", nil)}
	jobs := &fakeEnqueuer{}
	p := newPool(proc, jobs)

	p.handleMsg(context.Background(), msgFor(queue.Job{ResumeID: "r1", Partition: "tenant_a"}))

	require.Len(t, jobs.jobs, 1)
	assert.Equal(t, 1, jobs.jobs[0].Attempt)
	assert.Empty(t, proc.aborted)
}

func TestHandleMsgExhaustedAttemptsAborts(t *testing.T) {
	proc := &fakeProcessor{err: utils.E(utils.CodeUnavailable, "test", "bucket down", nil)}
	jobs := &fakeEnqueuer{}
	p := newPool(proc, jobs)

	msg := msgFor(queue.Job{ResumeID: "r1", Partition: "tenant_a"})
	msg.Values["attempt"] = "2"
	p.handleMsg(context.Background(), msg)

	assert.Empty(t, jobs.jobs)
	require.Len(t, proc.aborted, 1)
	assert.Equal(t, "r1", proc.aborted[0].ResumeID)
}

func TestHandleMsgNonTransientErrorAborts(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("boom")}
	jobs := &fakeEnqueuer{}
	p := newPool(proc, jobs)

	p.handleMsg(context.Background(), msgFor(queue.Job{ResumeID: "r1", Partition: "tenant_a"}))

	assert.Empty(t, jobs.jobs)
	assert.Len(t, proc.aborted, 1)
}

func TestHandleMsgDropsMalformedMessage(t *testing.T) {
	proc := &fakeProcessor{}
	p := newPool(proc, &fakeEnqueuer{})

	p.handleMsg(context.Background(), redis.XMessage{ID: "1-0", Values: map[string]any{"resume_id": "r1"}})

	assert.Empty(t, proc.calls)
}
