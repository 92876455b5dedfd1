// Package queue carries processing jobs over a redis stream so the API
// servers and workers stay decoupled.
package queue

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/talentbase/resumeflow/internal/tenant"
	"github.com/talentbase/resumeflow/internal/utils"
)

const (
	ProcessStream = "resumes:process"
	ProcessGroup  = "resume-workers"
)

// Job is one resume-processing request. Partition rides along so the
// worker can re-enter the tenant's scope without re-resolving the host.
type Job struct {
	ResumeID         string
	JobDescriptionID string
	Provider         string
	Partition        tenant.Partition
	UserID           string
	Attempt          int
}

type Enqueuer interface {
	Enqueue(ctx context.Context, job Job) error
}

type RedisEnqueuer struct {
	rdb    *redis.Client
	stream string
}

func NewRedisEnqueuer(rdb *redis.Client) *RedisEnqueuer {
	return &RedisEnqueuer{rdb: rdb, stream: ProcessStream}
}

func (q *RedisEnqueuer) Enqueue(ctx context.Context, job Job) error {
	const op = "RedisEnqueuer.Enqueue"

	if job.ResumeID == "" || job.Partition == "" {
		return utils.E(utils.CodeInvalidArgument, op, "job needs resume_id and partition", nil)
	}

	err := q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{
			"resume_id":          job.ResumeID,
			"job_description_id": job.JobDescriptionID,
			"provider":           job.Provider,
			"partition":          string(job.Partition),
			"user_id":            job.UserID,
			"attempt":            strconv.Itoa(job.Attempt),
		},
	}).Err()
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to enqueue processing job", err)
	}
	return nil
}

// ParseJob rebuilds a Job from a stream message. Attempt defaults to 0 on
// garbage input.
func ParseJob(msg redis.XMessage) Job {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}
	attempt, _ := strconv.Atoi(getStr("attempt"))
	return Job{
		ResumeID:         getStr("resume_id"),
		JobDescriptionID: getStr("job_description_id"),
		Provider:         getStr("provider"),
		Partition:        tenant.Partition(getStr("partition")),
		UserID:           getStr("user_id"),
		Attempt:          attempt,
	}
}
