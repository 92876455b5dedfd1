package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/talentbase/resumeflow/internal/queue"
	"github.com/talentbase/resumeflow/internal/services"
	"github.com/talentbase/resumeflow/internal/utils"
)

const maxAttempts = 2

type ProcessWorkerPool struct {
	Redis      *redis.Client
	Processor  services.ProcessService
	Jobs       queue.Enqueuer
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *ProcessWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Processor == nil || p.Jobs == nil {
		return errors.New("ProcessWorkerPool missing dependency: Redis/Processor/Jobs must be set")
	}
	if p.Stream == "" {
		p.Stream = queue.ProcessStream
	}
	if p.Group == "" {
		p.Group = queue.ProcessGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 5
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *ProcessWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *ProcessWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	job := queue.ParseJob(msg)
	if job.ResumeID == "" || job.Partition == "" {
		p.Logger.WithField("redis_id", msg.ID).Warn("dropping malformed job message")
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":  msg.ID,
		"resume_id": job.ResumeID,
		"partition": string(job.Partition),
		"attempt":   job.Attempt,
	})

	err := p.Processor.Process(ctx, job)
	if err == nil {
		return
	}

	if utils.Transient(err) && job.Attempt < maxAttempts {
		retry := job
		retry.Attempt++
		if qErr := p.Jobs.Enqueue(ctx, retry); qErr != nil {
			log.WithError(qErr).Error("failed to requeue job, aborting")
			p.Processor.Abort(ctx, job, err)
			return
		}
		log.WithError(err).Warn("transient failure, requeued")
		return
	}

	log.WithError(err).Error("processing failed, no retries left")
	p.Processor.Abort(ctx, job, err)
}
