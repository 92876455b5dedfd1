package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	pgrepo "github.com/talentbase/resumeflow/internal/repositories/postgres"
	"github.com/talentbase/resumeflow/internal/tenant"
)

// Reaper sweeps every active partition for resumes and runs stuck in
// "processing" past the SLA and resets them so a later attempt can pick
// them up. It covers worker crashes and lost deliveries; the per-job
// ceiling covers everything else.
type Reaper struct {
	Tenants pgrepo.TenantRepository
	Resumes pgrepo.ResumeRepository
	Runs    pgrepo.RunRepository

	Interval time.Duration
	StuckFor time.Duration

	// DefaultPartition is swept even when it is not in the tenants table.
	DefaultPartition tenant.Partition

	Logger *logrus.Logger
}

func (r *Reaper) Start(ctx context.Context) {
	if r.Interval <= 0 {
		r.Interval = 2 * time.Minute
	}
	if r.StuckFor <= 0 {
		r.StuckFor = 3 * time.Minute
	}
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) log() *logrus.Logger {
	if r.Logger == nil {
		r.Logger = logrus.New()
	}
	return r.Logger
}

func (r *Reaper) sweep(ctx context.Context) {
	partitions, err := r.Tenants.ActivePartitions(ctx)
	if err != nil {
		r.log().WithError(err).Error("reaper: failed to list active partitions")
		partitions = nil
	}
	if r.DefaultPartition != "" {
		found := false
		for _, p := range partitions {
			if tenant.Partition(p) == r.DefaultPartition {
				found = true
				break
			}
		}
		if !found {
			partitions = append(partitions, string(r.DefaultPartition))
		}
	}

	cutoff := time.Now().UTC().Add(-r.StuckFor)
	for _, p := range partitions {
		r.sweepPartition(ctx, tenant.Partition(p), cutoff)
	}
}

// sweepPartition resets one partition; a broken partition never stops the
// sweep of the others.
func (r *Reaper) sweepPartition(ctx context.Context, p tenant.Partition, cutoff time.Time) {
	ctx = tenant.WithPartition(ctx, p)
	log := r.log().WithField("partition", string(p))

	resumes, err := r.Resumes.ResetStuck(ctx, cutoff, "processing timeout - reset for retry")
	if err != nil {
		log.WithError(err).Error("reaper: failed to reset stuck resumes")
		return
	}
	runs, err := r.Runs.ResetStuck(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("reaper: failed to reset stuck runs")
		return
	}
	if resumes > 0 || runs > 0 {
		log.WithFields(logrus.Fields{
			"resumes": resumes,
			"runs":    runs,
		}).Info("reaper reset stuck processing")
	}
}
