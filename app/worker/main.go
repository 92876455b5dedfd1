package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/talentbase/resumeflow/config"
	"github.com/talentbase/resumeflow/internal/logger"
	"github.com/talentbase/resumeflow/internal/notify"
	"github.com/talentbase/resumeflow/internal/providers/enhance"
	"github.com/talentbase/resumeflow/internal/providers/extract"
	"github.com/talentbase/resumeflow/internal/queue"
	pgrepo "github.com/talentbase/resumeflow/internal/repositories/postgres"
	"github.com/talentbase/resumeflow/internal/services"
	"github.com/talentbase/resumeflow/internal/storage"
	"github.com/talentbase/resumeflow/internal/workers"
)

func main() {
	_ = godotenv.Load()

	lg := logger.New("worker")
	cfg := config.Load()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	lg.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	lg.Info("Redis connected")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer store.Close()

	tenants := pgrepo.NewTenantRepo(config.PostgresDB)
	resumes := pgrepo.NewResumeRepo(config.PostgresDB)
	runs := pgrepo.NewRunRepo(config.PostgresDB)
	jds := pgrepo.NewJobDescriptionRepo(config.PostgresDB)
	enhancements := pgrepo.NewEnhancementRepo(config.PostgresDB)

	chain := extract.NewChain(lg, extract.DefaultSteps(cfg.LocalModelURL, cfg.ExtractURL, cfg.LocalModelName)...)

	var enhancer enhance.Provider = enhance.Keyword{}
	if cfg.ExtractURL != "" {
		enhancer = enhance.NewRemoteService(cfg.ExtractURL)
	}

	processor := services.NewProcessService(
		resumes, jds, runs, enhancements,
		store, chain, enhancer,
		notify.NewRedisNotifier(config.RedisClient, lg),
		lg,
	)

	pool := &workers.ProcessWorkerPool{
		Redis:      config.RedisClient,
		Processor:  processor,
		Jobs:       queue.NewRedisEnqueuer(config.RedisClient),
		NumWorkers: cfg.ProcessWorkers,
		Logger:     lg,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("worker pool error: %v", err)
	}
	lg.WithField("workers", cfg.ProcessWorkers).Info("worker pool started")

	reaper := &workers.Reaper{
		Tenants:          tenants,
		Resumes:          resumes,
		Runs:             runs,
		Interval:         cfg.ReaperInterval,
		StuckFor:         cfg.StuckFor,
		DefaultPartition: cfg.TenantPolicy.DefaultPartition,
		Logger:           lg,
	}
	go reaper.Start(ctx)

	<-ctx.Done()
	lg.Info("shutting down")
}
