package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/talentbase/resumeflow/config"
	"github.com/talentbase/resumeflow/internal/api/handlers"
	"github.com/talentbase/resumeflow/internal/api/middleware"
	"github.com/talentbase/resumeflow/internal/api/routes"
	"github.com/talentbase/resumeflow/internal/logger"
	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/queue"
	pgrepo "github.com/talentbase/resumeflow/internal/repositories/postgres"
	"github.com/talentbase/resumeflow/internal/services"
	"github.com/talentbase/resumeflow/internal/storage"
	"github.com/talentbase/resumeflow/internal/tenant"
)

func main() {
	_ = godotenv.Load()

	lg := logger.New("api-server")
	cfg := config.Load()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	lg.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	lg.Info("Redis connected")

	// Tenant records live in the shared partition; tenant schemas are
	// provisioned by scripts/migrate.go.
	if err := config.PostgresDB.AutoMigrate(&models.Tenant{}); err != nil {
		log.Fatalf("migrate tenants: %v", err)
	}

	ctx := context.Background()
	store, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer store.Close()

	tenants := pgrepo.NewTenantRepo(config.PostgresDB)
	resumes := pgrepo.NewResumeRepo(config.PostgresDB)
	runs := pgrepo.NewRunRepo(config.PostgresDB)
	jds := pgrepo.NewJobDescriptionRepo(config.PostgresDB)

	resolver := tenant.NewResolver(tenants, cfg.TenantPolicy)
	enqueuer := queue.NewRedisEnqueuer(config.RedisClient)

	resumeSvc := services.NewResumeService(resumes, runs, store, enqueuer)
	jdSvc := services.NewJobDescriptionService(jds)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(lg))

	routes.RegisterRoutes(r, routes.Deps{
		Resolver: resolver,
		Resume:   handlers.NewResumeHandler(resumeSvc),
		JobDesc:  handlers.NewJobDescriptionHandler(jdSvc),
		Tenant:   handlers.NewTenantHandler(tenants),
		WS:       handlers.NewStatusWSHandler(config.RedisClient),
	})

	lg.WithField("port", cfg.Port).Info("starting api server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
