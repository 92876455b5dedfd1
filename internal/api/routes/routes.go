package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/talentbase/resumeflow/internal/api/handlers"
	"github.com/talentbase/resumeflow/internal/api/middleware"
	"github.com/talentbase/resumeflow/internal/tenant"
)

type Deps struct {
	Resolver *tenant.Resolver

	Resume  *handlers.ResumeHandler
	JobDesc *handlers.JobDescriptionHandler
	Tenant  *handlers.TenantHandler
	WS      *handlers.StatusWSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish; no tenant resolution
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Everything else runs inside one tenant's partition
	auth := r.Group("/")
	auth.Use(middleware.TenantScope(d.Resolver))
	auth.Use(middleware.JWTAuth())

	auth.POST("/resumes", d.Resume.Upload)
	auth.GET("/resumes", d.Resume.List)
	auth.GET("/resumes/:resume_id", d.Resume.Get)
	auth.GET("/resumes/:resume_id/status", d.Resume.Status)
	auth.POST("/resumes/:resume_id/reprocess", d.Resume.Reprocess)

	auth.POST("/job-descriptions", d.JobDesc.Create)
	auth.GET("/job-descriptions", d.JobDesc.List)
	auth.GET("/job-descriptions/:jd_id", d.JobDesc.Get)

	// WebSocket: per-user processing events
	auth.GET("/ws/resumes", d.WS.ResumeEvents)

	// Admin: read-only view of the shared partition's tenant records
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/tenants/partitions", d.Tenant.ListPartitions)
}
