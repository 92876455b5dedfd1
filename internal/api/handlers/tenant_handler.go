package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pgrepo "github.com/talentbase/resumeflow/internal/repositories/postgres"
)

// TenantHandler is a read-only ops surface. Tenant records are provisioned
// out of band (scripts/migrate.go); the API only observes them.
type TenantHandler struct {
	repo pgrepo.TenantRepository
}

func NewTenantHandler(repo pgrepo.TenantRepository) *TenantHandler {
	return &TenantHandler{repo: repo}
}

func (h *TenantHandler) ListPartitions(c *gin.Context) {
	partitions, err := h.repo.ActivePartitions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partitions": partitions})
}
