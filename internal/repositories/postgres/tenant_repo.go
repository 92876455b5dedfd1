package postgres

import (
	"context"
	"errors"

	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/utils"
	"gorm.io/gorm"
)

// TenantRepository reads the shared-partition tenant table. The table is
// pinned to the public schema, so these queries are safe regardless of the
// caller's partition.
type TenantRepository interface {
	Insert(ctx context.Context, t *models.Tenant) error
	ActiveBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	ActivePartitions(ctx context.Context) ([]string, error)
}

type tenantRepo struct {
	db *gorm.DB
}

func NewTenantRepo(db *gorm.DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Insert(ctx context.Context, t *models.Tenant) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tenantRepo) ActiveBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	var row models.Tenant
	err := r.db.WithContext(ctx).
		Where("subdomain = ? AND status = ?", subdomain, models.TenantStatusActive).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeNotFound, "TenantRepo.ActiveBySubdomain", "tenant not found", err)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *tenantRepo) ActivePartitions(ctx context.Context) ([]string, error) {
	var partitions []string
	err := r.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("status = ?", models.TenantStatusActive).
		Pluck("schema_name", &partitions).Error
	return partitions, err
}
