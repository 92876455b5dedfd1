package postgres

import (
	"context"

	"github.com/lib/pq"
	"github.com/talentbase/resumeflow/internal/tenant"
	"github.com/talentbase/resumeflow/internal/utils"
	"gorm.io/gorm"
)

// withPartition runs fn inside a transaction whose search_path points at the
// partition carried by ctx. SET LOCAL is transaction-scoped, so the partition
// is released on every exit path - commit, rollback, or panic - and never
// leaks to the next unit of work sharing the pooled connection.
func withPartition(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	p, ok := tenant.FromContext(ctx)
	if !ok {
		return utils.E(utils.CodeForbidden, "postgres.withPartition", "no tenant partition in context", nil)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET LOCAL search_path TO " + pq.QuoteIdentifier(string(p)) + ", public").Error; err != nil {
			return utils.E(utils.CodeUnavailable, "postgres.withPartition", "failed to scope partition", err)
		}
		return fn(tx)
	})
}
