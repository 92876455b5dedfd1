// scripts/migrate.go
package scripts

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/talentbase/resumeflow/config"
	"github.com/talentbase/resumeflow/internal/models"
	pgrepo "github.com/talentbase/resumeflow/internal/repositories/postgres"
)

// Migrate brings the shared partition up to date and provisions the schema
// and tables for every active tenant. Safe to run repeatedly.
func Migrate() {
	if err := config.InitPostgres(); err != nil {
		log.Fatal(err)
	}
	db := config.PostgresDB

	if err := db.AutoMigrate(&models.Tenant{}); err != nil {
		log.Fatal(err)
	}

	tenants := pgrepo.NewTenantRepo(db)
	partitions, err := tenants.ActivePartitions(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	for _, partition := range partitions {
		if err := MigratePartition(partition); err != nil {
			log.Fatal(err)
		}
		log.Printf("migrated partition %s", partition)
	}

	log.Println("migrations complete")
}

// CreateTenant registers a tenant in the shared partition and provisions
// its schema. Tenant records are administrative; the serving path only
// reads them.
func CreateTenant(name, subdomain, schemaName string) error {
	now := time.Now().UTC()
	t := &models.Tenant{
		ID:         uuid.NewString(),
		Name:       name,
		Subdomain:  strings.ToLower(strings.TrimSpace(subdomain)),
		SchemaName: schemaName,
		Status:     models.TenantStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	tenants := pgrepo.NewTenantRepo(config.PostgresDB)
	if err := tenants.Insert(context.Background(), t); err != nil {
		return err
	}
	return MigratePartition(schemaName)
}

// MigratePartition creates one tenant schema and its tables.
func MigratePartition(partition string) error {
	db := config.PostgresDB
	quoted := pq.QuoteIdentifier(partition)

	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + quoted).Error; err != nil {
		return err
	}

	// AutoMigrate resolves unqualified table names through search_path, and
	// each Exec on the pooled handle may land on a different connection.
	// Pin everything to one connection so the DDL hits the target schema,
	// and reset before the connection returns to the pool.
	return db.Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("SET search_path TO " + quoted + ", public").Error; err != nil {
			return err
		}
		defer conn.Exec("SET search_path TO public")

		return conn.AutoMigrate(
			&models.Resume{},
			&models.JobDescription{},
			&models.ProcessingRun{},
			&models.Enhancement{},
		)
	})
}
