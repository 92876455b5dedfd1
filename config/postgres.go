package config

import (
	"errors"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var PostgresDB *gorm.DB

func InitPostgres() error {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return errors.New("POSTGRES_URI environment variable is not set")
	}
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Partition scoping runs every pipeline write in its own short
	// transaction, so connections turn over quickly: the pool only needs
	// to cover the API plus one connection per process worker.
	sqlDB.SetMaxOpenConns(envInt("PG_MAX_OPEN_CONNS", envInt("PROCESS_WORKERS", 5)+20))
	sqlDB.SetMaxIdleConns(envInt("PG_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	PostgresDB = db
	return nil
}
