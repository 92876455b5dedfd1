package config

import (
	"os"
	"strconv"
	"time"

	"github.com/talentbase/resumeflow/internal/tenant"
)

// App holds the pipeline knobs read once at startup. Everything has a sane
// default except the addresses handled by InitPostgres/InitRedis.
type App struct {
	Port      string
	GCSBucket string

	LocalModelURL  string
	LocalModelName string
	ExtractURL     string

	TenantPolicy tenant.Policy

	ProcessWorkers int
	ReaperInterval time.Duration
	StuckFor       time.Duration
}

func Load() App {
	return App{
		Port:      envOr("PORT", "8080"),
		GCSBucket: os.Getenv("GCS_BUCKET"),

		LocalModelURL:  os.Getenv("LOCAL_MODEL_URL"),
		LocalModelName: os.Getenv("LOCAL_MODEL_NAME"),
		ExtractURL:     os.Getenv("EXTRACT_SERVICE_URL"),

		TenantPolicy: tenant.Policy{
			RejectUnknown:    envBool("TENANT_REJECT_UNKNOWN", true),
			DefaultPartition: tenant.Partition(os.Getenv("TENANT_DEFAULT_PARTITION")),
		},

		ProcessWorkers: envInt("PROCESS_WORKERS", 5),
		ReaperInterval: envDuration("REAPER_INTERVAL", 2*time.Minute),
		StuckFor:       envDuration("REAPER_STUCK_FOR", 3*time.Minute),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
