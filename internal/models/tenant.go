package models

import "time"

const (
	TenantStatusActive   = "active"
	TenantStatusInactive = "inactive"
	TenantStatusPending  = "pending"
)

// Tenant lives in the shared (public) partition; every other model lives in
// the tenant's own schema and carries no tenant column.
type Tenant struct {
	ID         string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name       string `gorm:"column:name;type:text;uniqueIndex" json:"name"`
	Subdomain  string `gorm:"column:subdomain;type:text;uniqueIndex" json:"subdomain"`
	SchemaName string `gorm:"column:schema_name;type:text;uniqueIndex" json:"schema_name"`
	Status     string `gorm:"column:status;type:text;default:pending" json:"status"` // active|inactive|pending

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Tenant) TableName() string { return "public.tenants" }

func (t *Tenant) Active() bool { return t.Status == TenantStatusActive }
