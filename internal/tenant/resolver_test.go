package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/utils"
)

type fakeLookup struct {
	tenants map[string]*models.Tenant
}

func (f *fakeLookup) ActiveBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	if t, ok := f.tenants[subdomain]; ok {
		return t, nil
	}
	return nil, utils.E(utils.CodeNotFound, "fakeLookup", "tenant not found", nil)
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{tenants: map[string]*models.Tenant{
		"acme": {ID: "t1", Subdomain: "acme", SchemaName: "tenant_acme", Status: models.TenantStatusActive},
	}}
}

func TestResolveActiveTenant(t *testing.T) {
	r := NewResolver(newFakeLookup(), Policy{RejectUnknown: true})

	p, err := r.Resolve(context.Background(), "acme.talentbase.io")
	require.NoError(t, err)
	assert.Equal(t, Partition("tenant_acme"), p)
}

func TestResolveStripsPort(t *testing.T) {
	r := NewResolver(newFakeLookup(), Policy{RejectUnknown: true})

	p, err := r.Resolve(context.Background(), "acme.talentbase.io:8080")
	require.NoError(t, err)
	assert.Equal(t, Partition("tenant_acme"), p)
}

func TestResolveReservedSubdomain(t *testing.T) {
	r := NewResolver(newFakeLookup(), Policy{RejectUnknown: true})

	p, err := r.Resolve(context.Background(), "all.talentbase.io")
	require.NoError(t, err)
	assert.Equal(t, SharedPartition, p)
}

func TestResolveUnknownRejected(t *testing.T) {
	r := NewResolver(newFakeLookup(), Policy{RejectUnknown: true})

	_, err := r.Resolve(context.Background(), "ghost.talentbase.io")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestResolveUnknownFallsBackToDefault(t *testing.T) {
	r := NewResolver(newFakeLookup(), Policy{RejectUnknown: false, DefaultPartition: "tenant_dev"})

	p, err := r.Resolve(context.Background(), "ghost.talentbase.io")
	require.NoError(t, err)
	assert.Equal(t, Partition("tenant_dev"), p)
}

func TestResolveBareHostRejected(t *testing.T) {
	r := NewResolver(newFakeLookup(), Policy{RejectUnknown: true})

	_, err := r.Resolve(context.Background(), "talentbase.io")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestSubdomain(t *testing.T) {
	assert.Equal(t, "acme", Subdomain("acme.talentbase.io"))
	assert.Equal(t, "acme", Subdomain("ACME.talentbase.io:3000"))
	assert.Equal(t, "acme", Subdomain("acme.localhost"))
	assert.Equal(t, "", Subdomain("talentbase.io"))
	assert.Equal(t, "", Subdomain("localhost:8080"))
	assert.Equal(t, "", Subdomain(""))
}
