package tenant

import (
	"context"
	"strings"

	"github.com/talentbase/resumeflow/internal/models"
	"github.com/talentbase/resumeflow/internal/utils"
)

// Lookup is the shape of the active-tenant query the resolver depends on.
// The full tenant store lives in internal/repositories/postgres.
type Lookup interface {
	ActiveBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
}

// Policy decides what happens when no active tenant matches the host.
// RejectUnknown is the production posture; a DefaultPartition fallback is a
// development convenience. The choice is explicit, never silent.
type Policy struct {
	RejectUnknown    bool
	DefaultPartition Partition
}

type Resolver struct {
	tenants Lookup
	policy  Policy
}

func NewResolver(tenants Lookup, policy Policy) *Resolver {
	return &Resolver{tenants: tenants, policy: policy}
}

// Resolve maps a request host to a partition. The leading dot-label of the
// host (port stripped) is the candidate subdomain; the reserved token maps to
// the shared partition.
func (r *Resolver) Resolve(ctx context.Context, host string) (Partition, error) {
	const op = "tenant.Resolver.Resolve"

	sub := Subdomain(host)
	if sub == ReservedSubdomain {
		return SharedPartition, nil
	}

	if sub != "" {
		t, err := r.tenants.ActiveBySubdomain(ctx, sub)
		if err == nil {
			return Partition(t.SchemaName), nil
		}
		if !utils.IsCode(err, utils.CodeNotFound) {
			return "", utils.E(utils.CodeInternal, op, "tenant lookup failed", err)
		}
	}

	if r.policy.RejectUnknown || r.policy.DefaultPartition == "" {
		return "", utils.E(utils.CodeForbidden, op, "no active tenant for host "+host, nil)
	}
	return r.policy.DefaultPartition, nil
}

// Subdomain extracts the candidate subdomain token from a host header.
// Returns "" when the host has no subdomain part.
func Subdomain(host string) string {
	if host == "" {
		return ""
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	parts := strings.Split(host, ".")
	if len(parts) > 2 || (len(parts) == 2 && parts[len(parts)-1] == "localhost") {
		return strings.ToLower(parts[0])
	}
	return ""
}
