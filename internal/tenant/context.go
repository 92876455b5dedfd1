package tenant

import "context"

// Partition is the schema name of one tenant's isolated data space. It rides
// in the context for the duration of a unit of work; nothing global.
type Partition string

// SharedPartition holds tenants, users, and administrative reads. Resume
// processing never runs against it.
const SharedPartition Partition = "public"

// ReservedSubdomain routes to the shared partition for cross-tenant admin reads.
const ReservedSubdomain = "all"

type ctxKey struct{}

func WithPartition(ctx context.Context, p Partition) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Partition, bool) {
	p, ok := ctx.Value(ctxKey{}).(Partition)
	if !ok || p == "" {
		return "", false
	}
	return p, true
}
