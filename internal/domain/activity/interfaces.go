package activity

import "context"

// Repository records project lifecycle events for a tenant and lists them
// back newest first.
type Repository interface {
	Log(ctx context.Context, tenantID string, entry *ActivityEntry) error
	List(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error)
}
