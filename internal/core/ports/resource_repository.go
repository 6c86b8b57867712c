package ports

import (
	"context"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/resource"
)

// ResourceRepository defines the persistence contract for pick carts and
// packing stations.
type ResourceRepository interface {
	Add(ctx context.Context, r *resource.Resource) error

	// Update stores the lease and version of a resource only if the stored row
	// still carries r.LoadedVersion(). A concurrent change makes it fail with
	// resource.ErrResourceLeaseViolation.
	Update(ctx context.Context, r *resource.Resource) error

	// Get returns ObjectNotFoundError for unknown resources.
	Get(ctx context.Context, id kernel.UUID) (*resource.Resource, error)

	// ListByKind returns every resource of a kind ordered by name.
	ListByKind(ctx context.Context, kind resource.Kind) ([]*resource.Resource, error)

	// FindByName returns ObjectNotFoundError when no resource of the kind has
	// the name.
	FindByName(ctx context.Context, kind resource.Kind, name string) (*resource.Resource, error)
}
