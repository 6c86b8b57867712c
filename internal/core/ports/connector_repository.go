package ports

import (
	"context"

	"pickingpacking/internal/core/domain/model/connector"
	"pickingpacking/internal/core/domain/model/kernel"
)

// ConnectorRepository gives read access to marketplace connectors. Add is used
// by the layout seed only.
type ConnectorRepository interface {
	Add(ctx context.Context, c *connector.Connector) error
	Get(ctx context.Context, id kernel.UUID) (*connector.Connector, error)
	FindByName(ctx context.Context, name string) (*connector.Connector, error)
}
