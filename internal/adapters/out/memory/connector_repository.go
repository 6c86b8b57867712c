package memory

import (
	"context"
	"fmt"

	"pickingpacking/internal/core/domain/model/connector"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"
)

type connectorRepository struct {
	uow *UnitOfWork
}

// Add stores c. Connectors have no mutators, so the pointer is shared.
func (r *connectorRepository) Add(_ context.Context, c *connector.Connector) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return r.uow.writable(func(s *state) error {
		for _, other := range s.connectors {
			if other.ID().IsEqual(c.ID()) || other.Name() == c.Name() {
				return errs.NewValueIsInvalidErrorWithCause("connector", fmt.Errorf("connector %s already exists", c.Name()))
			}
		}
		s.connectors[c.ID()] = c
		return nil
	})
}

func (r *connectorRepository) Get(_ context.Context, id kernel.UUID) (*connector.Connector, error) {
	c, ok := r.uow.current().connectors[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("connector", id.String())
	}
	return c, nil
}

func (r *connectorRepository) FindByName(_ context.Context, name string) (*connector.Connector, error) {
	for _, c := range r.uow.current().connectors {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("connector", name)
}
