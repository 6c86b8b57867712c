// Package layout seeds the warehouse floor (marketplace connectors, pick
// carts and packing stations) from a YAML file.
package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"pickingpacking/internal/core/domain/model/connector"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/ports"
	"pickingpacking/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

// Layout is the decoded layout file.
//
// Example file:
//
//	connectors:
//	  - name: amazon-eu
//	carts:
//	  - name: cart-01
//	    sections: 4
//	stations:
//	  - name: pack-01
type Layout struct {
	Connectors []Connector `yaml:"connectors"`
	Carts      []Cart      `yaml:"carts"`
	Stations   []Station   `yaml:"stations"`
}

type Connector struct {
	Name string `yaml:"name"`
}

// Cart is a pick cart with Sections numbered 1..Sections.
type Cart struct {
	Name     string `yaml:"name"`
	Sections int    `yaml:"sections"`
}

type Station struct {
	Name string `yaml:"name"`
}

// Summary counts what Apply created. Entries that already existed by name
// are counted as skipped.
type Summary struct {
	Created int
	Skipped int
}

// Decode parses a layout and rejects unknown fields.
func Decode(r io.Reader) (Layout, error) {
	var l Layout
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	return l, nil
}

// LoadFile reads and parses the layout file at path.
func LoadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Seeder writes a Layout through the repositories.
type Seeder struct {
	uowFactory ports.UnitOfWorkFactory
	logger     *slog.Logger
}

func NewSeeder(uowFactory ports.UnitOfWorkFactory, logger *slog.Logger) Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return Seeder{uowFactory: uowFactory, logger: logger}
}

// Apply creates every connector, cart and station whose name is not taken yet
// in one transaction. Running it twice with the same layout creates nothing
// the second time.
func (s Seeder) Apply(ctx context.Context, l Layout) (Summary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return Summary{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var sum Summary
	for _, c := range l.Connectors {
		created, err := s.connector(ctx, uow.ConnectorRepository(), c)
		if err != nil {
			return Summary{}, err
		}
		sum.count(created)
	}
	for _, c := range l.Carts {
		created, err := s.resource(ctx, uow.ResourceRepository(), resource.PickCart, c.Name, func() (*resource.Resource, error) {
			return resource.NewPickCart(kernel.NewUUID(), c.Name, c.Sections)
		})
		if err != nil {
			return Summary{}, err
		}
		sum.count(created)
	}
	for _, st := range l.Stations {
		created, err := s.resource(ctx, uow.ResourceRepository(), resource.PackingStation, st.Name, func() (*resource.Resource, error) {
			return resource.NewPackingStation(kernel.NewUUID(), st.Name)
		})
		if err != nil {
			return Summary{}, err
		}
		sum.count(created)
	}

	if err := uow.Commit(ctx); err != nil {
		return Summary{}, err
	}
	s.logger.InfoContext(ctx, "layout seeded", "created", sum.Created, "skipped", sum.Skipped)
	return sum, nil
}

func (s Seeder) connector(ctx context.Context, repo ports.ConnectorRepository, c Connector) (bool, error) {
	_, err := repo.FindByName(ctx, c.Name)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return false, err
	}

	created, err := connector.NewConnector(kernel.NewUUID(), c.Name)
	if err != nil {
		return false, fmt.Errorf("connector %q: %w", c.Name, err)
	}
	return true, repo.Add(ctx, created)
}

func (s Seeder) resource(
	ctx context.Context,
	repo ports.ResourceRepository,
	kind resource.Kind,
	name string,
	build func() (*resource.Resource, error),
) (bool, error) {
	_, err := repo.FindByName(ctx, kind, name)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return false, err
	}

	r, err := build()
	if err != nil {
		return false, fmt.Errorf("%s %q: %w", kind, name, err)
	}
	return true, repo.Add(ctx, r)
}

func (s *Summary) count(created bool) {
	if created {
		s.Created++
	} else {
		s.Skipped++
	}
}
