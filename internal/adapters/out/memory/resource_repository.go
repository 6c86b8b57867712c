package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/pkg/errs"
)

type resourceRepository struct {
	uow *UnitOfWork
}

func (r *resourceRepository) Add(_ context.Context, res *resource.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}
	return r.uow.writable(func(s *state) error {
		for _, other := range s.resources {
			if other.ID().IsEqual(res.ID()) || (other.Kind() == res.Kind() && other.Name() == res.Name()) {
				return errs.NewValueIsInvalidErrorWithCause("resource",
					fmt.Errorf("%s %s already exists", res.Kind(), res.Name()))
			}
		}
		s.resources[res.ID()] = rebase(res)
		return nil
	})
}

// Update compares the stored version with the version res was loaded with.
func (r *resourceRepository) Update(_ context.Context, res *resource.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}
	return r.uow.writable(func(s *state) error {
		stored, ok := s.resources[res.ID()]
		if !ok {
			return errs.NewObjectNotFoundError("resource", res.ID().String())
		}
		if stored.Version() != res.LoadedVersion() {
			return fmt.Errorf("%w: %s changed concurrently (version %d, loaded %d)",
				resource.ErrResourceLeaseViolation, res.Name(), stored.Version(), res.LoadedVersion())
		}
		s.resources[res.ID()] = rebase(res)
		return nil
	})
}

func (r *resourceRepository) Get(_ context.Context, id kernel.UUID) (*resource.Resource, error) {
	res, ok := r.uow.current().resources[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("resource", id.String())
	}
	return rebase(res), nil
}

func (r *resourceRepository) ListByKind(_ context.Context, kind resource.Kind) ([]*resource.Resource, error) {
	var list []*resource.Resource
	for _, res := range r.uow.current().resources {
		if res.Kind() == kind {
			list = append(list, rebase(res))
		}
	}
	slices.SortFunc(list, func(a, b *resource.Resource) int {
		if c := strings.Compare(a.Name(), b.Name()); c != 0 {
			return c
		}
		return a.ID().Compare(b.ID())
	})
	return list, nil
}

func (r *resourceRepository) FindByName(_ context.Context, kind resource.Kind, name string) (*resource.Resource, error) {
	for _, res := range r.uow.current().resources {
		if res.Kind() == kind && res.Name() == name {
			return rebase(res), nil
		}
	}
	return nil, errs.NewObjectNotFoundError(kind.String(), name)
}
