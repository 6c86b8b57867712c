package memory

import (
	"context"
	"fmt"
	"slices"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/pkg/errs"
)

type sessionRepository struct {
	uow *UnitOfWork
}

func (r *sessionRepository) Add(_ context.Context, sess *session.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	return r.uow.writable(func(s *state) error {
		if _, ok := s.sessions[sess.ID()]; ok {
			return errs.NewValueIsInvalidErrorWithCause("session", fmt.Errorf("session %s already exists", sess.ID()))
		}
		if err := checkSingleActive(s, sess); err != nil {
			return err
		}
		s.sessions[sess.ID()] = sess.Clone()
		return nil
	})
}

func (r *sessionRepository) Update(_ context.Context, sess *session.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	return r.uow.writable(func(s *state) error {
		if _, ok := s.sessions[sess.ID()]; !ok {
			return errs.NewObjectNotFoundError("session", sess.ID().String())
		}
		if err := checkSingleActive(s, sess); err != nil {
			return err
		}
		s.sessions[sess.ID()] = sess.Clone()
		return nil
	})
}

func (r *sessionRepository) Get(_ context.Context, id kernel.UUID) (*session.Session, error) {
	sess, ok := r.uow.current().sessions[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("session", id.String())
	}
	return sess.Clone(), nil
}

func (r *sessionRepository) ListActiveByOrder(_ context.Context, orderID kernel.UUID) ([]*session.Session, error) {
	var active []*session.Session
	for _, sess := range r.uow.current().sessions {
		if sess.OrderID().IsEqual(orderID) && sess.IsActive() {
			active = append(active, sess.Clone())
		}
	}
	slices.SortFunc(active, func(a, b *session.Session) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return a.ID().Compare(b.ID())
	})
	return active, nil
}

// checkSingleActive mirrors the partial unique index of the postgres schema.
func checkSingleActive(s *state, sess *session.Session) error {
	if !sess.IsActive() || sess.ResourceID() == nil {
		return nil
	}
	for _, other := range s.sessions {
		if other.ID().IsEqual(sess.ID()) || !other.IsActive() || other.ResourceID() == nil {
			continue
		}
		if other.ResourceID().IsEqual(*sess.ResourceID()) {
			return fmt.Errorf("%w: resource %s already has active session %s",
				resource.ErrResourceLeaseViolation, sess.ResourceID(), other.ID())
		}
	}
	return nil
}
