package sessionrepo

import (
	"context"
	"errors"
	"fmt"

	"pickingpacking/internal/adapters/out/postgres/pgerr"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSessionRepository implements SessionRepository using GORM. The partial
// unique index on sessions(resource_id) for active statuses turns a second
// active session on one resource into a lease violation.
type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Add(ctx context.Context, s *session.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := fromDomain(s)
	return mapWriteError(r.db.WithContext(ctx).Create(&dto).Error, s)
}

func (r *GormSessionRepository) Update(ctx context.Context, s *session.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := fromDomain(s)
	result := r.db.WithContext(ctx).Model(&SessionDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"resource_id":     dto.ResourceID,
		"assigned_user":   dto.AssignedUser,
		"completed_steps": dto.CompletedSteps,
		"status":          dto.Status,
		"updated_at":      dto.UpdatedAt,
	})
	if err := mapWriteError(result.Error, s); err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("session", s.ID().String())
	}
	return nil
}

func (r *GormSessionRepository) Get(ctx context.Context, id kernel.UUID) (*session.Session, error) {
	var dto SessionDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("session", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormSessionRepository) ListActiveByOrder(ctx context.Context, orderID kernel.UUID) ([]*session.Session, error) {
	var dtos []SessionDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status IN ?", orderID.Bytes(), ActiveStatuses()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*session.Session, 0, len(dtos))
	for _, dto := range dtos {
		s, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// ActiveStatuses lists the stored values of the statuses that hold a resource.
func ActiveStatuses() []int {
	return []int{int(session.InProgress), int(session.Paused)}
}

func mapWriteError(err error, s *session.Session) error {
	if err == nil {
		return nil
	}
	if pgerr.IsUniqueViolation(err) && pgerr.Constraint(err) != "sessions_pkey" {
		return fmt.Errorf("%w: resource %s already has an active session", resource.ErrResourceLeaseViolation, s.ResourceID())
	}
	if pgerr.IsForeignKeyViolation(err) {
		return errs.NewObjectNotFoundErrorWithCause("session reference", pgerr.Constraint(err), err)
	}
	return err
}
