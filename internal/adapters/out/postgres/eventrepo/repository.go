package eventrepo

import (
	"context"
	"errors"
	"fmt"

	"pickingpacking/internal/adapters/out/postgres/pgerr"
	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEventRepository implements EventRepository using GORM.
type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Add stores a pending event. The order must exist.
func (r *GormEventRepository) Add(ctx context.Context, e *event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	dto := fromDomain(e)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return errs.NewObjectNotFoundErrorWithCause("order", e.OrderID().String(), err)
		}
		return err
	}
	return nil
}

// Update writes the result of a consumed event. Only a pending row is touched,
// so an event cannot be consumed twice even by racing writers.
func (r *GormEventRepository) Update(ctx context.Context, e *event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	dto := fromDomain(e)
	db := r.db.WithContext(ctx)
	result := db.Model(&EventDTO{}).
		Where("id = ? AND processed_seq IS NULL", dto.ID).
		Updates(map[string]any{
			"result_code":   dto.ResultCode,
			"result_detail": dto.ResultDetail,
			"processed_at":  dto.ProcessedAt,
			"processed_seq": dto.ProcessedSeq,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&EventDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("event", e.ID().String())
	}
	return fmt.Errorf("%w: %s", event.ErrEventAlreadyProcessed, e.ID())
}

func (r *GormEventRepository) Get(ctx context.Context, id kernel.UUID) (*event.Event, error) {
	var dto EventDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("event", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// ListPending returns the pending events of an order ordered by descending
// priority, then creation time and sequence.
func (r *GormEventRepository) ListPending(ctx context.Context, orderID kernel.UUID) ([]*event.Event, error) {
	var dtos []EventDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND processed_seq IS NULL", orderID.Bytes()).
		Order("priority DESC, created_at, created_seq").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormEventRepository) GetLastProcessed(ctx context.Context, orderID kernel.UUID) (*event.Event, error) {
	var dto EventDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND processed_seq IS NOT NULL", orderID.Bytes()).
		Order("processed_at DESC, processed_seq DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("processed event of order", orderID.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// ListOrdersWithPending orders the result by the oldest pending event of each
// order.
func (r *GormEventRepository) ListOrdersWithPending(ctx context.Context) ([]kernel.UUID, error) {
	var rows []struct {
		OrderID uuid.UUID
	}
	err := r.db.WithContext(ctx).Model(&EventDTO{}).
		Select("order_id").
		Where("processed_seq IS NULL").
		Group("order_id").
		Order("MIN(created_at), MIN(created_seq)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(rows))
	for _, row := range rows {
		id, idErr := kernel.UUIDFromBytes(row.OrderID[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *GormEventRepository) MaxSeq(ctx context.Context) (int64, error) {
	var maxSeq int64
	err := r.db.WithContext(ctx).Model(&EventDTO{}).
		Select("COALESCE(MAX(GREATEST(created_seq, COALESCE(processed_seq, 0))), 0)").
		Scan(&maxSeq).Error
	return maxSeq, err
}

func toDomainList(dtos []EventDTO) ([]*event.Event, error) {
	events := make([]*event.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
