package historyrepo

import (
	"context"

	"pickingpacking/internal/adapters/out/postgres/pgerr"
	"pickingpacking/internal/core/domain/model/history"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormHistoryRepository implements HistoryRepository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) Add(ctx context.Context, entry *history.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return errs.NewObjectNotFoundErrorWithCause("order", entry.OrderID().String(), err)
		}
		return err
	}
	return nil
}

func (r *GormHistoryRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*history.Entry, error) {
	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, created_seq").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*history.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *GormHistoryRepository) MaxSeq(ctx context.Context) (int64, error) {
	var maxSeq int64
	err := r.db.WithContext(ctx).Model(&EntryDTO{}).
		Select("COALESCE(MAX(created_seq), 0)").
		Scan(&maxSeq).Error
	return maxSeq, err
}
