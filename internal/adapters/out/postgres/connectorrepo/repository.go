package connectorrepo

import (
	"context"
	"errors"
	"fmt"

	"pickingpacking/internal/adapters/out/postgres/pgerr"
	"pickingpacking/internal/core/domain/model/connector"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormConnectorRepository implements ConnectorRepository using GORM.
type GormConnectorRepository struct {
	db *gorm.DB
}

func NewGormConnectorRepository(db *gorm.DB) *GormConnectorRepository {
	return &GormConnectorRepository{db: db}
}

func (r *GormConnectorRepository) Add(ctx context.Context, c *connector.Connector) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewValueIsInvalidErrorWithCause("connector", fmt.Errorf("connector %s already exists: %w", c.Name(), err))
		}
		return err
	}
	return nil
}

func (r *GormConnectorRepository) Get(ctx context.Context, id kernel.UUID) (*connector.Connector, error) {
	return r.first(ctx, id.String(), "id = ?", id.Bytes())
}

func (r *GormConnectorRepository) FindByName(ctx context.Context, name string) (*connector.Connector, error) {
	return r.first(ctx, name, "name = ?", name)
}

func (r *GormConnectorRepository) first(ctx context.Context, key string, query string, arg any) (*connector.Connector, error) {
	var dto ConnectorDTO
	if err := r.db.WithContext(ctx).First(&dto, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("connector", key)
		}
		return nil, err
	}
	return toDomain(dto)
}
