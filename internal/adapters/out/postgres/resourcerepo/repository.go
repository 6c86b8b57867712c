package resourcerepo

import (
	"context"
	"errors"
	"fmt"

	"pickingpacking/internal/adapters/out/postgres/pgerr"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormResourceRepository implements ResourceRepository using GORM.
type GormResourceRepository struct {
	db *gorm.DB
}

func NewGormResourceRepository(db *gorm.DB) *GormResourceRepository {
	return &GormResourceRepository{db: db}
}

func (r *GormResourceRepository) Add(ctx context.Context, res *resource.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}

	dto := fromDomain(res)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewValueIsInvalidErrorWithCause("resource",
				fmt.Errorf("%s %s already exists: %w", res.Kind(), res.Name(), err))
		}
		return err
	}
	return nil
}

// Update is a compare-and-set on the version the resource was loaded with.
// Zero affected rows on an existing resource means another transaction changed
// the lease first.
func (r *GormResourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}

	dto := fromDomain(res)
	db := r.db.WithContext(ctx)
	result := db.Model(&ResourceDTO{}).
		Where("id = ? AND version = ?", dto.ID, res.LoadedVersion()).
		Updates(map[string]any{
			"leased_by": dto.LeasedBy,
			"version":   dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var stored ResourceDTO
	if err := db.Select("version").First(&stored, "id = ?", dto.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("resource", res.ID().String())
		}
		return err
	}
	return fmt.Errorf("%w: %s changed concurrently (version %d, loaded %d)",
		resource.ErrResourceLeaseViolation, res.Name(), stored.Version, res.LoadedVersion())
}

func (r *GormResourceRepository) Get(ctx context.Context, id kernel.UUID) (*resource.Resource, error) {
	var dto ResourceDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("resource", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormResourceRepository) ListByKind(ctx context.Context, kind resource.Kind) ([]*resource.Resource, error) {
	var dtos []ResourceDTO
	err := r.db.WithContext(ctx).Where("kind = ?", int(kind)).Order("name, id").Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	list := make([]*resource.Resource, 0, len(dtos))
	for _, dto := range dtos {
		res, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		list = append(list, res)
	}
	return list, nil
}

func (r *GormResourceRepository) FindByName(ctx context.Context, kind resource.Kind, name string) (*resource.Resource, error) {
	var dto ResourceDTO
	err := r.db.WithContext(ctx).First(&dto, "kind = ? AND name = ?", int(kind), name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(kind.String(), name)
		}
		return nil, err
	}
	return toDomain(dto)
}
