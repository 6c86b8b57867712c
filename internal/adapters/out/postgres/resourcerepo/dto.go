// Package resourcerepo persists pick carts and packing stations together with
// their lease holder and optimistic-lock version.
package resourcerepo

import (
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/resource"

	"github.com/google/uuid"
)

// ResourceDTO is one row of the resources table. Names are unique per kind.
type ResourceDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Kind          int        `gorm:"type:smallint;not null;uniqueIndex:idx_resources_kind_name,priority:1"`
	Name          string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_resources_kind_name,priority:2"`
	TotalSections int        `gorm:"type:int;not null;default:0"`
	LeasedBy      *uuid.UUID `gorm:"type:uuid"`
	Version       int64      `gorm:"not null;default:0"`
}

func (ResourceDTO) TableName() string {
	return "resources"
}

func fromDomain(r *resource.Resource) ResourceDTO {
	dto := ResourceDTO{
		ID:            r.ID().Bytes(),
		Kind:          int(r.Kind()),
		Name:          r.Name(),
		TotalSections: r.TotalSections(),
		Version:       r.Version(),
	}
	if holder := r.LeasedBy(); holder != nil {
		raw := holder.Bytes()
		dto.LeasedBy = &raw
	}
	return dto
}

func toDomain(dto ResourceDTO) (*resource.Resource, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var leasedBy *kernel.UUID
	if dto.LeasedBy != nil {
		holder, holderErr := kernel.UUIDFromBytes(dto.LeasedBy[:])
		if holderErr != nil {
			return nil, holderErr
		}
		leasedBy = &holder
	}

	return resource.RestoreResource(id, resource.Kind(dto.Kind), dto.Name, dto.TotalSections, leasedBy, dto.Version)
}
