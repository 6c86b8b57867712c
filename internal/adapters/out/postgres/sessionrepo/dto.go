// Package sessionrepo persists picking and packing sessions in one table with
// a kind discriminator.
package sessionrepo

import (
	"time"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/session"

	"github.com/google/uuid"
)

// SessionDTO is one row of the sessions table. The operator currently working
// the session is stored as assigned_user since current_user is reserved.
type SessionDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Kind           int        `gorm:"type:smallint;not null"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ResourceID     *uuid.UUID `gorm:"type:uuid"`
	CreatedBy      string     `gorm:"type:varchar(255);not null"`
	AssignedUser   string     `gorm:"column:assigned_user;type:varchar(255);not null"`
	TotalSteps     int        `gorm:"type:int;not null"`
	CompletedSteps int        `gorm:"type:int;not null"`
	Status         int        `gorm:"type:smallint;not null"`
	CreatedAt      time.Time  `gorm:"type:timestamptz;not null"`
	UpdatedAt      time.Time  `gorm:"type:timestamptz;not null"`
}

func (SessionDTO) TableName() string {
	return "sessions"
}

func fromDomain(s *session.Session) SessionDTO {
	dto := SessionDTO{
		ID:             s.ID().Bytes(),
		Kind:           int(s.Kind()),
		OrderID:        s.OrderID().Bytes(),
		CreatedBy:      s.CreatedBy(),
		AssignedUser:   s.CurrentUser(),
		TotalSteps:     s.TotalSteps(),
		CompletedSteps: s.CompletedSteps(),
		Status:         int(s.Status()),
		CreatedAt:      s.CreatedAt(),
		UpdatedAt:      s.UpdatedAt(),
	}
	if id := s.ResourceID(); id != nil {
		raw := id.Bytes()
		dto.ResourceID = &raw
	}
	return dto
}

func toDomain(dto SessionDTO) (*session.Session, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var resourceID *kernel.UUID
	if dto.ResourceID != nil {
		rid, ridErr := kernel.UUIDFromBytes(dto.ResourceID[:])
		if ridErr != nil {
			return nil, ridErr
		}
		resourceID = &rid
	}

	return session.RestoreSession(session.Snapshot{
		ID:             id,
		Kind:           session.Kind(dto.Kind),
		OrderID:        orderID,
		ResourceID:     resourceID,
		CreatedBy:      dto.CreatedBy,
		CurrentUser:    dto.AssignedUser,
		TotalSteps:     dto.TotalSteps,
		CompletedSteps: dto.CompletedSteps,
		Status:         session.Status(dto.Status),
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	})
}
