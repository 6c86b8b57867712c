// Package historyrepo persists the append-only processing history of orders.
package historyrepo

import (
	"time"

	"pickingpacking/internal/core/domain/model/history"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// EntryDTO is one row of order_history. EventID is NULL for direct session
// operations and ingestion.
type EntryDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null"`
	CreatedSeq   int64      `gorm:"not null"`
	Description  string     `gorm:"type:text;not null"`
	StatusBefore int        `gorm:"type:smallint;not null"`
	StatusAfter  int        `gorm:"type:smallint;not null"`
	EventID      *uuid.UUID `gorm:"type:uuid"`
}

func (EntryDTO) TableName() string {
	return "order_history"
}

func fromDomain(e *history.Entry) EntryDTO {
	dto := EntryDTO{
		ID:           e.ID().Bytes(),
		OrderID:      e.OrderID().Bytes(),
		CreatedAt:    e.Created().At(),
		CreatedSeq:   e.Created().Seq(),
		Description:  e.Description(),
		StatusBefore: int(e.StatusBefore()),
		StatusAfter:  int(e.StatusAfter()),
	}
	if id := e.EventID(); id != nil {
		raw := id.Bytes()
		dto.EventID = &raw
	}
	return dto
}

func toDomain(dto EntryDTO) (*history.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	created, err := kernel.RestoreStamp(dto.CreatedSeq, dto.CreatedAt)
	if err != nil {
		return nil, err
	}

	var eventID *kernel.UUID
	if dto.EventID != nil {
		evt, evtErr := kernel.UUIDFromBytes(dto.EventID[:])
		if evtErr != nil {
			return nil, evtErr
		}
		eventID = &evt
	}

	return history.RestoreEntry(id, orderID, created, dto.Description,
		order.Status(dto.StatusBefore), order.Status(dto.StatusAfter), eventID)
}
