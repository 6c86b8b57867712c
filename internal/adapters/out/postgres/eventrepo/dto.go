// Package eventrepo persists order events. Pending events are rows whose
// processed stamp is still NULL.
package eventrepo

import (
	"time"

	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EventDTO is the row of the events table. The stamps are split into their
// time and sequence columns so the queue order can be expressed in SQL.
type EventDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_events_pending,priority:1"`
	Type         int        `gorm:"type:smallint;not null"`
	Priority     int        `gorm:"type:int;not null"`
	Payload      []byte     `gorm:"type:bytea"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null"`
	CreatedSeq   int64      `gorm:"not null"`
	ResultCode   *int       `gorm:"type:smallint"`
	ResultDetail string     `gorm:"type:text"`
	ProcessedAt  *time.Time `gorm:"type:timestamptz"`
	ProcessedSeq *int64     `gorm:"index:idx_events_pending,priority:2"`
}

func (EventDTO) TableName() string {
	return "events"
}

func fromDomain(e *event.Event) EventDTO {
	dto := EventDTO{
		ID:         e.ID().Bytes(),
		OrderID:    e.OrderID().Bytes(),
		Type:       int(e.Type()),
		Priority:   e.Priority(),
		Payload:    e.Payload(),
		CreatedAt:  e.Created().At(),
		CreatedSeq: e.Created().Seq(),
	}
	if r := e.Result(); r != nil {
		code := int(r.Code)
		dto.ResultCode = &code
		dto.ResultDetail = r.Detail
	}
	if p := e.Processed(); p != nil {
		at, seq := p.At(), p.Seq()
		dto.ProcessedAt = &at
		dto.ProcessedSeq = &seq
	}
	return dto
}

func toDomain(dto EventDTO) (*event.Event, error) {
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

	snapshot := event.Snapshot{
		ID:       id,
		OrderID:  orderID,
		Type:     event.Type(dto.Type),
		Priority: dto.Priority,
		Payload:  dto.Payload,
		Created:  created,
	}
	if dto.ResultCode != nil {
		snapshot.Result = &event.Result{Code: event.ResultCode(*dto.ResultCode), Detail: dto.ResultDetail}
	}
	if dto.ProcessedAt != nil && dto.ProcessedSeq != nil {
		processed, stampErr := kernel.RestoreStamp(*dto.ProcessedSeq, *dto.ProcessedAt)
		if stampErr != nil {
			return nil, stampErr
		}
		snapshot.Processed = &processed
	}
	return event.RestoreEvent(snapshot)
}
