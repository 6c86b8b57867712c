// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between the order with its lines and their database representations.
package orderrepo

import (
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Lines are stored in their own table and deleted together with the order.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ConnectorID      *uuid.UUID `gorm:"type:uuid;index:idx_orders_remote,priority:1"`
	RemoteID         string     `gorm:"type:varchar(255);not null;index:idx_orders_remote,priority:2"`
	ShippingInfo     string     `gorm:"type:text"`
	Status           int        `gorm:"type:smallint;not null;index"`
	PickingSessionID *uuid.UUID `gorm:"type:uuid"`
	PackingSessionID *uuid.UUID `gorm:"type:uuid"`
	CartSection      *int       `gorm:"type:int"`
	OnHold           bool       `gorm:"not null;default:false"`
	PackingPrepared  bool       `gorm:"not null;default:false"`
	Lines            []LineDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// LineDTO represents one order line. Position keeps the order in which the
// connector delivered the lines.
type LineDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"type:int;not null"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Location    int             `gorm:"type:int;not null"`
	Barcode     string          `gorm:"type:varchar(128)"`
	Status      int             `gorm:"type:smallint;not null"`
}

// TableName specifies the database table name for order lines.
func (LineDTO) TableName() string {
	return "order_lines"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()
	lines := make([]LineDTO, 0, len(o.Lines()))
	for i, l := range o.Lines() {
		lines = append(lines, LineDTO{
			ID:          l.ID().Bytes(),
			OrderID:     orderID,
			Position:    i,
			ProductName: l.ProductName(),
			Quantity:    l.Quantity(),
			Location:    l.Location(),
			Barcode:     l.Barcode(),
			Status:      int(l.Status()),
		})
	}

	var cartSection *int
	if s := o.CartSection(); s != nil {
		v := *s
		cartSection = &v
	}

	return OrderDTO{
		ID:               orderID,
		ConnectorID:      optionalBytes(o.ConnectorID()),
		RemoteID:         o.RemoteID(),
		ShippingInfo:     o.ShippingInfo(),
		Status:           int(o.Status()),
		PickingSessionID: optionalBytes(o.PickingSessionID()),
		PackingSessionID: optionalBytes(o.PackingSessionID()),
		CartSection:      cartSection,
		OnHold:           o.IsOnHold(),
		PackingPrepared:  o.IsPackingPrepared(),
		Lines:            lines,
	}
}

// toDomain converts a database DTO with its preloaded lines to an order
// aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	connectorID, err := optionalUUID(dto.ConnectorID)
	if err != nil {
		return nil, err
	}
	pickingID, err := optionalUUID(dto.PickingSessionID)
	if err != nil {
		return nil, err
	}
	packingID, err := optionalUUID(dto.PackingSessionID)
	if err != nil {
		return nil, err
	}

	lines := make([]*order.Line, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		l, lineErr := lineToDomain(lineDTO)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, l)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:               id,
		ConnectorID:      connectorID,
		RemoteID:         dto.RemoteID,
		ShippingInfo:     dto.ShippingInfo,
		Status:           order.Status(dto.Status),
		PickingSessionID: pickingID,
		PackingSessionID: packingID,
		CartSection:      dto.CartSection,
		OnHold:           dto.OnHold,
		PackingPrepared:  dto.PackingPrepared,
		Lines:            lines,
	})
}

func lineToDomain(dto LineDTO) (*order.Line, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return order.RestoreLine(id, dto.ProductName, dto.Quantity, dto.Location, dto.Barcode, order.LineStatus(dto.Status))
}

func optionalBytes(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
