package http

import (
	"encoding/json"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Created defines model for Created.
type Created struct {
	Id openapi_types.UUID `json:"id"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	ConnectorId  *openapi_types.UUID `json:"connectorId,omitempty"`
	RemoteId     string              `json:"remoteId"`
	ShippingInfo *string             `json:"shippingInfo,omitempty"`
	Lines        []NewLine           `json:"lines"`
}

// NewLine defines model for NewLine.
type NewLine struct {
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Location    int             `json:"location"`
	Barcode     *string         `json:"barcode,omitempty"`
}

// NewEvent defines model for NewEvent. Payload is kept verbatim; it is only
// interpreted when the event is applied.
type NewEvent struct {
	Type     string          `json:"type"`
	Priority *int            `json:"priority,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// NewSession defines model for NewSession.
type NewSession struct {
	Kind        string              `json:"kind"`
	ResourceId  *openapi_types.UUID `json:"resourceId,omitempty"`
	User        string              `json:"user"`
	CartSection *int                `json:"cartSection,omitempty"`
}

// Step defines model for Step.
type Step struct {
	LineId openapi_types.UUID `json:"lineId"`
}

// HandOff defines model for HandOff.
type HandOff struct {
	User string `json:"user"`
}

// Line defines model for Line.
type Line struct {
	Id          openapi_types.UUID `json:"id"`
	ProductName string             `json:"productName"`
	Quantity    string             `json:"quantity"`
	Location    int                `json:"location"`
	Barcode     string             `json:"barcode,omitempty"`
	Status      string             `json:"status"`
}

// EventResult defines model for EventResult.
type EventResult struct {
	Id          openapi_types.UUID `json:"id"`
	Type        string             `json:"type"`
	Priority    int                `json:"priority"`
	Result      string             `json:"result"`
	Detail      string             `json:"detail,omitempty"`
	ProcessedAt time.Time          `json:"processedAt"`
}

// OrderStatus defines model for OrderStatus.
type OrderStatus struct {
	Id               openapi_types.UUID  `json:"id"`
	ConnectorId      *openapi_types.UUID `json:"connectorId,omitempty"`
	RemoteId         string              `json:"remoteId"`
	ShippingInfo     string              `json:"shippingInfo,omitempty"`
	Status           string              `json:"status"`
	OnHold           bool                `json:"onHold"`
	PackingPrepared  bool                `json:"packingPrepared"`
	PickingSessionId *openapi_types.UUID `json:"pickingSessionId,omitempty"`
	PackingSessionId *openapi_types.UUID `json:"packingSessionId,omitempty"`
	CartSection      *int                `json:"cartSection,omitempty"`
	PendingEvents    int                 `json:"pendingEvents"`
	Lines            []Line              `json:"lines"`
	LastEvent        *EventResult        `json:"lastEvent,omitempty"`
}

// HistoryEntry defines model for HistoryEntry.
type HistoryEntry struct {
	Id           openapi_types.UUID  `json:"id"`
	Seq          int64               `json:"seq"`
	CreatedAt    time.Time           `json:"createdAt"`
	Description  string              `json:"description"`
	StatusBefore string              `json:"statusBefore"`
	StatusAfter  string              `json:"statusAfter"`
	EventId      *openapi_types.UUID `json:"eventId,omitempty"`
}

// ConnectorStatus defines model for ConnectorStatus.
type ConnectorStatus struct {
	Id      openapi_types.UUID `json:"id"`
	Name    string             `json:"name"`
	Status  string             `json:"status"`
	Command string             `json:"command"`
}
