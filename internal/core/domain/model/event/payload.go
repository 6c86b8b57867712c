package event

import (
	"encoding/json"
	"fmt"

	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/pkg/errs"
)

// ErrInvalidPayload is returned when the opaque payload of an event cannot be
// interpreted for its type.
var ErrInvalidPayload = errs.NewValueIsInvalidError("payload")

// Payload is the interpreted form of a session assignment payload. Every field
// is optional; other event types ignore the payload.
type Payload struct {
	ResourceID  *kernel.UUID
	User        string
	CartSection *int
}

type wirePayload struct {
	ResourceID  string `json:"resourceId,omitempty"`
	User        string `json:"user,omitempty"`
	CartSection *int   `json:"cartSection,omitempty"`
}

// ParsePayload decodes the JSON object {"resourceId","user","cartSection"}.
// An empty payload decodes to the zero Payload.
//
// Example:
//
//	p, err := event.ParsePayload([]byte(`{"resourceId":"9b0c…","user":"alice"}`))
func ParsePayload(raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return Payload{}, nil
	}

	var w wirePayload
	if err := json.Unmarshal(raw, &w); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	p := Payload{User: w.User, CartSection: w.CartSection}
	if w.ResourceID != "" {
		id, err := kernel.UUIDFromString(w.ResourceID)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: resourceId: %w", ErrInvalidPayload, err)
		}
		p.ResourceID = &id
	}
	if p.CartSection != nil && *p.CartSection <= 0 {
		return Payload{}, fmt.Errorf("%w: cartSection %d is not greater than 0", ErrInvalidPayload, *p.CartSection)
	}
	return p, nil
}

// Encode renders the payload in the form ParsePayload reads.
func (p Payload) Encode() []byte {
	w := wirePayload{User: p.User, CartSection: p.CartSection}
	if p.ResourceID != nil {
		w.ResourceID = p.ResourceID.String()
	}
	raw, _ := json.Marshal(w)
	return raw
}
