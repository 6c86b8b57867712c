// Package kernel holds the primitives shared by every aggregate of the
// fulfillment model.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Stamp and Clock: creation time plus sequence number, issued monotonically,
//     used to order events and history entries
//   - SequenceSource: the pluggable counter behind Clock (in-process or durable)
package kernel
