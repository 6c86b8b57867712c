// Package order provides the Order aggregate root of the fulfillment model.
//
// The package includes:
//   - Order: identity, shipping data, session references, hold flag and lines
//   - Status: the order state machine (NEW_ORDER through SHIPPED or CANCELED)
//   - Line and LineStatus: the per-line state machine (NEW_ORDER, PICKED, PACKED)
//
// Key business rules:
//   - A picking session can only be assigned to an order with at least one line
//   - PICKING_COMPLETED and SHIPPED are derived from the line statuses after
//     every step and never set directly
//   - Lines move strictly forward; any other update fails with
//     ErrOutOfSequenceLineUpdate and leaves the line unchanged
//   - HOLD and CONTINUE toggle a suppression flag, the status is untouched
//   - SHIPPED and CANCELED are terminal: every further transition fails with
//     ErrInvalidTransition
package order
