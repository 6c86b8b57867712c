// Package event models the prioritized operational events submitted against an
// order and the queue that orders them for the fulfillment controller.
//
// Queue order is descending priority, then ascending creation time, then the
// creation sequence number, so equal priorities are served in arrival order.
// Eligibility depends on the order: HOLD suppresses everything but CONTINUE and
// packing events wait until picking has completed.
package event
