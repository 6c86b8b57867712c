// Package queries contains read operations of the fulfillment core. Queries use
// repositories outside a transaction and return flat response structs.
package queries
