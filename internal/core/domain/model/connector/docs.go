// Package connector describes the marketplace connectors orders are ingested
// from. Connectors are read-only for the fulfillment core.
package connector
