// Package history holds the append-only audit trail of order transitions.
package history
