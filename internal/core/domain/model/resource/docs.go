// Package resource models the contended physical assets of the warehouse: pick
// carts used by picking sessions and packing stations used by packing sessions.
//
// A Resource carries an exclusive lease. Acquire is a check-and-set on the
// entity; the persistence layer makes it atomic across processes by updating
// the row only when its version is unchanged.
package resource
