// Package services provides domain services that orchestrate business operations
// across several aggregates of the fulfillment model.
//
// The package includes:
//   - SessionAllocator: binds picking and packing sessions to orders and leases
//     pick carts and packing stations to them exclusively
//
// Domain services never persist anything. They mutate the aggregates they are
// given and the application layer saves them in one unit of work.
package services
