// Package session models picking and packing sessions: the unit of work an
// operator performs for one order on one leased pick cart or packing station.
//
// Sessions in IN_PROGRESS or PAUSED are active and hold their resource;
// COMPLETED and CANCELED sessions hold nothing.
package session
