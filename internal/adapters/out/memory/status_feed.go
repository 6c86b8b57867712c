package memory

import (
	"context"
	"slices"
	"sync"

	"pickingpacking/internal/core/ports"
)

// StatusFeed records published status changes in memory. It stands in for the
// broker when none is configured.
type StatusFeed struct {
	mu      sync.Mutex
	changes []ports.StatusChange
}

func NewStatusFeed() *StatusFeed {
	return &StatusFeed{}
}

func (f *StatusFeed) Publish(_ context.Context, change ports.StatusChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, change)
	return nil
}

// Changes returns the published changes in publication order.
func (f *StatusFeed) Changes() []ports.StatusChange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.changes)
}
