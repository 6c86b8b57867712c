// Package badger keeps the stamp sequence in an embedded Badger database so
// queue positions stay monotonic across restarts.
package badger

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

const (
	// DefaultKey is the key under which the sequence lease is stored.
	DefaultKey = "fulfillment/stamp-seq"

	leaseBandwidth = 1000
)

// SequenceSource implements kernel.SequenceSource on a badger.Sequence. Badger
// persists leases of leaseBandwidth numbers, so a restart skips at most the
// unused remainder of the last lease and never repeats a number.
type SequenceSource struct {
	mu     sync.Mutex
	db     *badger.DB
	seq    *badger.Sequence
	offset uint64
	owned  bool
}

// Open opens (or creates) the database at path and leases the sequence.
// floor is the highest sequence number already stored elsewhere; every number
// handed out is greater than it.
func Open(path string, floor uint64) (*SequenceSource, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}

	source, err := NewSequenceSource(db, DefaultKey, floor)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	source.owned = true
	return source, nil
}

// NewSequenceSource leases key from an already open database. The caller keeps
// ownership of db.
func NewSequenceSource(db *badger.DB, key string, floor uint64) (*SequenceSource, error) {
	seq, err := db.GetSequence([]byte(key), leaseBandwidth)
	if err != nil {
		return nil, fmt.Errorf("lease sequence %s: %w", key, err)
	}
	return &SequenceSource{db: db, seq: seq, offset: floor}, nil
}

// Next returns the next number. The first number of a fresh key is floor+1.
func (s *SequenceSource) Next() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return s.offset + n + 1, nil
}

// Close returns the unused part of the lease and, for sources created by Open,
// closes the database.
func (s *SequenceSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.seq.Release()
	if s.owned {
		if closeErr := s.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
