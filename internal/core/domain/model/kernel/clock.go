package kernel

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pickingpacking/internal/pkg/errs"
)

// ErrStampIsNotConstructed is returned when validating a zero-value Stamp.
var ErrStampIsNotConstructed = errors.New("Stamp must be created via Clock.Next or RestoreStamp")

// stampResolution matches the precision postgres keeps for timestamptz, so a
// stamp survives a round trip through storage unchanged.
const stampResolution = time.Microsecond

// SequenceSource hands out strictly increasing sequence numbers. Implementations
// must be safe for concurrent use.
type SequenceSource interface {
	Next() (uint64, error)
}

// Stamp is the creation mark of events and history entries: a wall-clock time
// plus a sequence number that breaks ties in arrival order.
//
// Stamps produced by one Clock are totally ordered and the order of their times
// agrees with the order of their sequence numbers.
type Stamp struct {
	seq int64
	at  time.Time
}

// RestoreStamp rebuilds a stamp loaded from storage.
func RestoreStamp(seq int64, at time.Time) (Stamp, error) {
	if seq <= 0 {
		return Stamp{}, errs.NewValueIsInvalidErrorWithCause("seq", fmt.Errorf("%d is not greater than 0", seq))
	}
	if at.IsZero() {
		return Stamp{}, errs.NewValueIsRequiredError("at")
	}
	return Stamp{seq: seq, at: at.UTC()}, nil
}

// Seq returns the sequence number.
func (s Stamp) Seq() int64 {
	return s.seq
}

// At returns the creation time in UTC.
func (s Stamp) At() time.Time {
	return s.at
}

// Compare orders stamps by time, then by sequence number.
func (s Stamp) Compare(other Stamp) int {
	if c := s.at.Compare(other.at); c != 0 {
		return c
	}
	switch {
	case s.seq < other.seq:
		return -1
	case s.seq > other.seq:
		return 1
	default:
		return 0
	}
}

// Validate rejects zero-value stamps.
func (s Stamp) Validate() error {
	if s.seq <= 0 || s.at.IsZero() {
		return ErrStampIsNotConstructed
	}
	return nil
}

// Clock issues Stamps whose times never go backwards, even if the wall clock
// does. When two calls observe the same instant, the later one is pushed forward
// by the storage resolution.
//
// Example:
//
//	clock := kernel.NewClock(kernel.NewAtomicSequence(0))
//	stamp, err := clock.Next()
//	if err != nil {
//	    return err
//	}
//	evt, err := event.NewEvent(kernel.NewUUID(), orderID, event.Cancel, 10, nil, stamp)
type Clock struct {
	mu   sync.Mutex
	seq  SequenceSource
	now  func() time.Time
	last time.Time
}

// ClockOption customises a Clock.
type ClockOption func(*Clock)

// WithNow replaces the wall-clock source, typically with a fixed or stepping
// time in tests.
func WithNow(now func() time.Time) ClockOption {
	return func(c *Clock) {
		c.now = now
	}
}

// NewClock creates a clock drawing sequence numbers from seq.
func NewClock(seq SequenceSource, opts ...ClockOption) *Clock {
	c := &Clock{seq: seq, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Next returns a stamp strictly after every stamp previously returned.
func (c *Clock) Next() (Stamp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.seq.Next()
	if err != nil {
		return Stamp{}, fmt.Errorf("next sequence: %w", err)
	}

	at := c.now().UTC().Truncate(stampResolution)
	if !at.After(c.last) {
		at = c.last.Add(stampResolution)
	}
	c.last = at

	return Stamp{seq: int64(n), at: at}, nil
}

// AtomicSequence is an in-process SequenceSource.
type AtomicSequence struct {
	v atomic.Uint64
}

// NewAtomicSequence returns a source whose first value is start+1.
func NewAtomicSequence(start uint64) *AtomicSequence {
	s := &AtomicSequence{}
	s.v.Store(start)
	return s
}

// Next never fails.
func (s *AtomicSequence) Next() (uint64, error) {
	return s.v.Add(1), nil
}
