package event

import (
	"slices"

	"pickingpacking/internal/core/domain/model/order"
)

// Queue holds pending events in processing order. It is a value built per unit
// of work from the events a repository returns; it never touches storage, so
// nothing it does is visible until the controller commits.
//
// Example:
//
//	q := event.NewQueue(pending...)
//	if evt, ok := q.NextEligible(o); ok {
//	    // apply evt
//	}
type Queue struct {
	events []*Event
}

// NewQueue builds a queue from events in any order.
func NewQueue(events ...*Event) *Queue {
	q := &Queue{events: make([]*Event, 0, len(events))}
	for _, e := range events {
		q.Enqueue(e)
	}
	return q
}

// Enqueue inserts a pending event at its position. Processed events are ignored.
func (q *Queue) Enqueue(e *Event) {
	if e == nil || !e.IsPending() {
		return
	}
	i, _ := slices.BinarySearchFunc(q.events, e, Compare)
	q.events = slices.Insert(q.events, i, e)
}

// NextEligible returns the first event in queue order the order can consume
// now, skipping events that are premature or suppressed by a hold.
func (q *Queue) NextEligible(o *order.Order) (*Event, bool) {
	for _, e := range q.events {
		if e.IsPending() && e.IsEligibleFor(o) {
			return e, true
		}
	}
	return nil, false
}

// Peek returns the head of the queue regardless of eligibility.
func (q *Queue) Peek() (*Event, bool) {
	for _, e := range q.events {
		if e.IsPending() {
			return e, true
		}
	}
	return nil, false
}

// Drain returns every pending event in queue order and empties the queue.
func (q *Queue) Drain() []*Event {
	out := slices.DeleteFunc(q.events, func(e *Event) bool { return !e.IsPending() })
	q.events = nil
	return out
}

// Len counts pending events.
func (q *Queue) Len() int {
	n := 0
	for _, e := range q.events {
		if e.IsPending() {
			n++
		}
	}
	return n
}
