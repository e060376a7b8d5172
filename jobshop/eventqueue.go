package jobshop

import "container/heap"

// EventHandle identifies a scheduled event for cancellation. It remains
// valid even after the event fires or is cancelled; Cancel and the
// queue's pop path both tolerate an already-invalidated handle.
type EventHandle struct {
	ev *baseEvent
}

// Cancelled reports whether the event behind this handle has been
// cancelled, or whether the handle refers to no cancellable event at
// all. Firing does not flag the handle, so it stays false for an event
// that fired without being cancelled; cancelling such an event afterwards
// is a harmless no-op since it is already gone from the heap.
func (h EventHandle) Cancelled() bool {
	return h.ev == nil || h.ev.cancel
}

// eventEntry pairs an Event with the baseEvent fields the queue needs
// for ordering and cancellation, without requiring every concrete Event
// type to embed baseEvent (FuncEvent does; others may not).
type eventEntry struct {
	ev   Event
	base *baseEvent
	seq  uint64
}

// EventQueue is a min-heap ordered by (time ascending, priority
// ascending, insertion-sequence ascending), per spec.md §4.1.
type EventQueue struct {
	entries []*eventEntry
	nextSeq uint64
}

// NewEventQueue creates an empty EventQueue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	heap.Init(q)
	return q
}

// Len implements heap.Interface.
func (q *EventQueue) Len() int { return len(q.entries) }

// Less implements heap.Interface: (time, priority, seq) ascending.
func (q *EventQueue) Less(i, j int) bool {
	a, b := q.entries[i], q.entries[j]
	if a.ev.Time() != b.ev.Time() {
		return a.ev.Time() < b.ev.Time()
	}
	if a.ev.Priority() != b.ev.Priority() {
		return a.ev.Priority() < b.ev.Priority()
	}
	return a.seq < b.seq
}

// Swap implements heap.Interface.
func (q *EventQueue) Swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
}

// Push implements heap.Interface. Use Schedule, not Push, from outside
// the package.
func (q *EventQueue) Push(x any) {
	q.entries = append(q.entries, x.(*eventEntry))
}

// Pop implements heap.Interface. Use PopNext, not Pop, from outside the
// package.
func (q *EventQueue) Pop() any {
	old := q.entries
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.entries = old[:n-1]
	return item
}

// Schedule inserts ev, requiring ev.Time() >= now. Returns a handle
// usable with Cancel. Events without an embedded baseEvent (i.e. not
// cancellable by handle) still schedule fine; their handle holds no
// event, so Cancelled() on it always reports true, and Cancel on it is a
// silent no-op that leaves the event scheduled.
func (q *EventQueue) Schedule(now float64, ev Event) (EventHandle, error) {
	if ev.Time() < now {
		return EventHandle{}, &PastEventError{Now: now, Attempted: ev.Time()}
	}
	q.nextSeq++
	var base *baseEvent
	if be, ok := ev.(interface{ baseEventPtr() *baseEvent }); ok {
		base = be.baseEventPtr()
	}
	entry := &eventEntry{ev: ev, base: base, seq: q.nextSeq}
	heap.Push(q, entry)
	return EventHandle{ev: base}, nil
}

// Cancel invalidates the event behind h. An already-fired or
// already-cancelled handle is a no-op. Cancellation is O(log n)
// amortized: the flagged entry is skipped lazily when PopNext
// encounters it, rather than removed from the heap immediately.
func (q *EventQueue) Cancel(h EventHandle) {
	if h.ev == nil {
		return
	}
	h.ev.cancel = true
}

// PopNext removes and returns the minimum event, skipping any entries
// whose handle was cancelled after scheduling. Returns nil if the queue
// (after skipping cancellations) is empty.
func (q *EventQueue) PopNext() Event {
	for q.Len() > 0 {
		entry := heap.Pop(q).(*eventEntry)
		if entry.base != nil && entry.base.cancel {
			continue
		}
		return entry.ev
	}
	return nil
}

// Peek returns the next non-cancelled event without removing it, or
// nil if the queue is empty. Cancelled entries at the head are dropped
// as a side effect, matching PopNext's skip semantics.
func (q *EventQueue) Peek() Event {
	for q.Len() > 0 {
		entry := q.entries[0]
		if entry.base != nil && entry.base.cancel {
			heap.Pop(q)
			continue
		}
		return entry.ev
	}
	return nil
}

func (e *baseEvent) baseEventPtr() *baseEvent { return e }
