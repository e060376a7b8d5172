package jobshop

// Listener receives notifications published on a NotificationBus. The
// source is the entity that raised the notification (job, workstation,
// shop); payload carries kind-specific data.
type Listener interface {
	Inform(source any, kind EventKind, payload any)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(source any, kind EventKind, payload any)

func (f ListenerFunc) Inform(source any, kind EventKind, payload any) { f(source, kind, payload) }

type pendingPublish struct {
	source  any
	kind    EventKind
	payload any
}

// NotificationBus is an event-kind -> subscriber registry with
// registration-order fan-out, per spec.md §4.3. It is re-entrant: a
// listener invoked from inside Publish may itself call Publish; those
// nested publications are queued FIFO and drained only after the
// triggering fan-out completes, preserving causal order.
//
// Not safe for concurrent use from multiple goroutines — the kernel is
// strictly single-threaded (spec.md §5).
type NotificationBus struct {
	listeners map[EventKind][]Listener
	firing    map[EventKind]bool
	pending   []pendingPublish
	draining  bool
	disabled  int
}

// NewNotificationBus creates an empty, enabled bus.
func NewNotificationBus() *NotificationBus {
	return &NotificationBus{
		listeners: make(map[EventKind][]Listener),
		firing:    make(map[EventKind]bool),
	}
}

// Subscribe registers l for notifications of kind, in registration
// order. Subscribing to a kind whose fan-out is currently in progress
// fails with ConcurrentModificationError — the in-flight iteration must
// not observe a listener list it didn't start with.
func (b *NotificationBus) Subscribe(kind EventKind, l Listener) error {
	if b.firing[kind] {
		return &ConcurrentModificationError{Kind: kind}
	}
	b.listeners[kind] = append(b.listeners[kind], l)
	return nil
}

// Unsubscribe removes l from kind's listener list. Removing the
// listener currently executing inside its own Inform call (self-removal
// during fan-out) is explicitly supported and does not cause the
// fan-out to skip the next listener.
func (b *NotificationBus) Unsubscribe(kind EventKind, l Listener) {
	list := b.listeners[kind]
	for i, existing := range list {
		if sameListener(existing, l) {
			b.listeners[kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// sameListener compares listener identity. Most listeners are
// pointer-receiver structs, which compare safely with ==; ListenerFunc
// values wrap plain funcs, which the runtime cannot compare (two
// distinct func values panic on ==), so those never match for removal
// purposes — recovered defensively rather than asserted away.
func sameListener(a, b Listener) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Enable decrements the reentrant disable counter. Enabling below zero
// (more enables than disables) is an InvariantViolation.
func (b *NotificationBus) Enable() error {
	if b.disabled == 0 {
		return &InvariantViolation{Reason: "notification bus enabled while already enabled"}
	}
	b.disabled--
	return nil
}

// Disable increments the reentrant disable counter; Publish becomes a
// no-op while the counter is above zero.
func (b *NotificationBus) Disable() {
	b.disabled++
}

// Enabled reports whether Publish currently delivers notifications.
func (b *NotificationBus) Enabled() bool { return b.disabled == 0 }

// Publish delivers (source, kind, payload) to kind's listeners in
// registration order. If a fan-out is already in progress anywhere on
// this bus, the publication is queued and drained after the current
// fan-out finishes (re-entrancy, spec.md §4.3).
func (b *NotificationBus) Publish(source any, kind EventKind, payload any) {
	if b.disabled > 0 {
		return
	}
	b.pending = append(b.pending, pendingPublish{source: source, kind: kind, payload: payload})
	if b.draining {
		// An outer Publish call (or its caller) is already draining the
		// queue; it will pick this entry up.
		return
	}
	b.draining = true
	defer func() { b.draining = false }()
	for len(b.pending) > 0 {
		next := b.pending[0]
		b.pending = b.pending[1:]
		b.fanOut(next.source, next.kind, next.payload)
	}
}

func (b *NotificationBus) fanOut(source any, kind EventKind, payload any) {
	b.firing[kind] = true
	defer func() { b.firing[kind] = false }()

	list := b.listeners[kind]
	for i := 0; i < len(list); i++ {
		l := list[i]
		l.Inform(source, kind, payload)
		// Unsubscribe may have shortened b.listeners[kind] if l removed
		// itself; re-read the slice and re-align the index so the next
		// iteration visits the listener that was originally after l.
		newList := b.listeners[kind]
		if len(newList) < len(list) {
			list = newList
			i--
		}
	}
}
