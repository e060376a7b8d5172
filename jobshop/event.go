package jobshop

// Priority bands for same-instant event ordering (spec.md §3, §4.1).
// Lower values fire first.
const (
	PriorityArrival   = -10 // high-priority: job/future arrivals
	PriorityNormal    = 0   // selection, generic bookkeeping
	PriorityDeparture = 10  // low-priority: machine departures
)

// EventKind identifies a notification's category by sentinel identity,
// not by string content — two EventKind values compare equal only if
// they come from the same NewEventKind call, even when their names match.
// This mirrors spec.md §4.3's "identity by sentinel object, not by string".
type EventKind struct {
	tag *eventKindTag
}

type eventKindTag struct {
	name string
}

func (k EventKind) String() string {
	if k.tag == nil {
		return ""
	}
	return k.tag.name
}

// NewEventKind allocates a fresh, distinct event kind. The name is for
// logging only; identity is by the pointer each call allocates, so two
// kinds created with the same name are still different kinds.
func NewEventKind(name string) EventKind {
	return EventKind{tag: &eventKindTag{name: name}}
}

var (
	// JobArrivedInQueue fires when a job enters a workstation's queue.
	JobArrivedInQueue = NewEventKind("JOB_ARRIVED_IN_QUEUE")
	// WSJobArrival fires alongside JobArrivedInQueue, scoped to the workstation.
	WSJobArrival = NewEventKind("WS_JOB_ARRIVAL")
	// WSJobSelected fires when a workstation's priority rule selects a target.
	WSJobSelected = NewEventKind("WS_JOB_SELECTED")
	// JobStartOperation fires when a selected job begins setup/processing.
	JobStartOperation = NewEventKind("JOB_START_OPERATION")
	// JobEndOperation fires when a job's current operation finishes.
	JobEndOperation = NewEventKind("JOB_END_OPERATION")
	// WSJobCompleted fires alongside JobEndOperation, scoped to the workstation.
	WSJobCompleted = NewEventKind("WS_JOB_COMPLETED")
	// JobFinished fires when a job completes the last operation of its route.
	JobFinished = NewEventKind("JOB_FINISHED")
)

// Event is a scheduled unit of work: a point in virtual time, a
// priority band used to break same-instant ties, and a handler invoked
// by the kernel when popped. Handlers may schedule or cancel further
// events and publish notifications; they must not block.
type Event interface {
	Time() float64
	Priority() int
	Execute(s *Simulation)
}

// seq is not used for ordering: the EventQueue records the insertion
// sequence (the final tiebreaker) on its own queue entry at schedule
// time, and callers never set it.
type baseEvent struct {
	time     float64
	priority int
	seq      uint64
	cancel   bool
}

func (e *baseEvent) Time() float64    { return e.time }
func (e *baseEvent) Priority() int    { return e.priority }

// FuncEvent adapts a plain closure into an Event — used for synthetic,
// one-off scheduling (e.g. down-time/resume events, test harnesses)
// where a dedicated named type would be pure ceremony.
type FuncEvent struct {
	baseEvent
	Fn func(s *Simulation)
}

// NewFuncEvent creates a FuncEvent scheduled at time t with priority p.
func NewFuncEvent(t float64, p int, fn func(s *Simulation)) *FuncEvent {
	return &FuncEvent{baseEvent: baseEvent{time: t, priority: p}, Fn: fn}
}

func (e *FuncEvent) Execute(s *Simulation) {
	if e.Fn != nil {
		e.Fn(s)
	}
}
