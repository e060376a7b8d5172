package shopmodel

import "strconv"

// SetupMatrix maps (fromFamily, toFamily) -> setup time. A missing
// entry, or fromFamily == toFamily, means zero setup time (spec.md
// §4.4: "0 if same").
type SetupMatrix struct {
	times map[[2]string]float64
}

// NewSetupMatrix creates an empty matrix (all transitions zero-cost
// until set).
func NewSetupMatrix() *SetupMatrix {
	return &SetupMatrix{times: make(map[[2]string]float64)}
}

// Set records the setup time when transitioning from family `from` to
// family `to`.
func (m *SetupMatrix) Set(from, to string, t float64) {
	if m.times == nil {
		m.times = make(map[[2]string]float64)
	}
	m.times[[2]string{from, to}] = t
}

// Lookup returns the setup time for the transition, 0 if from == to or
// the pair was never set.
func (m *SetupMatrix) Lookup(from, to string) float64 {
	if from == to {
		return 0
	}
	return m.times[[2]string{from, to}]
}

// Clone returns an independent copy.
func (m *SetupMatrix) Clone() *SetupMatrix {
	cp := make(map[[2]string]float64, len(m.times))
	for k, v := range m.times {
		cp[k] = v
	}
	return &SetupMatrix{times: cp}
}

// PriorityRule selects which queued target an idle machine should
// process next (spec.md §4.5). It is a pure function of its inputs: it
// must not mutate queue ordering directly, only choose among the
// targets passed in. Implementations may carry state across calls
// (e.g. to remember the last setup family selected) and are cloned with
// the scenario.
type PriorityRule interface {
	Select(ws *WorkStation, queue []PrioRuleTarget, lookAhead []PrioRuleTarget, now float64) PrioRuleTarget
	Clone() PriorityRule
}

// BatchFormer groups same-family jobs waiting in a workstation's queue
// into PrioRuleTargets (singles or batches) for the priority rule to
// choose among (spec.md §4.7, Setup/batching policy).
type BatchFormer interface {
	FormTargets(queue []*Job) []PrioRuleTarget
}

// defaultBatchFormer treats every job as its own singleton target — the
// no-batching default used when a WorkStation has no BatchFormer
// configured.
type defaultBatchFormer struct{}

func (defaultBatchFormer) FormTargets(queue []*Job) []PrioRuleTarget {
	targets := make([]PrioRuleTarget, len(queue))
	for i, j := range queue {
		targets[i] = SingleJobTarget{J: j}
	}
	return targets
}

// WorkStation is a processing resource with one or more parallel
// machines and a shared input queue (spec.md §3).
type WorkStation struct {
	ID       string
	Machines []*IndividualMachine
	Queue    []*Job // real arrivals waiting for selection
	LookAheadArrivals []*Job // future-clones announced by upstream workstations (spec.md §4.4)

	Rule        PriorityRule
	SetupMatrix *SetupMatrix
	Batcher     BatchFormer

	LookAheadEnabled bool
	DownPolicy       DownTimePolicy
}

// NewWorkStation creates a workstation with capacity parallel machines,
// an empty setup matrix and no batching. Rule is left nil: the caller
// sets it explicitly, and SelectTarget selects nothing until it does.
func NewWorkStation(id string, capacity int) *WorkStation {
	machines := make([]*IndividualMachine, capacity)
	for i := range machines {
		machines[i] = NewIndividualMachine(id + "#" + strconv.Itoa(i))
	}
	return &WorkStation{
		ID:          id,
		Machines:    machines,
		SetupMatrix: NewSetupMatrix(),
		Batcher:     defaultBatchFormer{},
	}
}

// IdleMachine returns the first Idle machine, or nil if all machines are
// busy/down/inactive. Invariant (spec.md §3): at most `len(Machines)`
// jobs processing at once, enforced by this being the only path to
// selection.
func (w *WorkStation) IdleMachine() *IndividualMachine {
	for _, m := range w.Machines {
		if m.State == MachineIdle {
			return m
		}
	}
	return nil
}

// Enqueue appends a job to the real (non-look-ahead) queue.
func (w *WorkStation) Enqueue(j *Job) {
	w.Queue = append(w.Queue, j)
}

// RemoveFromQueue deletes job from the real queue, preserving relative
// order of the rest. No-op if absent.
func (w *WorkStation) RemoveFromQueue(job *Job) {
	for i, j := range w.Queue {
		if j == job {
			w.Queue = append(w.Queue[:i:i], w.Queue[i+1:]...)
			return
		}
	}
}

// RemoveLookAhead deletes the future-clone for job from the look-ahead
// set — called when the job's real arrival occurs (spec.md §4.4).
func (w *WorkStation) RemoveLookAhead(realJobID int64) {
	for i, f := range w.LookAheadArrivals {
		if f.ID == realJobID {
			w.LookAheadArrivals = append(w.LookAheadArrivals[:i:i], w.LookAheadArrivals[i+1:]...)
			return
		}
	}
}

// SelectTarget asks the batcher to form targets from the current real
// queue, then asks the priority rule to pick one. Returns nil if the
// queue is empty. The look-ahead set is passed through unconditionally
// when LookAheadEnabled; otherwise rules see an empty slice, since a
// rule must not read look-ahead state it wasn't configured to receive.
func (w *WorkStation) SelectTarget(now float64) PrioRuleTarget {
	if len(w.Queue) == 0 || w.Rule == nil {
		return nil
	}
	targets := w.Batcher.FormTargets(w.Queue)
	var lookAhead []PrioRuleTarget
	if w.LookAheadEnabled && len(w.LookAheadArrivals) > 0 {
		lookAhead = make([]PrioRuleTarget, len(w.LookAheadArrivals))
		for i, f := range w.LookAheadArrivals {
			lookAhead[i] = SingleJobTarget{J: f}
		}
	}
	return w.Rule.Select(w, targets, lookAhead, now)
}

// RemoveTarget removes every member of target from the real queue —
// used after selection, since a chosen batch's members must all leave
// the queue atomically (spec.md §4.4).
func (w *WorkStation) RemoveTarget(target PrioRuleTarget) {
	for i := 0; i < target.NumJobsInBatch(); i++ {
		w.RemoveFromQueue(target.Job(i))
	}
}

// Clone returns an independent copy. Machines are deep-cloned; Queue
// and LookAheadArrivals are copied into new slices that still hold the
// original Job pointers — the owning Shop's Clone is responsible for
// replacing them with the corresponding clones from its job arena, per
// SPEC_FULL.md §9.
func (w *WorkStation) Clone() *WorkStation {
	cp := &WorkStation{
		ID:                w.ID,
		Queue:             append([]*Job(nil), w.Queue...),
		LookAheadArrivals: append([]*Job(nil), w.LookAheadArrivals...),
		LookAheadEnabled:  w.LookAheadEnabled,
		DownPolicy:        w.DownPolicy,
		SetupMatrix:       w.SetupMatrix.Clone(),
		Batcher:           w.Batcher,
	}
	cp.Machines = make([]*IndividualMachine, len(w.Machines))
	for i, m := range w.Machines {
		cp.Machines[i] = m.Clone()
	}
	if w.Rule != nil {
		cp.Rule = w.Rule.Clone()
	}
	return cp
}
