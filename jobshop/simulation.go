package jobshop

import (
	"github.com/jobshop-sim/jobshop-sim/jobshop/randstream"
	"github.com/jobshop-sim/jobshop-sim/jobshop/shopmodel"
)

// simState is the Simulation's lifecycle stage (spec.md §5):
// Created -> Initialized -> Running -> Finished -> Resultified. Each
// transition is one-way and enforced by Init/Run/Finalize.
type simState int

const (
	simCreated simState = iota
	simInitialized
	simRunning
	simFinished
	simResultified
)

// SourceSchedule binds a shopmodel.JobSource to the streams that drive
// its release cadence — the kernel-side half of arrival generation that
// JobSource itself deliberately leaves out (spec.md §3).
type SourceSchedule struct {
	Source       *shopmodel.JobSource
	Interarrival randstream.Stream
	// DueDate computes a due date from the release date. Nil means "no
	// slack modeled": due date equals release date plus the route's
	// total processing time.
	DueDate func(releaseDate, totalProcTime float64) float64
	// Weight computes a job weight. Nil means every job gets weight 1.
	Weight func() float64
}

// BreakdownSchedule drives a single IndividualMachine's repeating
// down/resume cycle from two independent streams (spec.md §4.4, Machine
// downtime): MTBF (mean time between failures) governs how long a
// machine stays up, MTTR (mean time to repair) how long it stays down.
type BreakdownSchedule struct {
	WSID       string
	MachineIdx int
	MTBF       randstream.Stream
	MTTR       randstream.Stream
}

// Simulation is the kernel: the virtual clock, event queue, notification
// bus, and the shop they drive. One Simulation instance runs exactly one
// scenario replication; see jobshop/experiment for running many.
type Simulation struct {
	Shop  *shopmodel.Shop
	Queue *EventQueue
	Bus   *NotificationBus

	Clock           float64
	Horizon         float64 // <= 0 means unbounded (run until queue drains or CompletionLimit)
	CompletionLimit int     // <= 0 means no completion-count stop condition

	Results ResultMap

	sources          []*SourceSchedule
	breakdowns       []*BreakdownSchedule
	pendingDeparture map[string]EventHandle

	state        simState
	stopRequested bool
}

// NewSimulation creates a kernel over shop, ready for sources and
// breakdowns to be registered before Init.
func NewSimulation(shop *shopmodel.Shop, horizon float64, completionLimit int) *Simulation {
	return &Simulation{
		Shop:             shop,
		Queue:            NewEventQueue(),
		Bus:              NewNotificationBus(),
		Horizon:          horizon,
		CompletionLimit:  completionLimit,
		Results:          make(ResultMap),
		pendingDeparture: make(map[string]EventHandle),
	}
}

// AddSource registers a job source with the shop and binds it to an
// arrival schedule; the first release is produced at t=0 when Init runs.
func (s *Simulation) AddSource(name, jobType string, routeFn func() shopmodel.Route, interarrival randstream.Stream, dueDate func(releaseDate, totalProcTime float64) float64, weight func() float64) *shopmodel.JobSource {
	src := s.Shop.AddSource(name, jobType, routeFn)
	s.sources = append(s.sources, &SourceSchedule{Source: src, Interarrival: interarrival, DueDate: dueDate, Weight: weight})
	return src
}

// AddBreakdown registers a repeating down/resume cycle for one machine.
func (s *Simulation) AddBreakdown(wsID string, machineIdx int, mtbf, mttr randstream.Stream) {
	s.breakdowns = append(s.breakdowns, &BreakdownSchedule{WSID: wsID, MachineIdx: machineIdx, MTBF: mtbf, MTTR: mttr})
}

// Init schedules every source's first release and every breakdown's
// first down event. It may run exactly once, before Run.
func (s *Simulation) Init() error {
	if s.state != simCreated {
		return &InvariantViolation{Reason: "Init called out of order"}
	}
	for idx := range s.sources {
		s.scheduleRelease(idx, 0)
	}
	for _, bd := range s.breakdowns {
		s.scheduleBreakdownCycle(bd, bd.MTBF.Next())
	}
	s.state = simInitialized
	return nil
}

// RequestStop asks the event loop to stop after the current event
// finishes executing — the "soft stop" a listener can trigger mid-run
// (spec.md §5).
func (s *Simulation) RequestStop() {
	s.stopRequested = true
}

// Run drains the event queue, advancing the clock to each popped
// event's time before executing it, until one of: the queue empties,
// the horizon is exceeded, RequestStop was called, or the completion
// count is reached (checked inside departure handling).
func (s *Simulation) Run() error {
	if s.state != simInitialized {
		return &InvariantViolation{Reason: "Run called before Init, or called twice"}
	}
	s.state = simRunning
	for !s.stopRequested {
		ev := s.Queue.PopNext()
		if ev == nil {
			break
		}
		if s.Horizon > 0 && ev.Time() > s.Horizon {
			break
		}
		s.Clock = ev.Time()
		ev.Execute(s)
	}
	s.state = simFinished
	return nil
}

// Finalize closes out the run, stamping the reserved simTime key, and
// returns the accumulated Results. Listeners populate Results during the
// run by subscribing to the notification bus; Finalize does not compute
// statistics itself.
func (s *Simulation) Finalize() ResultMap {
	if s.state != simFinished {
		panic("jobshop: Finalize called before the run finished")
	}
	s.Results.MustSet(ResultSimTime, s.Clock)
	s.state = simResultified
	return s.Results
}

func (s *Simulation) scheduleRelease(idx int, at float64) {
	ev := &ReleaseEvent{baseEvent: baseEvent{time: at, priority: PriorityArrival}, SourceIdx: idx}
	s.Queue.Schedule(s.Clock, ev)
}

// release draws the next job from source idx, enqueues it at its
// route's first workstation, and self-reschedules the source's next
// release if it still falls within the horizon.
func (s *Simulation) release(idx int) {
	ss := s.sources[idx]
	releaseDate := s.Clock
	weight := 1.0
	if ss.Weight != nil {
		weight = ss.Weight()
	}
	// Due date depends on the job's own route total, so build the job
	// with a placeholder due date first, then patch it once the route is
	// known.
	job := ss.Source.Release(releaseDate, releaseDate, weight)
	totalProcTime := job.RemainingProcTime()
	if ss.DueDate != nil {
		job.DueDate = ss.DueDate(releaseDate, totalProcTime)
	} else {
		job.DueDate = releaseDate + totalProcTime
	}

	wsID := job.Route[0].WorkstationID
	s.arriveInQueue(job, wsID)

	delta := ss.Interarrival.Next()
	next := s.Clock + delta
	if s.Horizon <= 0 || next < s.Horizon {
		s.scheduleRelease(idx, next)
	}
}

// arriveInQueue moves job into ws's real queue, publishes the arrival
// notifications, and attempts an immediate selection if a machine is
// idle (spec.md §4.4, Arrival).
func (s *Simulation) arriveInQueue(job *shopmodel.Job, wsID string) {
	ws, ok := s.Shop.Workstations[wsID]
	if !ok {
		panic(&ConfigurationError{Path: wsID, Reason: "route references unknown workstation"})
	}
	job.CurrentWSID = wsID
	job.State = shopmodel.StateEnqueued
	ws.Enqueue(job)
	ws.RemoveLookAhead(job.ID)

	s.Bus.Publish(job, JobArrivedInQueue, ArrivalPayload{Job: job, WS: ws, Now: s.Clock})
	s.Bus.Publish(ws, WSJobArrival, ArrivalPayload{Job: job, WS: ws, Now: s.Clock})

	if ws.IdleMachine() != nil {
		s.trySelect(ws)
	}
}

// trySelect asks ws to select a target for its next idle machine and,
// if one is chosen, commits it to processing: pays setup time, records
// look-ahead future-clones for the target's next operations, publishes
// WS_JOB_SELECTED/JOB_START_OPERATION, and schedules the departure
// (spec.md §4.4, Selection).
func (s *Simulation) trySelect(ws *shopmodel.WorkStation) {
	target := ws.SelectTarget(s.Clock)
	if target == nil {
		return
	}
	m := ws.IdleMachine()
	if m == nil {
		return
	}
	idx := machineIndex(ws, m)

	ws.RemoveTarget(target)
	jobs := targetJobs(target)
	for _, j := range jobs {
		j.State = shopmodel.StateProcessing
		j.OpStartTime = s.Clock
	}

	setupTime := ws.SetupMatrix.Lookup(m.CurrentSetupFam, target.SetupFamily())
	if setupTime < 0 {
		panic(&InvariantViolation{Reason: "negative setup time"})
	}
	procTime := target.ProcTime()
	if procTime < 0 {
		panic(&InvariantViolation{Reason: "negative processing time"})
	}

	m.CurrentSetupFam = target.SetupFamily()
	m.CurrentJobs = jobs
	m.State = shopmodel.MachineProcessing
	finish := s.Clock + setupTime + procTime
	m.ProcFinished = finish

	if ws.LookAheadEnabled {
		s.announceLookAhead(jobs)
	}

	s.Bus.Publish(ws, WSJobSelected, SelectionPayload{Target: target, WS: ws, Machine: m, SetupTime: setupTime, Now: s.Clock})
	s.Bus.Publish(ws, JobStartOperation, SelectionPayload{Target: target, WS: ws, Machine: m, SetupTime: setupTime, Now: s.Clock})

	ev := &DepartureEvent{baseEvent: baseEvent{time: finish, priority: PriorityDeparture}, WSID: ws.ID, MachineIdx: idx}
	handle, err := s.Queue.Schedule(s.Clock, ev)
	if err != nil {
		panic(err)
	}
	s.pendingDeparture[m.ID] = handle
}

// announceLookAhead builds a future-clone of each job in jobs that still
// has an operation beyond the one just selected, and registers it on
// that next operation's workstation (spec.md §4.4, Look-ahead). The
// future-clone is removed automatically once the job's real arrival
// occurs there (WorkStation.RemoveLookAhead, called from arriveInQueue).
func (s *Simulation) announceLookAhead(jobs []*shopmodel.Job) {
	for _, j := range jobs {
		if j.TaskNumber()+1 >= len(j.Route) {
			continue
		}
		future := j.MakeFutureSelf()
		future.SetTaskNumber(j.TaskNumber() + 1)
		nextWSID := future.Route[future.TaskNumber()].WorkstationID
		nextWS, ok := s.Shop.Workstations[nextWSID]
		if !ok {
			continue
		}
		nextWS.LookAheadArrivals = append(nextWS.LookAheadArrivals, future)
	}
}

// departure fires when a machine finishes setup+processing: it
// publishes completion notifications, advances every job in the target
// to its next operation (or marks it finished), frees the machine, and
// immediately tries to start the next selection on it (spec.md §4.4,
// Departure).
func (s *Simulation) departure(wsID string, machineIdx int) {
	ws := s.Shop.Workstations[wsID]
	m := ws.Machines[machineIdx]
	delete(s.pendingDeparture, m.ID)

	jobs := m.CurrentJobs
	for _, j := range jobs {
		j.OpFinishTime = s.Clock
	}

	var target shopmodel.PrioRuleTarget
	if len(jobs) == 1 {
		target = shopmodel.SingleJobTarget{J: jobs[0]}
	} else {
		target = &shopmodel.BatchTarget{Members: jobs, Family: m.CurrentSetupFam}
	}
	s.Bus.Publish(ws, JobEndOperation, OperationEndPayload{Target: target, WS: ws, Machine: m, Now: s.Clock})
	s.Bus.Publish(ws, WSJobCompleted, OperationEndPayload{Target: target, WS: ws, Machine: m, Now: s.Clock})

	for _, j := range jobs {
		j.Advance()
		if j.HasMoreOperations() {
			nextWSID := j.CurrentOperation().WorkstationID
			s.arriveInQueue(j, nextWSID)
		} else {
			s.Shop.MarkFinished(j)
			s.Bus.Publish(s.Shop, JobFinished, JobFinishedPayload{Job: j, Now: s.Clock})
		}
	}

	m.CurrentJobs = nil
	m.State = shopmodel.MachineIdle
	s.trySelect(ws)

	if s.CompletionLimit > 0 && s.Shop.FinishedCount >= s.CompletionLimit {
		s.RequestStop()
	}
}

// machineDown transitions an IndividualMachine to Down. If it was mid-
// operation, the pending departure is cancelled and the interrupted
// work is preserved or discarded per the workstation's DownTimePolicy
// (the Open Question pinned in SPEC_FULL.md §9).
func (s *Simulation) machineDown(wsID string, machineIdx int) {
	ws := s.Shop.Workstations[wsID]
	m := ws.Machines[machineIdx]

	if m.State == shopmodel.MachineProcessing {
		if h, ok := s.pendingDeparture[m.ID]; ok {
			s.Queue.Cancel(h)
			delete(s.pendingDeparture, m.ID)
		}
		switch ws.DownPolicy {
		case shopmodel.PreserveRemaining:
			remaining := m.ProcFinished - s.Clock
			if remaining < 0 {
				remaining = 0
			}
			m.RemainingOnPause = remaining
		case shopmodel.DiscardRemaining:
			m.RemainingOnPause = 0
		}
	}
	m.State = shopmodel.MachineDown
}

// machineResume brings a Down machine back: if it had preserved
// in-progress work, processing resumes for the remaining duration and a
// new departure is scheduled; if work was discarded, its jobs are
// returned to the front of the queue to be reselected from scratch;
// otherwise the machine simply goes Idle and immediately attempts a
// fresh selection.
func (s *Simulation) machineResume(wsID string, machineIdx int) {
	ws := s.Shop.Workstations[wsID]
	m := ws.Machines[machineIdx]
	if m.State != shopmodel.MachineDown {
		return
	}

	switch {
	case len(m.CurrentJobs) > 0 && m.RemainingOnPause > 0:
		m.State = shopmodel.MachineProcessing
		finish := s.Clock + m.RemainingOnPause
		m.ProcFinished = finish
		m.RemainingOnPause = 0
		ev := &DepartureEvent{baseEvent: baseEvent{time: finish, priority: PriorityDeparture}, WSID: wsID, MachineIdx: machineIdx}
		handle, err := s.Queue.Schedule(s.Clock, ev)
		if err != nil {
			panic(err)
		}
		s.pendingDeparture[m.ID] = handle
	case len(m.CurrentJobs) > 0:
		discarded := m.CurrentJobs
		for _, j := range discarded {
			j.State = shopmodel.StateEnqueued
		}
		m.CurrentJobs = nil
		m.CurrentSetupFam = ""
		m.State = shopmodel.MachineIdle
		ws.Queue = append(append([]*shopmodel.Job(nil), discarded...), ws.Queue...)
		s.trySelect(ws)
	default:
		m.State = shopmodel.MachineIdle
		s.trySelect(ws)
	}
}

func (s *Simulation) scheduleBreakdownCycle(bd *BreakdownSchedule, at float64) {
	ev := NewFuncEvent(at, PriorityNormal, func(sim *Simulation) {
		sim.machineDown(bd.WSID, bd.MachineIdx)
		resumeAt := sim.Clock + bd.MTTR.Next()
		sim.scheduleResume(bd, resumeAt)
	})
	sched := ev
	s.Queue.Schedule(s.Clock, sched)
}

func (s *Simulation) scheduleResume(bd *BreakdownSchedule, at float64) {
	ev := NewFuncEvent(at, PriorityNormal, func(sim *Simulation) {
		sim.machineResume(bd.WSID, bd.MachineIdx)
		nextDown := sim.Clock + bd.MTBF.Next()
		if sim.Horizon <= 0 || nextDown < sim.Horizon {
			sim.scheduleBreakdownCycle(bd, nextDown)
		}
	})
	s.Queue.Schedule(s.Clock, ev)
}

func machineIndex(ws *shopmodel.WorkStation, m *shopmodel.IndividualMachine) int {
	for i, cand := range ws.Machines {
		if cand == m {
			return i
		}
	}
	panic("jobshop: machine not found on its own workstation")
}
