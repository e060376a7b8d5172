package jobshop

import "github.com/jobshop-sim/jobshop-sim/jobshop/shopmodel"

// ReleaseEvent draws the next job from a JobSource and enqueues it at
// its route's first workstation, then schedules the source's next
// release as a newly allocated ReleaseEvent (the event itself is not
// reused), grounded on the teacher's ArrivalEvent (sim/event.go) which
// likewise triggers the next step of the simulation from within Execute.
type ReleaseEvent struct {
	baseEvent
	SourceIdx int
}

func (e *ReleaseEvent) Execute(s *Simulation) {
	s.release(e.SourceIdx)
}

// DepartureEvent fires when an IndividualMachine finishes processing
// (setup + proc time elapsed) — spec.md §4.1, low-priority band.
type DepartureEvent struct {
	baseEvent
	WSID       string
	MachineIdx int
}

func (e *DepartureEvent) Execute(s *Simulation) {
	s.departure(e.WSID, e.MachineIdx)
}

// DownEvent transitions an IndividualMachine to Down (spec.md §4.4,
// Machine downtime).
type DownEvent struct {
	baseEvent
	WSID       string
	MachineIdx int
}

func (e *DownEvent) Execute(s *Simulation) {
	s.machineDown(e.WSID, e.MachineIdx)
}

// ResumeEvent restores a Down IndividualMachine to Idle (or resumes its
// paused operation, per the workstation's DownTimePolicy).
type ResumeEvent struct {
	baseEvent
	WSID       string
	MachineIdx int
}

func (e *ResumeEvent) Execute(s *Simulation) {
	s.machineResume(e.WSID, e.MachineIdx)
}

// targetJobs returns the target's member jobs in order; trySelect uses
// it to record them as the machine's CurrentJobs.
func targetJobs(t shopmodel.PrioRuleTarget) []*shopmodel.Job {
	jobs := make([]*shopmodel.Job, t.NumJobsInBatch())
	for i := range jobs {
		jobs[i] = t.Job(i)
	}
	return jobs
}
