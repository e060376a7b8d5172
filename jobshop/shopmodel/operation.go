// Package shopmodel implements the job-shop domain state and
// transitions sitting atop the jobshop kernel: jobs, routes,
// workstations, individual machines, and the shop container — spec.md
// §3–§4.4, grounded on the teacher's Request/Batch/WaitQueue shapes
// (sim/request.go, sim/batch.go, sim/queue.go) generalized from a
// single-step token scheduler to a multi-workstation route scheduler.
package shopmodel

// Operation is an immutable processing step: which workstation it runs
// on, how long it takes, and its setup/batch family membership.
type Operation struct {
	WorkstationID string
	ProcTime      float64
	SetupFamily   string
	BatchFamily   string
}

// Route is the ordered sequence of Operations a job undergoes. Routes
// are shared, read-only references — cloning a Job never deep-copies
// its Route (spec.md §3, Ownership).
type Route []Operation

// RemainingProcTime sums ProcTime from index onward. Index may equal
// len(r), which yields zero.
func (r Route) RemainingProcTime(index int) float64 {
	var total float64
	for _, op := range r[index:] {
		total += op.ProcTime
	}
	return total
}
