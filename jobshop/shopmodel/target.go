package shopmodel

// PrioRuleTarget abstracts over a single job or a batch of jobs that a
// priority rule may select as a unit (spec.md §3, §4.4).
type PrioRuleTarget interface {
	// Job returns the i-th job in the target (i must be < NumJobsInBatch()).
	Job(i int) *Job
	// NumJobsInBatch returns how many jobs this target represents (1 for
	// a single job).
	NumJobsInBatch() int
	// IsBatch reports whether this target groups more than one job.
	IsBatch() bool
	// ProcTime is the target's effective processing time: a single
	// job's own proc time, or a batch's max member proc time (spec.md
	// §4.4, batch processing-time edge case).
	ProcTime() float64
	// SetupFamily is the target's setup family: a single job's own, or
	// a batch's shared batch family (spec.md §4.4).
	SetupFamily() string
	// EarliestJobNumber is the smallest job ID among the target's
	// members, used as the deterministic tiebreaker for priority rules
	// (spec.md §4.4, edge cases).
	EarliestJobNumber() int64
}

// SingleJobTarget wraps exactly one job.
type SingleJobTarget struct {
	J *Job
}

func (t SingleJobTarget) Job(i int) *Job {
	if i != 0 {
		panic("shopmodel: SingleJobTarget index out of range")
	}
	return t.J
}
func (t SingleJobTarget) NumJobsInBatch() int { return 1 }
func (t SingleJobTarget) IsBatch() bool       { return false }
func (t SingleJobTarget) ProcTime() float64 {
	return t.J.CurrentOperation().ProcTime
}
func (t SingleJobTarget) SetupFamily() string {
	return t.J.CurrentOperation().SetupFamily
}
func (t SingleJobTarget) EarliestJobNumber() int64 { return t.J.ID }

// BatchTarget groups jobs of the same batch family processed jointly on
// one machine. Members must all share BatchFamily (the caller — the
// batching policy — is responsible for that grouping invariant).
type BatchTarget struct {
	Members []*Job
	Family  string
}

func (t *BatchTarget) Job(i int) *Job         { return t.Members[i] }
func (t *BatchTarget) NumJobsInBatch() int    { return len(t.Members) }
func (t *BatchTarget) IsBatch() bool          { return true }

// ProcTime is the maximum processing time among batch members (spec.md
// §4.4 edge case).
func (t *BatchTarget) ProcTime() float64 {
	var max float64
	for _, j := range t.Members {
		if p := j.CurrentOperation().ProcTime; p > max {
			max = p
		}
	}
	return max
}

func (t *BatchTarget) SetupFamily() string { return t.Family }

func (t *BatchTarget) EarliestJobNumber() int64 {
	min := t.Members[0].ID
	for _, j := range t.Members[1:] {
		if j.ID < min {
			min = j.ID
		}
	}
	return min
}
