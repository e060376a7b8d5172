package shopmodel

// State is a job's coarse lifecycle stage (spec.md §4.4).
type State int

const (
	StateReleased State = iota
	StateEnqueued
	StateProcessing
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateReleased:
		return "released"
	case StateEnqueued:
		return "enqueued"
	case StateProcessing:
		return "processing"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Job is a mutable work unit flowing through the shop along its Route.
// Invariants (spec.md §3):
//   - 0 <= taskNumber <= len(Route)
//   - remProcTime equals the sum of ProcTime from taskNumber onward
//     whenever remProcTimeValid is true
//   - a future-clone (IsFuture) is never enqueued for real processing
type Job struct {
	ID       int64
	JobType  string
	Name     string
	Route    Route
	Weight   float64

	ReleaseDate float64
	DueDate     float64

	taskNumber       int
	remProcTime      float64
	remProcTimeValid bool

	State          State
	CurrentWSID    string
	OpStartTime    float64
	OpFinishTime   float64

	IsFuture bool
	Future   *Job

	Store *ValueStore
}

// NewJob creates a released job at the start of its route.
func NewJob(id int64, jobType string, route Route, releaseDate, dueDate, weight float64) *Job {
	return &Job{
		ID:          id,
		JobType:     jobType,
		Route:       route,
		ReleaseDate: releaseDate,
		DueDate:     dueDate,
		Weight:      weight,
		State:       StateReleased,
		Store:       NewValueStore(),
	}
}

// TaskNumber returns the index of the job's current (not yet started,
// or in-progress) operation.
func (j *Job) TaskNumber() int { return j.taskNumber }

// SetTaskNumber advances (or sets) the job's task index and invalidates
// the remaining-processing-time cache. Per spec.md §8 property 4, the
// next call to RemainingProcTime recomputes from the new index.
func (j *Job) SetTaskNumber(n int) {
	if n < 0 || n > len(j.Route) {
		panic("shopmodel: task number out of route bounds")
	}
	j.taskNumber = n
	j.remProcTimeValid = false
}

// Advance moves to the next operation in the route (taskNumber++).
func (j *Job) Advance() {
	j.SetTaskNumber(j.taskNumber + 1)
}

// HasMoreOperations reports whether any operations remain.
func (j *Job) HasMoreOperations() bool {
	return j.taskNumber < len(j.Route)
}

// CurrentOperation returns the operation at taskNumber. Callers must
// check HasMoreOperations first; calling this past the route's end
// panics, matching the kernel's fail-fast error policy (spec.md §7).
func (j *Job) CurrentOperation() Operation {
	if !j.HasMoreOperations() {
		panic("shopmodel: no current operation, route already complete")
	}
	return j.Route[j.taskNumber]
}

// RemainingProcTime returns the sum of ProcTime for all operations from
// taskNumber onward, using (and refreshing) the cache described in the
// Job invariants.
func (j *Job) RemainingProcTime() float64 {
	if !j.remProcTimeValid {
		j.remProcTime = j.Route.RemainingProcTime(j.taskNumber)
		j.remProcTimeValid = true
	}
	return j.remProcTime
}

// MakeFutureSelf creates (or refreshes) the job's look-ahead placeholder:
// a clone whose IsFuture flag is set, never enqueued for real
// processing, used by priority rules to peek at imminent arrivals
// (spec.md §4.4, Look-ahead).
func (j *Job) MakeFutureSelf() *Job {
	clone := &Job{
		ID:          j.ID,
		JobType:     j.JobType,
		Name:        j.Name,
		Route:       j.Route,
		Weight:      j.Weight,
		ReleaseDate: j.ReleaseDate,
		DueDate:     j.DueDate,
		taskNumber:  j.taskNumber,
		State:       j.State,
		IsFuture:    true,
		Store:       j.Store.Clone(),
	}
	j.Future = clone
	return clone
}

// Clone returns a structurally independent deep copy sharing only the
// immutable Route reference (spec.md §3 Ownership, §9 Cloneability).
func (j *Job) Clone() *Job {
	cp := *j
	cp.Store = j.Store.Clone()
	cp.Future = nil
	return &cp
}
