package shopmodel

// JobSource emits jobs at scheduled times, driven by release-date and
// inter-arrival streams owned by the caller (the kernel schedules
// arrival events; JobSource only builds the Job values, per spec.md
// §3's "job-type mix, inter-arrival stream, release-date stream,
// routes").
type JobSource struct {
	Name        string
	JobType     string
	RouteFn     func() Route
	Store       *ValueStore
	nextJobID   *int64 // shared counter across all sources in a Shop
}

// NewJobSource creates a source. routeFn returns a (possibly randomly
// generated) route for each new job; idCounter is shared across all
// sources feeding the same Shop so job numbers are globally unique.
func NewJobSource(name, jobType string, routeFn func() Route, idCounter *int64) *JobSource {
	return &JobSource{Name: name, JobType: jobType, RouteFn: routeFn, Store: NewValueStore(), nextJobID: idCounter}
}

// Release creates the next job for this source, due at the given
// release/due dates and weight.
func (s *JobSource) Release(releaseDate, dueDate, weight float64) *Job {
	*s.nextJobID++
	j := NewJob(*s.nextJobID, s.JobType, s.RouteFn(), releaseDate, dueDate, weight)
	j.Name = s.Name
	return j
}

// Clone returns an independent copy. The id counter is intentionally
// NOT cloned — scenario cloning shares a single shop-level counter
// pointer per clone (each clone's Shop.Clone allocates its own counter
// and rewires every source to it), so this method alone is not
// sufficient for a full scenario clone; see Shop.Clone.
func (s *JobSource) Clone(idCounter *int64) *JobSource {
	return &JobSource{Name: s.Name, JobType: s.JobType, RouteFn: s.RouteFn, Store: s.Store.Clone(), nextJobID: idCounter}
}

// Shop is the owning container of workstations and job-sources for one
// scenario run (spec.md §3).
type Shop struct {
	Workstations map[string]*WorkStation
	Sources      []*JobSource
	jobIDCounter int64

	FinishedJobs   []*Job
	FinishedCount  int
}

// NewShop creates an empty shop.
func NewShop() *Shop {
	return &Shop{Workstations: make(map[string]*WorkStation)}
}

// AddWorkStation registers a workstation by ID.
func (s *Shop) AddWorkStation(ws *WorkStation) {
	s.Workstations[ws.ID] = ws
}

// AddSource registers a job source, wiring it to this shop's shared job
// ID counter.
func (s *Shop) AddSource(name, jobType string, routeFn func() Route) *JobSource {
	src := NewJobSource(name, jobType, routeFn, &s.jobIDCounter)
	s.Sources = append(s.Sources, src)
	return src
}

// MarkFinished records a job that has completed its entire route
// (spec.md §4.4, JOB_FINISHED).
func (s *Shop) MarkFinished(j *Job) {
	j.State = StateFinished
	s.FinishedJobs = append(s.FinishedJobs, j)
	s.FinishedCount++
}

// Clone returns a structurally independent copy of the whole shop:
// every job currently in flight (queued or processing) is cloned once
// into a fresh arena, and every workstation's queue/machine pointers
// are rewired to point into that arena instead of the original jobs
// (spec.md §9, Cloneability / cyclic back-references become arena
// indices rather than owning pointers).
func (s *Shop) Clone() *Shop {
	arena := make(map[int64]*Job)
	cloneJob := func(j *Job) *Job {
		if j == nil {
			return nil
		}
		if cp, ok := arena[j.ID]; ok {
			return cp
		}
		cp := j.Clone()
		arena[j.ID] = cp
		return cp
	}

	cp := &Shop{
		Workstations: make(map[string]*WorkStation, len(s.Workstations)),
		jobIDCounter: s.jobIDCounter,
	}
	for id, ws := range s.Workstations {
		wsCopy := ws.Clone()
		for i, j := range wsCopy.Queue {
			wsCopy.Queue[i] = cloneJob(j)
		}
		for i, j := range wsCopy.LookAheadArrivals {
			wsCopy.LookAheadArrivals[i] = cloneJob(j)
		}
		for i, m := range wsCopy.Machines {
			for k, j := range m.CurrentJobs {
				m.CurrentJobs[k] = cloneJob(j)
			}
			wsCopy.Machines[i] = m
		}
		cp.Workstations[id] = wsCopy
	}
	for _, src := range s.Sources {
		cp.Sources = append(cp.Sources, src.Clone(&cp.jobIDCounter))
	}
	for _, j := range s.FinishedJobs {
		cp.FinishedJobs = append(cp.FinishedJobs, cloneJob(j))
	}
	cp.FinishedCount = s.FinishedCount
	return cp
}
