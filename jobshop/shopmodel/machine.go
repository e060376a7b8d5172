package shopmodel

// MachineState is an IndividualMachine's lifecycle state (spec.md §3).
type MachineState int

const (
	MachineIdle MachineState = iota
	MachineProcessing
	MachineDown
	MachineInactive
)

func (s MachineState) String() string {
	switch s {
	case MachineIdle:
		return "idle"
	case MachineProcessing:
		return "processing"
	case MachineDown:
		return "down"
	case MachineInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// DownTimePolicy controls what happens to in-progress work when a
// machine breaks down mid-operation — the Open Question pinned in
// SPEC_FULL.md §9.
type DownTimePolicy int

const (
	// PreserveRemaining keeps the remaining processing time of the
	// interrupted operation; the job resumes where it left off once the
	// machine comes back up. This is the default.
	PreserveRemaining DownTimePolicy = iota
	// DiscardRemaining abandons progress on the interrupted operation;
	// the job's operation restarts from scratch on resumption.
	DiscardRemaining
)

// IndividualMachine is a single processing sub-unit of a WorkStation.
type IndividualMachine struct {
	ID   string
	State MachineState

	// CurrentJobs holds the job (or, for a batch, all jobs) currently
	// being processed on this machine. Length 0 when Idle/Down/Inactive
	// with nothing in flight.
	CurrentJobs      []*Job
	CurrentSetupFam  string
	ProcFinished     float64
	RemainingOnPause float64 // valid only while State == MachineDown and the workstation's policy is PreserveRemaining
}

// NewIndividualMachine creates an idle machine with no prior setup
// state (empty setup family means "first job always pays setup cost"
// is a policy decision left to the setup matrix).
func NewIndividualMachine(id string) *IndividualMachine {
	return &IndividualMachine{ID: id, State: MachineIdle}
}

// Clone returns an independent copy. CurrentJobs, if any, are NOT deep
// cloned here — the owning WorkStation/Shop clone is responsible for
// re-pointing them at the corresponding cloned Jobs, matching the
// "shared arena, not owning pointers" guidance in SPEC_FULL.md §9.
func (m *IndividualMachine) Clone() *IndividualMachine {
	cp := *m
	cp.CurrentJobs = append([]*Job(nil), m.CurrentJobs...)
	return &cp
}
