// Package experiment implements the factor-sweep driver named in
// spec.md §4.7: an Experiment wraps one scenario run, a
// MultiConfExperiment clones a base template once per configuration,
// applies a set of factors to each clone, runs it (possibly replicated),
// and aggregates the numeric results. It is grounded on the same
// "clone a template, run it, collect a result map" shape the teacher
// uses for a single scenario (sim/simulation.go's Run), generalized to
// many parameterized clones run across a worker pool instead of one.
package experiment

import (
	"github.com/jobshop-sim/jobshop-sim/jobshop"
)

// Template is anything an Experiment can clone and run: a fully wired
// scenario definition capable of producing a fresh, Init-ready
// Simulation on demand. jobshop/scenario's YAML-loaded scenarios
// implement this; tests may supply a trivial implementation (spec.md
// §9: "Cloneability of every entity is used as the deep-copy mechanism
// for experiment replication").
type Template interface {
	// Clone returns an independent deep copy, safe to mutate and run
	// without affecting the original or any sibling clone.
	Clone() Template
	// Build constructs a fresh Simulation from the template's current
	// state. Called once per replication, after all factors for that
	// replication's configuration have been applied.
	Build() (*jobshop.Simulation, error)
}

// Cloneable marks a factor value that must be deep-copied before being
// assigned into a configuration's cloned template, so replications
// never share a mutable sub-object (spec.md §4.7: "cloneable objects
// (deep-cloned into each replica)").
type Cloneable interface {
	Clone() any
}

// ComplexFactorSetter configures a cloned Experiment procedurally
// instead of through a property path — for factors that can't be
// expressed as a single scalar assignment (spec.md §4.7: "a callable
// that receives the cloned experiment and configures it procedurally").
type ComplexFactorSetter func(*Experiment) error

// Setter assigns a value at a dotted property path on a Template. The
// driver consumes this interface without knowing how paths resolve
// (spec.md §9 design note: "the core defines a Setter interface the
// driver consumes"); jobshop/scenario supplies a reflection-based
// implementation, and tests may supply a trivial one.
type Setter interface {
	Set(tmpl Template, path string, value any) error
}

// Experiment wraps one parameterized scenario run (spec.md §4.7: "An
// Experiment wraps one scenario run").
type Experiment struct {
	Name     string
	Template Template
	Setter   Setter
	// Attach wires statistics collectors onto a freshly built
	// Simulation before Init runs. Optional; nil means no collectors
	// beyond whatever the template itself builds in.
	Attach func(*jobshop.Simulation)
}

// Clone returns an independent Experiment over an independently cloned
// Template, ready to receive its own factor set.
func (e *Experiment) Clone() *Experiment {
	return &Experiment{Name: e.Name, Template: e.Template.Clone(), Setter: e.Setter, Attach: e.Attach}
}

// Apply assigns value at path on the experiment's template, per
// spec.md §4.7.3: a ComplexFactorSetter is invoked directly against the
// experiment; a Cloneable value is deep-copied first; anything else is
// handed to the configured Setter verbatim.
func (e *Experiment) Apply(path string, value any) error {
	if cfs, ok := value.(ComplexFactorSetter); ok {
		return cfs(e)
	}
	if cl, ok := value.(Cloneable); ok {
		value = cl.Clone()
	}
	if e.Setter == nil {
		return &jobshop.ConfigurationError{Path: path, Reason: "experiment has no Setter configured"}
	}
	return e.Setter.Set(e.Template, path, value)
}

// Finalizer is an optional Template extension for templates that attach
// accumulate-then-contribute statistics collectors (jobshop/listener's
// Collector: accumulate during the run via Inform, write into the result
// map exactly once via Contribute). A Template implementing Finalizer
// has FinalizeResults called after Run succeeds and before Finalize, so
// its collectors' numbers land in the same result map Finalize returns.
// Templates with no such collectors need not implement this.
type Finalizer interface {
	FinalizeResults(sim *jobshop.Simulation) error
}

// Run builds a fresh Simulation from the template, attaches listeners,
// and drives it through Init/Run/Finalize, returning its result map.
func (e *Experiment) Run() (jobshop.ResultMap, error) {
	if e.Template == nil {
		return nil, &jobshop.ConfigurationError{Reason: "experiment has no Template"}
	}
	sim, err := e.Template.Build()
	if err != nil {
		return nil, err
	}
	if e.Attach != nil {
		e.Attach(sim)
	}
	if err := sim.Init(); err != nil {
		return nil, err
	}
	if err := sim.Run(); err != nil {
		return nil, err
	}
	if fz, ok := e.Template.(Finalizer); ok {
		if err := fz.FinalizeResults(sim); err != nil {
			return nil, err
		}
	}
	return sim.Finalize(), nil
}
