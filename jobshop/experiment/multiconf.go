package experiment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ygrebnov/workers"

	"github.com/jobshop-sim/jobshop-sim/jobshop"
)

// Configuration maps property paths to factor values that specialize a
// base Experiment (spec.md §4.7: "a mapping property-path -> value").
// Two keys are reserved: templateKey selects an alternate clone source
// instead of the base experiment's own template, and noopKey is an
// explicit entry applied as a no-op — useful when a configuration needs
// to run without changing anything. Neither key appears in the
// configuration's signature.
type Configuration map[string]any

const (
	templateKey = "@"
	noopKey     = "null"
)

// keyOrder returns a key's sort weight for factor-application ordering
// (spec.md §4.7.2(c)): "ascending key-length order, with null treated
// as length -1 and the reserved @ key as length -2 ... this ordering
// ensures a containing object is set before its sub-properties."
func keyOrder(k string) int {
	switch k {
	case templateKey:
		return -2
	case noopKey:
		return -1
	default:
		return len(k)
	}
}

// sortedPropertyKeys returns cfg's keys destined for Apply, in
// ascending key-length order (ties broken lexicographically for
// determinism), excluding templateKey — it selects a clone source, it
// is never applied as a property.
func sortedPropertyKeys(cfg Configuration) []string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		if k == templateKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, oj := keyOrder(keys[i]), keyOrder(keys[j])
		if oi != oj {
			return oi < oj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// signature derives a stable, human-readable identifier for a
// configuration from its sorted property keys — the key aggregation
// groups replications by (spec.md §4.7.3: "keyed by their configuration
// signature").
func signature(cfg Configuration) string {
	keys := sortedPropertyKeys(cfg)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == noopKey {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, cfg[k]))
	}
	if len(parts) == 0 {
		return "(base)"
	}
	return strings.Join(parts, ",")
}

// MultiConfExperiment runs a base Experiment under many configurations,
// each optionally replicated, isolating per-configuration failures
// instead of aborting the sweep (spec.md §4.7.2).
type MultiConfExperiment struct {
	Base           *Experiment
	Configurations []Configuration
	// Validate rejects a configuration before it is run when it returns
	// false; rejected configurations are silently skipped (spec.md
	// §4.7.2(a)). Nil accepts everything.
	Validate func(Configuration) bool
	// Replications is how many independent clones run per
	// configuration. <= 1 means one replication.
	Replications int
	// MaxWorkers bounds the replication worker pool; 0 means a
	// dynamically sized pool (spec.md §5: "each worker owns a disjoint
	// deep-clone of the template").
	MaxWorkers uint
}

// ConfigOutcome holds one configuration's raw per-replication results,
// before aggregation.
type ConfigOutcome struct {
	Signature    string
	Config       Configuration
	Replications []jobshop.ResultMap
	AbortCount   int
}

type replResult struct {
	results jobshop.ResultMap
	err     error
}

// Run executes every non-rejected configuration and returns one
// ConfigOutcome per configuration actually run, in input order.
func (m *MultiConfExperiment) Run(ctx context.Context) []ConfigOutcome {
	outcomes := make([]ConfigOutcome, 0, len(m.Configurations))
	for _, cfg := range m.Configurations {
		if m.Validate != nil && !m.Validate(cfg) {
			continue
		}
		outcomes = append(outcomes, m.runConfiguration(ctx, cfg))
	}
	return outcomes
}

func (m *MultiConfExperiment) runConfiguration(ctx context.Context, cfg Configuration) ConfigOutcome {
	out := ConfigOutcome{Signature: signature(cfg), Config: cfg}

	n := m.Replications
	if n < 1 {
		n = 1
	}

	tasks := make([]workers.Task[replResult], n)
	for i := range tasks {
		tasks[i] = workers.TaskValue(func(context.Context) replResult {
			return m.runReplication(cfg)
		})
	}

	opts := []workers.Option{}
	if m.MaxWorkers > 0 {
		opts = append(opts, workers.WithFixedPool(m.MaxWorkers))
	} else {
		opts = append(opts, workers.WithDynamicPool())
	}

	// Per-replication failures are captured inside replResult rather
	// than returned as task errors, so RunAll's own StopOnError
	// semantics (left at its false default) never cut the sweep short
	// (spec.md §5: "StopOnError=false — sweep must continue past
	// per-configuration failures").
	results, _ := workers.RunAll[replResult](ctx, tasks, opts...)

	for _, r := range results {
		if r.err != nil {
			out.AbortCount++
			rm := jobshop.ResultMap{}
			rm.MustSet(jobshop.ResultException, fmt.Sprintf("%T", r.err))
			rm.MustSet(jobshop.ResultExceptionMessage, r.err.Error())
			out.Replications = append(out.Replications, rm)
			continue
		}
		out.Replications = append(out.Replications, r.results)
	}
	return out
}

// runReplication clones the base experiment (or the configuration's own
// alternate template, under templateKey), applies every property in
// ascending key-length order, runs it, and recovers from any panic
// raised along the way so that one faulty configuration never takes
// down the whole sweep (spec.md §4.7.2(d)).
func (m *MultiConfExperiment) runReplication(cfg Configuration) (res replResult) {
	defer func() {
		if r := recover(); r != nil {
			res = replResult{err: fmt.Errorf("experiment: panic during replication: %v", r)}
		}
	}()

	exp := m.Base.Clone()
	if alt, ok := cfg[templateKey]; ok {
		tmpl, ok := alt.(Template)
		if !ok {
			return replResult{err: &jobshop.ConfigurationError{Path: templateKey, Reason: "value is not a Template"}}
		}
		exp.Template = tmpl.Clone()
	}

	for _, k := range sortedPropertyKeys(cfg) {
		if k == noopKey {
			continue
		}
		if err := exp.Apply(k, cfg[k]); err != nil {
			return replResult{err: err}
		}
	}

	rm, err := exp.Run()
	if err != nil {
		return replResult{err: err}
	}
	return replResult{results: rm}
}
