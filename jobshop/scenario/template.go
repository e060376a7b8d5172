package scenario

import (
	"fmt"

	"github.com/jobshop-sim/jobshop-sim/jobshop"
	"github.com/jobshop-sim/jobshop-sim/jobshop/experiment"
	"github.com/jobshop-sim/jobshop-sim/jobshop/listener"
	"github.com/jobshop-sim/jobshop-sim/jobshop/priority"
	"github.com/jobshop-sim/jobshop-sim/jobshop/randstream"
	"github.com/jobshop-sim/jobshop-sim/jobshop/setup"
	"github.com/jobshop-sim/jobshop-sim/jobshop/shopmodel"
)

// Template wraps a Scenario as an experiment.Template: Clone deep-copies
// the static YAML-shaped definition, Build turns that definition into a
// fresh, Init-ready jobshop.Simulation (spec.md §4.7's "base template +
// configurations" shape, realized concretely over YAML data instead of
// the abstract Template interface's test fixtures).
//
// built holds the accumulate-then-contribute collectors (jobshop/listener)
// wired during the most recent Build, so FinalizeResults can write their
// numbers into the run's result map once it finishes (experiment.Finalizer).
type Template struct {
	Scenario *Scenario
	built    []listener.Collector
}

// New wraps sc as a Template.
func New(sc *Scenario) *Template {
	return &Template{Scenario: sc}
}

func (t *Template) Clone() experiment.Template {
	return &Template{Scenario: cloneScenario(t.Scenario)}
}

func cloneScenario(sc *Scenario) *Scenario {
	cp := *sc
	cp.Workstations = append([]WorkstationConfig(nil), sc.Workstations...)
	for i, ws := range cp.Workstations {
		cp.Workstations[i].Setup = append([]SetupEntry(nil), ws.Setup...)
	}
	cp.Sources = make([]SourceConfig, len(sc.Sources))
	for i, src := range sc.Sources {
		cp.Sources[i] = src
		cp.Sources[i].Interarrival.Values = append([]float64(nil), src.Interarrival.Values...)
		cp.Sources[i].Variants = make([][]OperationConfig, len(src.Variants))
		for j, variant := range src.Variants {
			cp.Sources[i].Variants[j] = append([]OperationConfig(nil), variant...)
		}
	}
	cp.Breakdowns = append([]BreakdownConfig(nil), sc.Breakdowns...)
	cp.Collectors = append([]CollectorConfig(nil), sc.Collectors...)
	return &cp
}

// Build constructs the Shop, Simulation, and attaches every configured
// collector, following the scenario's current (possibly factor-applied)
// field values.
func (t *Template) Build() (*jobshop.Simulation, error) {
	sc := t.Scenario
	shop := shopmodel.NewShop()

	for _, wsc := range sc.Workstations {
		ws, err := buildWorkstation(wsc)
		if err != nil {
			return nil, err
		}
		shop.AddWorkStation(ws)
	}

	sim := jobshop.NewSimulation(shop, sc.Horizon, sc.CompletionLimit)

	for _, srcc := range sc.Sources {
		if err := buildSource(sim, srcc); err != nil {
			return nil, err
		}
	}

	for _, bdc := range sc.Breakdowns {
		mtbf, err := buildStream(bdc.MTBF)
		if err != nil {
			return nil, fmt.Errorf("scenario: breakdown %s mtbf: %w", bdc.Workstation, err)
		}
		mttr, err := buildStream(bdc.MTTR)
		if err != nil {
			return nil, fmt.Errorf("scenario: breakdown %s mttr: %w", bdc.Workstation, err)
		}
		sim.AddBreakdown(bdc.Workstation, bdc.MachineIndex, mtbf, mttr)
	}

	t.built = nil
	for _, cc := range sc.Collectors {
		c, err := buildCollector(cc, sim.Horizon)
		if err != nil {
			return nil, err
		}
		if err := listener.Attach(sim.Bus, c, collectorKinds(cc.Kind)...); err != nil {
			return nil, err
		}
		t.built = append(t.built, c)
	}

	return sim, nil
}

// FinalizeResults writes every collector built during Build into sim's
// result map (experiment.Finalizer).
func (t *Template) FinalizeResults(sim *jobshop.Simulation) error {
	for _, c := range t.built {
		if err := c.Contribute(sim.Results); err != nil {
			return err
		}
	}
	return nil
}

func buildWorkstation(wsc WorkstationConfig) (*shopmodel.WorkStation, error) {
	if wsc.Capacity < 1 {
		return nil, &jobshop.ConfigurationError{Path: "workstations." + wsc.ID + ".capacity", Reason: "must be >= 1"}
	}
	ws := shopmodel.NewWorkStation(wsc.ID, wsc.Capacity)
	ws.Rule = priority.New(wsc.Rule)
	ws.LookAheadEnabled = wsc.LookAhead
	ws.Batcher = setup.ByFamily{MinBatch: wsc.MinBatch}
	for _, e := range wsc.Setup {
		ws.SetupMatrix.Set(e.From, e.To, e.Time)
	}
	switch wsc.DownPolicy {
	case "", "preserve":
		ws.DownPolicy = shopmodel.PreserveRemaining
	case "discard":
		ws.DownPolicy = shopmodel.DiscardRemaining
	default:
		return nil, &jobshop.ConfigurationError{Path: "workstations." + wsc.ID + ".downPolicy", Reason: "must be preserve or discard"}
	}
	return ws, nil
}

func buildSource(sim *jobshop.Simulation, srcc SourceConfig) error {
	if len(srcc.Variants) == 0 {
		return &jobshop.ConfigurationError{Path: "sources." + srcc.Name + ".variants", Reason: "must have at least one route variant"}
	}
	interarrival, err := buildStream(srcc.Interarrival)
	if err != nil {
		return fmt.Errorf("scenario: source %s interarrival: %w", srcc.Name, err)
	}

	variants := srcc.Variants
	idx := 0
	routeFn := func() shopmodel.Route {
		v := variants[idx%len(variants)]
		idx++
		route := make(shopmodel.Route, len(v))
		for i, op := range v {
			route[i] = shopmodel.Operation{
				WorkstationID: op.Workstation,
				ProcTime:      op.ProcTime,
				SetupFamily:   op.SetupFamily,
				BatchFamily:   op.BatchFamily,
			}
		}
		return route
	}

	factor := srcc.DueDateFactor
	var dueDateFn func(releaseDate, totalProcTime float64) float64
	if factor > 0 {
		dueDateFn = func(releaseDate, totalProcTime float64) float64 {
			return releaseDate + totalProcTime*factor
		}
	}

	sim.AddSource(srcc.Name, srcc.JobType, routeFn, interarrival, dueDateFn, nil)
	return nil
}

func buildStream(sc StreamConfig) (randstream.Stream, error) {
	switch sc.Kind {
	case "", "const":
		if len(sc.Values) == 0 {
			return nil, fmt.Errorf("const stream requires at least one value")
		}
		return randstream.NewDblConst(sc.Values), nil
	case "exponential":
		return randstream.NewExponential(sc.Seed, sc.Rate), nil
	case "uniform":
		return randstream.NewUniform(sc.Seed, sc.Low, sc.High), nil
	case "normal":
		return randstream.NewNormal(sc.Seed, sc.Mean, sc.Stddev), nil
	default:
		return nil, fmt.Errorf("unknown stream kind %q", sc.Kind)
	}
}

func buildCollector(cc CollectorConfig, horizon float64) (listener.Collector, error) {
	switch cc.Kind {
	case "flowTime":
		return listener.NewFlowTimeCollector(cc.Key), nil
	case "tardiness":
		return listener.NewTardinessCollector(cc.Key), nil
	case "makespan":
		return listener.NewMakespanCollector(cc.Key), nil
	case "utilization":
		return listener.NewUtilizationCollector(cc.Key, horizon), nil
	case "setupChangeover":
		return listener.NewSetupChangeoverCollector(cc.Key), nil
	default:
		return nil, &jobshop.ConfigurationError{Path: "collectors", Reason: fmt.Sprintf("unknown collector kind %q", cc.Kind)}
	}
}

// collectorKinds returns the event kinds a given collector kind needs
// subscribed, mirroring each Collector's own Inform switch in
// jobshop/listener/listener.go.
func collectorKinds(kind string) []jobshop.EventKind {
	switch kind {
	case "utilization":
		return []jobshop.EventKind{jobshop.JobStartOperation, jobshop.JobEndOperation}
	case "setupChangeover":
		return []jobshop.EventKind{jobshop.WSJobSelected}
	default:
		return []jobshop.EventKind{jobshop.JobFinished}
	}
}
