package experiment

import (
	"github.com/jobshop-sim/jobshop-sim/jobshop"
	"github.com/jobshop-sim/jobshop-sim/jobshop/priority"
	"github.com/jobshop-sim/jobshop-sim/jobshop/randstream"
	"github.com/jobshop-sim/jobshop-sim/jobshop/shopmodel"
)

// testTemplate is a minimal Template: one workstation, one job, a
// dueDateFactor property a Setter can target, and a marker string used
// by tests to tell which template instance actually built the
// Simulation (spec.md S4's "must use altTemplate as its clone source").
type testTemplate struct {
	Horizon       float64
	DueDateFactor float64
	Marker        string
	Fail          bool
}

func (t *testTemplate) Clone() Template {
	cp := *t
	return &cp
}

func (t *testTemplate) Build() (*jobshop.Simulation, error) {
	if t.Fail {
		return nil, &jobshop.ConfigurationError{Reason: "template configured to fail"}
	}
	shop := shopmodel.NewShop()
	ws := shopmodel.NewWorkStation("W1", 1)
	ws.Rule = priority.FCFS{}
	shop.AddWorkStation(ws)

	sim := jobshop.NewSimulation(shop, t.Horizon, 1)
	sim.Results.MustSet("marker", t.Marker)
	factor := t.DueDateFactor
	// A single release: Init schedules the first one unconditionally at
	// t=0, and a 1e6 interarrival delta pushes the would-be second
	// release past any realistic Horizon, so release() never
	// self-reschedules again.
	sim.AddSource("src", "part", func() shopmodel.Route {
		return shopmodel.Route{{WorkstationID: "W1", ProcTime: 1}}
	}, randstream.NewDblConst([]float64{1e6}), func(releaseDate, totalProcTime float64) float64 {
		return releaseDate + totalProcTime*factor
	}, nil)
	return sim, nil
}

// fieldSetter is a hand-written Setter for testTemplate's two scalar
// properties — a stand-in for jobshop/scenario's reflection-based
// Setter, which targets arbitrary scenario types rather than this test
// fixture.
type fieldSetter struct{}

func (fieldSetter) Set(tmpl Template, path string, value any) error {
	t, ok := tmpl.(*testTemplate)
	if !ok {
		return &jobshop.ConfigurationError{Path: path, Reason: "fieldSetter only supports *testTemplate"}
	}
	switch path {
	case "dueDateFactor":
		f, ok := value.(float64)
		if !ok {
			return &jobshop.ConfigurationError{Path: path, Reason: "want float64"}
		}
		t.DueDateFactor = f
	case "horizon":
		f, ok := value.(float64)
		if !ok {
			return &jobshop.ConfigurationError{Path: path, Reason: "want float64"}
		}
		t.Horizon = f
	default:
		return &jobshop.ConfigurationError{Path: path, Reason: "unknown property"}
	}
	return nil
}

func dueDateListener(sim *jobshop.Simulation) {
	sim.Bus.Subscribe(jobshop.JobFinished, jobshop.ListenerFunc(func(source any, kind jobshop.EventKind, payload any) {
		p := payload.(jobshop.JobFinishedPayload)
		sim.Results.MustSet("dueDate", p.Job.DueDate)
	}))
}
