package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func twoStageScenario() *Scenario {
	return &Scenario{
		Name:            "two-stage",
		Horizon:         50,
		CompletionLimit: 2,
		Workstations: []WorkstationConfig{
			{ID: "W1", Capacity: 1, Rule: "fcfs"},
			{ID: "W2", Capacity: 1, Rule: "setup-minimizing", LookAhead: true, Setup: []SetupEntry{
				{From: "A", To: "B", Time: 1},
				{From: "B", To: "A", Time: 1},
			}},
		},
		Sources: []SourceConfig{
			{
				Name: "src", JobType: "part", DueDateFactor: 1.5,
				Interarrival: StreamConfig{Kind: "const", Values: []float64{0, 1e6}},
				Variants: [][]OperationConfig{
					{{Workstation: "W1", ProcTime: 2, SetupFamily: "A"}, {Workstation: "W2", ProcTime: 1, SetupFamily: "A"}},
					{{Workstation: "W1", ProcTime: 2, SetupFamily: "B"}, {Workstation: "W2", ProcTime: 1, SetupFamily: "B"}},
				},
			},
		},
		Collectors: []CollectorConfig{
			{Kind: "flowTime", Key: "flowTime"},
			{Kind: "setupChangeover", Key: "changeovers"},
		},
	}
}

func TestBuildAndRunScenario(t *testing.T) {
	tmpl := New(twoStageScenario())

	sim, err := tmpl.Build()
	require.NoError(t, err)
	require.NoError(t, sim.Init())
	require.NoError(t, sim.Run())
	require.NoError(t, tmpl.FinalizeResults(sim))
	rm := sim.Finalize()

	require.Equal(t, 2, rm["flowTime.count"])
	require.Contains(t, rm, "changeovers.W2")
}

func TestCloneIsIndependent(t *testing.T) {
	base := New(twoStageScenario())
	clone := base.Clone().(*Template)
	clone.Scenario.Horizon = 999
	clone.Scenario.Workstations[0].Rule = "spt"

	require.Equal(t, 50.0, base.Scenario.Horizon)
	require.Equal(t, "fcfs", base.Scenario.Workstations[0].Rule)
}

func TestUnknownWorkstationInRoutePanicsAtRun(t *testing.T) {
	sc := twoStageScenario()
	sc.Sources[0].Variants[0][0].Workstation = "W9"
	tmpl := New(sc)

	sim, err := tmpl.Build()
	require.NoError(t, err) // workstation references aren't validated until release time
	require.NoError(t, sim.Init())
	require.Panics(t, func() { _ = sim.Run() })
}

func TestBuildRejectsZeroCapacityWorkstation(t *testing.T) {
	sc := twoStageScenario()
	sc.Workstations[0].Capacity = 0
	_, err := New(sc).Build()
	require.Error(t, err)
}
