package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobshop-sim/jobshop-sim/jobshop"
)

func newBase(marker string) *Experiment {
	return &Experiment{
		Name:     "base",
		Template: &testTemplate{Horizon: 100, DueDateFactor: 1.0, Marker: marker},
		Setter:   fieldSetter{},
		Attach:   dueDateListener,
	}
}

func TestKeyOrderAppliesContainerBeforeSubProperty(t *testing.T) {
	cfg := Configuration{
		"workstations.W1.rule": "fcfs",
		"@":                    &testTemplate{},
		"null":                 nil,
		"horizon":              100.0,
	}
	got := sortedPropertyKeys(cfg)
	require.Equal(t, []string{"null", "horizon", "workstations.W1.rule"}, got)
}

func TestSignatureExcludesTemplateAndNoop(t *testing.T) {
	cfg := Configuration{"dueDateFactor": 2.0, "@": &testTemplate{}, "null": nil}
	require.Equal(t, "dueDateFactor=2", signature(cfg))
}

// S4: a base experiment with sim.length = 100 (Horizon); configurations
// {dueDateFactor: 1.0} and {dueDateFactor: 2.0, "@": altTemplate} — the
// second must use altTemplate as its clone source, not the base.
func TestS4FactorSweepWithComplexSetter(t *testing.T) {
	alt := &testTemplate{Horizon: 100, DueDateFactor: 1.0, Marker: "alt"}

	mce := &MultiConfExperiment{
		Base:         newBase("base"),
		Replications: 1,
		Configurations: []Configuration{
			{"dueDateFactor": 1.0},
			{"dueDateFactor": 2.0, "@": alt},
		},
	}

	outcomes := mce.Run(context.Background())
	require.Len(t, outcomes, 2)

	require.Equal(t, 0, outcomes[0].AbortCount)
	require.Equal(t, "base", outcomes[0].Replications[0]["marker"])
	require.Equal(t, 1.0, outcomes[0].Replications[0]["dueDate"])

	require.Equal(t, 0, outcomes[1].AbortCount)
	require.Equal(t, "alt", outcomes[1].Replications[0]["marker"]) // cloned from altTemplate, not base
	require.Equal(t, 2.0, outcomes[1].Replications[0]["dueDate"])
}

// S6: in a 4-configuration sweep, configuration #2 raises an exception
// during setup; the result aggregation contains three successful result
// maps and one with EXCEPTION / EXCEPTION_MESSAGE populated; abortCount
// == 1 for that configuration.
func TestS6FaultIsolationAcrossSweep(t *testing.T) {
	mce := &MultiConfExperiment{
		Base:         newBase("base"),
		Replications: 1,
		Configurations: []Configuration{
			{"dueDateFactor": 1.0},
			{"dueDateFactor": "not-a-float"}, // type mismatch -> ConfigurationError during Apply
			{"dueDateFactor": 2.0},
			{"dueDateFactor": 3.0},
		},
	}

	outcomes := mce.Run(context.Background())
	require.Len(t, outcomes, 4)

	succeeded := 0
	for i, out := range outcomes {
		if i == 1 {
			require.Equal(t, 1, out.AbortCount)
			require.Len(t, out.Replications, 1)
			rm := out.Replications[0]
			require.NotEmpty(t, rm[jobshop.ResultException])
			require.NotEmpty(t, rm[jobshop.ResultExceptionMessage])
			continue
		}
		require.Equal(t, 0, out.AbortCount)
		succeeded++
	}
	require.Equal(t, 3, succeeded)
}

func TestValidateSkipsRejectedConfigurations(t *testing.T) {
	mce := &MultiConfExperiment{
		Base:         newBase("base"),
		Replications: 1,
		Configurations: []Configuration{
			{"dueDateFactor": 1.0},
			{"dueDateFactor": -1.0},
		},
		Validate: func(cfg Configuration) bool {
			f, ok := cfg["dueDateFactor"].(float64)
			return ok && f >= 0
		},
	}
	outcomes := mce.Run(context.Background())
	require.Len(t, outcomes, 1)
}

func TestAggregateSummarizesAcrossReplications(t *testing.T) {
	mce := &MultiConfExperiment{
		Base:         newBase("base"),
		Replications: 4,
		Configurations: []Configuration{
			{"dueDateFactor": 1.0},
		},
	}
	outcomes := mce.Run(context.Background())
	require.Len(t, outcomes, 1)
	require.Len(t, outcomes[0].Replications, 4)

	agg := Aggregate(outcomes[0])
	require.Equal(t, 4.0, agg["dueDate.count"])
	require.Equal(t, 1.0, agg["dueDate.mean"])
	require.Equal(t, 0.0, agg["dueDate.stddev"])
}
