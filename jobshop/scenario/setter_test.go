package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetterAssignsTopLevelField(t *testing.T) {
	tmpl := New(twoStageScenario())
	require.NoError(t, Setter{}.Set(tmpl, "horizon", 200.0))
	require.Equal(t, 200.0, tmpl.Scenario.Horizon)
}

func TestSetterAssignsByWorkstationID(t *testing.T) {
	tmpl := New(twoStageScenario())
	require.NoError(t, Setter{}.Set(tmpl, "workstations.W2.rule", "spt"))
	require.Equal(t, "spt", tmpl.Scenario.Workstations[1].Rule)
}

func TestSetterAssignsBySourceNameNestedField(t *testing.T) {
	tmpl := New(twoStageScenario())
	require.NoError(t, Setter{}.Set(tmpl, "sources.src.dueDateFactor", 3.0))
	require.Equal(t, 3.0, tmpl.Scenario.Sources[0].DueDateFactor)
}

func TestSetterAssignsByIndex(t *testing.T) {
	tmpl := New(twoStageScenario())
	require.NoError(t, Setter{}.Set(tmpl, "workstations.0.capacity", 2))
	require.Equal(t, 2, tmpl.Scenario.Workstations[0].Capacity)
}

func TestSetterRejectsUnknownField(t *testing.T) {
	tmpl := New(twoStageScenario())
	err := Setter{}.Set(tmpl, "workstations.W2.bogus", 1.0)
	require.Error(t, err)
}

func TestSetterRejectsUnknownElement(t *testing.T) {
	tmpl := New(twoStageScenario())
	err := Setter{}.Set(tmpl, "workstations.W9.rule", "spt")
	require.Error(t, err)
}

func TestSetterRejectsWrongTemplateType(t *testing.T) {
	err := Setter{}.Set(nil, "horizon", 1.0)
	require.Error(t, err)
}

func TestSetterRejectsTypeMismatch(t *testing.T) {
	tmpl := New(twoStageScenario())
	err := Setter{}.Set(tmpl, "horizon", "not-a-number")
	require.Error(t, err)
}
