package shopmodel

import "testing"

func enqueueJob(ws *WorkStation, id int64, family string) *Job {
	route := Route{{WorkstationID: ws.ID, ProcTime: 1, SetupFamily: family}}
	j := NewJob(id, "t", route, 0, 0, 1)
	ws.Enqueue(j)
	return j
}

func TestWorkStationIdleMachineAndSelection(t *testing.T) {
	ws := NewWorkStation("W1", 1)
	ws.Rule = FCFSForTest{}
	enqueueJob(ws, 1, "A")
	enqueueJob(ws, 2, "A")

	if m := ws.IdleMachine(); m == nil || m.ID != "W1#0" {
		t.Fatalf("expected idle machine W1#0, got %v", m)
	}

	target := ws.SelectTarget(0)
	if target == nil || target.EarliestJobNumber() != 1 {
		t.Fatalf("expected job 1 selected, got %v", target)
	}
	ws.RemoveTarget(target)
	if len(ws.Queue) != 1 || ws.Queue[0].ID != 2 {
		t.Fatalf("expected job 2 left in queue, got %+v", ws.Queue)
	}
}

func TestWorkStationSelectTargetEmptyQueue(t *testing.T) {
	ws := NewWorkStation("W1", 1)
	ws.Rule = FCFSForTest{}
	if got := ws.SelectTarget(0); got != nil {
		t.Fatalf("expected nil target for empty queue, got %v", got)
	}
}

func TestWorkStationLookAheadHiddenWhenDisabled(t *testing.T) {
	ws := NewWorkStation("W1", 1)
	captured := &capturingRule{}
	ws.Rule = captured
	enqueueJob(ws, 1, "A")
	future := NewJob(99, "t", Route{{WorkstationID: "W1", ProcTime: 1, SetupFamily: "B"}}, 0, 0, 1)
	future.IsFuture = true
	ws.LookAheadArrivals = append(ws.LookAheadArrivals, future)

	ws.SelectTarget(0)
	if len(captured.lookAhead) != 0 {
		t.Fatalf("expected no look-ahead visibility when disabled, got %d entries", len(captured.lookAhead))
	}

	ws.LookAheadEnabled = true
	ws.SelectTarget(0)
	if len(captured.lookAhead) != 1 {
		t.Fatalf("expected look-ahead visibility once enabled, got %d entries", len(captured.lookAhead))
	}
}

func TestWorkStationRemoveLookAhead(t *testing.T) {
	ws := NewWorkStation("W1", 1)
	future := enqueueJob(ws, 5, "A")
	ws.LookAheadArrivals = []*Job{future}
	ws.RemoveLookAhead(5)
	if len(ws.LookAheadArrivals) != 0 {
		t.Fatalf("expected look-ahead entry removed")
	}
}

func TestWorkStationCloneIsIndependent(t *testing.T) {
	ws := NewWorkStation("W1", 2)
	ws.SetupMatrix.Set("A", "B", 3)
	enqueueJob(ws, 1, "A")

	cp := ws.Clone()
	cp.Enqueue(enqueueJob(cp, 2, "B"))
	if len(ws.Queue) != 1 {
		t.Fatalf("cloning must not affect original queue, got len %d", len(ws.Queue))
	}
	cp.SetupMatrix.Set("A", "B", 99)
	if got := ws.SetupMatrix.Lookup("A", "B"); got != 3 {
		t.Fatalf("cloned setup matrix must be independent, original got %v", got)
	}
}

// FCFSForTest and capturingRule avoid importing the priority package here
// (shopmodel must not depend on its own consumers).
type FCFSForTest struct{}

func (FCFSForTest) Select(_ *WorkStation, queue []PrioRuleTarget, _ []PrioRuleTarget, _ float64) PrioRuleTarget {
	if len(queue) == 0 {
		return nil
	}
	best := queue[0]
	for _, t := range queue[1:] {
		if t.EarliestJobNumber() < best.EarliestJobNumber() {
			best = t
		}
	}
	return best
}
func (FCFSForTest) Clone() PriorityRule { return FCFSForTest{} }

type capturingRule struct {
	lookAhead []PrioRuleTarget
}

func (r *capturingRule) Select(_ *WorkStation, queue []PrioRuleTarget, lookAhead []PrioRuleTarget, _ float64) PrioRuleTarget {
	r.lookAhead = lookAhead
	if len(queue) == 0 {
		return nil
	}
	return queue[0]
}
func (r *capturingRule) Clone() PriorityRule { return &capturingRule{} }
