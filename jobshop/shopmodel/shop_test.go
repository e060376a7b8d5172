package shopmodel

import "testing"

func buildShop() *Shop {
	shop := NewShop()
	ws1 := NewWorkStation("W1", 1)
	ws1.Rule = FCFSForTest{}
	ws2 := NewWorkStation("W2", 1)
	ws2.Rule = FCFSForTest{}
	shop.AddWorkStation(ws1)
	shop.AddWorkStation(ws2)
	shop.AddSource("src", "t", func() Route {
		return Route{{WorkstationID: "W1", ProcTime: 2}, {WorkstationID: "W2", ProcTime: 3}}
	})
	return shop
}

func TestShopCloneIsStructurallyIndependent(t *testing.T) {
	shop := buildShop()
	j := shop.Sources[0].Release(0, 10, 1)
	ws1 := shop.Workstations["W1"]
	ws1.Enqueue(j)
	ws1.Machines[0].State = MachineProcessing
	ws1.Machines[0].CurrentJobs = []*Job{j}

	cp := shop.Clone()
	cpWS1 := cp.Workstations["W1"]

	// The clone's queue and machine must point at the SAME cloned Job
	// instance (arena de-duplication), not two independent copies.
	if cpWS1.Queue[0] != cpWS1.Machines[0].CurrentJobs[0] {
		t.Fatal("expected arena to de-duplicate the job appearing in both queue and machine")
	}
	if cpWS1.Queue[0] == j {
		t.Fatal("clone must not share the original Job pointer")
	}

	cpWS1.Queue[0].DueDate = 999
	if j.DueDate == 999 {
		t.Fatal("mutating the clone must not affect the original")
	}
}

func TestShopCloneIndependentSourceCounters(t *testing.T) {
	shop := buildShop()
	shop.Sources[0].Release(0, 0, 1)

	cp := shop.Clone()
	cloneJob := cp.Sources[0].Release(0, 0, 1)
	origJob := shop.Sources[0].Release(0, 0, 1)

	if cloneJob.ID != origJob.ID {
		t.Fatalf("clone and original counters diverged: clone=%d orig=%d", cloneJob.ID, origJob.ID)
	}
}

func TestShopMarkFinished(t *testing.T) {
	shop := buildShop()
	j := shop.Sources[0].Release(0, 0, 1)
	shop.MarkFinished(j)
	if j.State != StateFinished {
		t.Fatalf("expected job marked finished, got state %v", j.State)
	}
	if shop.FinishedCount != 1 || len(shop.FinishedJobs) != 1 {
		t.Fatalf("expected 1 finished job recorded, got count=%d len=%d", shop.FinishedCount, len(shop.FinishedJobs))
	}
}
