package shopmodel

import "testing"

func testRoute() Route {
	return Route{
		{WorkstationID: "W1", ProcTime: 2.0, SetupFamily: "A"},
		{WorkstationID: "W2", ProcTime: 3.0, SetupFamily: "B"},
		{WorkstationID: "W3", ProcTime: 5.0, SetupFamily: "A"},
	}
}

// Testable property 4: remaining-time cache invalidation on SetTaskNumber.
func TestRemainingProcTimeCacheInvalidation(t *testing.T) {
	j := NewJob(1, "typeA", testRoute(), 0, 100, 1.0)

	if got, want := j.RemainingProcTime(), 10.0; got != want {
		t.Fatalf("initial remaining: got %v want %v", got, want)
	}

	j.SetTaskNumber(1)
	if got, want := j.RemainingProcTime(), 8.0; got != want {
		t.Fatalf("after advance to 1: got %v want %v", got, want)
	}

	j.Advance()
	if got, want := j.RemainingProcTime(), 5.0; got != want {
		t.Fatalf("after advance to 2: got %v want %v", got, want)
	}

	j.Advance()
	if got, want := j.RemainingProcTime(), 0.0; got != want {
		t.Fatalf("after route complete: got %v want %v", got, want)
	}
	if j.HasMoreOperations() {
		t.Fatalf("expected no more operations")
	}
}

func TestJobCloneIndependence(t *testing.T) {
	j := NewJob(1, "typeA", testRoute(), 0, 100, 1.0)
	j.Store.Put("k", "v")

	clone := j.Clone()
	clone.Store.Put("k", "changed")
	clone.SetTaskNumber(2)

	if v, _ := j.Store.GetString("k"); v != "v" {
		t.Fatalf("original store mutated by clone: %v", v)
	}
	if j.TaskNumber() != 0 {
		t.Fatalf("original task number mutated by clone: %d", j.TaskNumber())
	}
}

func TestMakeFutureSelf(t *testing.T) {
	j := NewJob(1, "typeA", testRoute(), 0, 100, 1.0)
	future := j.MakeFutureSelf()
	if !future.IsFuture {
		t.Fatalf("expected IsFuture on future clone")
	}
	if j.IsFuture {
		t.Fatalf("original job must not become future")
	}
	if j.Future != future {
		t.Fatalf("original should point at its future clone")
	}
}
