package jobshop

import (
	"math/rand"
	"sort"
	"testing"
)

func TestScheduleRejectsPastEvents(t *testing.T) {
	q := NewEventQueue()
	_, err := q.Schedule(10, NewFuncEvent(5, PriorityNormal, nil))
	if err == nil {
		t.Fatal("expected PastEventError")
	}
	if _, ok := err.(*PastEventError); !ok {
		t.Fatalf("got %T, want *PastEventError", err)
	}
}

func TestPopNextOrdersByTimePriorityThenSeq(t *testing.T) {
	q := NewEventQueue()
	var order []string
	push := func(time float64, prio int, label string) {
		q.Schedule(0, NewFuncEvent(time, prio, func(s *Simulation) { order = append(order, label) }))
	}
	push(5, PriorityNormal, "c")
	push(5, PriorityArrival, "a")
	push(5, PriorityNormal, "d")
	push(1, PriorityDeparture, "b")

	for ev := q.PopNext(); ev != nil; ev = q.PopNext() {
		ev.Execute(nil)
	}
	want := []string{"b", "a", "c", "d"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestCancelSkipsEventOnPop(t *testing.T) {
	q := NewEventQueue()
	fired := false
	h1, _ := q.Schedule(0, NewFuncEvent(1, PriorityNormal, func(s *Simulation) { fired = true }))
	q.Schedule(0, NewFuncEvent(2, PriorityNormal, nil))

	q.Cancel(h1)
	ev := q.PopNext()
	if ev == nil {
		t.Fatal("expected the second event to remain after cancelling the first")
	}
	ev.Execute(nil)
	if fired {
		t.Fatal("cancelled event must not fire")
	}
}

func TestCancelIsIdempotentAndToleratesAlreadyFired(t *testing.T) {
	q := NewEventQueue()
	h, _ := q.Schedule(0, NewFuncEvent(1, PriorityNormal, nil))
	q.PopNext()
	q.Cancel(h) // must not panic
	q.Cancel(h)
}

// Heap ordering under randomized insertion matches a reference sort by
// (time, priority, seq) — spec.md §8 property 1, generalized.
func TestHeapOrderingMatchesReferenceSort(t *testing.T) {
	type rec struct {
		time float64
		prio int
		seq  int
	}
	rng := rand.New(rand.NewSource(1))
	q := NewEventQueue()
	var recs []rec
	for i := 0; i < 200; i++ {
		time := float64(rng.Intn(20))
		prio := []int{PriorityArrival, PriorityNormal, PriorityDeparture}[rng.Intn(3)]
		recs = append(recs, rec{time: time, prio: prio, seq: i})
		q.Schedule(0, NewFuncEvent(time, prio, nil))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].time != recs[j].time {
			return recs[i].time < recs[j].time
		}
		if recs[i].prio != recs[j].prio {
			return recs[i].prio < recs[j].prio
		}
		return recs[i].seq < recs[j].seq
	})

	for _, want := range recs {
		ev := q.PopNext()
		if ev.Time() != want.time || ev.Priority() != want.prio {
			t.Fatalf("got (time=%v prio=%v), want (time=%v prio=%v)", ev.Time(), ev.Priority(), want.time, want.prio)
		}
	}
	if q.PopNext() != nil {
		t.Fatal("expected queue to be fully drained")
	}
}
