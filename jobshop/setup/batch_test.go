package setup

import (
	"testing"

	"github.com/jobshop-sim/jobshop-sim/jobshop/shopmodel"
)

func jobWithFamily(id int64, family string) *shopmodel.Job {
	route := shopmodel.Route{{WorkstationID: "W1", ProcTime: 1, BatchFamily: family}}
	return shopmodel.NewJob(id, "t", route, 0, 0, 1)
}

func TestByFamilyGroupsAboveThreshold(t *testing.T) {
	b := ByFamily{MinBatch: 2}
	queue := []*shopmodel.Job{
		jobWithFamily(1, "red"),
		jobWithFamily(2, "blue"),
		jobWithFamily(3, "red"),
	}

	targets := b.FormTargets(queue)
	var batches, singles int
	for _, tg := range targets {
		if tg.IsBatch() {
			batches++
			if tg.NumJobsInBatch() != 2 {
				t.Fatalf("expected batch of 2, got %d", tg.NumJobsInBatch())
			}
		} else {
			singles++
		}
	}
	if batches != 1 || singles != 1 {
		t.Fatalf("got %d batches, %d singles; want 1, 1", batches, singles)
	}
}

func TestByFamilyLeavesBelowThresholdAsSingles(t *testing.T) {
	b := ByFamily{MinBatch: 3}
	queue := []*shopmodel.Job{jobWithFamily(1, "red"), jobWithFamily(2, "red")}

	targets := b.FormTargets(queue)
	for _, tg := range targets {
		if tg.IsBatch() {
			t.Fatalf("expected no batches below MinBatch threshold, got one of size %d", tg.NumJobsInBatch())
		}
	}
	if len(targets) != 2 {
		t.Fatalf("got %d targets, want 2 singles", len(targets))
	}
}

func TestByFamilyEmptyBatchFamilyNeverGroups(t *testing.T) {
	b := ByFamily{MinBatch: 1}
	queue := []*shopmodel.Job{jobWithFamily(1, ""), jobWithFamily(2, "")}

	targets := b.FormTargets(queue)
	for _, tg := range targets {
		if tg.IsBatch() {
			t.Fatal("jobs with empty BatchFamily must never be grouped")
		}
	}
}
