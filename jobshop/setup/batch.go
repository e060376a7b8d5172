// Package setup implements batch-family grouping for workstation
// queues (spec.md §4.7), grounded on the teacher's Batch abstraction
// (sim/batch.go, sim/batch_formation.go), generalized from "one batch
// per Step" to "group waiting jobs by BatchFamily into PrioRuleTargets".
package setup

import "github.com/jobshop-sim/jobshop-sim/jobshop/shopmodel"

// ByFamily groups queued jobs sharing a non-empty current-operation
// BatchFamily into a single BatchTarget per family, and leaves jobs
// with an empty BatchFamily as singleton SingleJobTargets — the
// "no explicit batch family means don't batch" default.
type ByFamily struct {
	// MinBatch is the minimum number of same-family jobs required to
	// form a batch; groups smaller than this are left as singles so a
	// lone job doesn't wait forever for batchmates that never arrive
	// before the priority rule would otherwise have picked it.
	MinBatch int
}

func (b ByFamily) FormTargets(queue []*shopmodel.Job) []shopmodel.PrioRuleTarget {
	min := b.MinBatch
	if min < 1 {
		min = 1
	}

	groups := make(map[string][]*shopmodel.Job)
	var order []string
	var singles []*shopmodel.Job
	for _, j := range queue {
		fam := j.CurrentOperation().BatchFamily
		if fam == "" {
			singles = append(singles, j)
			continue
		}
		if _, seen := groups[fam]; !seen {
			order = append(order, fam)
		}
		groups[fam] = append(groups[fam], j)
	}

	targets := make([]shopmodel.PrioRuleTarget, 0, len(queue))
	for _, fam := range order {
		members := groups[fam]
		if len(members) < min {
			for _, j := range members {
				singles = append(singles, j)
			}
			continue
		}
		targets = append(targets, &shopmodel.BatchTarget{Members: members, Family: fam})
	}
	for _, j := range singles {
		targets = append(targets, shopmodel.SingleJobTarget{J: j})
	}
	return targets
}
