// Package priority implements concrete PriorityRule selectors for
// jobshop/shopmodel workstations, grounded on the teacher's named-rule
// registry pattern (sim/priority.go's ConstantPriority/SLOBasedPriority,
// sim/scheduler.go's FCFSScheduler/PriorityFCFSScheduler/SJFScheduler),
// generalized from "compute a score, then sort the wait queue" to
// "select one PrioRuleTarget from the current queue" per spec.md §4.5.
package priority

import (
	"fmt"
	"sort"

	"github.com/jobshop-sim/jobshop-sim/jobshop/shopmodel"
)

// tieBreakSort stable-sorts targets by the given less function, then
// breaks remaining ties by ascending earliest job number (spec.md §4.4
// edge case: "ties inside a priority rule are broken by job number
// ascending").
func tieBreakSort(targets []shopmodel.PrioRuleTarget, less func(a, b shopmodel.PrioRuleTarget) bool) {
	sort.SliceStable(targets, func(i, j int) bool {
		a, b := targets[i], targets[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.EarliestJobNumber() < b.EarliestJobNumber()
	})
}

// FCFS selects the target whose earliest-job-number is smallest,
// approximating arrival order without the workstation needing to keep
// the queue itself stably ordered (spec.md §3: "queue ordering is not
// stable").
type FCFS struct{}

func (FCFS) Select(_ *shopmodel.WorkStation, queue []shopmodel.PrioRuleTarget, _ []shopmodel.PrioRuleTarget, _ float64) shopmodel.PrioRuleTarget {
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

func (FCFS) Clone() shopmodel.PriorityRule { return FCFS{} }

// SPT (shortest processing time) selects the target with the smallest
// ProcTime, ties broken by job number ascending.
type SPT struct{}

func (SPT) Select(_ *shopmodel.WorkStation, queue []shopmodel.PrioRuleTarget, _ []shopmodel.PrioRuleTarget, _ float64) shopmodel.PrioRuleTarget {
	if len(queue) == 0 {
		return nil
	}
	sorted := append([]shopmodel.PrioRuleTarget(nil), queue...)
	tieBreakSort(sorted, func(a, b shopmodel.PrioRuleTarget) bool { return a.ProcTime() < b.ProcTime() })
	return sorted[0]
}

func (SPT) Clone() shopmodel.PriorityRule { return SPT{} }

// EDD (earliest due date) selects the target whose first member's due
// date is smallest.
type EDD struct{}

func (EDD) Select(_ *shopmodel.WorkStation, queue []shopmodel.PrioRuleTarget, _ []shopmodel.PrioRuleTarget, _ float64) shopmodel.PrioRuleTarget {
	if len(queue) == 0 {
		return nil
	}
	sorted := append([]shopmodel.PrioRuleTarget(nil), queue...)
	tieBreakSort(sorted, func(a, b shopmodel.PrioRuleTarget) bool {
		return a.Job(0).DueDate < b.Job(0).DueDate
	})
	return sorted[0]
}

func (EDD) Clone() shopmodel.PriorityRule { return EDD{} }

// SetupMinimizing remembers the last family it selected (one value per
// rule instance, shared by all machines of the workstation using it)
// and prefers a target sharing that family to avoid
// a changeover, falling back to FCFS among same-cost candidates. When
// look-ahead is enabled and no real target shares the current family,
// it checks the announced future arrivals: if one of them does share
// the family, the rule defers (selects nothing) rather than force an
// avoidable changeover now — a rule cannot select a future-clone for
// real processing (spec.md's "never enqueued for real processing"), but
// declining to select lets the machine sit idle until that job's real
// arrival, which re-triggers selection (Simulation.arriveInQueue always
// retries on a new arrival), so the wait is bounded. If no announced
// arrival matches either, it picks immediately to avoid stalling on a
// changeover that deferring could never avoid.
type SetupMinimizing struct {
	lastFamily string
}

func NewSetupMinimizing() *SetupMinimizing { return &SetupMinimizing{} }

func (r *SetupMinimizing) Select(ws *shopmodel.WorkStation, queue []shopmodel.PrioRuleTarget, lookAhead []shopmodel.PrioRuleTarget, _ float64) shopmodel.PrioRuleTarget {
	if len(queue) == 0 {
		return nil
	}

	if r.lastFamily != "" {
		if t := firstWithFamily(queue, r.lastFamily); t != nil {
			r.lastFamily = t.SetupFamily()
			return t
		}
		for _, f := range lookAhead {
			if f.SetupFamily() == r.lastFamily {
				return nil
			}
		}
	}

	t := FCFS{}.Select(ws, queue, lookAhead, 0)
	if t != nil {
		r.lastFamily = t.SetupFamily()
	}
	return t
}

func firstWithFamily(queue []shopmodel.PrioRuleTarget, family string) shopmodel.PrioRuleTarget {
	var best shopmodel.PrioRuleTarget
	for _, t := range queue {
		if t.SetupFamily() != family {
			continue
		}
		if best == nil || t.EarliestJobNumber() < best.EarliestJobNumber() {
			best = t
		}
	}
	return best
}

func (r *SetupMinimizing) Clone() shopmodel.PriorityRule {
	return &SetupMinimizing{lastFamily: r.lastFamily}
}

// New creates a PriorityRule by name. Valid names: "fcfs" (default),
// "spt", "edd", "setup-minimizing". Panics on unrecognized names,
// matching the teacher's NewPriorityPolicy/NewScheduler convention of
// failing fast on a config typo rather than silently defaulting.
func New(name string) shopmodel.PriorityRule {
	switch name {
	case "", "fcfs":
		return FCFS{}
	case "spt":
		return SPT{}
	case "edd":
		return EDD{}
	case "setup-minimizing":
		return NewSetupMinimizing()
	default:
		panic(fmt.Sprintf("priority: unknown rule %q", name))
	}
}
