// Package listener collects statistics over a running simulation
// without coupling to the kernel: each collector subscribes to the
// jobshop.NotificationBus for the event kinds it cares about and, once
// the run finishes, contributes its numbers into the shop's result map
// (spec.md §2 component 8, §6 "Result map"). Grounded on the teacher's
// Metrics aggregator (sim/metrics.go) — accumulate during the run, print
// (here: contribute) once at the end — but split one monolithic struct
// into one small collector per statistic, matching the bus's
// registration-order fan-out model instead of a single hook.
package listener

import (
	"math"

	"github.com/jobshop-sim/jobshop-sim/jobshop"
)

// Collector is a jobshop.Listener that also knows how to write its
// accumulated statistics into a result map exactly once.
type Collector interface {
	jobshop.Listener
	Contribute(results jobshop.ResultMap) error
}

// Attach subscribes c to every kind it needs and returns an error if any
// subscription fails (e.g. attaching mid fan-out, which should not
// normally happen at scenario-build time).
func Attach(bus *jobshop.NotificationBus, c Collector, kinds ...jobshop.EventKind) error {
	for _, k := range kinds {
		if err := bus.Subscribe(k, c); err != nil {
			return err
		}
	}
	return nil
}

// FlowTimeCollector accumulates each finished job's flow time
// (completion time minus release date) and contributes count/mean/min/
// max under a namespaced key prefix.
type FlowTimeCollector struct {
	Prefix string
	count  int
	sum    float64
	min    float64
	max    float64
}

// NewFlowTimeCollector creates a collector namespacing its result keys
// under prefix (e.g. "flowTime" -> "flowTime.count", "flowTime.mean").
func NewFlowTimeCollector(prefix string) *FlowTimeCollector {
	return &FlowTimeCollector{Prefix: prefix}
}

func (c *FlowTimeCollector) Inform(source any, kind jobshop.EventKind, payload any) {
	if kind != jobshop.JobFinished {
		return
	}
	p := payload.(jobshop.JobFinishedPayload)
	c.observe(p.Now - p.Job.ReleaseDate)
}

func (c *FlowTimeCollector) observe(v float64) {
	if c.count == 0 || v < c.min {
		c.min = v
	}
	if c.count == 0 || v > c.max {
		c.max = v
	}
	c.sum += v
	c.count++
}

func (c *FlowTimeCollector) Contribute(results jobshop.ResultMap) error {
	if err := results.Set(c.Prefix+".count", c.count); err != nil {
		return err
	}
	mean := 0.0
	if c.count > 0 {
		mean = c.sum / float64(c.count)
	}
	if err := results.Set(c.Prefix+".mean", mean); err != nil {
		return err
	}
	if err := results.Set(c.Prefix+".min", c.min); err != nil {
		return err
	}
	return results.Set(c.Prefix+".max", c.max)
}

// TardinessCollector accumulates max(0, completion - due) for every
// finished job.
type TardinessCollector struct {
	Prefix string
	count  int
	sum    float64
	max    float64
	tardyN int
}

func NewTardinessCollector(prefix string) *TardinessCollector {
	return &TardinessCollector{Prefix: prefix}
}

func (c *TardinessCollector) Inform(source any, kind jobshop.EventKind, payload any) {
	if kind != jobshop.JobFinished {
		return
	}
	p := payload.(jobshop.JobFinishedPayload)
	tardiness := math.Max(0, p.Now-p.Job.DueDate)
	c.count++
	c.sum += tardiness
	if tardiness > c.max {
		c.max = tardiness
	}
	if tardiness > 0 {
		c.tardyN++
	}
}

func (c *TardinessCollector) Contribute(results jobshop.ResultMap) error {
	mean := 0.0
	if c.count > 0 {
		mean = c.sum / float64(c.count)
	}
	if err := results.Set(c.Prefix+".mean", mean); err != nil {
		return err
	}
	if err := results.Set(c.Prefix+".max", c.max); err != nil {
		return err
	}
	return results.Set(c.Prefix+".tardyCount", c.tardyN)
}

// MakespanCollector tracks the latest job-finish time observed.
type MakespanCollector struct {
	Key  string
	last float64
}

func NewMakespanCollector(key string) *MakespanCollector {
	return &MakespanCollector{Key: key}
}

func (c *MakespanCollector) Inform(source any, kind jobshop.EventKind, payload any) {
	if kind != jobshop.JobFinished {
		return
	}
	p := payload.(jobshop.JobFinishedPayload)
	if p.Now > c.last {
		c.last = p.Now
	}
}

func (c *MakespanCollector) Contribute(results jobshop.ResultMap) error {
	return results.Set(c.Key, c.last)
}

// UtilizationCollector accumulates, per IndividualMachine, the total
// time spent Processing (setup plus proc time counts as busy), and
// reports busy/horizon once the run's horizon is known.
type UtilizationCollector struct {
	Prefix  string
	Horizon float64

	busy  map[string]float64
	start map[string]float64
}

func NewUtilizationCollector(prefix string, horizon float64) *UtilizationCollector {
	return &UtilizationCollector{
		Prefix:  prefix,
		Horizon: horizon,
		busy:    make(map[string]float64),
		start:   make(map[string]float64),
	}
}

func (c *UtilizationCollector) Inform(source any, kind jobshop.EventKind, payload any) {
	switch kind {
	case jobshop.JobStartOperation:
		p := payload.(jobshop.SelectionPayload)
		c.start[p.Machine.ID] = p.Now
	case jobshop.JobEndOperation:
		p := payload.(jobshop.OperationEndPayload)
		if st, ok := c.start[p.Machine.ID]; ok {
			c.busy[p.Machine.ID] += p.Now - st
			delete(c.start, p.Machine.ID)
		}
	}
}

func (c *UtilizationCollector) Contribute(results jobshop.ResultMap) error {
	if c.Horizon <= 0 {
		return &jobshop.ConfigurationError{Path: c.Prefix, Reason: "utilization requires a positive horizon"}
	}
	for machineID, busy := range c.busy {
		if err := results.Set(c.Prefix+"."+machineID, busy/c.Horizon); err != nil {
			return err
		}
	}
	return nil
}

// SetupChangeoverCollector counts, per workstation, how many selections
// paid a nonzero setup time — used by S3's look-ahead comparison
// (spec.md §8).
type SetupChangeoverCollector struct {
	Key    string
	counts map[string]int
}

func NewSetupChangeoverCollector(key string) *SetupChangeoverCollector {
	return &SetupChangeoverCollector{Key: key, counts: make(map[string]int)}
}

func (c *SetupChangeoverCollector) Inform(source any, kind jobshop.EventKind, payload any) {
	if kind != jobshop.WSJobSelected {
		return
	}
	p := payload.(jobshop.SelectionPayload)
	if p.SetupTime > 0 {
		c.counts[p.WS.ID]++
	}
}

func (c *SetupChangeoverCollector) Contribute(results jobshop.ResultMap) error {
	for wsID, n := range c.counts {
		if err := results.Set(c.Key+"."+wsID, n); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of changeovers recorded for a given
// workstation id, for direct assertions in tests without going through
// a result map.
func (c *SetupChangeoverCollector) Count(wsID string) int {
	return c.counts[wsID]
}

// StopOnCompletionCount requests the simulation stop once the shop has
// finished at least N jobs — an alternative to Simulation.CompletionLimit
// for callers that want the stop condition expressed as a listener
// (spec.md §4.2, "an explicit stop signal from any listener").
type StopOnCompletionCount struct {
	N     int
	sim   *jobshop.Simulation
	count int
}

// NewStopOnCompletionCount binds the stop signal directly to sim, which
// it calls RequestStop on once N jobs have finished.
func NewStopOnCompletionCount(n int, sim *jobshop.Simulation) *StopOnCompletionCount {
	return &StopOnCompletionCount{N: n, sim: sim}
}

func (c *StopOnCompletionCount) Inform(source any, kind jobshop.EventKind, payload any) {
	if kind != jobshop.JobFinished {
		return
	}
	c.count++
	if c.count >= c.N {
		c.sim.RequestStop()
	}
}
