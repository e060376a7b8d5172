// Package jobshop provides the discrete-event simulation kernel for
// job-shop scenarios.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - event.go: Event types and the priority/time ordering contract
//   - eventqueue.go: the min-heap clock driver
//   - simulation.go: the event loop, lifecycle, and stop conditions
//
// # Architecture
//
// The jobshop package owns the kernel primitives (clock, queue,
// notification bus, errors, result map); domain state lives in
// sub-packages:
//   - jobshop/shopmodel: job, route, workstation, individual machine,
//     shop, setup-time matrix, value store
//   - jobshop/priority: queue-selection rules and look-ahead
//   - jobshop/setup: batch-family grouping
//   - jobshop/randstream: lazy random-number streams
//   - jobshop/listener: statistics collectors
//   - jobshop/experiment: scenario cloning, factor sweeps, aggregation
//   - jobshop/scenario: YAML scenario definitions and property-path setters
package jobshop

import "fmt"

// PastEventError reports an attempt to schedule an event whose time has
// already passed relative to the simulation clock.
type PastEventError struct {
	Now         float64
	Attempted   float64
}

func (e *PastEventError) Error() string {
	return fmt.Sprintf("jobshop: cannot schedule event at t=%g, clock is already at t=%g", e.Attempted, e.Now)
}

// InvariantViolation reports a violated kernel invariant: negative
// processing time, enabling below zero, or similar programmer errors
// that must abort the run rather than be silently tolerated.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("jobshop: invariant violated: %s", e.Reason)
}

// ConcurrentModificationError reports a listener added to the
// notification bus while a fan-out for its event kind is in progress.
type ConcurrentModificationError struct {
	Kind EventKind
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("jobshop: listener added for kind %q during active fan-out", e.Kind)
}

// DuplicateResultKeyError reports two statistics collectors writing the
// same key into a result map.
type DuplicateResultKeyError struct {
	Key string
}

func (e *DuplicateResultKeyError) Error() string {
	return fmt.Sprintf("jobshop: duplicate result key %q", e.Key)
}

// ConfigurationError reports a problem applying a factor set to a
// cloned experiment template: missing base experiment, unknown property
// path, or a type mismatch during assignment.
type ConfigurationError struct {
	Path   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("jobshop: configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("jobshop: configuration error at %q: %s", e.Path, e.Reason)
}

// RuntimeFault wraps any other unexpected failure raised inside an event
// handler. It terminates the scenario and is surfaced to the experiment
// driver for isolation.
type RuntimeFault struct {
	Cause error
}

func (e *RuntimeFault) Error() string {
	return fmt.Sprintf("jobshop: runtime fault: %v", e.Cause)
}

func (e *RuntimeFault) Unwrap() error { return e.Cause }
