package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jobshop-sim/jobshop-sim/jobshop/experiment"
	"github.com/jobshop-sim/jobshop-sim/jobshop/scenario"
)

// sweepFile is the on-disk shape of a sweep's configuration set: plain
// YAML mappings, decoded loosely (not KnownFields(true) like scenario
// files) since each configuration's keys are scenario property paths,
// not a fixed schema.
type sweepFile struct {
	Replications   int              `yaml:"replications"`
	MaxWorkers     uint             `yaml:"maxWorkers"`
	Configurations []map[string]any `yaml:"configurations"`
}

// loadSweep reads a sweep YAML file and resolves any "@" entry — a
// string naming an alternate scenario file — into a loaded
// scenario.Template, since YAML itself has no way to embed a Go
// experiment.Template value (spec.md §4.7.3's alternate clone-source).
func loadSweep(path string) (*sweepFile, []experiment.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading sweep file %s: %w", path, err)
	}
	var sf sweepFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&sf); err != nil {
		return nil, nil, fmt.Errorf("parsing sweep file %s: %w", path, err)
	}

	configs := make([]experiment.Configuration, len(sf.Configurations))
	for i, raw := range sf.Configurations {
		cfg := experiment.Configuration{}
		for k, v := range raw {
			if k == "@" {
				altPath, ok := v.(string)
				if !ok {
					return nil, nil, fmt.Errorf("configuration %d: \"@\" must be a scenario file path", i)
				}
				alt, err := scenario.Load(altPath)
				if err != nil {
					return nil, nil, fmt.Errorf("configuration %d: loading alternate scenario %s: %w", i, altPath, err)
				}
				cfg[k] = scenario.New(alt)
				continue
			}
			cfg[k] = v
		}
		configs[i] = cfg
	}
	return &sf, configs, nil
}
