package cmd

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jobshop-sim/jobshop-sim/jobshop/experiment"
	"github.com/jobshop-sim/jobshop-sim/jobshop/scenario"
)

var scenarioPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single scenario to completion and print its results",
	Run: func(cmd *cobra.Command, args []string) {
		sc, err := scenario.Load(scenarioPath)
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}
		logrus.Infof("running scenario %q (horizon=%g)", sc.Name, sc.Horizon)

		exp := &experiment.Experiment{
			Name:     sc.Name,
			Template: scenario.New(sc),
			Setter:   scenario.Setter{},
		}
		results, err := exp.Run()
		if err != nil {
			logrus.Fatalf("running scenario: %v", err)
		}
		printResults(results)
	},
}

func printResults(rm map[string]any) {
	keys := make([]string, 0, len(rm))
	for k := range rm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logrus.Infof("%s = %v", k, rm[k])
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file")
	runCmd.MarkFlagRequired("scenario")
}
