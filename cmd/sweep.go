package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jobshop-sim/jobshop-sim/jobshop/experiment"
	"github.com/jobshop-sim/jobshop-sim/jobshop/scenario"
)

var sweepConfigPath string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a base scenario across a set of configurations",
	Run: func(cmd *cobra.Command, args []string) {
		sc, err := scenario.Load(scenarioPath)
		if err != nil {
			logrus.Fatalf("loading base scenario: %v", err)
		}
		sf, configs, err := loadSweep(sweepConfigPath)
		if err != nil {
			logrus.Fatalf("loading sweep configuration: %v", err)
		}

		mce := &experiment.MultiConfExperiment{
			Base: &experiment.Experiment{
				Name:     sc.Name,
				Template: scenario.New(sc),
				Setter:   scenario.Setter{},
			},
			Configurations: configs,
			Replications:   sf.Replications,
			MaxWorkers:     sf.MaxWorkers,
		}

		logrus.Infof("sweeping %q over %d configurations", sc.Name, len(configs))
		outcomes := mce.Run(context.Background())
		for _, out := range outcomes {
			agg := experiment.Aggregate(out)
			logrus.Infof("--- %s ---", out.Signature)
			printResults(agg)
		}
	},
}

func init() {
	sweepCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the base scenario YAML file")
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "", "Path to the sweep configuration YAML file")
	sweepCmd.MarkFlagRequired("scenario")
	sweepCmd.MarkFlagRequired("config")
}
