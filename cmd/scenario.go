package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kasundularaam/mtfp-sim/factory"
)

var scenarioOut string // Output path; stdout when empty

// scenarioCmd emits the built-in production scenario as YAML. The output
// round-trips through --scenario, so it is the starting point for custom
// scenario files.
var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Print the built-in default scenario as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := yaml.Marshal(factory.DefaultScenario())
		if err != nil {
			logrus.Fatalf("Could not encode scenario: %v", err)
		}
		if scenarioOut == "" {
			fmt.Print(string(data))
			return
		}
		if err := os.WriteFile(scenarioOut, data, 0o644); err != nil {
			logrus.Fatalf("Could not write scenario: %v", err)
		}
		logrus.Infof("Wrote default scenario to %s", scenarioOut)
	},
}

func init() {
	scenarioCmd.Flags().StringVar(&scenarioOut, "out", "", "Write the scenario to this file instead of stdout")
	rootCmd.AddCommand(scenarioCmd)
}
