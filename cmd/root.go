package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kasundularaam/mtfp-sim/factory"
	"github.com/kasundularaam/mtfp-sim/factory/orders"
	"github.com/kasundularaam/mtfp-sim/factory/report"
)

var (
	// CLI flags for the simulation run
	ordersPath   string // Orders CSV feed
	scenarioPath string // Scenario YAML; built-in defaults when empty
	seed         int64  // Master seed for all sampling streams
	shiftMinutes int64  // Shift length; 0 runs until the backlog drains
	ovens        int    // Curing oven pool capacity
	logLevel     string // Log verbosity level
	recordsOut   string // Per-unit production records CSV output path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mtfp-sim",
	Short: "Discrete-event simulator for a solid tyre factory",
}

// runCmd executes one shift using parameters from CLI flags, MTFP_* env
// vars and the scenario file, in that precedence order.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one production shift simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(viper.GetString("log"))
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", viper.GetString("log"))
		}
		logrus.SetLevel(level)

		scn, err := loadScenario()
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		catalog := scn.BuildCatalog()
		orderList, err := orders.LoadFile(viper.GetString("orders"), catalog)
		if err != nil {
			logrus.Fatalf("Could not load orders: %v", err)
		}
		total := 0
		for _, o := range orderList {
			total += o.Quantity
		}
		logrus.Infof("Loaded %d orders, %d tyres to produce", len(orderList), total)

		sim, err := factory.NewSimulator(scn, orderList)
		if err != nil {
			logrus.Fatalf("Could not build simulator: %v", err)
		}

		startTime := time.Now()
		result, err := sim.Run()
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation wall time: %v", time.Since(startTime))

		records := result.Records()
		summary := report.Summarize(records, result.Clock)
		summary.Render(os.Stdout)

		fmt.Printf("\nOven utilization     : %.1f%%\n",
			100*result.Metrics.Utilization(factory.OvenResourceName, scn.Ovens, result.Clock))

		if out := viper.GetString("records-out"); out != "" {
			if err := report.WriteCSV(records, out); err != nil {
				logrus.Fatalf("Could not write records: %v", err)
			}
			logrus.Infof("Wrote %d production records to %s", len(records), out)
		}
	},
}

// loadScenario reads the scenario file (or takes the built-in defaults)
// and applies any seed/shift/oven override the user actually set, whether
// by flag or environment.
func loadScenario() (*factory.ScenarioSpec, error) {
	var scn *factory.ScenarioSpec
	if path := viper.GetString("scenario"); path != "" {
		loaded, err := factory.LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scn = loaded
	} else {
		scn = factory.DefaultScenario()
	}

	if viper.IsSet("seed") {
		scn.Seed = viper.GetInt64("seed")
	}
	if viper.IsSet("shift-minutes") {
		scn.ShiftMinutes = viper.GetInt64("shift-minutes")
	}
	if viper.IsSet("ovens") {
		scn.Ovens = viper.GetInt("ovens")
	}
	return scn, scn.Validate()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags, environment binding and subcommands
func init() {
	runCmd.Flags().StringVar(&ordersPath, "orders", "orders.csv", "Orders CSV file (PID,TyreType,Brand,TreadPattern,Size,Quantity)")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file; built-in production defaults when empty")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for duration and temperature sampling")
	runCmd.Flags().Int64Var(&shiftMinutes, "shift-minutes", 480, "Shift length in minutes (0 runs until the backlog drains)")
	runCmd.Flags().IntVar(&ovens, "ovens", 12, "Number of curing ovens")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&recordsOut, "records-out", "", "Write per-unit production records CSV to this path")

	viper.SetEnvPrefix("MTFP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(runCmd.Flags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(runCmd)
}
