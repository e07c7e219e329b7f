package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inventory-sim/inventory-sim/sim"
	"github.com/inventory-sim/inventory-sim/sim/store"
	"github.com/inventory-sim/inventory-sim/sim/trace"
)

var (
	// CLI flags shared by run and evaluate
	configPath       string  // Scenario YAML file
	seed             int64   // Seed for demand generation (overrides scenario seed)
	logLevel         string  // Log verbosity level
	periods          int     // Episode horizon (overrides scenario periods)
	initialInventory float64 // Opening stock (overrides scenario initial_inventory)
	reorderPoint     float64 // Reorder trigger level (overrides scenario reorder_point)
	leadTime         int     // Order lead time in periods (overrides scenario lead_time)

	// run flags
	traceOut string // Per-period CSV output, zstd-compressed when ending in .zst

	// evaluate flags
	episodes  int    // Number of independent episodes
	workers   int    // Concurrent episodes (0 = GOMAXPROCS)
	resultsDB string // SQLite results database
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "inventory-sim",
	Short: "Single-echelon inventory simulator and order-quantity calculator",
}

// setLogLevel applies the --log flag.
func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd simulates one episode of a scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one episode of a scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		s := loadScenario(cmd)

		logrus.Infof("Starting scenario %q: %d periods, seed=%d, policy=%q",
			s.Name, s.Periods, s.Seed, s.Policy.Model)
		startTime := time.Now()

		env, err := s.Build()
		if err != nil {
			logrus.Fatalf("Failed to build environment: %v", err)
		}
		if _, err := env.Simulate(); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		sim.PrintEpisode(os.Stdout, sim.Summarize(env))
		if traceOut != "" {
			if err := writeTrace(traceOut, env); err != nil {
				logrus.Fatalf("Failed to write trace: %v", err)
			}
			logrus.Infof("Trace written to %s", traceOut)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// evaluateCmd runs many seeded episodes of a scenario in parallel
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a scenario's policy over independent episodes",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		s := loadScenario(cmd)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		results, err := sim.Evaluate(ctx, s.EpisodeFactory(), episodes, workers)
		if err != nil {
			logrus.Fatalf("Evaluation failed: %v", err)
		}
		report := &sim.Report{Episodes: results}
		report.Print(os.Stdout)

		if resultsDB == "" {
			return
		}
		db, err := store.Open(resultsDB)
		if err != nil {
			logrus.Fatalf("Failed to open results database: %v", err)
		}
		defer db.Close()
		run, err := db.SaveRun(ctx, store.Run{Scenario: s.Name, Seed: s.Seed, Workers: sim.Workers(workers)}, results)
		if err != nil {
			logrus.Fatalf("Failed to save run: %v", err)
		}
		logrus.Infof("Run %s saved to %s", run.ID, resultsDB)
	},
}

// writeTrace exports the processed periods of env to path.
func writeTrace(path string, env *sim.Environment) error {
	return trace.WriteFile(path, env.Records())
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerScenarioFlags adds the scenario file and override flags to cmd.
func registerScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configPath, "config", "", "Scenario YAML file")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for demand generation (overrides scenario seed)")
	cmd.Flags().IntVar(&periods, "periods", 0, "Episode horizon in periods (overrides scenario)")
	cmd.Flags().Float64Var(&initialInventory, "initial-inventory", 0, "Opening stock (overrides scenario)")
	cmd.Flags().Float64Var(&reorderPoint, "reorder-point", 0, "Reorder when closing inventory falls to this level (overrides scenario)")
	cmd.Flags().IntVar(&leadTime, "lead-time", 1, "Periods between order and receipt (overrides scenario)")
	_ = cmd.MarkFlagRequired("config")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	registerScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write per-period CSV to this path (.zst compresses)")

	registerScenarioFlags(evaluateCmd)
	evaluateCmd.Flags().IntVar(&episodes, "episodes", 100, "Number of independent episodes")
	evaluateCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent episodes (0 = GOMAXPROCS)")
	evaluateCmd.Flags().StringVar(&resultsDB, "results-db", "", "Store the run in this SQLite database")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(evaluateCmd)
}
