package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/inventory-sim/inventory-sim/sim"
)

// loadScenario reads --config and applies explicitly set override flags.
func loadScenario(cmd *cobra.Command) *sim.Scenario {
	s, err := sim.LoadScenario(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load scenario %s: %v", configPath, err)
	}
	if err := applyOverrides(cmd.Flags(), s); err != nil {
		logrus.Fatalf("Invalid scenario after flag overrides: %v", err)
	}
	return s
}

// applyOverrides copies flag values onto the scenario, but only for flags
// the user set. Flag defaults never overwrite file values.
func applyOverrides(flags *pflag.FlagSet, s *sim.Scenario) error {
	if flags.Changed("seed") {
		s.Seed = seed
	}
	if flags.Changed("periods") {
		s.Periods = periods
	}
	if flags.Changed("initial-inventory") {
		s.InitialInventory = initialInventory
	}
	if flags.Changed("reorder-point") {
		if s.ServiceLevel != nil {
			logrus.Warnf("--reorder-point replaces service_level %.4f from the scenario", *s.ServiceLevel)
			s.ServiceLevel = nil
		}
		rop := reorderPoint
		s.ReorderPoint = &rop
	}
	if flags.Changed("lead-time") {
		s.LeadTime = leadTime
	}
	return s.Validate()
}
