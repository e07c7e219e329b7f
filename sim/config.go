package sim

import (
	"fmt"
	"math"
)

// Item is the product being stocked. Immutable for the life of an environment.
type Item struct {
	ID           int     `yaml:"id"`
	Price        float64 `yaml:"price"`         // revenue per unit sold
	UnitCost     float64 `yaml:"unit_cost"`     // purchase cost per unit
	HoldingCost  float64 `yaml:"holding_cost"`  // per unit of closing inventory per period
	OrderingCost float64 `yaml:"ordering_cost"` // fixed charge per order placed
}

// Validate checks that every monetary field is finite and non-negative.
func (it Item) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"price", it.Price},
		{"unit_cost", it.UnitCost},
		{"holding_cost", it.HoldingCost},
		{"ordering_cost", it.OrderingCost},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("item %s must be finite and non-negative, got %v: %w", f.name, f.v, ErrDomain)
		}
	}
	return nil
}

// EnvironmentConfig groups the parameters of one single-echelon environment.
type EnvironmentConfig struct {
	NPeriods          int     // episode horizon (must be > 0)
	Item              Item    // stocked product
	InitialInventory  float64 // on-hand stock before period 0 (must be >= 0)
	ReorderPoint      float64 // order when closing inventory <= this level
	LeadTime          int     // periods between order and receipt (default 1)
	ForecastWindow    int     // future periods passed to the order model (default 1)
	BackordersAllowed bool    // carry unmet demand instead of losing it
}

// withDefaults fills the zero-valued optional fields.
func (c EnvironmentConfig) withDefaults() EnvironmentConfig {
	if c.LeadTime == 0 {
		c.LeadTime = 1
	}
	if c.ForecastWindow == 0 {
		c.ForecastWindow = 1
	}
	return c
}

// Validate reports the first invalid field of a defaulted config.
func (c EnvironmentConfig) Validate() error {
	if c.NPeriods < 1 {
		return fmt.Errorf("n_periods must be >= 1, got %d: %w", c.NPeriods, ErrConfiguration)
	}
	if c.LeadTime < 1 {
		return fmt.Errorf("lead_time must be >= 1, got %d: %w", c.LeadTime, ErrConfiguration)
	}
	if c.ForecastWindow < 1 {
		return fmt.Errorf("forecast_window must be >= 1, got %d: %w", c.ForecastWindow, ErrConfiguration)
	}
	if math.IsNaN(c.InitialInventory) || math.IsInf(c.InitialInventory, 0) || c.InitialInventory < 0 {
		return fmt.Errorf("initial_inventory must be finite and non-negative, got %v: %w", c.InitialInventory, ErrDomain)
	}
	if math.IsNaN(c.ReorderPoint) || math.IsInf(c.ReorderPoint, 0) {
		return fmt.Errorf("reorder_point must be finite, got %v: %w", c.ReorderPoint, ErrDomain)
	}
	return c.Item.Validate()
}
