package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inventory-sim/inventory-sim/sim/demand"
	"github.com/inventory-sim/inventory-sim/sim/dist"
	"github.com/inventory-sim/inventory-sim/sim/eoq"
)

// Scenario holds one simulation setup, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML"; they fall back to the item
// or to derived values.
type Scenario struct {
	Name               string       `yaml:"name"`
	Seed               int64        `yaml:"seed"`
	Periods            int          `yaml:"periods"`
	Item               Item         `yaml:"item"`
	InitialInventory   float64      `yaml:"initial_inventory"`
	ReorderPoint       *float64     `yaml:"reorder_point"`
	ServiceLevel       *float64     `yaml:"service_level"`
	LeadTime           int          `yaml:"lead_time"`
	ForecastWindow     int          `yaml:"forecast_window"`
	BackordersAllowed  bool         `yaml:"backorders_allowed"`
	Demand             demand.Spec  `yaml:"demand"`
	Policy             PolicyConfig `yaml:"policy"`
	DistributionParams dist.Params  `yaml:"distribution_params"`
}

// PolicyConfig selects the order quantity model. Cost fields left unset
// take the item's ordering and holding costs.
type PolicyConfig struct {
	Model          string   `yaml:"model"`
	OrderingCost   *float64 `yaml:"ordering_cost"`
	HoldingCost    *float64 `yaml:"holding_cost"`
	ProductionRate float64  `yaml:"production_rate"`
	StockoutCost   float64  `yaml:"stockout_cost"`
	Distribution   string   `yaml:"distribution"`
	NPeriods       int      `yaml:"n_periods"`
	LeadTimeStd    float64  `yaml:"lead_time_std"`
}

// stochasticModels are the policies that can derive a reorder point from a
// service level.
var stochasticModels = map[string]bool{
	eoq.ModelEOQStochasticDemand:   true,
	eoq.ModelEOQStochasticLeadtime: true,
}

// LoadScenario reads, strictly parses and validates a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a YAML scenario, rejecting unknown keys, and validates it.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %v: %w", err, ErrConfiguration)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.ReorderPoint == nil && s.ServiceLevel == nil {
		logrus.Warnf("Scenario %q sets neither reorder_point nor service_level; reordering only at zero stock", s.Name)
	}
	return &s, nil
}

// ModelSpec resolves the policy into an eoq.Spec, filling costs from the item.
func (s *Scenario) ModelSpec() eoq.Spec {
	spec := eoq.Spec{
		Model:          s.Policy.Model,
		OrderingCost:   s.Item.OrderingCost,
		HoldingCost:    s.Item.HoldingCost,
		ProductionRate: s.Policy.ProductionRate,
		StockoutCost:   s.Policy.StockoutCost,
		Distribution:   s.Policy.Distribution,
		NPeriods:       s.Policy.NPeriods,
		LeadTimeStd:    s.Policy.LeadTimeStd,
	}
	if s.Policy.OrderingCost != nil {
		spec.OrderingCost = *s.Policy.OrderingCost
	}
	if s.Policy.HoldingCost != nil {
		spec.HoldingCost = *s.Policy.HoldingCost
	}
	return spec
}

// Validate reports every out-of-range field, each wrapping ErrConfiguration.
func (s *Scenario) Validate() error {
	var problems []error
	bad := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format+": %w", append(args, ErrConfiguration)...))
	}

	if s.Periods < 1 {
		bad("periods must be >= 1, got %d", s.Periods)
	}
	if err := s.Item.Validate(); err != nil {
		bad("%v", err)
	}
	if s.InitialInventory < 0 {
		bad("initial_inventory must be non-negative, got %v", s.InitialInventory)
	}
	if s.LeadTime < 0 {
		bad("lead_time must be non-negative, got %d", s.LeadTime)
	}
	if s.ForecastWindow < 0 {
		bad("forecast_window must be non-negative, got %d", s.ForecastWindow)
	}
	if s.Demand.Type == "" {
		bad("demand.type is required")
	}
	model := s.Policy.Model
	if model != "" && !eoq.ValidModels[model] {
		bad("unknown policy model %q", model)
	}
	spec := s.ModelSpec()
	if !(spec.HoldingCost > 0) {
		bad("policy holding cost must be positive, got %v", spec.HoldingCost)
	}
	if spec.OrderingCost < 0 {
		bad("policy ordering cost must be non-negative, got %v", spec.OrderingCost)
	}
	if model == eoq.ModelEOQBackorders && !(spec.StockoutCost > 0) {
		bad("policy stockout_cost must be positive for %s, got %v", model, spec.StockoutCost)
	}
	if model == eoq.ModelEOQProduction && !(spec.ProductionRate > 0) {
		bad("policy production_rate must be positive for %s, got %v", model, spec.ProductionRate)
	}
	if s.ServiceLevel != nil {
		if sl := *s.ServiceLevel; !(sl > 0 && sl < 1) {
			bad("service_level must be in (0, 1), got %v", sl)
		}
		if !stochasticModels[model] {
			bad("service_level requires a stochastic policy, got %q", model)
		}
		if s.ReorderPoint != nil {
			bad("reorder_point and service_level are mutually exclusive")
		}
	}
	if len(s.DistributionParams) > 0 && !stochasticModels[model] {
		bad("distribution_params require a stochastic policy, got %q", model)
	}
	return errors.Join(problems...)
}

// Config resolves the scenario into an EnvironmentConfig with the given
// order model, deriving the reorder point from the service level when set.
func (s *Scenario) Config(model eoq.OrderQuantityModel) (EnvironmentConfig, error) {
	cfg := EnvironmentConfig{
		NPeriods:          s.Periods,
		Item:              s.Item,
		InitialInventory:  s.InitialInventory,
		LeadTime:          s.LeadTime,
		ForecastWindow:    s.ForecastWindow,
		BackordersAllowed: s.BackordersAllowed,
	}
	switch {
	case s.ReorderPoint != nil:
		cfg.ReorderPoint = *s.ReorderPoint
	case s.ServiceLevel != nil:
		slm, ok := model.(eoq.ServiceLevelModel)
		if !ok {
			return cfg, fmt.Errorf("policy %T cannot derive a reorder point: %w", model, ErrConfiguration)
		}
		rop, err := slm.ReorderPoint(*s.ServiceLevel, s.DistributionParams)
		if err != nil {
			return cfg, fmt.Errorf("deriving reorder point: %w", err)
		}
		logrus.Debugf("Reorder point %.2f derived from service level %.4f", rop, *s.ServiceLevel)
		cfg.ReorderPoint = rop
	}
	return cfg, nil
}

// Build returns a ready environment seeded with the scenario seed.
func (s *Scenario) Build() (*Environment, error) {
	return s.BuildSeeded(s.Seed)
}

// BuildSeeded returns a ready environment using seed instead of the
// scenario seed.
func (s *Scenario) BuildSeeded(seed int64) (*Environment, error) {
	gen, err := demand.NewGenerator(s.Demand, s.Periods)
	if err != nil {
		return nil, err
	}
	model, err := eoq.NewModel(s.ModelSpec())
	if err != nil {
		return nil, err
	}
	cfg, err := s.Config(model)
	if err != nil {
		return nil, err
	}
	return NewEnvironment(cfg, gen, model, seed)
}

// EpisodeFactory builds episode i with seed Seed+i.
func (s *Scenario) EpisodeFactory() EnvironmentFactory {
	return func(episode int) (*Environment, error) {
		return s.BuildSeeded(s.Seed + int64(episode))
	}
}
