// Package eoq implements the Economic Order Quantity family of
// order-quantity models.
//
// Every model is a value holding cost parameters only. CalculateOrderQuantities
// is a pure function of its demand argument: the quantity, cost and planned
// backorder level are returned in a Result, never cached on the model.
package eoq

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/inventory-sim/inventory-sim/sim/dist"
	"github.com/inventory-sim/inventory-sim/sim/errs"
)

// Result is the outcome of one order-quantity computation.
type Result struct {
	Quantity   float64 // order quantity Q
	Cost       float64 // total ordering + holding (+ stockout) cost at Q
	Backorders float64 // planned backorder level B; zero for models without backorders
}

// OrderQuantityModel computes an order quantity for a demand forecast.
// demand holds per-period forecasts; the models use its total.
type OrderQuantityModel interface {
	CalculateOrderQuantities(demand []float64) (Result, error)
}

// Model type names accepted by NewModel.
const (
	ModelEOQ                   = "eoq"
	ModelEOQProduction         = "eoq_production"
	ModelEOQBackorders         = "eoq_backorders"
	ModelEOQStochasticDemand   = "eoq_stochastic_demand"
	ModelEOQStochasticLeadtime = "eoq_stochastic_leadtime"
)

// ValidModels is the set of recognized model names.
var ValidModels = map[string]bool{
	ModelEOQ:                   true,
	ModelEOQProduction:         true,
	ModelEOQBackorders:         true,
	ModelEOQStochasticDemand:   true,
	ModelEOQStochasticLeadtime: true,
}

// Spec parameterizes a model. Fields not used by the chosen model are ignored.
type Spec struct {
	Model          string  `yaml:"model"`
	OrderingCost   float64 `yaml:"ordering_cost"`
	HoldingCost    float64 `yaml:"holding_cost"`
	ProductionRate float64 `yaml:"production_rate,omitempty"`
	StockoutCost   float64 `yaml:"stockout_cost,omitempty"`
	Distribution   string  `yaml:"distribution,omitempty"`
	NPeriods       int     `yaml:"n_periods,omitempty"`
	LeadTimeStd    float64 `yaml:"lead_time_std,omitempty"`
}

// NewModel creates an OrderQuantityModel from a Spec.
func NewModel(spec Spec) (OrderQuantityModel, error) {
	switch spec.Model {
	case ModelEOQ, "":
		return &EOQ{OrderingCost: spec.OrderingCost, HoldingCost: spec.HoldingCost}, nil
	case ModelEOQProduction:
		return &EOQProduction{
			OrderingCost:   spec.OrderingCost,
			HoldingCost:    spec.HoldingCost,
			ProductionRate: spec.ProductionRate,
		}, nil
	case ModelEOQBackorders:
		return &EOQBackorders{
			OrderingCost: spec.OrderingCost,
			HoldingCost:  spec.HoldingCost,
			StockoutCost: spec.StockoutCost,
		}, nil
	case ModelEOQStochasticDemand:
		m, err := NewEOQStochasticDemand(spec.OrderingCost, spec.HoldingCost, distributionOrNormal(spec.Distribution), periodsOrOne(spec.NPeriods))
		if err != nil {
			return nil, err
		}
		return m, nil
	case ModelEOQStochasticLeadtime:
		m, err := NewEOQStochasticLeadtime(spec.OrderingCost, spec.HoldingCost, distributionOrNormal(spec.Distribution), periodsOrOne(spec.NPeriods), spec.LeadTimeStd)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown order quantity model %q: %w", spec.Model, errs.ErrConfiguration)
	}
}

func distributionOrNormal(name string) string {
	if name == "" {
		return dist.Normal
	}
	return name
}

func periodsOrOne(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

// totalDemand validates a demand forecast and returns its sum.
func totalDemand(demand []float64) (float64, error) {
	for i, d := range demand {
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return 0, fmt.Errorf("demand[%d] = %v: must be finite and non-negative: %w", i, d, errs.ErrDomain)
		}
	}
	return floats.Sum(demand), nil
}

// checkCosts enforces holding cost > 0 and ordering cost >= 0.
func checkCosts(orderingCost, holdingCost float64) error {
	if !(holdingCost > 0) || math.IsInf(holdingCost, 0) {
		return fmt.Errorf("holding cost must be positive, got %v: %w", holdingCost, errs.ErrDomain)
	}
	if !(orderingCost >= 0) || math.IsInf(orderingCost, 0) {
		return fmt.Errorf("ordering cost must be non-negative, got %v: %w", orderingCost, errs.ErrDomain)
	}
	return nil
}

func checkQuantity(q float64) error {
	if !(q > 0) {
		return fmt.Errorf("order quantity must be positive, got %v: %w", q, errs.ErrDomain)
	}
	return nil
}
