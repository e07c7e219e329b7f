package eoq

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/inventory-sim/inventory-sim/sim/dist"
	"github.com/inventory-sim/inventory-sim/sim/errs"
)

// Stock splits a target inventory into its safety and cycle components.
type Stock struct {
	Safety float64 // buffer against demand variability
	Cycle  float64 // expected demand per period
}

// Total returns Safety + Cycle.
func (s Stock) Total() float64 { return s.Safety + s.Cycle }

// ServiceLevelModel is implemented by models that know their demand law and
// can translate between service levels and inventory positions.
type ServiceLevelModel interface {
	OrderQuantityModel
	ReorderPoint(serviceLevel float64, params dist.Params) (float64, error)
	ExpectedServiceLevel(initialInventory float64, params dist.Params) (float64, error)
	SafetyStock(serviceLevel float64, demand []float64) (Stock, error)
}

// serviceLevels holds the demand law shared by the stochastic variants.
type serviceLevels struct {
	law      *dist.Distribution
	nPeriods int
}

func newServiceLevels(distribution string, nPeriods int) (serviceLevels, error) {
	law, err := dist.Lookup(distribution)
	if err != nil {
		return serviceLevels{}, err
	}
	if nPeriods < 1 {
		return serviceLevels{}, fmt.Errorf("n_periods must be at least 1, got %d: %w", nPeriods, errs.ErrDomain)
	}
	return serviceLevels{law: law, nPeriods: nPeriods}, nil
}

func checkServiceLevel(serviceLevel float64) error {
	if !(serviceLevel > 0 && serviceLevel < 1) {
		return fmt.Errorf("service level must be in (0, 1), got %v: %w", serviceLevel, errs.ErrDomain)
	}
	return nil
}

// ReorderPoint returns the demand quantile at serviceLevel: the inventory
// position at which the probability of a stockout before replenishment is
// at most 1 - serviceLevel.
func (s serviceLevels) ReorderPoint(serviceLevel float64, params dist.Params) (float64, error) {
	if err := checkServiceLevel(serviceLevel); err != nil {
		return 0, err
	}
	return s.law.Quantile(serviceLevel, params)
}

// ExpectedServiceLevel returns P(demand <= initialInventory).
func (s serviceLevels) ExpectedServiceLevel(initialInventory float64, params dist.Params) (float64, error) {
	return s.law.CDF(initialInventory, params)
}

// Distribution returns the canonical name of the demand law.
func (s serviceLevels) Distribution() string { return s.law.Name() }

// z returns the standard normal quantile at serviceLevel. Safety stock is
// only defined here for normally distributed demand.
func (s serviceLevels) z(serviceLevel float64) (float64, error) {
	if s.law.Name() != dist.Normal {
		return 0, fmt.Errorf("safety stock requires normal demand, model uses %q: %w", s.law.Name(), errs.ErrConfiguration)
	}
	if err := checkServiceLevel(serviceLevel); err != nil {
		return 0, err
	}
	return s.law.Quantile(serviceLevel, dist.Params{})
}

func meanStd(demand []float64) (mean, std float64, err error) {
	if len(demand) == 0 {
		return 0, 0, fmt.Errorf("safety stock needs a non-empty demand sample: %w", errs.ErrDomain)
	}
	if _, err := totalDemand(demand); err != nil {
		return 0, 0, err
	}
	mean, std = stat.PopMeanStdDev(demand, nil)
	return mean, std, nil
}

// EOQStochasticDemand sizes orders with the plain EOQ and sets reorder
// points and safety stock from a demand distribution.
type EOQStochasticDemand struct {
	EOQ
	serviceLevels
}

// NewEOQStochasticDemand creates a stochastic-demand model. distribution must
// be a name known to package dist; nPeriods is the protection interval in
// periods.
func NewEOQStochasticDemand(orderingCost, holdingCost float64, distribution string, nPeriods int) (*EOQStochasticDemand, error) {
	sl, err := newServiceLevels(distribution, nPeriods)
	if err != nil {
		return nil, fmt.Errorf("eoq stochastic demand: %w", err)
	}
	return &EOQStochasticDemand{
		EOQ:           EOQ{OrderingCost: orderingCost, HoldingCost: holdingCost},
		serviceLevels: sl,
	}, nil
}

// SafetyStock returns ss = z(serviceLevel) * σ * sqrt(n) and cs = mean, where
// σ and mean are the population statistics of the demand sample.
func (m *EOQStochasticDemand) SafetyStock(serviceLevel float64, demand []float64) (Stock, error) {
	z, err := m.z(serviceLevel)
	if err != nil {
		return Stock{}, fmt.Errorf("eoq stochastic demand: %w", err)
	}
	mean, std, err := meanStd(demand)
	if err != nil {
		return Stock{}, fmt.Errorf("eoq stochastic demand: %w", err)
	}
	return Stock{
		Safety: z * std * math.Sqrt(float64(m.nPeriods)),
		Cycle:  mean,
	}, nil
}

// EOQStochasticLeadtime is the stochastic model for a replenishment lead time
// that is itself uncertain. The mean lead time is nPeriods; LeadTimeStd is its
// standard deviation in periods.
type EOQStochasticLeadtime struct {
	EOQ
	serviceLevels
	LeadTimeStd float64
}

// NewEOQStochasticLeadtime creates a stochastic lead-time model.
func NewEOQStochasticLeadtime(orderingCost, holdingCost float64, distribution string, nPeriods int, leadTimeStd float64) (*EOQStochasticLeadtime, error) {
	sl, err := newServiceLevels(distribution, nPeriods)
	if err != nil {
		return nil, fmt.Errorf("eoq stochastic leadtime: %w", err)
	}
	if leadTimeStd < 0 || math.IsNaN(leadTimeStd) {
		return nil, fmt.Errorf("eoq stochastic leadtime: lead time std must be non-negative, got %v: %w", leadTimeStd, errs.ErrDomain)
	}
	return &EOQStochasticLeadtime{
		EOQ:           EOQ{OrderingCost: orderingCost, HoldingCost: holdingCost},
		serviceLevels: sl,
		LeadTimeStd:   leadTimeStd,
	}, nil
}

// SafetyStock returns ss = z * sqrt(L*σd² + d²*σL²) and cs = mean demand,
// with L the mean lead time. With LeadTimeStd == 0 this equals the
// stochastic-demand safety stock.
func (m *EOQStochasticLeadtime) SafetyStock(serviceLevel float64, demand []float64) (Stock, error) {
	z, err := m.z(serviceLevel)
	if err != nil {
		return Stock{}, fmt.Errorf("eoq stochastic leadtime: %w", err)
	}
	mean, std, err := meanStd(demand)
	if err != nil {
		return Stock{}, fmt.Errorf("eoq stochastic leadtime: %w", err)
	}
	l := float64(m.nPeriods)
	variance := l*std*std + mean*mean*m.LeadTimeStd*m.LeadTimeStd
	return Stock{
		Safety: z * math.Sqrt(variance),
		Cycle:  mean,
	}, nil
}

var (
	_ ServiceLevelModel = (*EOQStochasticDemand)(nil)
	_ ServiceLevelModel = (*EOQStochasticLeadtime)(nil)
)
