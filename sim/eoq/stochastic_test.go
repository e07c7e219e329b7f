package eoq

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventory-sim/inventory-sim/sim/dist"
	"github.com/inventory-sim/inventory-sim/sim/errs"
)

func TestEOQStochasticDemand_ReorderPoint_Normal(t *testing.T) {
	m, err := NewEOQStochasticDemand(50, 1.75, "norm", 1)
	require.NoError(t, err)
	rop, err := m.ReorderPoint(0.8413, dist.Params{"loc": 100, "scale": 25})
	require.NoError(t, err)
	assert.InDelta(t, 124.99537734036862, rop, 1e-9)
}

func TestEOQStochasticDemand_ExpectedServiceLevel_Normal(t *testing.T) {
	m, err := NewEOQStochasticDemand(50, 1.75, dist.Normal, 1)
	require.NoError(t, err)
	sl, err := m.ExpectedServiceLevel(125, dist.Params{"loc": 100, "scale": 25})
	require.NoError(t, err)
	assert.InDelta(t, 0.8413447460685429, sl, 1e-12)
}

func TestEOQStochasticDemand_ReorderPointAndServiceLevelAreInverse(t *testing.T) {
	m, err := NewEOQStochasticDemand(50, 1.75, dist.Gamma, 1)
	require.NoError(t, err)
	params := dist.Params{"a": 3, "scale": 10}
	rop, err := m.ReorderPoint(0.95, params)
	require.NoError(t, err)
	sl, err := m.ExpectedServiceLevel(rop, params)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, sl, 1e-6)
}

func TestEOQStochasticDemand_OrderQuantityMatchesEOQ(t *testing.T) {
	m, err := NewEOQStochasticDemand(50, 1.75, dist.Normal, 1)
	require.NoError(t, err)
	res, err := m.CalculateOrderQuantities([]float64{600})
	require.NoError(t, err)
	assert.InDelta(t, 185.16401995451028, res.Quantity, 1e-9)
	assert.InDelta(t, 324.037034920393, res.Cost, 1e-9)
}

func TestEOQStochasticDemand_SafetyStock_NormalDemand(t *testing.T) {
	// GIVEN a demand sample with mean 100 and population std 10
	sample := []float64{90, 110, 90, 110}
	m, err := NewEOQStochasticDemand(50, 1.75, dist.Normal, 4)
	require.NoError(t, err)

	// WHEN safety stock is requested at a 97.5% service level
	stock, err := m.SafetyStock(0.975, sample)
	require.NoError(t, err)

	// THEN ss = z * σ * sqrt(n) and cs = mean
	z := 1.959963984540054
	assert.InDelta(t, z*10*2, stock.Safety, 1e-6)
	assert.InDelta(t, 100, stock.Cycle, 1e-12)
	assert.InDelta(t, stock.Safety+100, stock.Total(), 1e-12)
}

func TestEOQStochasticDemand_SafetyStock_NonNormal_ReturnsConfigurationError(t *testing.T) {
	m, err := NewEOQStochasticDemand(50, 1.75, dist.Exponential, 1)
	require.NoError(t, err)
	_, err = m.SafetyStock(0.95, []float64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConfiguration), "got %v", err)
}

func TestEOQStochasticDemand_SafetyStock_EmptySample_ReturnsDomainError(t *testing.T) {
	m, err := NewEOQStochasticDemand(50, 1.75, dist.Normal, 1)
	require.NoError(t, err)
	_, err = m.SafetyStock(0.95, nil)
	assert.True(t, errors.Is(err, errs.ErrDomain), "got %v", err)
}

func TestEOQStochasticDemand_InvalidServiceLevel(t *testing.T) {
	m, err := NewEOQStochasticDemand(50, 1.75, dist.Normal, 1)
	require.NoError(t, err)
	for _, sl := range []float64{0, 1, -0.2, 1.5, math.NaN()} {
		_, err := m.ReorderPoint(sl, dist.Params{"loc": 100, "scale": 25})
		if !errors.Is(err, errs.ErrDomain) {
			t.Errorf("service level %v: got %v, want domain error", sl, err)
		}
	}
}

func TestNewEOQStochasticDemand_UnknownDistribution(t *testing.T) {
	_, err := NewEOQStochasticDemand(50, 1.75, "lognormal", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dist.ErrUnknownDistribution))
}

func TestNewEOQStochasticDemand_NonPositivePeriods(t *testing.T) {
	_, err := NewEOQStochasticDemand(50, 1.75, dist.Normal, 0)
	assert.True(t, errors.Is(err, errs.ErrDomain))
}

func TestEOQStochasticLeadtime_ZeroLeadTimeStdMatchesDemandModel(t *testing.T) {
	sample := []float64{80, 95, 120, 105, 100}
	demandModel, err := NewEOQStochasticDemand(50, 1.75, dist.Normal, 3)
	require.NoError(t, err)
	leadModel, err := NewEOQStochasticLeadtime(50, 1.75, dist.Normal, 3, 0)
	require.NoError(t, err)

	want, err := demandModel.SafetyStock(0.9, sample)
	require.NoError(t, err)
	got, err := leadModel.SafetyStock(0.9, sample)
	require.NoError(t, err)
	assert.InDelta(t, want.Safety, got.Safety, 1e-9)
	assert.Equal(t, want.Cycle, got.Cycle)
}

func TestEOQStochasticLeadtime_LeadTimeVarianceRaisesSafetyStock(t *testing.T) {
	// GIVEN constant demand of 50/period and lead time 4 ± 1 periods
	sample := []float64{50, 50, 50}
	m, err := NewEOQStochasticLeadtime(50, 1.75, dist.Normal, 4, 1)
	require.NoError(t, err)

	stock, err := m.SafetyStock(0.975, sample)
	require.NoError(t, err)

	// THEN only the lead-time term contributes: z * d * σL
	assert.InDelta(t, 1.959963984540054*50*1, stock.Safety, 1e-6)
}

func TestEOQStochasticLeadtime_NegativeStd_ReturnsDomainError(t *testing.T) {
	_, err := NewEOQStochasticLeadtime(50, 1.75, dist.Normal, 4, -1)
	assert.True(t, errors.Is(err, errs.ErrDomain))
}
