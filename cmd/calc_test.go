package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventory-sim/inventory-sim/sim/dist"
	"github.com/inventory-sim/inventory-sim/sim/eoq"
	"github.com/inventory-sim/inventory-sim/sim/errs"
)

func TestRunEOQ_PrintsQuantityAndCost(t *testing.T) {
	var buf bytes.Buffer
	err := runEOQ(&buf, eoq.Spec{Model: eoq.ModelEOQ, OrderingCost: 50, HoldingCost: 1.75}, []float64{600})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Order Quantity : 185.1640")
	assert.Contains(t, buf.String(), "Total Cost     : 324.0370")
	assert.NotContains(t, buf.String(), "Backorders")
}

func TestRunEOQ_BackordersPrintsBackorderLevel(t *testing.T) {
	var buf bytes.Buffer
	spec := eoq.Spec{Model: eoq.ModelEOQBackorders, OrderingCost: 50, HoldingCost: 1.75, StockoutCost: 5}
	require.NoError(t, runEOQ(&buf, spec, []float64{600}))
	assert.Contains(t, buf.String(), "Backorders")
}

func TestRunEOQ_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, runEOQ(&buf, eoq.Spec{Model: "eoq_magic"}, []float64{1}), errs.ErrConfiguration)
}

func TestRunReorderPoint(t *testing.T) {
	// GIVEN normal demand with mean 100 and std 25
	var buf bytes.Buffer
	inv := 125.0

	// WHEN the 84.13% reorder point and the service level at 125 units are requested
	err := runReorderPoint(&buf, "norm", 0.8413, dist.Params{"loc": 100, "scale": 25}, &inv)

	// THEN both are printed
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Distribution   : normal")
	assert.Contains(t, buf.String(), "Reorder Point  : 124.9954")
	assert.Contains(t, buf.String(), "Service Level  : 0.8413 at 125.00 units")
}

func TestRunReorderPoint_UnknownDistribution(t *testing.T) {
	var buf bytes.Buffer
	err := runReorderPoint(&buf, "lognormal", 0.9, dist.Params{}, nil)
	assert.ErrorIs(t, err, dist.ErrUnknownDistribution)
}

func TestDistributionParams(t *testing.T) {
	params, err := distributionParams(3, 10, map[string]string{"a": "2.5"})
	require.NoError(t, err)
	assert.Equal(t, dist.Params{"loc": 3, "scale": 10, "a": 2.5}, params)

	_, err = distributionParams(0, 1, map[string]string{"n": "ten"})
	assert.Error(t, err)
}
