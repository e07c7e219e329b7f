package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventory-sim/inventory-sim/sim/trace"
)

func TestSummarize_WorkedExample(t *testing.T) {
	// GIVEN the four-period worked example
	cfg := EnvironmentConfig{NPeriods: 4, Item: testItem, InitialInventory: 10, ReorderPoint: 3}
	env := newTestEnvironment(t, cfg, 4, &fixedModel{quantity: 8})
	_, err := env.Simulate()
	require.NoError(t, err)

	// WHEN summarized
	s := Summarize(env)

	// THEN totals match the per-period arrays
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, 4, s.Periods)
	assert.InDelta(t, 139, s.TotalReward, 1e-12)
	assert.InDelta(t, 16, s.TotalDemand, 1e-12)
	assert.InDelta(t, 16, s.Sales, 1e-12)
	assert.InDelta(t, 1, s.FillRate, 1e-12)
	assert.Equal(t, 1, s.OrdersPlaced)
	assert.InDelta(t, 4, s.AverageInventory, 1e-12)
	assert.Equal(t, 0, s.StockoutPeriods)
}

func TestSummarize_BeforeFirstStep(t *testing.T) {
	env := newTestEnvironment(t, EnvironmentConfig{NPeriods: 3, Item: testItem}, 1, &fixedModel{})
	s := Summarize(env)
	assert.Equal(t, 0, s.Periods)
	assert.Equal(t, 1.0, s.FillRate)
}

func TestReport_Mean(t *testing.T) {
	r := &Report{Episodes: []EpisodeSummary{
		{Summary: trace.Summary{Periods: 10, TotalReward: 100, FillRate: 1, OrdersPlaced: 2, StockoutPeriods: 0}},
		{Summary: trace.Summary{Periods: 10, TotalReward: 50, FillRate: 0.5, OrdersPlaced: 4, StockoutPeriods: 3}},
	}}
	m := r.Mean()
	assert.InDelta(t, 10, m.Periods, 1e-12)
	assert.InDelta(t, 75, m.TotalReward, 1e-12)
	assert.InDelta(t, 0.75, m.FillRate, 1e-12)
	assert.InDelta(t, 3, m.OrdersPlaced, 1e-12)
	assert.InDelta(t, 1.5, m.StockoutPeriods, 1e-12)
}

func TestReport_Print_CountsKeepFraction(t *testing.T) {
	// GIVEN episodes placing 1 and 2 orders
	r := &Report{Episodes: []EpisodeSummary{
		{Summary: trace.Summary{FillRate: 1, OrdersPlaced: 1, StockoutPeriods: 0}},
		{Summary: trace.Summary{FillRate: 1, OrdersPlaced: 2, StockoutPeriods: 1}},
	}}

	// WHEN printed
	var buf bytes.Buffer
	r.Print(&buf)

	// THEN the means are not rounded down
	assert.Contains(t, buf.String(), "Mean Orders Placed   : 1.50")
	assert.Contains(t, buf.String(), "Mean Stockout Periods: 0.50")
}

func TestReport_Print(t *testing.T) {
	var buf bytes.Buffer
	(&Report{}).Print(&buf)
	assert.Contains(t, buf.String(), "Episodes             : 0")

	buf.Reset()
	r := &Report{Episodes: []EpisodeSummary{{Summary: trace.Summary{TotalReward: 12.5, FillRate: 1}}}}
	r.Print(&buf)
	assert.Contains(t, buf.String(), "Mean Total Reward    : 12.50")
	assert.Contains(t, buf.String(), "Mean Fill Rate       : 1.0000")
}

func TestPrintEpisode(t *testing.T) {
	var buf bytes.Buffer
	PrintEpisode(&buf, EpisodeSummary{Seed: 9, Summary: trace.Summary{Periods: 3, OrdersPlaced: 1, UnitsOrdered: 40}})
	assert.Contains(t, buf.String(), "Seed                 : 9")
	assert.Contains(t, buf.String(), "Orders Placed        : 1 (40 units)")
}
