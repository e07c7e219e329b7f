package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventory-sim/inventory-sim/sim/demand"
	"github.com/inventory-sim/inventory-sim/sim/eoq"
)

func poissonScenario() *Scenario {
	return &Scenario{
		Name:             "eval",
		Seed:             100,
		Periods:          60,
		Item:             Item{Price: 10, UnitCost: 4, HoldingCost: 0.5, OrderingCost: 40},
		InitialInventory: 50,
		ReorderPoint:     float64Ptr(25),
		LeadTime:         2,
		ForecastWindow:   5,
		Demand:           demand.Spec{Type: demand.TypePoisson, Params: map[string]float64{"mean": 12}},
		Policy:           PolicyConfig{Model: eoq.ModelEOQ},
	}
}

func TestEvaluate_ResultsIndependentOfWorkerCount(t *testing.T) {
	// GIVEN one scenario evaluated with 1 and 4 workers
	s := poissonScenario()
	require.NoError(t, s.Validate())

	serial, err := Evaluate(context.Background(), s.EpisodeFactory(), 8, 1)
	require.NoError(t, err)
	parallel, err := Evaluate(context.Background(), s.EpisodeFactory(), 8, 4)
	require.NoError(t, err)

	// THEN results are identical and ordered by episode
	assert.Equal(t, serial, parallel)
	for i, ep := range parallel {
		assert.Equal(t, i, ep.Episode)
		assert.Equal(t, s.Seed+int64(i), ep.Seed)
		assert.Equal(t, 60, ep.Periods)
	}
	assert.NotEqual(t, parallel[0].TotalDemand, parallel[1].TotalDemand)
}

func TestEvaluate_MatchesSingleRun(t *testing.T) {
	s := poissonScenario()
	results, err := Evaluate(context.Background(), s.EpisodeFactory(), 3, 2)
	require.NoError(t, err)

	env, err := s.BuildSeeded(s.Seed + 2)
	require.NoError(t, err)
	_, err = env.Simulate()
	require.NoError(t, err)
	want := Summarize(env)
	want.Episode = 2
	assert.Equal(t, want, results[2])
}

func TestEvaluate_FactoryErrorAborts(t *testing.T) {
	boom := fmt.Errorf("no stock data: %w", ErrConfiguration)
	factory := func(episode int) (*Environment, error) {
		if episode == 2 {
			return nil, boom
		}
		return poissonScenario().BuildSeeded(int64(episode))
	}
	results, err := Evaluate(context.Background(), factory, 5, 2)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestEvaluate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Evaluate(ctx, poissonScenario().EpisodeFactory(), 4, 2)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestEvaluate_InvalidEpisodes(t *testing.T) {
	_, err := Evaluate(context.Background(), poissonScenario().EpisodeFactory(), 0, 1)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestWorkers_DefaultsToGOMAXPROCS(t *testing.T) {
	// GIVEN an unset worker count WHEN resolved THEN it is the count Evaluate actually runs with
	assert.Equal(t, runtime.GOMAXPROCS(0), Workers(0))
	assert.Equal(t, runtime.GOMAXPROCS(0), Workers(-3))
	assert.Equal(t, 4, Workers(4))
}
