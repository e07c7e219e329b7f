package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// EnvironmentFactory builds the environment for one evaluation episode.
// Each call must return a fresh environment owning its own RNG.
type EnvironmentFactory func(episode int) (*Environment, error)

// Workers returns the number of concurrent episodes Evaluate uses for the
// requested count.
func Workers(requested int) int {
	if requested < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return requested
}

// Evaluate runs episodes independent episodes with at most workers running
// at once (GOMAXPROCS when workers < 1). Results are ordered by episode and
// do not depend on the number of workers. The first failure or a context
// cancellation aborts the outstanding episodes.
func Evaluate(ctx context.Context, factory EnvironmentFactory, episodes, workers int) ([]EpisodeSummary, error) {
	if episodes < 1 {
		return nil, fmt.Errorf("episodes must be >= 1, got %d: %w", episodes, ErrConfiguration)
	}
	workers = Workers(workers)
	logrus.Infof("Evaluating %d episodes on %d workers", episodes, workers)

	results := make([]EpisodeSummary, episodes)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range episodes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			env, err := factory(i)
			if err != nil {
				return fmt.Errorf("episode %d: %w", i, err)
			}
			for !env.Done() {
				if err := gctx.Err(); err != nil {
					return err
				}
				if _, err := env.Step(env.Period()); err != nil {
					return fmt.Errorf("episode %d: %w", i, err)
				}
			}
			results[i] = Summarize(env)
			results[i].Episode = i
			logrus.Debugf("[episode %03d] reward=%.2f fill_rate=%.4f", i, results[i].TotalReward, results[i].FillRate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logrus.Infof("Evaluation finished: %d episodes", episodes)
	return results, nil
}
