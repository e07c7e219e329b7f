// Package demand generates per-period demand sequences for one episode.
package demand

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inventory-sim/inventory-sim/sim/errs"
)

// Generator produces a demand sequence of Periods() non-negative values.
// Randomized generators draw only from rng, so the same seed yields the
// same sequence.
type Generator interface {
	Generate(rng *rand.Rand) []float64
	Periods() int
}

// DeterministicDemand repeats a constant value every period.
type DeterministicDemand struct {
	nPeriods int
	value    float64
}

func (g *DeterministicDemand) Periods() int { return g.nPeriods }

func (g *DeterministicDemand) Generate(_ *rand.Rand) []float64 {
	out := make([]float64, g.nPeriods)
	for i := range out {
		out[i] = g.value
	}
	return out
}

// NormalDemand draws i.i.d. Gaussian demand, clamped at zero.
type NormalDemand struct {
	nPeriods     int
	mean, stdDev float64
}

func (g *NormalDemand) Periods() int { return g.nPeriods }

func (g *NormalDemand) Generate(rng *rand.Rand) []float64 {
	n := distuv.Normal{Mu: g.mean, Sigma: g.stdDev, Src: rng}
	out := make([]float64, g.nPeriods)
	clamped := 0
	for i := range out {
		v := n.Rand()
		if v < 0 {
			v = 0
			clamped++
		}
		out[i] = v
	}
	if clamped > 0 {
		logrus.Debugf("normal demand: clamped %d of %d negative draws to zero", clamped, g.nPeriods)
	}
	return out
}

// PoissonDemand draws i.i.d. Poisson demand.
type PoissonDemand struct {
	nPeriods int
	mean     float64
}

func (g *PoissonDemand) Periods() int { return g.nPeriods }

func (g *PoissonDemand) Generate(rng *rand.Rand) []float64 {
	p := distuv.Poisson{Lambda: g.mean, Src: rng}
	out := make([]float64, g.nPeriods)
	for i := range out {
		out[i] = p.Rand()
	}
	return out
}

// NegativeBinomialDemand draws the number of failures before n successes
// with success probability p, as a gamma-Poisson mixture:
// λ ~ Gamma(n, rate p/(1-p)), X ~ Poisson(λ).
type NegativeBinomialDemand struct {
	nPeriods int
	n, p     float64
}

func (g *NegativeBinomialDemand) Periods() int { return g.nPeriods }

func (g *NegativeBinomialDemand) Generate(rng *rand.Rand) []float64 {
	out := make([]float64, g.nPeriods)
	if g.p == 1 {
		return out
	}
	mix := distuv.Gamma{Alpha: g.n, Beta: g.p / (1 - g.p), Src: rng}
	for i := range out {
		out[i] = distuv.Poisson{Lambda: mix.Rand(), Src: rng}.Rand()
	}
	return out
}

// Demand generator type names accepted by NewGenerator.
const (
	TypeDeterministic    = "deterministic"
	TypeNormal           = "normal"
	TypePoisson          = "poisson"
	TypeNegativeBinomial = "negative_binomial"
)

// Spec parameterizes a demand generator.
type Spec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("demand type requires parameter %q: %w", k, errs.ErrConfiguration)
		}
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%s must be finite and non-negative, got %v: %w", name, v, errs.ErrDomain)
	}
	return nil
}

// NewGenerator creates a Generator for nPeriods periods from a Spec.
func NewGenerator(spec Spec, nPeriods int) (Generator, error) {
	if nPeriods < 1 {
		return nil, fmt.Errorf("demand needs at least one period, got %d: %w", nPeriods, errs.ErrConfiguration)
	}
	switch spec.Type {
	case TypeDeterministic, "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		if err := nonNegative("value", spec.Params["value"]); err != nil {
			return nil, err
		}
		return &DeterministicDemand{nPeriods: nPeriods, value: spec.Params["value"]}, nil

	case TypeNormal, "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev"); err != nil {
			return nil, err
		}
		if err := nonNegative("std_dev", spec.Params["std_dev"]); err != nil {
			return nil, err
		}
		if math.IsNaN(spec.Params["mean"]) || math.IsInf(spec.Params["mean"], 0) {
			return nil, fmt.Errorf("mean must be finite: %w", errs.ErrDomain)
		}
		return &NormalDemand{
			nPeriods: nPeriods,
			mean:     spec.Params["mean"],
			stdDev:   spec.Params["std_dev"],
		}, nil

	case TypePoisson:
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		if err := nonNegative("mean", spec.Params["mean"]); err != nil {
			return nil, err
		}
		return &PoissonDemand{nPeriods: nPeriods, mean: spec.Params["mean"]}, nil

	case TypeNegativeBinomial:
		if err := requireParam(spec.Params, "n", "p"); err != nil {
			return nil, err
		}
		n, p := spec.Params["n"], spec.Params["p"]
		if !(n > 0) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("negative binomial n must be positive, got %v: %w", n, errs.ErrDomain)
		}
		if !(p > 0 && p <= 1) {
			return nil, fmt.Errorf("negative binomial p must be in (0, 1], got %v: %w", p, errs.ErrDomain)
		}
		return &NegativeBinomialDemand{nPeriods: nPeriods, n: n, p: p}, nil

	default:
		return nil, fmt.Errorf("unknown demand type %q: %w", spec.Type, errs.ErrConfiguration)
	}
}
