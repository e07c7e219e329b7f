// Package dist maps distribution names to quantile and cumulative-probability
// functions.
//
// Parameters follow the location/scale convention used by most statistics
// packages: every distribution accepts "loc" (default 0) and "scale"
// (default 1), and shape parameters use the names "a" (gamma), "c"
// (weibull_min), and "n"/"p" (binomial).
package dist

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inventory-sim/inventory-sim/sim/errs"
)

// ErrUnknownDistribution is returned by Lookup for names outside the registry.
var ErrUnknownDistribution = fmt.Errorf("%w: unknown distribution", errs.ErrDomain)

// Canonical distribution names.
const (
	Normal      = "normal"
	Exponential = "exponential"
	Gamma       = "gamma"
	WeibullMin  = "weibull_min"
	Uniform     = "uniform"
	Binomial    = "binomial"
)

// Params holds named distribution parameters.
type Params map[string]float64

func (p Params) get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Loc returns the location parameter (default 0).
func (p Params) Loc() float64 { return p.get("loc", 0) }

// Scale returns the scale parameter (default 1).
func (p Params) Scale() float64 { return p.get("scale", 1) }

// cumulative is the subset of a gonum distuv distribution the registry needs.
type cumulative interface {
	CDF(x float64) float64
}

// standardized is a distribution with its location removed; the registry
// shifts inputs and outputs by loc.
type standardized struct {
	cdf      func(x float64) float64
	quantile func(p float64) float64
}

type builder func(params Params) (standardized, error)

// Distribution answers quantile and cumulative-probability queries for one
// named law.
type Distribution struct {
	name  string
	build builder
}

// Name returns the canonical registry name.
func (d *Distribution) Name() string { return d.name }

// Quantile returns the smallest x with CDF(x) >= p. For the binomial law
// p = 0 returns loc - 1.
func (d *Distribution) Quantile(p float64, params Params) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%s quantile: probability %v outside [0, 1]: %w", d.name, p, errs.ErrDomain)
	}
	s, err := d.build(params)
	if err != nil {
		return 0, err
	}
	return params.Loc() + s.quantile(p), nil
}

// CDF returns P(X <= x).
func (d *Distribution) CDF(x float64, params Params) (float64, error) {
	if math.IsNaN(x) {
		return 0, fmt.Errorf("%s cdf: x is NaN: %w", d.name, errs.ErrDomain)
	}
	s, err := d.build(params)
	if err != nil {
		return 0, err
	}
	return s.cdf(x - params.Loc()), nil
}

var registry = map[string]*Distribution{}

// aliases maps short names onto canonical names.
var aliases = map[string]string{
	"norm":  Normal,
	"expon": Exponential,
	"binom": Binomial,
}

func register(name string, b builder) {
	registry[name] = &Distribution{name: name, build: b}
}

func init() {
	register(Normal, func(params Params) (standardized, error) {
		scale, err := positive(Normal, "scale", params.Scale())
		if err != nil {
			return standardized{}, err
		}
		n := distuv.Normal{Mu: 0, Sigma: scale}
		return standardized{cdf: n.CDF, quantile: n.Quantile}, nil
	})
	register(Exponential, func(params Params) (standardized, error) {
		scale, err := positive(Exponential, "scale", params.Scale())
		if err != nil {
			return standardized{}, err
		}
		e := distuv.Exponential{Rate: 1 / scale}
		return standardized{cdf: e.CDF, quantile: e.Quantile}, nil
	})
	register(Gamma, func(params Params) (standardized, error) {
		scale, err := positive(Gamma, "scale", params.Scale())
		if err != nil {
			return standardized{}, err
		}
		shape, err := positive(Gamma, "a", params.get("a", math.NaN()))
		if err != nil {
			return standardized{}, err
		}
		g := distuv.Gamma{Alpha: shape, Beta: 1 / scale}
		return standardized{cdf: g.CDF, quantile: g.Quantile}, nil
	})
	register(WeibullMin, func(params Params) (standardized, error) {
		scale, err := positive(WeibullMin, "scale", params.Scale())
		if err != nil {
			return standardized{}, err
		}
		shape, err := positive(WeibullMin, "c", params.get("c", math.NaN()))
		if err != nil {
			return standardized{}, err
		}
		w := distuv.Weibull{K: shape, Lambda: scale}
		return standardized{cdf: w.CDF, quantile: w.Quantile}, nil
	})
	register(Uniform, func(params Params) (standardized, error) {
		scale, err := positive(Uniform, "scale", params.Scale())
		if err != nil {
			return standardized{}, err
		}
		u := distuv.Uniform{Min: 0, Max: scale}
		return standardized{cdf: u.CDF, quantile: u.Quantile}, nil
	})
	register(Binomial, func(params Params) (standardized, error) {
		n, err := positive(Binomial, "n", params.get("n", math.NaN()))
		if err != nil {
			return standardized{}, err
		}
		if n != math.Trunc(n) {
			return standardized{}, fmt.Errorf("%s: n must be an integer, got %v: %w", Binomial, n, errs.ErrDomain)
		}
		p := params.get("p", math.NaN())
		if math.IsNaN(p) || p < 0 || p > 1 {
			return standardized{}, fmt.Errorf("%s: p must be in [0, 1], got %v: %w", Binomial, p, errs.ErrDomain)
		}
		b := distuv.Binomial{N: n, P: p}
		return standardized{cdf: b.CDF, quantile: discreteQuantile(b, n)}, nil
	})
}

// discreteQuantile inverts a CDF supported on the integers [0, upper] by
// binary search. p = 0 maps to -1, one below the support.
func discreteQuantile(c cumulative, upper float64) func(p float64) float64 {
	return func(p float64) float64 {
		if p == 0 {
			return -1
		}
		hi := int(upper)
		k := sort.Search(hi+1, func(i int) bool {
			return c.CDF(float64(i)) >= p
		})
		if k > hi {
			k = hi
		}
		return float64(k)
	}
}

func positive(name, key string, v float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%s requires parameter %q: %w", name, key, errs.ErrDomain)
	}
	if v <= 0 || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: %s must be positive and finite, got %v: %w", name, key, v, errs.ErrDomain)
	}
	return v, nil
}

// Lookup returns the distribution registered under name or an alias of it.
func Lookup(name string) (*Distribution, error) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDistribution, name)
	}
	return d, nil
}

// Names returns the canonical names of all registered distributions, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
