package sim

import (
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/inventory-sim/inventory-sim/sim/demand"
	"github.com/inventory-sim/inventory-sim/sim/eoq"
	"github.com/inventory-sim/inventory-sim/sim/trace"
)

// State is a snapshot of the per-period arrays. Slices are copies; mutating
// them does not affect the environment.
type State struct {
	Period     int // next period to process
	Inventory  []float64
	Orders     []float64
	Backorders []float64
	LostSales  []float64
	Rewards    []float64
}

// StepResult describes one committed period.
type StepResult struct {
	Period      int
	Opening     float64 // stock on hand after receipts
	Demand      float64
	Sales       float64
	Closing     float64
	Order       float64 // whole units ordered, 0 when none
	OrderPlaced bool
	ModelCost   float64 // model total cost for the order, 0 for caller-supplied orders
	Reward      float64
}

// Info carries diagnostics about the last processed period.
type Info struct {
	Period          int // last processed period, -1 before the first step
	Demand          float64
	Sales           float64
	Order           float64
	ModelCost       float64
	PendingReceipts float64 // units ordered for arrival after the horizon
}

// Transition is the result of Act: the standard episodic RL tuple.
type Transition struct {
	State  State
	Reward float64
	Done   bool
	Info   Info
}

// Environment is a discrete-time single-echelon inventory simulation.
// Periods are processed strictly in order; Reset starts a new episode.
// Not safe for concurrent use.
type Environment struct {
	cfg   EnvironmentConfig
	gen   demand.Generator
	model eoq.OrderQuantityModel
	rng   *PartitionedRNG

	demand     []float64
	inventory  []float64
	orders     []float64
	backorders []float64
	lostSales  []float64
	sales      []float64
	rewards    []float64
	receipts   []float64 // scheduled arrivals per period
	pending    float64   // arrivals scheduled past the horizon
	modelCosts []float64

	t          int // next period to process
	lastReward float64
}

// NewEnvironment creates an environment with demand sampled from gen using
// seed. Config fields left at zero take their defaults.
func NewEnvironment(cfg EnvironmentConfig, gen demand.Generator, model eoq.OrderQuantityModel, seed int64) (*Environment, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, fmt.Errorf("environment requires a demand generator: %w", ErrConfiguration)
	}
	if model == nil {
		return nil, fmt.Errorf("environment requires an order quantity model: %w", ErrConfiguration)
	}
	if gen.Periods() != cfg.NPeriods {
		return nil, fmt.Errorf("demand generator yields %d periods, environment needs %d: %w",
			gen.Periods(), cfg.NPeriods, ErrConfiguration)
	}
	n := cfg.NPeriods
	e := &Environment{
		cfg:        cfg,
		gen:        gen,
		model:      model,
		rng:        NewPartitionedRNG(NewSimulationKey(seed)),
		inventory:  make([]float64, n),
		orders:     make([]float64, n),
		backorders: make([]float64, n),
		lostSales:  make([]float64, n),
		sales:      make([]float64, n),
		rewards:    make([]float64, n),
		receipts:   make([]float64, n),
		modelCosts: make([]float64, n),
	}
	e.Reset()
	return e, nil
}

// Reset resamples demand, zeroes every array and returns to period 0.
func (e *Environment) Reset() State {
	e.demand = e.gen.Generate(e.rng.ForSubsystem(SubsystemDemand))
	for _, arr := range [][]float64{e.inventory, e.orders, e.backorders, e.lostSales, e.sales, e.rewards, e.receipts, e.modelCosts} {
		clear(arr)
	}
	e.pending = 0
	e.t = 0
	e.lastReward = 0
	return e.State()
}

// Step processes period t, ordering through the model when the inventory
// position falls to the reorder point. t must be the next unprocessed period.
func (e *Environment) Step(t int) (StepResult, error) {
	if err := e.checkPeriod(t); err != nil {
		return StepResult{}, err
	}
	return e.advance(t, e.modelOrder)
}

// Act processes the current period with a caller-supplied order quantity,
// rounded to whole units.
func (e *Environment) Act(quantity float64) (Transition, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity < 0 {
		return Transition{}, fmt.Errorf("order quantity must be finite and non-negative, got %v: %w", quantity, ErrDomain)
	}
	if err := e.checkPeriod(e.t); err != nil {
		return Transition{}, err
	}
	res, err := e.advance(e.t, func(int, float64) (float64, float64, error) {
		return quantity, 0, nil
	})
	if err != nil {
		return Transition{}, err
	}
	return Transition{
		State:  e.State(),
		Reward: res.Reward,
		Done:   e.Done(),
		Info:   e.Info(),
	}, nil
}

// Simulate processes every remaining period with the model policy.
func (e *Environment) Simulate() (State, error) {
	logrus.Infof("Simulating periods %d..%d", e.t, e.cfg.NPeriods-1)
	for !e.Done() {
		if _, err := e.Step(e.t); err != nil {
			return e.State(), err
		}
	}
	logrus.Infof("Episode finished: %d periods, pending receipts %.0f", e.cfg.NPeriods, e.pending)
	return e.State(), nil
}

func (e *Environment) checkPeriod(t int) error {
	if e.Done() {
		return fmt.Errorf("episode finished after %d periods: %w", e.cfg.NPeriods, ErrBounds)
	}
	if t < 0 || t >= e.cfg.NPeriods {
		return fmt.Errorf("period %d outside [0, %d): %w", t, e.cfg.NPeriods, ErrBounds)
	}
	if t != e.t {
		return fmt.Errorf("period %d requested, next unprocessed period is %d: %w", t, e.t, ErrBounds)
	}
	return nil
}

// orderFunc decides the order for period t given the inventory position and
// returns the raw quantity and the model cost.
type orderFunc func(t int, position float64) (float64, float64, error)

// modelOrder reorders when the inventory position (on hand plus on order
// minus backorders) falls to the reorder point. With lead time 1 nothing is
// in transit at decision time, so this is closing inventory.
func (e *Environment) modelOrder(t int, position float64) (float64, float64, error) {
	if position > e.cfg.ReorderPoint {
		return 0, 0, nil
	}
	end := min(t+1+e.cfg.ForecastWindow, e.cfg.NPeriods)
	res, err := e.model.CalculateOrderQuantities(e.demand[t+1 : end])
	if err != nil {
		return 0, 0, fmt.Errorf("period %d order quantity: %w", t, err)
	}
	return res.Quantity, res.Cost, nil
}

// advance computes period t in locals and commits only when the order
// decision succeeds.
func (e *Environment) advance(t int, decide orderFunc) (StepResult, error) {
	opening := e.cfg.InitialInventory
	carried := 0.0
	if t > 0 {
		opening = e.inventory[t-1]
		if e.cfg.BackordersAllowed {
			carried = e.backorders[t-1]
		}
	}
	opening += e.receipts[t]

	d := e.demand[t]
	need := d + carried
	closing := math.Max(0, opening-need)
	shipped := math.Min(opening, need)
	backorder, lost := 0.0, 0.0
	if e.cfg.BackordersAllowed {
		backorder = need - shipped
	} else {
		lost = math.Max(0, d-opening)
	}

	order, cost := 0.0, 0.0
	if t < e.cfg.NPeriods-1 {
		q, c, err := decide(t, e.position(t, closing, backorder))
		if err != nil {
			return StepResult{}, err
		}
		order, cost = math.Round(q), c
	}
	placed := order > 0

	reward := e.cfg.Item.Price*shipped - e.cfg.Item.HoldingCost*closing
	if placed {
		reward -= e.cfg.Item.OrderingCost
		if arrival := t + e.cfg.LeadTime; arrival < e.cfg.NPeriods {
			e.receipts[arrival] += order
		} else {
			e.pending += order
			logrus.Warnf("[period %03d] order of %.0f units arrives after the horizon", t, order)
		}
	}

	e.inventory[t] = closing
	e.orders[t] = order
	e.backorders[t] = backorder
	e.lostSales[t] = lost
	e.sales[t] = shipped
	e.rewards[t] = reward
	e.modelCosts[t] = cost
	e.lastReward = reward
	e.t = t + 1

	logrus.Debugf("[period %03d] demand=%.2f inventory=%.2f order=%.0f reward=%.2f", t, d, closing, order, reward)
	return StepResult{
		Period:      t,
		Opening:     opening,
		Demand:      d,
		Sales:       shipped,
		Closing:     closing,
		Order:       order,
		OrderPlaced: placed,
		ModelCost:   cost,
		Reward:      reward,
	}, nil
}

// position is stock on hand after period t plus units still on order
// minus open backorders.
func (e *Environment) position(t int, closing, backorder float64) float64 {
	return closing + floats.Sum(e.receipts[t+1:]) + e.pending - backorder
}

// State returns a copy of the per-period arrays.
func (e *Environment) State() State {
	return State{
		Period:     e.t,
		Inventory:  slices.Clone(e.inventory),
		Orders:     slices.Clone(e.orders),
		Backorders: slices.Clone(e.backorders),
		LostSales:  slices.Clone(e.lostSales),
		Rewards:    slices.Clone(e.rewards),
	}
}

// Reward returns the reward of the last processed period.
func (e *Environment) Reward() float64 { return e.lastReward }

// Done reports whether every period has been processed.
func (e *Environment) Done() bool { return e.t >= e.cfg.NPeriods }

// Period returns the next period to process.
func (e *Environment) Period() int { return e.t }

// Demand returns a copy of the episode's demand sequence.
func (e *Environment) Demand() []float64 { return slices.Clone(e.demand) }

// Config returns the defaulted configuration.
func (e *Environment) Config() EnvironmentConfig { return e.cfg }

// Info returns diagnostics for the last processed period.
func (e *Environment) Info() Info {
	last := e.t - 1
	info := Info{Period: last, PendingReceipts: e.pending}
	if last >= 0 {
		info.Demand = e.demand[last]
		info.Sales = e.sales[last]
		info.Order = e.orders[last]
		info.ModelCost = e.modelCosts[last]
	}
	return info
}

// Records returns one trace record per processed period.
func (e *Environment) Records() []trace.Record {
	out := make([]trace.Record, e.t)
	for t := range out {
		out[t] = trace.Record{
			Period:     t,
			Inventory:  e.inventory[t],
			Orders:     e.orders[t],
			Backorders: e.backorders[t],
			LostSales:  e.lostSales[t],
			Reward:     e.rewards[t],
			Demand:     e.demand[t],
			Sales:      e.sales[t],
		}
	}
	return out
}
