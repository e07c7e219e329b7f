package eoq

import (
	"fmt"
	"math"

	"github.com/inventory-sim/inventory-sim/sim/errs"
)

// EOQ is the classic economic order quantity: the order size minimizing
// ordering plus holding cost for a known demand.
type EOQ struct {
	OrderingCost float64 // K, cost per order placed
	HoldingCost  float64 // h, cost of holding one unit for one period
}

// CalculateOrderQuantities returns Q = sqrt(2KD/h) and TC(Q). A window with
// no demand, or free ordering, yields a zero quantity and zero cost.
func (m *EOQ) CalculateOrderQuantities(demand []float64) (Result, error) {
	if err := checkCosts(m.OrderingCost, m.HoldingCost); err != nil {
		return Result{}, fmt.Errorf("eoq: %w", err)
	}
	d, err := totalDemand(demand)
	if err != nil {
		return Result{}, fmt.Errorf("eoq: %w", err)
	}
	if d == 0 || m.OrderingCost == 0 {
		return Result{}, nil
	}
	q := math.Sqrt(2 * m.OrderingCost * d / m.HoldingCost)
	return Result{Quantity: q, Cost: m.cost(d, q)}, nil
}

// TotalCost evaluates h*Q/2 + K*D/Q for an arbitrary Q > 0.
func (m *EOQ) TotalCost(demand []float64, q float64) (float64, error) {
	if err := checkQuantity(q); err != nil {
		return 0, fmt.Errorf("eoq: %w", err)
	}
	d, err := totalDemand(demand)
	if err != nil {
		return 0, fmt.Errorf("eoq: %w", err)
	}
	return m.cost(d, q), nil
}

func (m *EOQ) cost(d, q float64) float64 {
	return m.HoldingCost*q/2 + m.OrderingCost*d/q
}

// EOQProduction is the EOQ with a finite production (replenishment) rate.
// Only the fraction 1 - D/P of each batch accumulates as stock.
type EOQProduction struct {
	OrderingCost   float64
	HoldingCost    float64
	ProductionRate float64 // P, must exceed the demand over the same window
}

// throughput returns rho = 1 - D/P; rho <= 0 means demand consumes all capacity.
func (m *EOQProduction) throughput(d float64) (float64, error) {
	if !(m.ProductionRate > 0) {
		return 0, fmt.Errorf("production rate must be positive, got %v: %w", m.ProductionRate, errs.ErrDomain)
	}
	rho := 1 - d/m.ProductionRate
	if rho <= 0 {
		return 0, fmt.Errorf("production rate %v does not exceed demand %v: %w", m.ProductionRate, d, errs.ErrDomain)
	}
	return rho, nil
}

// CalculateOrderQuantities returns Q = sqrt(2KD/(h*rho)) and TC(Q).
func (m *EOQProduction) CalculateOrderQuantities(demand []float64) (Result, error) {
	if err := checkCosts(m.OrderingCost, m.HoldingCost); err != nil {
		return Result{}, fmt.Errorf("eoq production: %w", err)
	}
	d, err := totalDemand(demand)
	if err != nil {
		return Result{}, fmt.Errorf("eoq production: %w", err)
	}
	rho, err := m.throughput(d)
	if err != nil {
		return Result{}, fmt.Errorf("eoq production: %w", err)
	}
	if d == 0 || m.OrderingCost == 0 {
		return Result{}, nil
	}
	q := math.Sqrt(2 * m.OrderingCost * d / (m.HoldingCost * rho))
	return Result{Quantity: q, Cost: m.cost(d, rho, q)}, nil
}

// TotalCost evaluates h*rho*Q/2 + K*D/Q.
func (m *EOQProduction) TotalCost(demand []float64, q float64) (float64, error) {
	if err := checkQuantity(q); err != nil {
		return 0, fmt.Errorf("eoq production: %w", err)
	}
	d, err := totalDemand(demand)
	if err != nil {
		return 0, fmt.Errorf("eoq production: %w", err)
	}
	rho, err := m.throughput(d)
	if err != nil {
		return 0, fmt.Errorf("eoq production: %w", err)
	}
	return m.cost(d, rho, q), nil
}

func (m *EOQProduction) cost(d, rho, q float64) float64 {
	return m.HoldingCost*rho*q/2 + m.OrderingCost*d/q
}

// EOQBackorders is the EOQ with planned backorders: unmet demand waits for
// the next replenishment at a per-unit stockout cost.
type EOQBackorders struct {
	OrderingCost float64
	HoldingCost  float64
	StockoutCost float64 // p, cost per backordered unit
}

// CriticalRatio returns p / (h + p).
func (m *EOQBackorders) CriticalRatio() float64 {
	return m.StockoutCost / (m.HoldingCost + m.StockoutCost)
}

func (m *EOQBackorders) check() error {
	if err := checkCosts(m.OrderingCost, m.HoldingCost); err != nil {
		return err
	}
	if !(m.StockoutCost > 0) || math.IsInf(m.StockoutCost, 0) {
		return fmt.Errorf("stockout cost must be positive, got %v: %w", m.StockoutCost, errs.ErrDomain)
	}
	return nil
}

// CalculateOrderQuantities returns Q = sqrt(2KD(h+p)/(hp)), the planned
// backorder level B = (1 - p/(h+p))*Q and TC(Q, B).
func (m *EOQBackorders) CalculateOrderQuantities(demand []float64) (Result, error) {
	if err := m.check(); err != nil {
		return Result{}, fmt.Errorf("eoq backorders: %w", err)
	}
	d, err := totalDemand(demand)
	if err != nil {
		return Result{}, fmt.Errorf("eoq backorders: %w", err)
	}
	if d == 0 || m.OrderingCost == 0 {
		return Result{}, nil
	}
	h, p := m.HoldingCost, m.StockoutCost
	q := math.Sqrt(2 * m.OrderingCost * d * (h + p) / (h * p))
	b := (1 - m.CriticalRatio()) * q
	return Result{Quantity: q, Cost: m.cost(d, q, b), Backorders: b}, nil
}

// TotalCost evaluates D/Q*K + (Q-B)²/(2Q)*h + (B²/2)/Q*p.
func (m *EOQBackorders) TotalCost(demand []float64, q, b float64) (float64, error) {
	if err := m.check(); err != nil {
		return 0, fmt.Errorf("eoq backorders: %w", err)
	}
	if err := checkQuantity(q); err != nil {
		return 0, fmt.Errorf("eoq backorders: %w", err)
	}
	if b < 0 || b > q {
		return 0, fmt.Errorf("eoq backorders: backorder level %v outside [0, %v]: %w", b, q, errs.ErrDomain)
	}
	d, err := totalDemand(demand)
	if err != nil {
		return 0, fmt.Errorf("eoq backorders: %w", err)
	}
	return m.cost(d, q, b), nil
}

func (m *EOQBackorders) cost(d, q, b float64) float64 {
	ordering := d / q * m.OrderingCost
	holding := (q - b) * (q - b) / (2 * q) * m.HoldingCost
	stockout := (b * b / 2) / q * m.StockoutCost
	return ordering + holding + stockout
}
