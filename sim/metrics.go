// Episode and evaluation-level performance metrics such as fill rate,
// lost sales and total reward.

package sim

import (
	"fmt"
	"io"

	"github.com/inventory-sim/inventory-sim/sim/trace"
)

// EpisodeSummary aggregates one simulated episode.
type EpisodeSummary struct {
	Episode int   // index within an evaluation, 0 for a single run
	Seed    int64 // seed the environment was built with
	trace.Summary
}

// Summarize computes the summary of the periods env has processed so far.
func Summarize(env *Environment) EpisodeSummary {
	return EpisodeSummary{
		Seed:    int64(env.rng.Key()),
		Summary: trace.Summarize(env.Records()),
	}
}

// Report aggregates the episodes of an evaluation.
type Report struct {
	Episodes []EpisodeSummary
}

// MeanSummary is the per-episode average of an evaluation. Counts are
// averaged as floats.
type MeanSummary struct {
	Periods          float64
	TotalReward      float64
	TotalDemand      float64
	Sales            float64
	LostSales        float64
	FillRate         float64
	OrdersPlaced     float64
	UnitsOrdered     float64
	AverageInventory float64
	StockoutPeriods  float64
}

// Mean returns the per-field average across episodes.
func (r *Report) Mean() MeanSummary {
	var m MeanSummary
	n := len(r.Episodes)
	if n == 0 {
		m.FillRate = 1
		return m
	}
	for _, ep := range r.Episodes {
		m.Periods += float64(ep.Periods)
		m.TotalReward += ep.TotalReward
		m.TotalDemand += ep.TotalDemand
		m.Sales += ep.Sales
		m.LostSales += ep.LostSales
		m.FillRate += ep.FillRate
		m.OrdersPlaced += float64(ep.OrdersPlaced)
		m.UnitsOrdered += ep.UnitsOrdered
		m.AverageInventory += ep.AverageInventory
		m.StockoutPeriods += float64(ep.StockoutPeriods)
	}
	f := float64(n)
	m.Periods /= f
	m.TotalReward /= f
	m.TotalDemand /= f
	m.Sales /= f
	m.LostSales /= f
	m.FillRate /= f
	m.OrdersPlaced /= f
	m.UnitsOrdered /= f
	m.AverageInventory /= f
	m.StockoutPeriods /= f
	return m
}

// Print writes the evaluation report.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Evaluation Metrics ===")
	fmt.Fprintf(w, "Episodes             : %d\n", len(r.Episodes))
	if len(r.Episodes) == 0 {
		return
	}
	m := r.Mean()
	fmt.Fprintf(w, "Mean Total Reward    : %.2f\n", m.TotalReward)
	fmt.Fprintf(w, "Mean Demand          : %.2f units\n", m.TotalDemand)
	fmt.Fprintf(w, "Mean Sales           : %.2f units\n", m.Sales)
	fmt.Fprintf(w, "Mean Lost Sales      : %.2f units\n", m.LostSales)
	fmt.Fprintf(w, "Mean Fill Rate       : %.4f\n", m.FillRate)
	fmt.Fprintf(w, "Mean Avg Inventory   : %.2f units\n", m.AverageInventory)
	fmt.Fprintf(w, "Mean Orders Placed   : %.2f\n", m.OrdersPlaced)
	fmt.Fprintf(w, "Mean Stockout Periods: %.2f\n", m.StockoutPeriods)
}

// PrintEpisode writes the summary of a single episode.
func PrintEpisode(w io.Writer, s EpisodeSummary) {
	fmt.Fprintln(w, "=== Episode Metrics ===")
	fmt.Fprintf(w, "Seed                 : %d\n", s.Seed)
	fmt.Fprintf(w, "Periods              : %d\n", s.Periods)
	fmt.Fprintf(w, "Total Reward         : %.2f\n", s.TotalReward)
	fmt.Fprintf(w, "Demand               : %.2f units\n", s.TotalDemand)
	fmt.Fprintf(w, "Sales                : %.2f units\n", s.Sales)
	fmt.Fprintf(w, "Lost Sales           : %.2f units\n", s.LostSales)
	fmt.Fprintf(w, "Fill Rate            : %.4f\n", s.FillRate)
	fmt.Fprintf(w, "Orders Placed        : %d (%.0f units)\n", s.OrdersPlaced, s.UnitsOrdered)
	fmt.Fprintf(w, "Average Inventory    : %.2f units\n", s.AverageInventory)
	fmt.Fprintf(w, "Stockout Periods     : %d\n", s.StockoutPeriods)
}
