// Package trace holds per-period simulation records and their export.
// This package has no dependencies on sim/ so exporters and stores can use
// it without pulling in the environment.
package trace

// Record captures the committed state of one simulated period.
type Record struct {
	Period     int
	Inventory  float64 // closing inventory
	Orders     float64 // units ordered this period (0 when no order)
	Backorders float64 // unmet demand carried forward
	LostSales  float64 // unmet demand lost
	Reward     float64
	Demand     float64
	Sales      float64 // units shipped; not part of the export layout
}
