package trace

// Summary aggregates the records of one episode.
type Summary struct {
	Periods          int
	TotalReward      float64
	TotalDemand      float64
	Sales            float64
	LostSales        float64
	FillRate         float64 // sales / demand; 1 when there was no demand
	OrdersPlaced     int
	UnitsOrdered     float64
	AverageInventory float64
	StockoutPeriods  int // periods with lost sales or backorders
}

// Summarize computes aggregate statistics from a slice of records.
// Safe for nil or empty input (returns zero-value fields, FillRate 1).
func Summarize(records []Record) Summary {
	s := Summary{Periods: len(records), FillRate: 1}
	if len(records) == 0 {
		return s
	}
	inventory := 0.0
	for _, r := range records {
		s.TotalReward += r.Reward
		s.TotalDemand += r.Demand
		s.Sales += r.Sales
		s.LostSales += r.LostSales
		inventory += r.Inventory
		if r.Orders > 0 {
			s.OrdersPlaced++
			s.UnitsOrdered += r.Orders
		}
		if r.LostSales > 0 || r.Backorders > 0 {
			s.StockoutPeriods++
		}
	}
	s.AverageInventory = inventory / float64(len(records))
	if s.TotalDemand > 0 {
		s.FillRate = s.Sales / s.TotalDemand
	}
	return s
}
