package contracts

// Position is one sized holding in the model portfolio.
type Position struct {
	Name        string  `json:"name"`
	NSECode     string  `json:"nseCode"`
	SectorGroup string  `json:"sectorGroup"`
	Weight      float64 `json:"weight"` // percent of total portfolio, 1 decimal
	Conviction  float64 `json:"conviction"`
	Composite   float64 `json:"compositeScore"`
	Safety      float64 `json:"safetyScore"`
	Label       string  `json:"recommendation"`
}

// Key returns the pipeline identifier, NSE code first.
func (p *Position) Key() string {
	if p.NSECode != "" {
		return p.NSECode
	}
	return p.Name
}

// PortfolioAllocation is the sized model portfolio. Positions are ordered
// by final weight descending. Weights plus cash total 100 within rounding
// tolerance (0.1).
type PortfolioAllocation struct {
	Positions       []Position         `json:"positions"`
	CashPercent     float64            `json:"cashPercent"`
	SectorBreakdown map[string]float64 `json:"sectorBreakdown,omitempty"`
	// Warnings are the sizing engine's notes plus the validator's
	// findings. They never abort a run.
	Warnings []string `json:"warnings,omitempty"`
}

// EquityPercent returns the summed position weights
func (p *PortfolioAllocation) EquityPercent() float64 {
	total := 0.0
	for _, pos := range p.Positions {
		total += pos.Weight
	}
	return total
}

// TotalPercent returns equity plus cash
func (p *PortfolioAllocation) TotalPercent() float64 {
	return p.EquityPercent() + p.CashPercent
}

// Count returns the number of positions
func (p *PortfolioAllocation) Count() int {
	return len(p.Positions)
}

// GetPosition finds a position by name or NSE code
func (p *PortfolioAllocation) GetPosition(key string) (*Position, bool) {
	for i := range p.Positions {
		if p.Positions[i].Name == key || p.Positions[i].NSECode == key {
			return &p.Positions[i], true
		}
	}
	return nil, false
}
