package contracts

import "time"

// TopPick is one highlighted holding with its narrative.
type TopPick struct {
	Name      string   `json:"name"`
	NSECode   string   `json:"nseCode"`
	Composite float64  `json:"compositeScore"`
	Weight    float64  `json:"weight"`
	Label     string   `json:"recommendation"`
	Strengths []string `json:"strengths,omitempty"`
	Risks     []string `json:"risks,omitempty"`
}

// WatchItem is a stock that scored well but did not make the portfolio.
type WatchItem struct {
	Name      string  `json:"name"`
	NSECode   string  `json:"nseCode"`
	Composite float64 `json:"compositeScore"`
	Label     string  `json:"recommendation"`
}

// Recommendation is one complete weekly output, persisted keyed by WeekID.
type Recommendation struct {
	ID          string    `json:"id"`
	WeekID      string    `json:"weekId"` // e.g. "2026-W34"
	GeneratedAt time.Time `json:"generatedAt"`

	MarketCondition MarketCondition `json:"marketCondition"`
	Weights         RegimeWeights   `json:"weights"`

	Allocation PortfolioAllocation `json:"allocation"`
	TopPicks   []TopPick           `json:"topPicks"`
	Watchlist  []WatchItem         `json:"watchlist,omitempty"`

	// Exclusions maps gate failure reason to the number of stocks it
	// disqualified.
	Exclusions map[string]int `json:"exclusionSummary,omitempty"`

	UniverseSize int `json:"universeSize"`
	PassedGate   int `json:"passedGate"`

	// Results holds every scored stock, ranked. Omitted from compact
	// API responses.
	Results []CompositeResult `json:"results,omitempty"`

	Enrichment *Enrichment `json:"enrichment,omitempty"`

	// StrategyHash pins the strategy file version the run used.
	StrategyHash string `json:"strategyHash,omitempty"`
}

// Enrichment carries the optional post-processing outputs.
type Enrichment struct {
	QualitativeScores map[string]float64 `json:"qualitativeScores,omitempty"`
	Contrarian        []ContrarianPick   `json:"contrarianPicks,omitempty"`
	SectorTrends      []SectorTrend      `json:"sectorTrends,omitempty"`
	Forecasts         []Forecast         `json:"forecasts,omitempty"`
	Notes             []string           `json:"notes,omitempty"`
}

// ContrarianPick flags a stock the value and fundamental layers like but
// the market has not rewarded yet.
type ContrarianPick struct {
	Name        string  `json:"name"`
	Valuation   float64 `json:"valuationScore"`
	Fundamental float64 `json:"fundamentalScore"`
	Momentum    float64 `json:"momentumScore"`
	Reason      string  `json:"reason"`
}

// SectorTrend aggregates scoring by sector group.
type SectorTrend struct {
	Group        string  `json:"group"`
	AvgComposite float64 `json:"avgComposite"`
	AvgReturn3M  float64 `json:"avgReturn3m"`
	Stocks       int     `json:"stocks"`
	Direction    string  `json:"direction"` // improving, deteriorating, flat
}

// Forecast is a heuristic 12-month return band for a top pick. It is a
// band read off the composite and valuation scores, not a prediction model.
type Forecast struct {
	Name    string  `json:"name"`
	LowPct  float64 `json:"lowPct"`
	HighPct float64 `json:"highPct"`
	Basis   string  `json:"basis"`
}

// WeightChange records a position whose weight moved between two weeks.
type WeightChange struct {
	Name     string  `json:"name"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	Delta    float64 `json:"delta"`
}

// RecommendationDiff is the week-over-week comparison of two
// recommendations.
type RecommendationDiff struct {
	CurrentWeek  string `json:"currentWeek"`
	PreviousWeek string `json:"previousWeek,omitempty"`

	Added   []string       `json:"added,omitempty"`
	Removed []string       `json:"removed,omitempty"`
	Changes []WeightChange `json:"weightChanges,omitempty"`

	RegimeChanged     bool            `json:"regimeChanged"`
	PreviousCondition MarketCondition `json:"previousCondition,omitempty"`
	CurrentCondition  MarketCondition `json:"currentCondition"`
}

// TopHolding returns the largest position name, empty when the portfolio
// holds only cash.
func (r *Recommendation) TopHolding() string {
	if len(r.Allocation.Positions) == 0 {
		return ""
	}
	return r.Allocation.Positions[0].Name
}

// IsAllCash reports whether no stock survived sizing
func (r *Recommendation) IsAllCash() bool {
	return len(r.Allocation.Positions) == 0
}
