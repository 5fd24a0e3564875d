package contracts

// MarketCondition is the detected market regime, global per run.
type MarketCondition string

const (
	Bullish MarketCondition = "BULLISH"
	Bearish MarketCondition = "BEARISH"
	Neutral MarketCondition = "NEUTRAL"
)

// String returns the condition name
func (m MarketCondition) String() string {
	return string(m)
}

// IsValid checks if a condition string is one of the known regimes
func (m MarketCondition) IsValid() bool {
	switch m {
	case Bullish, Bearish, Neutral:
		return true
	}
	return false
}

// RegimeWeights are the layer weights applied when blending the composite.
// The five fields always sum to 1.0.
type RegimeWeights struct {
	Safety      float64 `json:"safety"`
	Fundamental float64 `json:"fundamental"`
	Valuation   float64 `json:"valuation"`
	Momentum    float64 `json:"momentum"`
	External    float64 `json:"external"`
}

// Sum returns the total of all five weights
func (w RegimeWeights) Sum() float64 {
	return w.Safety + w.Fundamental + w.Valuation + w.Momentum + w.External
}

// SignalNote is one explained adjustment inside a layer score.
// Notes keep insertion order so reports read in calculation order.
type SignalNote struct {
	Signal string `json:"signal"`
	Text   string `json:"text"`
}

// LayerScore is the result of one scoring layer for one stock.
// Score is always within [0,100]. Weight is the regime weight the layer
// carried when the composite was blended.
type LayerScore struct {
	Score   float64      `json:"score"`
	Weight  float64      `json:"weight"`
	Details []SignalNote `json:"details,omitempty"`
}

// Weighted returns the layer's contribution to the composite
func (l LayerScore) Weighted() float64 {
	return l.Score * l.Weight
}

// Recommendation labels, ordered from strongest to weakest.
const (
	LabelStrongBuy  = "STRONG BUY"
	LabelBuy        = "BUY"
	LabelAccumulate = "ACCUMULATE"
	LabelHold       = "HOLD"
	LabelWatch      = "WATCH"
	LabelExcluded   = "EXCLUDED"
)

// Risk levels derived from the safety layer score.
const (
	RiskLow      = "LOW"
	RiskModerate = "MODERATE"
	RiskElevated = "ELEVATED"
	RiskHigh     = "HIGH"
)

// CompositeResult is the full scoring outcome for one stock: the five
// layer scores, the regime-weighted composite, and the labels derived from
// them. Gate-failed stocks carry composite 0 and the EXCLUDED label.
type CompositeResult struct {
	Name        string `json:"name"`
	NSECode     string `json:"nseCode"`
	Industry    string `json:"industry"`
	SectorGroup string `json:"sectorGroup"`

	Composite float64 `json:"compositeScore"`
	Rank      int     `json:"rank"`
	Label     string  `json:"recommendation"`
	RiskLevel string  `json:"riskLevel"`

	MarketCondition MarketCondition `json:"marketCondition"`
	Weights         RegimeWeights   `json:"weights"`

	Safety      LayerScore `json:"safety"`
	Fundamental LayerScore `json:"fundamental"`
	Valuation   LayerScore `json:"valuation"`
	Momentum    LayerScore `json:"momentum"`
	External    LayerScore `json:"external"`

	// Per-layer summary labels
	Grade   string `json:"fundamentalGrade"`
	Verdict string `json:"valuationVerdict"`
	Signal  string `json:"momentumSignal"`

	Gate GateResult `json:"gate"`

	// Qualitative is the optional enrichment score (0-100), zero when the
	// enrichment stage did not run for this stock.
	Qualitative float64 `json:"qualitativeScore,omitempty"`
}

// Key returns the pipeline identifier, NSE code first.
func (c *CompositeResult) Key() string {
	if c.NSECode != "" {
		return c.NSECode
	}
	return c.Name
}

// IsExcluded reports whether the stock failed the quality gate
func (c *CompositeResult) IsExcluded() bool {
	return c.Label == LabelExcluded
}

// IsActionable reports whether the label indicates a buy-side action
func (c *CompositeResult) IsActionable() bool {
	switch c.Label {
	case LabelStrongBuy, LabelBuy, LabelAccumulate:
		return true
	}
	return false
}
