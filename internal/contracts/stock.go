package contracts

// StockRecord is one row of the weekly fundamentals snapshot after parsing.
// Records are immutable once loaded: every numeric field that was missing,
// blank, or unparseable in the source CSV is 0, so downstream scoring never
// has to distinguish "absent" from "zero".
//
// Monetary amounts are in INR crore, prices in INR, ratios and growth rates
// in percent unless noted.
type StockRecord struct {
	// Identity
	Name     string `json:"name"`
	NSECode  string `json:"nseCode"`
	BSECode  string `json:"bseCode"`
	Industry string `json:"industry"`

	// Price and market
	CurrentPrice float64 `json:"currentPrice"`
	MarketCap    float64 `json:"marketCap"` // INR crore
	High52W      float64 `json:"high52w"`
	Low52W       float64 `json:"low52w"`
	DMA50        float64 `json:"dma50"`
	DMA200       float64 `json:"dma200"`
	// MonthlyVolume is total shares traded over the last month.
	MonthlyVolume float64 `json:"monthlyVolume"`
	// VolumeRatio is last month's volume over the trailing 3-month average.
	VolumeRatio float64 `json:"volumeRatio"`

	// Trailing returns (%)
	Return1M float64 `json:"return1m"`
	Return3M float64 `json:"return3m"`
	Return6M float64 `json:"return6m"`
	Return1Y float64 `json:"return1y"`

	// Valuation
	PE            float64 `json:"pe"`
	IndustryPE    float64 `json:"industryPe"`
	PEG           float64 `json:"peg"`
	PriceToBook   float64 `json:"priceToBook"`
	EVToEBITDA    float64 `json:"evToEbitda"`
	DividendYield float64 `json:"dividendYield"`

	// Profitability
	ROCE             float64 `json:"roce"`
	ROCE3YrAvg       float64 `json:"roce3yrAvg"`
	ROE              float64 `json:"roe"`
	OPM              float64 `json:"opm"`
	InterestCoverage float64 `json:"interestCoverage"`

	// Earnings and cash (INR crore, trailing twelve months)
	Sales             float64 `json:"sales"`
	NetProfit         float64 `json:"netProfit"`
	NetProfitPrevYear float64 `json:"netProfitPrevYear"`
	OperatingCashFlow float64 `json:"operatingCashFlow"`
	FreeCashFlow      float64 `json:"freeCashFlow"`
	EPS               float64 `json:"eps"`

	// Growth (%)
	SalesGrowth3Yr        float64 `json:"salesGrowth3yr"`
	ProfitGrowth3Yr       float64 `json:"profitGrowth3yr"`
	SalesGrowthTTM        float64 `json:"salesGrowthTtm"`
	ProfitGrowthTTM       float64 `json:"profitGrowthTtm"`
	QuarterlySalesGrowth  float64 `json:"quarterlySalesGrowth"`  // YoY
	QuarterlyProfitGrowth float64 `json:"quarterlyProfitGrowth"` // YoY
	CapexGrowth3Yr        float64 `json:"capexGrowth3yr"`

	// Leverage
	DebtToEquity         float64 `json:"debtToEquity"`
	DebtToEquityPrevYear float64 `json:"debtToEquityPrevYear"`

	// Holdings (%)
	PromoterHolding float64 `json:"promoterHolding"`
	// PromoterHoldingChange is the holding delta over the last quarter in
	// percentage points. Negative means the promoters sold.
	PromoterHoldingChange float64 `json:"promoterHoldingChange"`
	PledgedPercent        float64 `json:"pledgedPercent"`

	// Pre-computed screening scores carried over from the source sheet
	BalanceSheetScore float64 `json:"balanceSheetScore"`
	CANSLIMScore      float64 `json:"canslimScore"`
	MasterScore       float64 `json:"masterScore"`
	DebtQualityScore  float64 `json:"debtQualityScore"`
}

// DrawdownFrom52WHigh returns the pullback from the 52-week high in percent.
// Returns 0 when the high is unknown.
func (s *StockRecord) DrawdownFrom52WHigh() float64 {
	if s.High52W <= 0 || s.CurrentPrice <= 0 {
		return 0
	}
	return (s.High52W - s.CurrentPrice) / s.High52W * 100
}

// DebtReduction returns the year-over-year drop in debt-to-equity.
// Positive means the company deleveraged.
func (s *StockRecord) DebtReduction() float64 {
	return s.DebtToEquityPrevYear - s.DebtToEquity
}

// PEDiscountToIndustry returns how far the stock's PE sits below the
// industry PE, in percent. Negative values mean a premium. Returns 0 when
// either PE is unknown or non-positive.
func (s *StockRecord) PEDiscountToIndustry() float64 {
	if s.PE <= 0 || s.IndustryPE <= 0 {
		return 0
	}
	return (1 - s.PE/s.IndustryPE) * 100
}

// Key returns the identifier used throughout the pipeline: the NSE code
// when present, otherwise the company name.
func (s *StockRecord) Key() string {
	if s.NSECode != "" {
		return s.NSECode
	}
	return s.Name
}
