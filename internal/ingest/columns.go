package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

// column binds one StockRecord numeric field to the CSV headers that may
// carry it. The name doubles as the coverage report key.
type column struct {
	name    string
	aliases []string
	set     func(*contracts.StockRecord, float64)
	get     func(*contracts.StockRecord) float64
}

// columns is the full numeric surface of a snapshot row. Aliases are
// normalized header spellings seen in screener-style exports; the JSON
// field name itself always works.
var columns = []column{
	{
		name:    "currentPrice",
		aliases: []string{"cmprs", "cmp", "price"},
		set:     func(r *contracts.StockRecord, v float64) { r.CurrentPrice = v },
		get:     func(r *contracts.StockRecord) float64 { return r.CurrentPrice },
	},
	{
		name:    "marketCap",
		aliases: []string{"marcaprscr", "marketcapitalization", "mcap"},
		set:     func(r *contracts.StockRecord, v float64) { r.MarketCap = v },
		get:     func(r *contracts.StockRecord) float64 { return r.MarketCap },
	},
	{
		name:    "high52w",
		aliases: []string{"52weekhigh", "highprice52week", "52whigh", "high52week"},
		set:     func(r *contracts.StockRecord, v float64) { r.High52W = v },
		get:     func(r *contracts.StockRecord) float64 { return r.High52W },
	},
	{
		name:    "low52w",
		aliases: []string{"52weeklow", "lowprice52week", "52wlow", "low52week"},
		set:     func(r *contracts.StockRecord, v float64) { r.Low52W = v },
		get:     func(r *contracts.StockRecord) float64 { return r.Low52W },
	},
	{
		name:    "dma50",
		aliases: []string{"50dma", "dma50rs", "50dayma"},
		set:     func(r *contracts.StockRecord, v float64) { r.DMA50 = v },
		get:     func(r *contracts.StockRecord) float64 { return r.DMA50 },
	},
	{
		name:    "dma200",
		aliases: []string{"200dma", "dma200rs", "200dayma"},
		set:     func(r *contracts.StockRecord, v float64) { r.DMA200 = v },
		get:     func(r *contracts.StockRecord) float64 { return r.DMA200 },
	},
	{
		name:    "monthlyVolume",
		aliases: []string{"volume", "volume1monthaverage", "volume1m"},
		set:     func(r *contracts.StockRecord, v float64) { r.MonthlyVolume = v },
		get:     func(r *contracts.StockRecord) float64 { return r.MonthlyVolume },
	},
	{
		name:    "volumeRatio",
		aliases: []string{"volratio"},
		set:     func(r *contracts.StockRecord, v float64) { r.VolumeRatio = v },
		get:     func(r *contracts.StockRecord) float64 { return r.VolumeRatio },
	},
	{
		name:    "return1m",
		aliases: []string{"returnover1month", "1monthreturn"},
		set:     func(r *contracts.StockRecord, v float64) { r.Return1M = v },
		get:     func(r *contracts.StockRecord) float64 { return r.Return1M },
	},
	{
		name:    "return3m",
		aliases: []string{"returnover3months", "returnover3month", "3monthreturn"},
		set:     func(r *contracts.StockRecord, v float64) { r.Return3M = v },
		get:     func(r *contracts.StockRecord) float64 { return r.Return3M },
	},
	{
		name:    "return6m",
		aliases: []string{"returnover6months", "returnover6month", "6monthreturn"},
		set:     func(r *contracts.StockRecord, v float64) { r.Return6M = v },
		get:     func(r *contracts.StockRecord) float64 { return r.Return6M },
	},
	{
		name:    "return1y",
		aliases: []string{"returnover1year", "1yearreturn"},
		set:     func(r *contracts.StockRecord, v float64) { r.Return1Y = v },
		get:     func(r *contracts.StockRecord) float64 { return r.Return1Y },
	},
	{
		name:    "pe",
		aliases: []string{"pricetoearning", "peratio"},
		set:     func(r *contracts.StockRecord, v float64) { r.PE = v },
		get:     func(r *contracts.StockRecord) float64 { return r.PE },
	},
	{
		name:    "industryPe",
		aliases: []string{"industrype"},
		set:     func(r *contracts.StockRecord, v float64) { r.IndustryPE = v },
		get:     func(r *contracts.StockRecord) float64 { return r.IndustryPE },
	},
	{
		name:    "peg",
		aliases: []string{"pegratio"},
		set:     func(r *contracts.StockRecord, v float64) { r.PEG = v },
		get:     func(r *contracts.StockRecord) float64 { return r.PEG },
	},
	{
		name:    "priceToBook",
		aliases: []string{"pricetobookvalue", "pbratio"},
		set:     func(r *contracts.StockRecord, v float64) { r.PriceToBook = v },
		get:     func(r *contracts.StockRecord) float64 { return r.PriceToBook },
	},
	{
		name:    "evToEbitda",
		aliases: []string{"evebitda", "enterprisevaluetoebitda"},
		set:     func(r *contracts.StockRecord, v float64) { r.EVToEBITDA = v },
		get:     func(r *contracts.StockRecord) float64 { return r.EVToEBITDA },
	},
	{
		name:    "dividendYield",
		aliases: []string{"divyld", "dividendyieldpercent"},
		set:     func(r *contracts.StockRecord, v float64) { r.DividendYield = v },
		get:     func(r *contracts.StockRecord) float64 { return r.DividendYield },
	},
	{
		name:    "roce",
		aliases: []string{"returnoncapitalemployed"},
		set:     func(r *contracts.StockRecord, v float64) { r.ROCE = v },
		get:     func(r *contracts.StockRecord) float64 { return r.ROCE },
	},
	{
		name:    "roce3yrAvg",
		aliases: []string{"averagereturnoncapitalemployed3years", "roce3yr", "roce3yearavg"},
		set:     func(r *contracts.StockRecord, v float64) { r.ROCE3YrAvg = v },
		get:     func(r *contracts.StockRecord) float64 { return r.ROCE3YrAvg },
	},
	{
		name:    "roe",
		aliases: []string{"returnonequity"},
		set:     func(r *contracts.StockRecord, v float64) { r.ROE = v },
		get:     func(r *contracts.StockRecord) float64 { return r.ROE },
	},
	{
		name:    "opm",
		aliases: []string{"opmlatest", "operatingprofitmargin"},
		set:     func(r *contracts.StockRecord, v float64) { r.OPM = v },
		get:     func(r *contracts.StockRecord) float64 { return r.OPM },
	},
	{
		name:    "interestCoverage",
		aliases: []string{"interestcoverageratio", "intcoverage"},
		set:     func(r *contracts.StockRecord, v float64) { r.InterestCoverage = v },
		get:     func(r *contracts.StockRecord) float64 { return r.InterestCoverage },
	},
	{
		name:    "sales",
		aliases: []string{"salesrscr", "revenue"},
		set:     func(r *contracts.StockRecord, v float64) { r.Sales = v },
		get:     func(r *contracts.StockRecord) float64 { return r.Sales },
	},
	{
		name:    "netProfit",
		aliases: []string{"netprofitrscr", "profitaftertax", "pat"},
		set:     func(r *contracts.StockRecord, v float64) { r.NetProfit = v },
		get:     func(r *contracts.StockRecord) float64 { return r.NetProfit },
	},
	{
		name:    "netProfitPrevYear",
		aliases: []string{"netprofitprecedingyear", "netprofitpreviousyear"},
		set:     func(r *contracts.StockRecord, v float64) { r.NetProfitPrevYear = v },
		get:     func(r *contracts.StockRecord) float64 { return r.NetProfitPrevYear },
	},
	{
		name:    "operatingCashFlow",
		aliases: []string{"cashfromoperationslastyear", "cashfromoperations", "ocf"},
		set:     func(r *contracts.StockRecord, v float64) { r.OperatingCashFlow = v },
		get:     func(r *contracts.StockRecord) float64 { return r.OperatingCashFlow },
	},
	{
		name:    "freeCashFlow",
		aliases: []string{"freecashflowlastyear", "fcf"},
		set:     func(r *contracts.StockRecord, v float64) { r.FreeCashFlow = v },
		get:     func(r *contracts.StockRecord) float64 { return r.FreeCashFlow },
	},
	{
		name:    "eps",
		aliases: []string{"earningspershare", "epsrs"},
		set:     func(r *contracts.StockRecord, v float64) { r.EPS = v },
		get:     func(r *contracts.StockRecord) float64 { return r.EPS },
	},
	{
		name:    "salesGrowth3yr",
		aliases: []string{"salesgrowth3years", "salesgrowth3year"},
		set:     func(r *contracts.StockRecord, v float64) { r.SalesGrowth3Yr = v },
		get:     func(r *contracts.StockRecord) float64 { return r.SalesGrowth3Yr },
	},
	{
		name:    "profitGrowth3yr",
		aliases: []string{"profitgrowth3years", "profitgrowth3year"},
		set:     func(r *contracts.StockRecord, v float64) { r.ProfitGrowth3Yr = v },
		get:     func(r *contracts.StockRecord) float64 { return r.ProfitGrowth3Yr },
	},
	{
		name:    "salesGrowthTtm",
		aliases: []string{"salesgrowth", "ttmsalesgrowth"},
		set:     func(r *contracts.StockRecord, v float64) { r.SalesGrowthTTM = v },
		get:     func(r *contracts.StockRecord) float64 { return r.SalesGrowthTTM },
	},
	{
		name:    "profitGrowthTtm",
		aliases: []string{"profitgrowth", "ttmprofitgrowth"},
		set:     func(r *contracts.StockRecord, v float64) { r.ProfitGrowthTTM = v },
		get:     func(r *contracts.StockRecord) float64 { return r.ProfitGrowthTTM },
	},
	{
		name:    "quarterlySalesGrowth",
		aliases: []string{"qtrsalesvar", "salesgrowthquarterly"},
		set:     func(r *contracts.StockRecord, v float64) { r.QuarterlySalesGrowth = v },
		get:     func(r *contracts.StockRecord) float64 { return r.QuarterlySalesGrowth },
	},
	{
		name:    "quarterlyProfitGrowth",
		aliases: []string{"qtrprofitvar", "profitgrowthquarterly"},
		set:     func(r *contracts.StockRecord, v float64) { r.QuarterlyProfitGrowth = v },
		get:     func(r *contracts.StockRecord) float64 { return r.QuarterlyProfitGrowth },
	},
	{
		name:    "capexGrowth3yr",
		aliases: []string{"capexgrowth3years", "capexgrowth3year"},
		set:     func(r *contracts.StockRecord, v float64) { r.CapexGrowth3Yr = v },
		get:     func(r *contracts.StockRecord) float64 { return r.CapexGrowth3Yr },
	},
	{
		name:    "debtToEquity",
		aliases: []string{"debtequity", "debttoequityratio"},
		set:     func(r *contracts.StockRecord, v float64) { r.DebtToEquity = v },
		get:     func(r *contracts.StockRecord) float64 { return r.DebtToEquity },
	},
	{
		name:    "debtToEquityPrevYear",
		aliases: []string{"debttoequityprecedingyear", "debttoequitypreviousyear"},
		set:     func(r *contracts.StockRecord, v float64) { r.DebtToEquityPrevYear = v },
		get:     func(r *contracts.StockRecord) float64 { return r.DebtToEquityPrevYear },
	},
	{
		name:    "promoterHolding",
		aliases: []string{"promoterholdings", "promhold"},
		set:     func(r *contracts.StockRecord, v float64) { r.PromoterHolding = v },
		get:     func(r *contracts.StockRecord) float64 { return r.PromoterHolding },
	},
	{
		name:    "promoterHoldingChange",
		aliases: []string{"changeinpromoterholding", "chginpromhold"},
		set:     func(r *contracts.StockRecord, v float64) { r.PromoterHoldingChange = v },
		get:     func(r *contracts.StockRecord) float64 { return r.PromoterHoldingChange },
	},
	{
		name:    "pledgedPercent",
		aliases: []string{"pledgedpercentage", "pledged"},
		set:     func(r *contracts.StockRecord, v float64) { r.PledgedPercent = v },
		get:     func(r *contracts.StockRecord) float64 { return r.PledgedPercent },
	},
	{
		name:    "balanceSheetScore",
		aliases: []string{"bsscore"},
		set:     func(r *contracts.StockRecord, v float64) { r.BalanceSheetScore = v },
		get:     func(r *contracts.StockRecord) float64 { return r.BalanceSheetScore },
	},
	{
		name:    "canslimScore",
		aliases: []string{"canslim"},
		set:     func(r *contracts.StockRecord, v float64) { r.CANSLIMScore = v },
		get:     func(r *contracts.StockRecord) float64 { return r.CANSLIMScore },
	},
	{
		name:    "masterScore",
		aliases: []string{"masterscorev2"},
		set:     func(r *contracts.StockRecord, v float64) { r.MasterScore = v },
		get:     func(r *contracts.StockRecord) float64 { return r.MasterScore },
	},
	{
		name:    "debtQualityScore",
		aliases: []string{"debtquality"},
		set:     func(r *contracts.StockRecord, v float64) { r.DebtQualityScore = v },
		get:     func(r *contracts.StockRecord) float64 { return r.DebtQualityScore },
	},
}

// Normalized headers for the identity string fields.
var (
	nameAliases     = []string{"name", "stockname", "company", "companyname"}
	nseCodeAliases  = []string{"nsecode", "nse", "nsesymbol", "symbol"}
	bseCodeAliases  = []string{"bsecode", "bse", "bsescripcode"}
	industryAliases = []string{"industry", "industryname", "sector"}
)

// aliasIndex maps every normalized header spelling to its column.
var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]int {
	index := make(map[string]int)
	for i, c := range columns {
		index[normalizeHeader(c.name)] = i
		for _, alias := range c.aliases {
			index[alias] = i
		}
	}
	return index
}

// normalizeHeader lowercases a header and strips everything but letters
// and digits, so "Mar Cap  Rs.Cr." and "marcaprscr" compare equal.
func normalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseNumber turns one CSV cell into a float. Blank cells, placeholder
// markers, and anything unparseable come back as 0.
func parseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(strings.TrimPrefix(s, "₹"))

	switch strings.ToLower(s) {
	case "", "-", "--", "na", "n/a", "nan", "null", "nil":
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func matchesAny(normalized string, aliases []string) bool {
	for _, alias := range aliases {
		if normalized == alias {
			return true
		}
	}
	return false
}
