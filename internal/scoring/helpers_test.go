package scoring

import (
	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", Env: "test"})
}

// compounder is a strong steady business: high returns on capital, clean
// balance sheet, orderly uptrend.
func compounder() contracts.StockRecord {
	return contracts.StockRecord{
		Name:         "Astral Polytechnik",
		NSECode:      "ASTRAL",
		Industry:     "Plastics",
		CurrentPrice: 1850,
		MarketCap:    38000,
		High52W:      2050,
		Low52W:       1500,
		DMA50:        1780,
		DMA200:       1680,

		MonthlyVolume: 2400000,
		VolumeRatio:   1.1,

		Return1M: 4,
		Return3M: 9,
		Return6M: 15,
		Return1Y: 22,

		PE:          28,
		IndustryPE:  34,
		PEG:         1.6,
		PriceToBook: 5.5,
		EVToEBITDA:  14,

		ROCE:       24,
		ROCE3YrAvg: 22,
		ROE:        20,
		OPM:        19,

		InterestCoverage:  22,
		Sales:             5200,
		NetProfit:         560,
		NetProfitPrevYear: 470,
		OperatingCashFlow: 610,
		FreeCashFlow:      320,

		SalesGrowth3Yr:        17,
		ProfitGrowth3Yr:       21,
		SalesGrowthTTM:        19,
		ProfitGrowthTTM:       18,
		QuarterlySalesGrowth:  16,
		QuarterlyProfitGrowth: 18,

		DebtToEquity:         0.2,
		DebtToEquityPrevYear: 0.35,

		PromoterHolding:       55,
		PromoterHoldingChange: 0.2,
		PledgedPercent:        0,

		BalanceSheetScore: 8,
		CANSLIMScore:      3,
		MasterScore:       8,
		DebtQualityScore:  3,
	}
}

// strugglingCyclical is a deteriorating leveraged business in a falling
// chart.
func strugglingCyclical() contracts.StockRecord {
	return contracts.StockRecord{
		Name:         "Bhushan Alloys",
		NSECode:      "BHUSHALLOY",
		Industry:     "Steel",
		CurrentPrice: 42,
		MarketCap:    950,
		High52W:      110,
		Low52W:       38,
		DMA50:        55,
		DMA200:       72,

		MonthlyVolume: 80000,
		VolumeRatio:   1.8,

		Return1M: -12,
		Return3M: -28,
		Return6M: -45,
		Return1Y: -58,

		PE:          0,
		IndustryPE:  11,
		PriceToBook: 0.4,

		ROCE:       3,
		ROCE3YrAvg: 9,
		OPM:        2,

		InterestCoverage:  0.8,
		Sales:             4100,
		NetProfit:         -220,
		NetProfitPrevYear: 30,
		OperatingCashFlow: -180,

		SalesGrowth3Yr:  -4,
		ProfitGrowth3Yr: -60,
		SalesGrowthTTM:  -9,
		ProfitGrowthTTM: -140,

		DebtToEquity:         3.4,
		DebtToEquityPrevYear: 3.1,

		PromoterHolding:       48,
		PromoterHoldingChange: -4,
		PledgedPercent:        62,

		DebtQualityScore: 0,
	}
}

// smallUniverse returns a mixed bag wide enough to exercise the
// cross-stock aggregates.
func smallUniverse() []contracts.StockRecord {
	base := []contracts.StockRecord{compounder(), strugglingCyclical()}
	peers := []struct {
		name, code string
		pe, ret3M  float64
	}{
		{"Supreme Industries", "SUPREMEIND", 40, 12},
		{"Finolex Industries", "FINPIPE", 22, 6},
		{"Nilkamal", "NILKAMAL", 18, -2},
	}
	for _, p := range peers {
		s := compounder()
		s.Name = p.name
		s.NSECode = p.code
		s.PE = p.pe
		s.Return3M = p.ret3M
		base = append(base, s)
	}
	return base
}
