package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/niveshquant/quantfolio/internal/sectors"
)

func TestFundamentalScoreRewardsCompounders(t *testing.T) {
	scorer := NewFundamentalScorer(sectors.NewTable())

	strong := scorer.Score(compounder())
	weak := scorer.Score(strugglingCyclical())

	assert.Greater(t, strong.Score, 70.0)
	assert.Less(t, weak.Score, 40.0)
}

func TestFundamentalCashConversionCatchesPaperProfits(t *testing.T) {
	scorer := NewFundamentalScorer(sectors.NewTable())

	backed := compounder()
	paper := compounder()
	paper.OperatingCashFlow = -50
	paper.FreeCashFlow = -120

	assert.Greater(t, scorer.Score(backed).Score, scorer.Score(paper).Score+5)
}

func TestFundamentalMoatNeedsSustainedReturns(t *testing.T) {
	scorer := NewFundamentalScorer(sectors.NewTable())

	// One good year is not a moat.
	oneYearWonder := compounder()
	oneYearWonder.ROCE = 26
	oneYearWonder.ROCE3YrAvg = 12

	durable := compounder()
	durable.ROCE = 26
	durable.ROCE3YrAvg = 24

	assert.Greater(t, scorer.Score(durable).Score, scorer.Score(oneYearWonder).Score)
}

func TestFundamentalDebtPenaltySkipsLenders(t *testing.T) {
	scorer := NewFundamentalScorer(sectors.NewTable())

	bank := compounder()
	bank.Industry = "Banks - Private Sector"
	bank.DebtToEquity = 8

	manufacturer := compounder()
	manufacturer.DebtToEquity = 8

	assert.Greater(t, scorer.Score(bank).Score, scorer.Score(manufacturer).Score)
}

func TestGradeBands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{92, "A+"}, {85, "A+"}, {80, "A"}, {70, "B+"}, {60, "B"},
		{50, "C+"}, {40, "C"}, {34, "D"}, {0, "D"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, gradeFor(tt.score), "score %.0f", tt.score)
	}
}
