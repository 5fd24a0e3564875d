package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/sectors"
)

func newMomentumScorer() *MomentumScorer {
	return NewMomentumScorer(sectors.NewTable(), DefaultConfig().MarketBaseline3M)
}

func assertHasNote(t *testing.T, notes []contracts.SignalNote, signal, fragment string) {
	t.Helper()
	for _, note := range notes {
		if note.Signal == signal && strings.Contains(note.Text, fragment) {
			return
		}
	}
	t.Errorf("no %q note containing %q in %v", signal, fragment, notes)
}

func TestMomentumHealthyPullbackBeatsChasing(t *testing.T) {
	scorer := newMomentumScorer()

	// Same uptrend, different entry points.
	atHigh := compounder()
	atHigh.CurrentPrice = 2040

	pullback := compounder()
	pullback.CurrentPrice = 1680
	pullback.DMA50 = 1650
	pullback.DMA200 = 1600

	assert.Greater(t, scorer.Score(pullback).Score, scorer.Score(atHigh).Score)
}

func TestMomentumFallingKnifePenalty(t *testing.T) {
	scorer := newMomentumScorer()

	t.Run("deep drawdown", func(t *testing.T) {
		knife := compounder()
		knife.CurrentPrice = 1200 // 41% off the high

		layer := scorer.Score(knife)

		assertHasNote(t, layer.Details, "pullbackQuality", "falling knife")
	})

	t.Run("broken 200-day support", func(t *testing.T) {
		broken := compounder()
		broken.CurrentPrice = 1400 // 32% off the high, below 0.85 x DMA200
		broken.DMA50 = 1500

		layer := scorer.Score(broken)

		assertHasNote(t, layer.Details, "pullbackQuality", "falling knife")
	})
}

func TestMomentumVolumeConfirmsDirection(t *testing.T) {
	scorer := newMomentumScorer()

	accumulation := compounder()
	accumulation.VolumeRatio = 1.8
	accumulation.Return1M = 6

	distribution := compounder()
	distribution.VolumeRatio = 1.8
	distribution.Return1M = -6

	assert.Greater(t, scorer.Score(accumulation).Score, scorer.Score(distribution).Score)
}

func TestMomentumDowntrendScoresLow(t *testing.T) {
	scorer := newMomentumScorer()

	layer := scorer.Score(strugglingCyclical())

	assert.Less(t, layer.Score, 35.0)
	assert.Equal(t, "Avoid", signalFor(layer.Score))
}

func TestMomentumSignalBands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{75, "Strong Buy"}, {70, "Strong Buy"}, {60, "Buy"},
		{50, "Neutral"}, {40, "Weak"}, {30, "Avoid"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, signalFor(tt.score), "score %.0f", tt.score)
	}
}
