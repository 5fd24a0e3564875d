package scoring

import (
	"fmt"
	"math"

	"github.com/niveshquant/quantfolio/internal/contracts"
)

// card accumulates one sub-component score: a base value plus additive
// threshold adjustments, each recorded as a note so the final report can
// explain every point.
type card struct {
	component string
	score     float64
	notes     []contracts.SignalNote
}

func newCard(component string, base float64) *card {
	return &card{component: component, score: base}
}

// add applies a signed adjustment and records it. Zero deltas are
// dropped silently so callers can pass computed adjustments directly.
func (c *card) add(delta float64, text string) {
	if delta == 0 {
		return
	}
	c.score += delta
	c.notes = append(c.notes, contracts.SignalNote{
		Signal: c.component,
		Text:   fmt.Sprintf("%+.0f %s", delta, text),
	})
}

// note records an observation without moving the score.
func (c *card) note(text string) {
	c.notes = append(c.notes, contracts.SignalNote{Signal: c.component, Text: text})
}

// value returns the sub-score clamped to [0,100].
func (c *card) value() float64 {
	return clamp(c.score)
}

// part pairs a sub-component card with its weight inside the layer.
type part struct {
	weight float64
	card   *card
}

// composeLayer blends weighted sub-components into a layer score. Each
// sub-score is clamped before weighting, the blended result is clamped
// again, and notes keep sub-component order.
func composeLayer(parts ...part) contracts.LayerScore {
	var score float64
	var notes []contracts.SignalNote
	for _, p := range parts {
		score += p.card.value() * p.weight
		notes = append(notes, p.card.notes...)
	}
	return contracts.LayerScore{
		Score:   clamp(score),
		Details: notes,
	}
}

// worstOf returns the lowest clamped sub-score among the parts.
func worstOf(parts ...part) float64 {
	worst := math.MaxFloat64
	for _, p := range parts {
		if v := p.card.value(); v < worst {
			worst = v
		}
	}
	return worst
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
