package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardClampsToRange(t *testing.T) {
	c := newCard("test", 50)
	c.add(80, "huge bonus")
	assert.Equal(t, 100.0, c.value())

	c = newCard("test", 50)
	c.add(-90, "huge penalty")
	assert.Equal(t, 0.0, c.value())
}

func TestCardDropsZeroDeltas(t *testing.T) {
	c := newCard("test", 50)
	c.add(0, "should not appear")
	c.add(5, "should appear")

	require.Len(t, c.notes, 1)
	assert.Equal(t, "+5 should appear", c.notes[0].Text)
	assert.Equal(t, "test", c.notes[0].Signal)
}

func TestCardNotesKeepOrder(t *testing.T) {
	c := newCard("test", 50)
	c.add(10, "first")
	c.add(-4, "second")
	c.add(2, "third")

	require.Len(t, c.notes, 3)
	assert.Equal(t, "+10 first", c.notes[0].Text)
	assert.Equal(t, "-4 second", c.notes[1].Text)
	assert.Equal(t, "+2 third", c.notes[2].Text)
}

func TestComposeLayerWeightsSubScores(t *testing.T) {
	a := newCard("a", 80)
	b := newCard("b", 40)

	layer := composeLayer(part{0.75, a}, part{0.25, b})

	assert.InDelta(t, 70.0, layer.Score, 1e-9)
}

func TestComposeLayerClampsSubScoresFirst(t *testing.T) {
	// An off-the-scale sub-score must not leak extra points into the
	// blend.
	hot := newCard("hot", 50)
	hot.add(200, "absurd bonus")
	cold := newCard("cold", 0)

	layer := composeLayer(part{0.5, hot}, part{0.5, cold})

	assert.InDelta(t, 50.0, layer.Score, 1e-9)
}

func TestComposeLayerConcatenatesNotesInOrder(t *testing.T) {
	a := newCard("a", 50)
	a.add(5, "from a")
	b := newCard("b", 50)
	b.add(-5, "from b")

	layer := composeLayer(part{0.5, a}, part{0.5, b})

	require.Len(t, layer.Details, 2)
	assert.Equal(t, "a", layer.Details[0].Signal)
	assert.Equal(t, "b", layer.Details[1].Signal)
}

func TestWorstOf(t *testing.T) {
	a := newCard("a", 80)
	b := newCard("b", 20)
	c := newCard("c", 55)

	assert.Equal(t, 20.0, worstOf(part{0.3, a}, part{0.3, b}, part{0.4, c}))
}
