package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckComposition(t *testing.T) {
	d := New(rand.New(rand.NewSource(1)))
	require.Equal(t, Size, d.Len())

	jokers := 0
	seen := make(map[string]bool)
	for _, c := range d.Cards() {
		assert.False(t, seen[c.ID], "duplicate card ID %s", c.ID)
		seen[c.ID] = true
		if c.Rank == Joker {
			jokers++
			assert.True(t, c.IsWild)
			assert.Equal(t, 0, c.Value)
		}
	}
	assert.Equal(t, 2, jokers)
}

func TestCardValues(t *testing.T) {
	assert.Equal(t, 1, Value(Ace))
	assert.Equal(t, 2, Value(Two))
	assert.Equal(t, 9, Value(Nine))
	assert.Equal(t, 10, Value(Ten))
	assert.Equal(t, 10, Value(Jack))
	assert.Equal(t, 10, Value(Queen))
	assert.Equal(t, 10, Value(King))
	assert.Equal(t, 0, Value(Joker))
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	d1 := New(rand.New(rand.NewSource(42)))
	d1.Shuffle()
	d2 := New(rand.New(rand.NewSource(42)))
	d2.Shuffle()

	require.Equal(t, d1.Len(), d2.Len())
	for i, c := range d1.Cards() {
		assert.Equal(t, c.ID, d2.Cards()[i].ID)
	}

	// A different seed should produce a different order.
	d3 := New(rand.New(rand.NewSource(43)))
	d3.Shuffle()
	same := true
	for i, c := range d1.Cards() {
		if c.ID != d3.Cards()[i].ID {
			same = false
			break
		}
	}
	assert.False(t, same)
}

func TestDrawExhaustsDeck(t *testing.T) {
	d := New(rand.New(rand.NewSource(1)))
	for i := 0; i < Size; i++ {
		_, err := d.Draw()
		require.NoError(t, err)
	}
	assert.Equal(t, 0, d.Len())
	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrEndOfDeck)
}

func TestWildFor(t *testing.T) {
	joker := Card{Rank: Joker}
	assert.True(t, joker.WildFor(Five))

	five := Card{Rank: Five}
	assert.True(t, five.WildFor(Five))
	assert.False(t, five.WildFor(Six))
}

func TestHandValue(t *testing.T) {
	wild := Five
	hand := []Card{
		{Rank: Ace, Value: 1},
		{Rank: King, Value: 10},
		{Rank: Five, Value: 5},  // wild this game, scores zero
		{Rank: Joker, Value: 0}, // always zero
		{Rank: Three, Value: 3},
	}
	assert.Equal(t, 14, HandValue(hand, wild))
	assert.Equal(t, 0, HandValue(nil, wild))
}
