package deck

import (
	"errors"
	"fmt"
	"math/rand"
)

// Size is the number of cards in a full deck: 52 standard plus 2 jokers.
const Size = 54

// ErrEndOfDeck is returned by Draw when no cards remain.
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck is an ordered, mutable pile of cards consumed from the front.
// It is not safe for concurrent use; the owning game serializes access.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New builds a fresh, unshuffled 54-card deck: every rank per suit in suit
// order, then the two jokers. The rng is kept for Shuffle so tests can pass
// a seeded source.
func New(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{
				ID:    fmt.Sprintf("%s-%s", suit, rank),
				Suit:  suit,
				Rank:  rank,
				Value: Value(rank),
			})
		}
	}
	cards = append(cards,
		Card{ID: "joker-1", Suit: Hearts, Rank: Joker, IsWild: true},
		Card{ID: "joker-2", Suit: Spades, Rank: Joker, IsWild: true},
	)
	return &Deck{cards: cards, rng: rng}
}

// Shuffle permutes the deck in place with a backward Fisher-Yates sweep.
// Given a uniform source every permutation is equally likely.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEndOfDeck
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards exposes the remaining cards in order. Used by tests and state
// snapshots; callers must not mutate the returned slice.
func (d *Deck) Cards() []Card {
	return d.cards
}
