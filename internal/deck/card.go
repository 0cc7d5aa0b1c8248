package deck

import (
	"fmt"
	"strconv"
)

// Suit represents a card suit.
type Suit string

// suit constants
const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Rank represents a card rank. Number cards use their printed value ("2".."10").
type Rank string

// rank constants
const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"

	// Joker is the rank of the two physical joker cards. It is never a
	// candidate for the round's wild rank.
	Joker Rank = "JOKER"
)

// Suits is the fixed deck construction order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Ranks holds the thirteen non-joker ranks in construction order. The wild
// rank for a game is always drawn from this set.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// Card is an individual playing card. IsWild is derived state: it must be
// recomputed (MarkWild) whenever the card enters a hand or the wild rank
// changes, because the same physical card can change wildness between games.
type Card struct {
	ID     string `json:"id"`
	Suit   Suit   `json:"suit"`
	Rank   Rank   `json:"rank"`
	Value  int    `json:"value"`
	IsWild bool   `json:"isWild"`
}

// Value returns the fixed base numeric value for a rank: A=1, face cards=10,
// jokers=0, number cards their face value.
func Value(r Rank) int {
	switch r {
	case Ace:
		return 1
	case Jack, Queen, King:
		return 10
	case Joker:
		return 0
	}
	n, err := strconv.Atoi(string(r))
	if err != nil {
		panic(fmt.Sprintf("deck: unknown rank %q", r))
	}
	return n
}

// WildFor reports whether the card counts as wild when wildRank is the
// round's designated wild rank.
func (c Card) WildFor(wildRank Rank) bool {
	return c.Rank == Joker || c.Rank == wildRank
}

// MarkWild recomputes the derived IsWild flag against wildRank.
func (c *Card) MarkWild(wildRank Rank) {
	c.IsWild = c.WildFor(wildRank)
}

func (c Card) String() string {
	if c.Rank == Joker {
		return string(Joker)
	}
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
