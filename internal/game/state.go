package game

import (
	"github.com/google/uuid"

	"github.com/huehuehyu/leastcount/internal/deck"
)

// EventType identifies a server-to-client game event.
type EventType string

// game event types
const (
	EventGameStarted EventType = "game_started"
	EventGameUpdated EventType = "game_updated"
	EventHandUpdated EventType = "hand_updated"
	EventGameEnded   EventType = "game_ended"
)

// Event is the payload handed to the broadcast functions. State events go to
// the whole room; hand events carry private cards and go to one player.
type Event struct {
	Type  EventType   `json:"type"`
	State *State      `json:"state,omitempty"`
	Hand  []deck.Card `json:"hand,omitempty"`
	Score int         `json:"score,omitempty"`
}

// PlayerState is the public view of one player. Hands are reduced to a
// count; the held score is revealed only after the player has shown.
type PlayerState struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	HandSize      int       `json:"handSize"`
	HandScore     int       `json:"handScore,omitempty"`
	TotalScore    int       `json:"totalScore"`
	HasShown      bool      `json:"hasShown"`
	CanShow       bool      `json:"canShow"`
	IsHost        bool      `json:"isHost"`
	Online        bool      `json:"isOnline"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
}

// State is the public snapshot of a game, safe to broadcast to every player
// in the room.
type State struct {
	GameID          uuid.UUID     `json:"gameId"`
	RoomID          string        `json:"roomId"`
	Players         []PlayerState `json:"players"`
	DeckSize        int           `json:"deckSize"`
	DiscardTop      *deck.Card    `json:"discardTop,omitempty"`
	DiscardSize     int           `json:"discardSize"`
	JokerRank       deck.Rank     `json:"jokerRank"`
	CurrentPlayerID uuid.UUID     `json:"currentPlayerId"`
	Phase           Phase         `json:"phase"`
	IsFirstRound    bool          `json:"isFirstRound"`
	RoundNumber     int           `json:"roundNumber"`
	GameEnded       bool          `json:"gameEnded"`
	Winner          string        `json:"winner,omitempty"`
	ScoreLimit      int           `json:"scoreLimit"`
}

// snapshot builds the public state view. Assumes lock is held.
func (g *Game) snapshot() *State {
	st := &State{
		GameID:          g.ID,
		RoomID:          g.RoomID,
		Players:         make([]PlayerState, 0, len(g.Players)),
		DeckSize:        g.Deck.Len(),
		DiscardSize:     len(g.DiscardPile),
		JokerRank:       g.JokerRank,
		CurrentPlayerID: g.Players[g.CurrentPlayerIndex].ID,
		Phase:           g.Phase,
		IsFirstRound:    g.IsFirstRound,
		RoundNumber:     g.RoundNumber,
		GameEnded:       g.GameEnded,
		ScoreLimit:      g.ScoreLimit,
	}
	if len(g.DiscardPile) > 0 {
		top := g.DiscardPile[len(g.DiscardPile)-1]
		st.DiscardTop = &top
	}
	if g.Winner != nil {
		st.Winner = g.Winner.Name
	}
	for i, p := range g.Players {
		ps := PlayerState{
			ID:            p.ID,
			Name:          p.Name,
			HandSize:      len(p.Hand),
			TotalScore:    p.TotalScore,
			HasShown:      p.HasShown,
			CanShow:       p.CanShow,
			IsHost:        p.IsHost,
			Online:        p.Online,
			IsCurrentTurn: i == g.CurrentPlayerIndex && !g.GameEnded,
		}
		if p.HasShown || g.GameEnded {
			ps.HandScore = p.HandScore
		}
		st.Players = append(st.Players, ps)
	}
	return st
}

// Snapshot returns the public game state for on-demand sync, e.g. a client
// reconnecting mid-game.
func (g *Game) Snapshot() *State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// HandOf returns a copy of one player's private hand and its current score.
func (g *Game) HandOf(playerID uuid.UUID) ([]deck.Card, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.Players {
		if p.ID == playerID {
			hand := make([]deck.Card, len(p.Hand))
			copy(hand, p.Hand)
			return hand, p.HandScore, true
		}
	}
	return nil, 0, false
}
