// Package game implements the authoritative Least Count engine: deck and
// hand lifecycle, move validation, turn rotation, round scoring, and the
// per-game turn clock. One Game exists per room with an active match; every
// mutation is serialized behind the game mutex, whether it originates from a
// player action, a timer expiry, or a disconnect hook.
package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/huehuehyu/leastcount/internal/deck"
	"github.com/huehuehyu/leastcount/internal/history"
	"github.com/huehuehyu/leastcount/internal/models"
)

// HandSize is the number of cards dealt to each player at round start.
const HandSize = 7

// DefaultTurnDuration is the per-turn budget before the clock forces a pass.
const DefaultTurnDuration = 30 * time.Second

// Phase tracks where the current player is within their turn. A turn is
// always draw-then-discard; the phase makes illegal-action rejection
// exhaustive instead of being inferred from side flags.
type Phase string

// turn phases
const (
	PhaseAwaitingDraw    Phase = "awaiting_draw"
	PhaseAwaitingDiscard Phase = "awaiting_discard"
)

// Game holds the entire state for one Least Count match.
//
// Exported fields are read by snapshots and tests; all access outside the
// package must go through the exported methods, which acquire the mutex.
type Game struct {
	ID     uuid.UUID
	RoomID string

	Players            []*models.Player
	Deck               *deck.Deck
	DiscardPile        []deck.Card
	JokerRank          deck.Rank
	CurrentPlayerIndex int
	Phase              Phase
	IsFirstRound       bool
	RoundNumber        int
	GameEnded          bool
	Winner             *models.Player
	ScoreLimit         int

	// TurnID increments on every legitimate turn transition. Timer callbacks
	// capture it when armed and re-check it under the lock before acting, so
	// a stale expiry can never touch a later turn.
	TurnID       int
	TurnDuration time.Duration

	turnTimer   *time.Timer
	rng         *rand.Rand
	actionIndex int

	mu sync.Mutex

	// BroadcastFn sends an event to every player in the room. Nil disables
	// broadcasting (tests).
	BroadcastFn func(ev Event)

	// BroadcastToPlayerFn sends an event to a single player only. Private
	// hands are only ever delivered through this.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev Event)

	// OnGameEnd is invoked once, after the winner is decided.
	OnGameEnd func(sum Summary)

	// History receives every accepted action when set.
	History *history.Publisher

	logger *logrus.Logger
}

// Summary describes a finished game for result recording.
type Summary struct {
	GameID     uuid.UUID
	RoomID     string
	Rounds     int
	WinnerID   uuid.UUID
	WinnerName string
	Totals     map[string]int
}

// New initializes a match for the given players: a fresh shuffled deck,
// seven cards each, one card flipped to the discard pile, and a wild rank
// chosen uniformly from the thirteen non-joker ranks. The wild rank is fixed
// for the whole game; only deck and hands reset between rounds.
//
// The caller guarantees at least two players. A nil rng falls back to a
// time-seeded source; tests pass a seeded one for determinism.
func New(roomID string, players []*models.Player, scoreLimit int, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Game{
		ID:           uuid.New(),
		RoomID:       roomID,
		Players:      players,
		ScoreLimit:   scoreLimit,
		IsFirstRound: true,
		RoundNumber:  1,
		TurnDuration: DefaultTurnDuration,
		rng:          rng,
		logger:       logrus.StandardLogger(),
	}
	for _, p := range players {
		p.TotalScore = 0
	}
	g.JokerRank = deck.Ranks[rng.Intn(len(deck.Ranks))]
	g.dealRound()
	return g
}

// SetLogger replaces the default logger.
func (g *Game) SetLogger(logger *logrus.Logger) {
	g.logger = logger
}

// dealRound builds and shuffles a fresh deck, deals HandSize cards to every
// player, flips one card onto the discard pile, and resets per-round flags.
// Assumes lock is held (or exclusive access during construction).
func (g *Game) dealRound() {
	d := deck.New(g.rng)
	d.Shuffle()
	g.Deck = d

	for _, p := range g.Players {
		hand := make([]deck.Card, 0, HandSize)
		for i := 0; i < HandSize; i++ {
			c, err := d.Draw()
			if err != nil {
				// 54 cards cover 7 players plus the flip; unreachable at
				// the 8-player room cap of 57... guarded anyway.
				break
			}
			hand = append(hand, c)
		}
		p.Hand = hand
		p.HasShown = false
		p.CanShow = false
	}

	top, err := d.Draw()
	if err == nil {
		g.DiscardPile = []deck.Card{top}
	} else {
		g.DiscardPile = nil
	}

	g.CurrentPlayerIndex = 0
	g.Phase = PhaseAwaitingDraw
	g.refreshScores()
}

// refreshScores recomputes wildness flags and hand values for every player
// against the game's wild rank. Assumes lock is held.
func (g *Game) refreshScores() {
	for _, p := range g.Players {
		for i := range p.Hand {
			p.Hand[i].MarkWild(g.JokerRank)
		}
		p.HandScore = deck.HandValue(p.Hand, g.JokerRank)
	}
}

// Start arms the turn clock and broadcasts the opening state plus each
// player's private hand.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.logger.WithFields(logrus.Fields{
		"game":       g.ID,
		"room":       g.RoomID,
		"players":    len(g.Players),
		"scoreLimit": g.ScoreLimit,
	}).Info("game started")
	g.logAction(uuid.Nil, "game_start", nil)
	g.scheduleTurnTimer()
	g.fireEvent(Event{Type: EventGameStarted, State: g.snapshot()})
	g.sendAllHands()
}

// Stop tears down the turn clock. Called when the owning room is deleted so
// no timer can outlive its room. Bumping TurnID invalidates any expiry that
// already left the timer queue.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopClock()
}

// stopClock halts the timer and invalidates in-flight fires. Assumes lock is
// held.
func (g *Game) stopClock() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	g.TurnID++
}

// scheduleTurnTimer (re)arms the clock for the current turn. Assumes lock is
// held.
func (g *Game) scheduleTurnTimer() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
	}
	if g.GameEnded || g.TurnDuration <= 0 {
		return
	}
	turnID := g.TurnID
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		g.turnExpired(turnID)
	})
}

// turnExpired is the clock callback: it forces a pass on the current player
// if the turn it was armed for is still live.
func (g *Game) turnExpired(turnID int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.GameEnded || g.TurnID != turnID {
		return
	}
	cur := g.Players[g.CurrentPlayerIndex]
	g.logger.WithFields(logrus.Fields{
		"game":   g.ID,
		"player": cur.ID,
		"turn":   turnID,
	}).Info("turn timed out, forcing pass")
	g.logAction(cur.ID, "turn_timeout", nil)
	g.advanceTurn()
	g.fireEvent(Event{Type: EventGameUpdated, State: g.snapshot()})
}

// SetScoreLimit updates the score threshold mid-game.
func (g *Game) SetScoreLimit(limit int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ScoreLimit = limit
}

// OnPlayerDisconnected implements the liveness contract for a player going
// offline: if it is their turn and they have not declared, their hand is
// shown on their behalf, removing them from the round's rotation.
func (g *Game) OnPlayerDisconnected(playerID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.GameEnded {
		return
	}
	cur := g.Players[g.CurrentPlayerIndex]
	if cur.ID != playerID || cur.HasShown {
		return
	}
	g.logger.WithFields(logrus.Fields{"game": g.ID, "player": playerID}).
		Info("current player disconnected, auto-showing")
	g.logAction(playerID, "auto_show", nil)
	g.show(cur)
	if !g.GameEnded {
		g.fireEvent(Event{Type: EventGameUpdated, State: g.snapshot()})
	}
}

// OnPlayerLeft implements the liveness contract for a player who left the
// room mid-game while holding the turn: a plain forced pass so rotation
// continues without them needing playable cards.
func (g *Game) OnPlayerLeft(playerID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.GameEnded {
		return
	}
	if g.Players[g.CurrentPlayerIndex].ID != playerID {
		return
	}
	g.logAction(playerID, "forced_pass_on_leave", nil)
	g.advanceTurn()
	g.fireEvent(Event{Type: EventGameUpdated, State: g.snapshot()})
}

// advanceTurn rotates to the next player who has not shown and re-arms the
// clock. Callers guarantee at least one such player exists whenever this
// runs outside endRound. Assumes lock is held.
func (g *Game) advanceTurn() {
	if g.GameEnded {
		return
	}
	for {
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
		if !g.Players[g.CurrentPlayerIndex].HasShown {
			break
		}
	}
	g.Phase = PhaseAwaitingDraw
	g.TurnID++
	g.scheduleTurnTimer()
}

// activeCount returns how many players have not shown. Assumes lock is held.
func (g *Game) activeCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.HasShown {
			n++
		}
	}
	return n
}

// logAction queues an action record for the historian, if configured.
// Assumes lock is held.
func (g *Game) logAction(playerID uuid.UUID, action string, payload map[string]interface{}) {
	if g.History == nil {
		return
	}
	g.actionIndex++
	rec := history.ActionRecord{
		RoomID:      g.RoomID,
		GameID:      g.ID,
		ActionIndex: g.actionIndex,
		PlayerID:    playerID,
		Action:      action,
		Payload:     payload,
		Timestamp:   time.Now().Unix(),
	}
	go g.History.Publish(context.Background(), rec)
}

// fireEvent broadcasts an event to all players. Assumes lock is held.
func (g *Game) fireEvent(ev Event) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends an event to one player only. Assumes lock is held.
func (g *Game) fireEventToPlayer(playerID uuid.UUID, ev Event) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// sendHand delivers a player's private hand to them alone. Assumes lock is
// held.
func (g *Game) sendHand(p *models.Player) {
	hand := make([]deck.Card, len(p.Hand))
	copy(hand, p.Hand)
	g.fireEventToPlayer(p.ID, Event{Type: EventHandUpdated, Hand: hand, Score: p.HandScore})
}

// sendAllHands delivers every player's hand to its holder, e.g. after a
// redeal. Assumes lock is held.
func (g *Game) sendAllHands() {
	for _, p := range g.Players {
		g.sendHand(p)
	}
}
