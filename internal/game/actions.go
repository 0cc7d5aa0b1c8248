package game

import (
	"github.com/sirupsen/logrus"

	"github.com/huehuehyu/leastcount/internal/deck"
	"github.com/huehuehyu/leastcount/internal/models"
)

// ProcessAction validates and applies one player action. It is the single
// entry point for player-originated moves: turn ownership and phase legality
// are checked here, and a returned error means the game state is unchanged.
func (g *Game) ProcessAction(action models.GameAction) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.GameEnded {
		return ErrGameEnded
	}

	cur := g.Players[g.CurrentPlayerIndex]
	if cur.ID != action.PlayerID {
		return ErrNotYourTurn
	}

	var err error
	switch action.Type {
	case models.ActionDrawDeck:
		err = g.drawFromDeck(cur)
	case models.ActionDrawDiscard:
		err = g.drawFromDiscard(cur)
	case models.ActionDiscard:
		err = g.discard(cur, action.CardID)
	case models.ActionDeclare:
		err = g.declare(cur)
	case models.ActionPass:
		g.advanceTurn()
	default:
		err = ErrUnknownAction
	}
	if err != nil {
		return err
	}

	g.logAction(cur.ID, string(action.Type), actionPayload(action))
	if !g.GameEnded {
		g.fireEvent(Event{Type: EventGameUpdated, State: g.snapshot()})
		g.sendHand(cur)
	}
	return nil
}

func actionPayload(action models.GameAction) map[string]interface{} {
	if action.CardID == "" {
		return nil
	}
	return map[string]interface{}{"card_id": action.CardID}
}

// drawFromDeck moves the top card of the stock into the player's hand.
// Assumes lock is held.
func (g *Game) drawFromDeck(p *models.Player) error {
	if g.Phase != PhaseAwaitingDraw {
		return ErrCannotDraw
	}
	c, err := g.Deck.Draw()
	if err != nil {
		return ErrCannotDraw
	}
	g.takeCard(p, c)
	return nil
}

// drawFromDiscard moves the top card of the discard pile into the player's
// hand. Assumes lock is held.
func (g *Game) drawFromDiscard(p *models.Player) error {
	if g.Phase != PhaseAwaitingDraw {
		return ErrCannotDraw
	}
	if len(g.DiscardPile) == 0 {
		return ErrCannotDraw
	}
	c := g.DiscardPile[len(g.DiscardPile)-1]
	g.DiscardPile = g.DiscardPile[:len(g.DiscardPile)-1]
	g.takeCard(p, c)
	return nil
}

// takeCard appends a drawn card to the hand and flips the turn into its
// discard half. Assumes lock is held.
func (g *Game) takeCard(p *models.Player, c deck.Card) {
	c.MarkWild(g.JokerRank)
	p.Hand = append(p.Hand, c)
	p.HandScore = deck.HandValue(p.Hand, g.JokerRank)
	g.Phase = PhaseAwaitingDiscard
}

// discard moves the named card from the player's hand onto the discard pile
// and completes the turn. Completing a full draw-and-discard turn is what
// unlocks declaring during the first round. Assumes lock is held.
func (g *Game) discard(p *models.Player, cardID string) error {
	if g.Phase != PhaseAwaitingDiscard {
		return ErrMustDrawFirst
	}
	idx := -1
	for i, c := range p.Hand {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrCardNotFound
	}
	c := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	g.DiscardPile = append(g.DiscardPile, c)
	p.HandScore = deck.HandValue(p.Hand, g.JokerRank)
	p.CanShow = true
	g.advanceTurn()
	return nil
}

// declare handles a voluntary show. First-round shows require a completed
// turn so nobody can fold a lucky deal unseen. Assumes lock is held.
func (g *Game) declare(p *models.Player) error {
	if g.IsFirstRound && !p.CanShow {
		return ErrCannotShowFirstRound
	}
	g.show(p)
	return nil
}

// show marks the player as shown and either ends the round, when one or
// fewer players remain, or advances past them. Assumes lock is held.
func (g *Game) show(p *models.Player) {
	p.HasShown = true
	g.logger.WithFields(logrus.Fields{
		"game":      g.ID,
		"player":    p.ID,
		"handScore": p.HandScore,
	}).Info("player showed hand")
	if g.activeCount() <= 1 {
		g.endRound()
		return
	}
	if g.Players[g.CurrentPlayerIndex].ID == p.ID {
		g.advanceTurn()
	}
}

// endRound settles the round: every hand still held is scored into its
// owner's running total, and either the game ends or a fresh round is dealt.
// Assumes lock is held.
func (g *Game) endRound() {
	g.refreshScores()
	maxTotal := 0
	for _, p := range g.Players {
		p.HasShown = true
		p.TotalScore += p.HandScore
		if p.TotalScore > maxTotal {
			maxTotal = p.TotalScore
		}
	}

	g.logger.WithFields(logrus.Fields{
		"game":  g.ID,
		"room":  g.RoomID,
		"round": g.RoundNumber,
	}).Info("round ended")

	if maxTotal >= g.ScoreLimit {
		g.endGame()
		return
	}

	g.RoundNumber++
	g.IsFirstRound = false
	g.dealRound()
	g.TurnID++
	g.scheduleTurnTimer()
	g.fireEvent(Event{Type: EventGameUpdated, State: g.snapshot()})
	g.sendAllHands()
}

// endGame picks the winner, stops the clock, and notifies listeners. The
// winner is the lowest running total; on a tie the earliest-seated of the
// tied players takes it. Assumes lock is held.
func (g *Game) endGame() {
	g.GameEnded = true
	g.stopClock()

	winner := g.Players[0]
	for _, p := range g.Players[1:] {
		if p.TotalScore < winner.TotalScore {
			winner = p
		}
	}
	g.Winner = winner

	totals := make(map[string]int, len(g.Players))
	for _, p := range g.Players {
		totals[p.Name] = p.TotalScore
	}

	g.logger.WithFields(logrus.Fields{
		"game":   g.ID,
		"room":   g.RoomID,
		"winner": winner.Name,
		"rounds": g.RoundNumber,
	}).Info("game ended")
	g.logAction(winner.ID, "game_end", map[string]interface{}{"winner": winner.Name})

	g.fireEvent(Event{Type: EventGameEnded, State: g.snapshot()})

	if g.OnGameEnd != nil {
		sum := Summary{
			GameID:     g.ID,
			RoomID:     g.RoomID,
			Rounds:     g.RoundNumber,
			WinnerID:   winner.ID,
			WinnerName: winner.Name,
			Totals:     totals,
		}
		go g.OnGameEnd(sum)
	}
}
