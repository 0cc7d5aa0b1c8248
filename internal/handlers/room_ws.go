package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/huehuehyu/leastcount/internal/auth"
	"github.com/huehuehyu/leastcount/internal/database"
	"github.com/huehuehyu/leastcount/internal/game"
	"github.com/huehuehyu/leastcount/internal/middleware"
	"github.com/huehuehyu/leastcount/internal/models"
	"github.com/huehuehyu/leastcount/internal/room"
)

// wsMessage is the inbound client message envelope.
type wsMessage struct {
	Type       string `json:"type"`
	CardID     string `json:"cardId,omitempty"`
	ScoreLimit int    `json:"scoreLimit,omitempty"`
}

// roomEvent is the outbound envelope for lobby-level events.
type roomEvent struct {
	Type string    `json:"type"`
	Room room.Info `json:"room"`
}

// wsError is the outbound envelope for rejected actions.
type wsError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomWSHandler upgrades GET /room/ws/{id}?token=... to a websocket. The
// token must have been issued for this exact room. Once attached, the
// connection carries all lobby and game traffic for the player.
func (s *Server) RoomWSHandler(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	rm, err := s.Rooms.Get(roomID)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	playerID, tokenRoom, err := auth.AuthenticateJWT(token)
	if err != nil || tokenRoom != roomID {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	p, ok := rm.Player(playerID)
	if !ok {
		http.Error(w, "player not in room", http.StatusForbidden)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.Logger.WithError(err).Warn("websocket accept failed")
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler exit")

	middleware.LogGameSocketConnect(s.Logger, roomID, r.RemoteAddr)

	p.Conn = c
	rm.SetOnline(playerID, true)
	s.broadcastRoomUpdate(rm)

	// Reconnecting mid-game: resync the public state and the private hand.
	if g := rm.ActiveGame(); g != nil {
		sendWsMessage(c, game.Event{Type: game.EventGameUpdated, State: g.Snapshot()})
		if hand, score, ok := g.HandOf(playerID); ok {
			sendWsMessage(c, game.Event{Type: game.EventHandUpdated, Hand: hand, Score: score})
		}
	}

	readErr := s.readMessages(r.Context(), c, rm, p)

	middleware.LogGameSocketDisconnect(s.Logger, roomID, r.RemoteAddr, readErr)

	p.Conn = nil
	rm.SetOnline(playerID, false)
	s.broadcastRoomUpdate(rm)
}

// readMessages runs the per-connection read loop until the client goes away.
// A nil return means a clean close.
func (s *Server) readMessages(ctx context.Context, c *websocket.Conn, rm *room.Room, p *models.Player) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsErrorMsg(c, "bad_request", "invalid JSON")
			continue
		}

		switch msg.Type {
		case "start_game":
			s.handleStartGame(c, rm, p)

		case string(models.ActionDrawDeck), string(models.ActionDrawDiscard),
			string(models.ActionDiscard), string(models.ActionDeclare),
			string(models.ActionPass):
			g := rm.ActiveGame()
			if g == nil {
				sendWsErrorMsg(c, "no_active_game", "no game in progress")
				continue
			}
			err := g.ProcessAction(models.GameAction{
				RoomID:   rm.ID,
				PlayerID: p.ID,
				Type:     models.ActionType(msg.Type),
				CardID:   msg.CardID,
			})
			if err != nil {
				sendWsErrorMsg(c, actionErrorCode(err), err.Error())
			}

		case "update_score_limit":
			if !rm.IsHost(p.ID) {
				sendWsErrorMsg(c, "not_host", "only the host can change the score limit")
				continue
			}
			rm.SetScoreLimit(msg.ScoreLimit)
			s.broadcastRoomUpdate(rm)

		case "leave_room":
			if err := rm.RemovePlayer(p.ID); err == nil {
				s.broadcastRoomUpdate(rm)
			}
			c.Close(websocket.StatusNormalClosure, "left room")
			return nil

		case "ping":
			sendWsMessage(c, map[string]string{"type": "pong"})

		default:
			sendWsErrorMsg(c, "unknown_action", "unknown message type: "+msg.Type)
		}
	}
}

// handleStartGame creates a game for the roster, wires its broadcast and
// persistence hooks, and kicks off the first turn. Host only.
func (s *Server) handleStartGame(c *websocket.Conn, rm *room.Room, p *models.Player) {
	if !rm.IsHost(p.ID) {
		sendWsErrorMsg(c, "not_host", "only the host can start the game")
		return
	}
	g, err := rm.StartGame(s.Rng)
	if err != nil {
		sendWsErrorMsg(c, actionErrorCode(err), err.Error())
		return
	}

	g.SetLogger(s.Logger)
	g.TurnDuration = s.TurnDuration
	g.History = s.History
	g.BroadcastFn = s.createBroadcastFunc(rm)
	g.BroadcastToPlayerFn = s.createBroadcastToPlayerFunc(rm)
	g.OnGameEnd = s.createGameEndHook(rm)
	g.Start()
}

// createBroadcastFunc fans a game event out to every connected player. The
// engine calls this while holding its own lock, so the conn snapshot comes
// from the room and all writes happen off this goroutine.
func (s *Server) createBroadcastFunc(rm *room.Room) func(ev game.Event) {
	return func(ev game.Event) {
		players := rm.ConnectedPlayers()
		data, err := json.Marshal(ev)
		if err != nil {
			s.Logger.WithError(err).Error("marshal broadcast event")
			return
		}
		go func() {
			for _, pl := range players {
				conn := pl.Conn
				if conn == nil {
					continue
				}
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					s.Logger.WithError(err).WithFields(logrus.Fields{
						"room":   rm.ID,
						"player": pl.ID,
					}).Warn("write broadcast message")
				}
				cancel()
			}
		}()
	}
}

// createBroadcastToPlayerFunc delivers a private event (hands) to a single
// player's connection.
func (s *Server) createBroadcastToPlayerFunc(rm *room.Room) func(playerID uuid.UUID, ev game.Event) {
	return func(playerID uuid.UUID, ev game.Event) {
		p, ok := rm.Player(playerID)
		if !ok || p.Conn == nil {
			return
		}
		conn := p.Conn
		data, err := json.Marshal(ev)
		if err != nil {
			s.Logger.WithError(err).Error("marshal private event")
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				s.Logger.WithError(err).WithFields(logrus.Fields{
					"room":   rm.ID,
					"player": playerID,
				}).Warn("write private message")
			}
		}()
	}
}

// createGameEndHook persists the finished match when a result store is
// configured.
func (s *Server) createGameEndHook(rm *room.Room) func(sum game.Summary) {
	return func(sum game.Summary) {
		if s.Results == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := s.Results.SaveResult(ctx, database.MatchResult{
			GameID:     sum.GameID,
			RoomID:     sum.RoomID,
			Rounds:     sum.Rounds,
			WinnerID:   sum.WinnerID,
			WinnerName: sum.WinnerName,
			Totals:     sum.Totals,
			FinishedAt: time.Now(),
		})
		if err != nil {
			s.Logger.WithError(err).WithField("game", sum.GameID).Error("persist match result")
		}
	}
}

// broadcastRoomUpdate pushes the current lobby view to everyone in the room.
func (s *Server) broadcastRoomUpdate(rm *room.Room) {
	ev := roomEvent{Type: "room_updated", Room: rm.Snapshot()}
	data, err := json.Marshal(ev)
	if err != nil {
		s.Logger.WithError(err).Error("marshal room update")
		return
	}
	for _, pl := range rm.ConnectedPlayers() {
		conn := pl.Conn
		if conn == nil {
			continue
		}
		go func(conn *websocket.Conn) {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = conn.Write(ctx, websocket.MessageText, data)
		}(conn)
	}
}

// actionErrorCode maps engine and room errors to stable wire codes.
func actionErrorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrCannotDraw):
		return "cannot_draw"
	case errors.Is(err, game.ErrMustDrawFirst):
		return "must_draw_first"
	case errors.Is(err, game.ErrCardNotFound):
		return "card_not_found"
	case errors.Is(err, game.ErrCannotShowFirstRound):
		return "cannot_show_first_round"
	case errors.Is(err, game.ErrGameEnded):
		return "game_ended"
	case errors.Is(err, game.ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, room.ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, room.ErrGameInProgress):
		return "game_in_progress"
	default:
		return "internal_error"
	}
}

// sendWsMessage marshals and writes one message with a write timeout.
func sendWsMessage(c *websocket.Conn, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.Write(ctx, websocket.MessageText, data)
}

func sendWsErrorMsg(c *websocket.Conn, code, msg string) {
	sendWsMessage(c, wsError{Type: "error", Code: code, Message: msg})
}
