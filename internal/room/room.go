// Package room manages lobbies: the player roster, host assignment, the
// room registry, and the handoff into a running game. Rooms serialize their
// own mutations behind a mutex, independent of the game lock.
package room

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/huehuehyu/leastcount/internal/game"
	"github.com/huehuehyu/leastcount/internal/models"
)

// MaxPlayers caps the roster of a single room.
const MaxPlayers = 8

// DefaultScoreLimit ends the game once any total reaches it, unless the
// host configured a different threshold.
const DefaultScoreLimit = 100

// Room is one lobby and, when started, its active game.
type Room struct {
	ID         string
	HostID     uuid.UUID
	Players    []*models.Player
	Game       *game.Game
	ScoreLimit int
	CreatedAt  time.Time

	// OnEmpty is called after the last player leaves, so the registry can
	// drop the room.
	OnEmpty func(roomID string)

	mu     sync.Mutex
	logger *logrus.Logger
}

// NewRoom creates a lobby with the given player as host.
func NewRoom(id string, host *models.Player, scoreLimit int, logger *logrus.Logger) *Room {
	if scoreLimit <= 0 {
		scoreLimit = DefaultScoreLimit
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	host.IsHost = true
	return &Room{
		ID:         id,
		HostID:     host.ID,
		Players:    []*models.Player{host},
		ScoreLimit: scoreLimit,
		CreatedAt:  time.Now(),
		logger:     logger,
	}
}

// AddPlayer appends a player to the roster.
func (r *Room) AddPlayer(p *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Players) >= MaxPlayers {
		return ErrRoomFull
	}
	r.Players = append(r.Players, p)
	r.logger.WithFields(logrus.Fields{
		"room":   r.ID,
		"player": p.ID,
		"name":   p.Name,
	}).Info("player joined room")
	return nil
}

// RemovePlayer drops a player from the roster. The host role passes to the
// first remaining player; the last player leaving empties the room, which
// stops any running game clock and fires OnEmpty.
//
// If a game is running and the leaver held the turn, the turn is forced
// past them after the roster update.
func (r *Room) RemovePlayer(playerID uuid.UUID) error {
	r.mu.Lock()

	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return ErrPlayerNotFound
	}

	leaving := r.Players[idx]
	leaving.IsHost = false
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	r.logger.WithFields(logrus.Fields{"room": r.ID, "player": playerID}).
		Info("player left room")

	if len(r.Players) == 0 {
		g := r.Game
		onEmpty := r.OnEmpty
		r.mu.Unlock()
		if g != nil {
			g.Stop()
		}
		if onEmpty != nil {
			onEmpty(r.ID)
		}
		return nil
	}

	if r.HostID == playerID {
		r.Players[0].IsHost = true
		r.HostID = r.Players[0].ID
		r.logger.WithFields(logrus.Fields{
			"room": r.ID,
			"host": r.HostID,
		}).Info("host reassigned")
	}

	g := r.Game
	r.mu.Unlock()

	// Game lock is taken outside the room lock; the two never nest.
	if g != nil {
		g.OnPlayerLeft(playerID)
	}
	return nil
}

// StartGame creates and starts a game for the current roster. Only games
// that have finished (or never started) can be replaced.
func (r *Room) StartGame(rng *rand.Rand) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Players) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	if r.Game != nil && !r.Game.GameEnded {
		return nil, ErrGameInProgress
	}

	players := make([]*models.Player, len(r.Players))
	copy(players, r.Players)
	g := game.New(r.ID, players, r.ScoreLimit, rng)
	r.Game = g
	r.logger.WithFields(logrus.Fields{
		"room":    r.ID,
		"game":    g.ID,
		"players": len(players),
	}).Info("starting game")
	return g, nil
}

// SetScoreLimit updates the threshold for this room and any running game.
func (r *Room) SetScoreLimit(limit int) {
	if limit <= 0 {
		return
	}
	r.mu.Lock()
	r.ScoreLimit = limit
	g := r.Game
	r.mu.Unlock()
	if g != nil {
		g.SetScoreLimit(limit)
	}
}

// SetOnline flags a player's connection state. Going offline mid-game while
// holding the turn triggers the engine's auto-show.
func (r *Room) SetOnline(playerID uuid.UUID, online bool) {
	r.mu.Lock()
	var found *models.Player
	for _, p := range r.Players {
		if p.ID == playerID {
			found = p
			break
		}
	}
	if found == nil {
		r.mu.Unlock()
		return
	}
	found.Online = online
	g := r.Game
	r.mu.Unlock()

	if !online && g != nil {
		g.OnPlayerDisconnected(playerID)
	}
}

// ConnectedPlayers returns a snapshot of players holding a live connection.
func (r *Room) ConnectedPlayers() []*models.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Online && p.Conn != nil {
			out = append(out, p)
		}
	}
	return out
}

// IsHost reports whether the given player currently holds the host role.
func (r *Room) IsHost(playerID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.HostID == playerID
}

// ActiveGame returns the running game, or nil when none is in progress.
func (r *Room) ActiveGame() *game.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Game != nil && !r.Game.GameEnded {
		return r.Game
	}
	return nil
}

// Player returns the roster entry for an ID, if present.
func (r *Room) Player(playerID uuid.UUID) (*models.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return nil, false
}

// Snapshot returns the lobby view sent on roster changes.
func (r *Room) Snapshot() Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	info := Info{
		ID:          r.ID,
		HostID:      r.HostID,
		ScoreLimit:  r.ScoreLimit,
		PlayerCount: len(r.Players),
		InGame:      r.Game != nil && !r.Game.GameEnded,
		CreatedAt:   r.CreatedAt,
	}
	for _, p := range r.Players {
		info.Players = append(info.Players, PlayerInfo{
			ID:     p.ID,
			Name:   p.Name,
			IsHost: p.IsHost,
			Online: p.Online,
		})
	}
	return info
}

// Info is the public lobby view.
type Info struct {
	ID          string       `json:"id"`
	HostID      uuid.UUID    `json:"hostId"`
	Players     []PlayerInfo `json:"players"`
	PlayerCount int          `json:"playerCount"`
	ScoreLimit  int          `json:"scoreLimit"`
	InGame      bool         `json:"inGame"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// PlayerInfo is the public roster entry.
type PlayerInfo struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	IsHost bool      `json:"isHost"`
	Online bool      `json:"isOnline"`
}
