// Package handlers exposes the HTTP and websocket surface of the server:
// room creation and join over plain HTTP, then everything in-room over a
// single websocket per player.
package handlers

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/huehuehyu/leastcount/internal/auth"
	"github.com/huehuehyu/leastcount/internal/database"
	"github.com/huehuehyu/leastcount/internal/history"
	"github.com/huehuehyu/leastcount/internal/models"
	"github.com/huehuehyu/leastcount/internal/room"
)

// Server bundles the shared dependencies of every handler.
type Server struct {
	Rooms  *room.Store
	Logger *logrus.Logger

	// History and Results are optional; nil disables the integration.
	History *history.Publisher
	Results *database.ResultStore

	TurnDuration      time.Duration
	DefaultScoreLimit int

	// Rng seeds new games. Nil lets the engine self-seed.
	Rng *rand.Rand
}

// NewServer wires a handler server with sane defaults.
func NewServer(rooms *room.Store, logger *logrus.Logger) *Server {
	return &Server{
		Rooms:             rooms,
		Logger:            logger,
		TurnDuration:      30 * time.Second,
		DefaultScoreLimit: room.DefaultScoreLimit,
	}
}

type createRoomRequest struct {
	PlayerName string `json:"playerName"`
	ScoreLimit int    `json:"scoreLimit,omitempty"`
}

type joinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type roomAccessResponse struct {
	RoomID   string    `json:"roomId"`
	PlayerID uuid.UUID `json:"playerId"`
	Token    string    `json:"token"`
	Room     room.Info `json:"room"`
}

// CreateRoomHandler handles POST /room/create: it registers a new room with
// the caller as host and returns a join token for the websocket.
func (s *Server) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.PlayerName == "" {
		writeError(w, http.StatusBadRequest, "playerName is required")
		return
	}
	if req.ScoreLimit <= 0 {
		req.ScoreLimit = s.DefaultScoreLimit
	}

	host := &models.Player{ID: uuid.New(), Name: req.PlayerName}

	// Join codes are 8 hex chars; regenerate on the rare collision.
	var rm *room.Room
	var err error
	for i := 0; i < 5; i++ {
		rm, err = s.Rooms.Create(room.NewRoomID(), host, req.ScoreLimit)
		if err == nil {
			break
		}
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not allocate room ID")
		return
	}

	token, err := auth.CreateJWT(host.ID, rm.ID)
	if err != nil {
		s.Rooms.Delete(rm.ID)
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	writeJSON(w, http.StatusCreated, roomAccessResponse{
		RoomID:   rm.ID,
		PlayerID: host.ID,
		Token:    token,
		Room:     rm.Snapshot(),
	})
}

// JoinRoomHandler handles POST /room/join: it seats the caller in an
// existing room and returns a join token for the websocket.
func (s *Server) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.PlayerName == "" || req.RoomID == "" {
		writeError(w, http.StatusBadRequest, "roomId and playerName are required")
		return
	}

	rm, err := s.Rooms.Get(req.RoomID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	p := &models.Player{ID: uuid.New(), Name: req.PlayerName}
	if err := rm.AddPlayer(p); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, room.ErrRoomFull) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}

	token, err := auth.CreateJWT(p.ID, rm.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	s.broadcastRoomUpdate(rm)

	writeJSON(w, http.StatusOK, roomAccessResponse{
		RoomID:   rm.ID,
		PlayerID: p.ID,
		Token:    token,
		Room:     rm.Snapshot(),
	})
}

// ListRoomsHandler handles GET /room/list.
func (s *Server) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rooms": s.Rooms.List()})
}

// GetRoomHandler handles GET /room/{id}: the lobby view of one room.
func (s *Server) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rm, err := s.Rooms.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rm.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
