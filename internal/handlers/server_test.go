package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huehuehyu/leastcount/internal/auth"
	"github.com/huehuehyu/leastcount/internal/game"
	"github.com/huehuehyu/leastcount/internal/room"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	require.NoError(t, auth.Init(time.Hour))
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewServer(room.NewStore(logger), logger)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestCreateRoom(t *testing.T) {
	s := newTestServer(t)

	w := postJSON(t, s.CreateRoomHandler, createRoomRequest{PlayerName: "alice", ScoreLimit: 150})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp roomAccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.RoomID, 8)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 150, resp.Room.ScoreLimit)
	assert.Equal(t, resp.PlayerID, resp.Room.HostID)

	// Token must decode back to the same seat.
	playerID, roomID, err := auth.AuthenticateJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.PlayerID, playerID)
	assert.Equal(t, resp.RoomID, roomID)

	rm, err := s.Rooms.Get(resp.RoomID)
	require.NoError(t, err)
	assert.Len(t, rm.Players, 1)
}

func TestCreateRoomValidation(t *testing.T) {
	s := newTestServer(t)

	w := postJSON(t, s.CreateRoomHandler, createRoomRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRoomDefaultScoreLimit(t *testing.T) {
	s := newTestServer(t)

	w := postJSON(t, s.CreateRoomHandler, createRoomRequest{PlayerName: "alice"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp roomAccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, room.DefaultScoreLimit, resp.Room.ScoreLimit)
}

func TestJoinRoom(t *testing.T) {
	s := newTestServer(t)

	w := postJSON(t, s.CreateRoomHandler, createRoomRequest{PlayerName: "alice"})
	var created roomAccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	w = postJSON(t, s.JoinRoomHandler, joinRoomRequest{RoomID: created.RoomID, PlayerName: "bob"})
	require.Equal(t, http.StatusOK, w.Code)

	var joined roomAccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&joined))
	assert.Equal(t, created.RoomID, joined.RoomID)
	assert.Equal(t, 2, joined.Room.PlayerCount)
	assert.NotEqual(t, created.PlayerID, joined.PlayerID)
}

func TestJoinUnknownRoom(t *testing.T) {
	s := newTestServer(t)

	w := postJSON(t, s.JoinRoomHandler, joinRoomRequest{RoomID: "NOPE0000", PlayerName: "bob"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJoinFullRoom(t *testing.T) {
	s := newTestServer(t)

	w := postJSON(t, s.CreateRoomHandler, createRoomRequest{PlayerName: "host"})
	var created roomAccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	for i := 1; i < room.MaxPlayers; i++ {
		w = postJSON(t, s.JoinRoomHandler, joinRoomRequest{RoomID: created.RoomID, PlayerName: "p"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = postJSON(t, s.JoinRoomHandler, joinRoomRequest{RoomID: created.RoomID, PlayerName: "late"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListRooms(t *testing.T) {
	s := newTestServer(t)

	postJSON(t, s.CreateRoomHandler, createRoomRequest{PlayerName: "a"})
	postJSON(t, s.CreateRoomHandler, createRoomRequest{PlayerName: "b"})

	req := httptest.NewRequest(http.MethodGet, "/room/list", nil)
	w := httptest.NewRecorder()
	s.ListRoomsHandler(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rooms []room.Info `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Rooms, 2)
}

func TestActionErrorCodes(t *testing.T) {
	cases := map[error]string{
		game.ErrNotYourTurn:          "not_your_turn",
		game.ErrCannotDraw:           "cannot_draw",
		game.ErrMustDrawFirst:        "must_draw_first",
		game.ErrCardNotFound:         "card_not_found",
		game.ErrCannotShowFirstRound: "cannot_show_first_round",
		game.ErrGameEnded:            "game_ended",
		game.ErrUnknownAction:        "unknown_action",
		room.ErrNotEnoughPlayers:     "not_enough_players",
		room.ErrGameInProgress:       "game_in_progress",
	}
	for err, code := range cases {
		assert.Equal(t, code, actionErrorCode(err))
	}
	assert.Equal(t, "internal_error", actionErrorCode(assert.AnError))
}
