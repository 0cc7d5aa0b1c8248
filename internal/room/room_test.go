package room

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huehuehyu/leastcount/internal/models"
)

func newTestPlayer(name string) *models.Player {
	return &models.Player{ID: uuid.New(), Name: name}
}

func newTestRoom(t *testing.T, numPlayers int) (*Room, []*models.Player) {
	t.Helper()
	require.GreaterOrEqual(t, numPlayers, 1)
	players := make([]*models.Player, numPlayers)
	players[0] = newTestPlayer("host")
	r := NewRoom("ROOM1", players[0], 100, nil)
	for i := 1; i < numPlayers; i++ {
		players[i] = newTestPlayer(fmt.Sprintf("player%d", i))
		require.NoError(t, r.AddPlayer(players[i]))
	}
	return r, players
}

func TestNewRoomHost(t *testing.T) {
	r, players := newTestRoom(t, 1)
	assert.Equal(t, players[0].ID, r.HostID)
	assert.True(t, players[0].IsHost)
	assert.True(t, r.IsHost(players[0].ID))
	assert.Equal(t, 100, r.ScoreLimit)
}

func TestAddPlayerCapacity(t *testing.T) {
	r, _ := newTestRoom(t, MaxPlayers)
	err := r.AddPlayer(newTestPlayer("overflow"))
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Len(t, r.Players, MaxPlayers)
}

func TestRemovePlayerReassignsHost(t *testing.T) {
	r, players := newTestRoom(t, 3)

	require.NoError(t, r.RemovePlayer(players[0].ID))
	assert.Equal(t, players[1].ID, r.HostID)
	assert.True(t, players[1].IsHost)
	assert.False(t, players[0].IsHost)
	assert.Len(t, r.Players, 2)
}

func TestRemoveUnknownPlayer(t *testing.T) {
	r, _ := newTestRoom(t, 2)
	err := r.RemovePlayer(uuid.New())
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestLastPlayerLeavingFiresOnEmpty(t *testing.T) {
	r, players := newTestRoom(t, 2)
	emptied := ""
	r.OnEmpty = func(id string) { emptied = id }

	require.NoError(t, r.RemovePlayer(players[0].ID))
	assert.Empty(t, emptied)

	require.NoError(t, r.RemovePlayer(players[1].ID))
	assert.Equal(t, "ROOM1", emptied)
}

func TestStartGameRequiresTwoPlayers(t *testing.T) {
	r, _ := newTestRoom(t, 1)
	_, err := r.StartGame(rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestStartGameTwiceRejected(t *testing.T) {
	r, _ := newTestRoom(t, 2)

	g, err := r.StartGame(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NotNil(t, g)

	_, err = r.StartGame(rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrGameInProgress)
}

func TestStartGameAfterEndAllowed(t *testing.T) {
	r, _ := newTestRoom(t, 2)

	g, err := r.StartGame(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	g.GameEnded = true

	g2, err := r.StartGame(rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	assert.NotEqual(t, g.ID, g2.ID)
}

func TestSetScoreLimitPropagatesToGame(t *testing.T) {
	r, _ := newTestRoom(t, 2)
	g, err := r.StartGame(rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	r.SetScoreLimit(250)
	assert.Equal(t, 250, r.ScoreLimit)
	assert.Equal(t, 250, g.ScoreLimit)

	// Non-positive limits are ignored.
	r.SetScoreLimit(0)
	assert.Equal(t, 250, r.ScoreLimit)
}

func TestMidGameLeaveForcesPass(t *testing.T) {
	r, players := newTestRoom(t, 3)
	g, err := r.StartGame(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	g.TurnDuration = 0
	require.Equal(t, 0, g.CurrentPlayerIndex)

	require.NoError(t, r.RemovePlayer(players[0].ID))
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}

func TestActiveGame(t *testing.T) {
	r, _ := newTestRoom(t, 2)
	assert.Nil(t, r.ActiveGame())

	g, err := r.StartGame(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, g, r.ActiveGame())

	g.GameEnded = true
	assert.Nil(t, r.ActiveGame())
}

func TestSnapshot(t *testing.T) {
	r, players := newTestRoom(t, 3)
	players[1].Online = true

	info := r.Snapshot()
	assert.Equal(t, "ROOM1", info.ID)
	assert.Equal(t, players[0].ID, info.HostID)
	assert.Equal(t, 3, info.PlayerCount)
	assert.False(t, info.InGame)
	require.Len(t, info.Players, 3)
	assert.True(t, info.Players[0].IsHost)
	assert.True(t, info.Players[1].Online)
}
