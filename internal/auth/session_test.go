package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	require.NoError(t, Init(time.Hour))

	playerID := uuid.New()
	token, err := CreateJWT(playerID, "ROOM1234")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	gotPlayer, gotRoom, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, playerID, gotPlayer)
	assert.Equal(t, "ROOM1234", gotRoom)
}

func TestJWTNoExpiry(t *testing.T) {
	require.NoError(t, Init(0))

	token, err := CreateJWT(uuid.New(), "ROOM1234")
	require.NoError(t, err)

	_, _, err = AuthenticateJWT(token)
	assert.NoError(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	require.NoError(t, Init(time.Hour))

	_, _, err := AuthenticateJWT("not-a-token")
	assert.Error(t, err)
}

func TestJWTRejectsForeignKey(t *testing.T) {
	require.NoError(t, Init(time.Hour))
	token, err := CreateJWT(uuid.New(), "ROOM1234")
	require.NoError(t, err)

	// Re-keying invalidates previously issued tokens.
	require.NoError(t, Init(time.Hour))
	_, _, err = AuthenticateJWT(token)
	assert.Error(t, err)
}
