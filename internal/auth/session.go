// Package auth issues and verifies the signed join tokens that tie a
// websocket connection to a player seat in a specific room.
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// privateKey and publicKey sign and verify join tokens.
var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// tokenTTL is how long join tokens stay valid; zero means no expiry.
	tokenTTL time.Duration
)

// Init generates a fresh ed25519 key pair at runtime. Tokens do not survive
// a server restart, which is fine: rooms live in memory and die with the
// process anyway.
func Init(ttl time.Duration) error {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("generate ed25519 key pair: %w", err)
	}
	tokenTTL = ttl
	return nil
}

// InitFromPath reads ed25519 private/public keys from files, for deployments
// that need tokens to survive restarts behind a load balancer.
func InitFromPath(privatePath, publicPath string, ttl time.Duration) error {
	privateKeyData, err := os.ReadFile(privatePath)
	if err != nil {
		return fmt.Errorf("read private key file: %w", err)
	}
	publicKeyData, err := os.ReadFile(publicPath)
	if err != nil {
		return fmt.Errorf("read public key file: %w", err)
	}

	privateKey = ed25519.PrivateKey(privateKeyData)
	publicKey = ed25519.PublicKey(publicKeyData)
	tokenTTL = ttl
	return nil
}

// CreateJWT signs a join token binding a player to a room: "sub" is the
// player ID, "room" the room the token is valid for.
func CreateJWT(playerID uuid.UUID, roomID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  playerID.String(),
		"room": roomID,
	}
	if tokenTTL > 0 {
		claims["exp"] = time.Now().Add(tokenTTL).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateJWT verifies a join token and returns the player and room it
// was issued for.
func AuthenticateJWT(tokenString string) (uuid.UUID, string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("invalid jwt claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("missing sub in jwt")
	}
	playerID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("malformed sub in jwt: %w", err)
	}

	roomID, ok := claims["room"].(string)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("missing room in jwt")
	}

	return playerID, roomID, nil
}
