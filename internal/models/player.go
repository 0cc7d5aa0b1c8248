package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/huehuehyu/leastcount/internal/deck"
)

// Player is a participant in a room. The same Player value is shared by
// reference between the room roster and an active game's player list.
//
// Online and IsHost are owned by the room; the game engine never writes them.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	Hand       []deck.Card `json:"cards"`
	HandScore  int         `json:"score"`
	TotalScore int         `json:"totalScore"`
	HasShown   bool        `json:"hasShown"`
	CanShow    bool        `json:"canShow"`

	IsHost bool `json:"isHost"`
	Online bool `json:"isOnline"`

	Conn *websocket.Conn `json:"-"`
}
