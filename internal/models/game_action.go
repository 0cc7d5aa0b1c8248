package models

import "github.com/google/uuid"

// ActionType identifies a player-originated game action.
type ActionType string

// action type constants, matching the wire protocol
const (
	ActionDrawDeck    ActionType = "draw_deck"
	ActionDrawDiscard ActionType = "draw_discard"
	ActionDiscard     ActionType = "discard"
	ActionDeclare     ActionType = "declare"
	ActionPass        ActionType = "pass"
)

// GameAction is the inbound action envelope dispatched to the engine.
type GameAction struct {
	RoomID   string     `json:"roomId"`
	PlayerID uuid.UUID  `json:"playerId"`
	Type     ActionType `json:"type"`
	CardID   string     `json:"cardId,omitempty"`
}
