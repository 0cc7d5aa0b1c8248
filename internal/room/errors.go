package room

import "errors"

// Registry and roster errors returned to the HTTP/WS boundary.
var (
	// ErrRoomAlreadyExists rejects creating a room whose ID is taken.
	ErrRoomAlreadyExists = errors.New("room already exists")

	// ErrRoomNotFound rejects operations on an unknown room ID.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomFull rejects joining a room at capacity.
	ErrRoomFull = errors.New("room is full")

	// ErrNotEnoughPlayers rejects starting a game with fewer than two
	// players.
	ErrNotEnoughPlayers = errors.New("not enough players to start")

	// ErrGameInProgress rejects starting a game while one is running.
	ErrGameInProgress = errors.New("game already in progress")

	// ErrPlayerNotFound rejects operations naming a player who is not in
	// the room.
	ErrPlayerNotFound = errors.New("player not in room")
)
