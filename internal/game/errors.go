package game

import "errors"

// Validation errors surfaced to the boundary adapter. All of them are
// recoverable: the offending action is rejected and the game state is left
// untouched.
var (
	// ErrNotYourTurn rejects an action from anyone but the current player.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrCannotDraw rejects a draw from an empty pile, or a second draw in
	// the same turn.
	ErrCannotDraw = errors.New("cannot draw from that pile")

	// ErrMustDrawFirst rejects a discard before the player has drawn.
	ErrMustDrawFirst = errors.New("must draw a card before discarding")

	// ErrCardNotFound rejects a discard of a card the player does not hold.
	ErrCardNotFound = errors.New("card not found in hand")

	// ErrCannotShowFirstRound rejects a declare in the first round by a
	// player who has not yet completed a draw and discard.
	ErrCannotShowFirstRound = errors.New("cannot show in the first round without playing a turn")

	// ErrUnknownAction rejects an unrecognized action type.
	ErrUnknownAction = errors.New("unknown action type")

	// ErrGameEnded rejects any action once the game is over.
	ErrGameEnded = errors.New("game has already ended")
)
