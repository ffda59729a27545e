package state

import "github.com/pkg/errors"

// Rule violations returned by Match.ApplyPlacement and Match.ApplyMove. They
// all leave the match untouched, so the caller can report the problem and let
// the player pick another action. Use errors.Is to classify the wrapped
// errors the methods return.
var (
	// ErrIllegalDestination flags a destination outside the legal set of the
	// selection: a placement off the allowed cells, a move the piece cannot
	// make, or a placement of a piece type with none left in reserve.
	ErrIllegalDestination = errors.New("illegal destination")

	// ErrQueenNotYetPlaced flags actions forbidden while the player's queen
	// is in reserve: moving any piece, or placing anything but the queen on
	// the player's 4th turn.
	ErrQueenNotYetPlaced = errors.New("queen not yet placed")

	// ErrWrongPlayerOrTurn flags a move selection of an empty cell or of a
	// piece the active player doesn't own.
	ErrWrongPlayerOrTurn = errors.New("wrong player or turn")

	// ErrGameAlreadyTerminal flags any action after the match reached a
	// terminal status.
	ErrGameAlreadyTerminal = errors.New("game already terminal")
)
