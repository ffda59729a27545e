// Package statetest provides helper functions to create tests using the game state.
package statetest

import (
	"github.com/onehive/hive/internal/generics"
	"github.com/onehive/hive/internal/hex"
	. "github.com/onehive/hive/internal/state"
	"github.com/pkg/errors"
)

// PieceOnBoard represents the position and ownership of one piece on the board.
type PieceOnBoard struct {
	Pos    hex.Coord
	Player PlayerNum
	Piece  PieceType
}

// BuildBoard from a collection of pieces, placed in order. The layout must
// respect each player's reserve, Place panics otherwise. Stacks are built by
// placing a beetle next to its victim and calling Board.Move.
func BuildBoard(layout []PieceOnBoard) (b *Board) {
	b = NewBoard()
	for _, p := range layout {
		b.Place(p.Pos, p.Player, p.Piece)
	}
	return
}

// Step is one scripted action, applied through the match interface so the
// whole turn machine runs: placements and moves alternate players exactly as
// they would in a real game.
type Step struct {
	Place bool
	Piece PieceType
	From  hex.Coord
	To    hex.Coord
}

// PlaceStep scripts a placement of the given piece type on cell to.
func PlaceStep(kind PieceType, to hex.Coord) Step {
	return Step{Place: true, Piece: kind, To: to}
}

// MoveStep scripts a move of the visible piece at from to cell to.
func MoveStep(from, to hex.Coord) Step {
	return Step{From: from, To: to}
}

// BuildMatch plays the scripted steps on a fresh match. It returns the match
// and the first rule violation hit, with the match left at the failing step.
func BuildMatch(script []Step) (*Match, error) {
	m := NewMatch("", "")
	for ii, s := range script {
		var err error
		if s.Place {
			err = m.ApplyPlacement(s.Piece, s.To)
		} else {
			err = m.ApplyMove(s.From, s.To)
		}
		if err != nil {
			return m, errors.WithMessagef(err, "script step #%d (%+v)", ii, s)
		}
	}
	return m, nil
}

// RecomputeFrontier derives the frontier from scratch: every empty cell
// adjacent to at least one occupied cell. Tests compare it against the
// incrementally maintained Board.Frontier.
func RecomputeFrontier(b *Board) generics.Set[hex.Coord] {
	frontier := generics.MakeSet[hex.Coord]()
	for c := range b.OccupiedPositionsIter() {
		for n := range b.EmptyNeighboursIter(c) {
			frontier.Insert(n)
		}
	}
	return frontier
}

// IsHiveConnected floods from an arbitrary occupied cell and reports whether
// every occupied cell was reached. An empty board counts as connected.
func IsHiveConnected(b *Board) bool {
	occupied := b.OccupiedPositions()
	if len(occupied) == 0 {
		return true
	}
	reached := generics.SetWith(occupied[0])
	stack := []hex.Coord{occupied[0]}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for n := range b.OccupiedNeighboursIter(cur) {
			if !reached.Has(n) {
				reached.Insert(n)
				stack = append(stack, n)
			}
		}
	}
	return len(reached) == len(occupied)
}
