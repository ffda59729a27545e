package state

import (
	"context"
	"runtime"

	"github.com/onehive/hive/internal/generics"
	"github.com/onehive/hive/internal/hex"
	"golang.org/x/sync/errgroup"
)

// SnapshotCell describes the visible piece on one occupied cell, plus the
// piece it covers when a beetle is on top of the hive.
type SnapshotCell struct {
	Piece PieceType
	Owner PlayerNum
	Color string

	// Covered is the piece immediately below the visible one, nil when the
	// cell holds a single piece.
	Covered *SnapshotPiece
}

// SnapshotPiece is one piece buried under a beetle.
type SnapshotPiece struct {
	Piece PieceType
	Owner PlayerNum
	Color string
}

// Snapshot maps every occupied cell to what is visible on it. It is detached
// from the match: later actions don't change it.
type Snapshot map[hex.Coord]SnapshotCell

// Snapshot captures the current occupancy of the board for rendering.
func (m *Match) Snapshot() Snapshot {
	snap := make(Snapshot, len(m.board.cells))
	for c, id := range m.board.cells {
		tile := m.board.tiles[id]
		cell := SnapshotCell{Piece: tile.Kind, Owner: tile.Owner, Color: tile.Color}
		if tile.Covers != NoTile {
			under := m.board.tiles[tile.Covers]
			cell.Covered = &SnapshotPiece{Piece: under.Kind, Owner: under.Owner, Color: under.Color}
		}
		snap[c] = cell
	}
	return snap
}

// DestinationHints computes the legal destinations of every selection the
// active player could make right now: one entry per piece type still in
// reserve and one per piece of theirs on the board. The sets are computed
// concurrently, one goroutine per selection; the queries never mutate the
// match, so they are safe to run in parallel as long as the caller doesn't
// apply an action while this runs.
//
// On a finished match it returns an empty map.
func (m *Match) DestinationHints(ctx context.Context) (map[Selection]generics.Set[hex.Coord], error) {
	var selections []Selection
	if !m.status.Finished() {
		for _, kind := range Pieces {
			if m.board.Available(m.active, kind) > 0 {
				selections = append(selections, PlaceSelection(kind))
			}
		}
		for c, id := range m.board.cells {
			if m.board.tiles[id].Owner == m.active {
				selections = append(selections, MoveSelection(c))
			}
		}
	}

	results := make([]generics.Set[hex.Coord], len(selections))
	var wg errgroup.Group
	wg.SetLimit(runtime.GOMAXPROCS(0))
	for ii, sel := range selections {
		wg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			destinations, err := m.LegalDestinations(sel)
			if err != nil {
				return err
			}
			results[ii] = destinations
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}

	hints := make(map[Selection]generics.Set[hex.Coord], len(selections))
	for ii, sel := range selections {
		hints[sel] = results[ii]
	}
	return hints, nil
}
