package state

import (
	"maps"

	"github.com/gomlx/exceptions"
	"github.com/onehive/hive/internal/hex"
)

// StaysConnectedWithoutTile returns whether the hive remains a single
// connected group after lifting the visible tile at c: the one-hive rule a
// non-covering piece must satisfy before it may move.
//
// It flood-fills a scratch copy of the occupancy map with c removed, so the
// board is never mutated and concurrent read-only queries stay safe. It
// panics if c holds no piece.
func (b *Board) StaysConnectedWithoutTile(c hex.Coord) bool {
	if !b.HasPiece(c) {
		exceptions.Panicf("StaysConnectedWithoutTile: no piece at %s", c)
	}
	scratch := maps.Clone(b.cells)
	delete(scratch, c)
	if len(scratch) == 0 {
		return true
	}

	// Flood-fill from any one occupied neighbour of the lifted tile,
	// deleting reached cells. The hive is whole iff nothing is left over.
	var stack []hex.Coord
	for n := range c.NeighboursIter() {
		if _, found := scratch[n]; found {
			stack = append(stack, n)
			delete(scratch, n)
			break
		}
	}
	if len(stack) == 0 {
		// The lifted tile had no neighbours but other tiles remain.
		return false
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for n := range cur.NeighboursIter() {
			if _, found := scratch[n]; found {
				delete(scratch, n)
				stack = append(stack, n)
			}
		}
	}
	return len(scratch) == 0
}

// HasFreedomToMove returns whether the piece at c can physically slide out of
// its cell: at most 4 of its 6 neighbours are occupied. With 5 or 6 occupied
// neighbours the piece is pinned in place.
func (b *Board) HasFreedomToMove(c hex.Coord) bool {
	return !b.IsSpaceSurrounded(c)
}

// IsSpaceSurrounded returns whether more than 4 of the 6 neighbours of c are
// occupied. Such a cell acts as a closed gate: crawling pieces cannot slide
// into it.
func (b *Board) IsSpaceSurrounded(c hex.Coord) bool {
	return b.countOccupiedNeighbours(c) > 4
}
