package state

import (
	"github.com/gomlx/exceptions"
	"github.com/onehive/hive/internal/hex"
)

// The frontier is the set of empty cells adjacent to at least one occupied
// cell: the cells a new piece may be placed on (before the own-color filter)
// and the cells crawling pieces slide through. It is maintained incrementally
// by Place and Move rather than recomputed per action.

// Place puts one piece of the given type from the player's reserve on cell c.
//
// It checks the geometric preconditions, that the cell is empty and the
// player still has that piece type in reserve, and panics otherwise. Whether
// c is a legal placement for the player this turn is the caller's business,
// see Board.LegalPlacements and Match.ApplyPlacement.
func (b *Board) Place(c hex.Coord, player PlayerNum, kind PieceType) TileID {
	if !kind.Valid() {
		exceptions.Panicf("Place: invalid piece type %d", uint8(kind))
	}
	if b.HasPiece(c) {
		exceptions.Panicf("Place: cell %s is already occupied", c)
	}
	count := b.Available(player, kind)
	if count == 0 {
		exceptions.Panicf("Place: player %s has no %s left in reserve", player, kind)
	}
	b.tiles = append(b.tiles, Tile{Kind: kind, Owner: player, Color: PieceColors[kind]})
	id := TileID(len(b.tiles) - 1)
	b.cells[c] = id
	b.SetAvailable(player, kind, count-1)
	b.frontierMergeAround(c)
	return id
}

// Move takes the visible tile at from and puts it on cell to.
//
// A beetle leaving a stack uncovers the tile below it, and landing on an
// occupied cell it covers the tile there. It panics when from is empty;
// whether to is a legal destination is the caller's business, see
// Board.Destinations and Match.ApplyMove.
func (b *Board) Move(from, to hex.Coord) {
	id := b.cells[from]
	if id == NoTile {
		exceptions.Panicf("Move: no piece at %s", from)
	}
	mover := b.tileAt(id)
	if mover.Covers != NoTile {
		b.cells[from] = mover.Covers
	} else {
		delete(b.cells, from)
	}
	mover.Covers = b.cells[to]
	b.cells[to] = id

	b.frontierMergeAround(to)
	if !b.HasPiece(from) {
		b.frontier.Insert(from)
		b.frontierPruneAround(from)
	}
}

// frontierMergeAround updates the frontier after cell c became (or stayed)
// occupied: c leaves the frontier and its empty neighbours join it.
func (b *Board) frontierMergeAround(c hex.Coord) {
	delete(b.frontier, c)
	for n := range b.EmptyNeighboursIter(c) {
		b.frontier.Insert(n)
	}
}

// frontierPruneAround drops the empty neighbours of a vacated cell that no
// longer touch the hive. The vacated cell itself always keeps at least one
// occupied neighbour, since no other piece moved, so it stays.
func (b *Board) frontierPruneAround(from hex.Coord) {
	for n := range b.EmptyNeighboursIter(from) {
		if b.countOccupiedNeighbours(n) == 0 {
			delete(b.frontier, n)
		}
	}
}
