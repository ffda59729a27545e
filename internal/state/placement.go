package state

import (
	"maps"

	"github.com/onehive/hive/internal/generics"
	"github.com/onehive/hive/internal/hex"
)

// InitialPos is the single cell offered for the very first placement of a
// match. It is never stored: an empty board has an empty frontier, and the
// seed is produced on demand.
var InitialPos = hex.Coord{0, 0}

// LegalPlacements returns the cells the given player may place a new piece
// on. On an empty board that is just InitialPos. During the opening round,
// while the turn counter is still 0, both players may use the whole
// frontier. From then on a placement cell must also touch at least one
// visible piece of the placing player.
func (b *Board) LegalPlacements(player PlayerNum, opening bool) generics.Set[hex.Coord] {
	if b.Empty() {
		return generics.SetWith(InitialPos)
	}
	if opening {
		return maps.Clone(b.frontier)
	}
	placements := generics.MakeSet[hex.Coord]()
	for c := range b.frontier {
		for n := range b.OccupiedNeighboursIter(c) {
			if b.tiles[b.cells[n]].Owner == player {
				placements.Insert(c)
				break
			}
		}
	}
	return placements
}
