package state

import (
	"github.com/gomlx/exceptions"
	"github.com/onehive/hive/internal/generics"
	"github.com/onehive/hive/internal/hex"
)

// Destinations returns the cells the visible piece at origin may move to this
// turn. It returns an empty set for a piece that is pinned, either because
// lifting it would split the hive or because it has no freedom to move.
//
// A beetle sitting on top of another tile is exempt from both restrictions:
// it isn't part of the hive's connectivity and it steps over gates. It panics
// if origin holds no piece.
func (b *Board) Destinations(origin hex.Coord) generics.Set[hex.Coord] {
	id := b.cells[origin]
	if id == NoTile {
		exceptions.Panicf("Destinations: no piece at %s", origin)
	}
	tile := b.tiles[id]
	covering := tile.Covers != NoTile
	if !covering && (!b.StaysConnectedWithoutTile(origin) || !b.HasFreedomToMove(origin)) {
		return generics.MakeSet[hex.Coord]()
	}
	switch tile.Kind {
	case QUEEN:
		return b.queenDestinations(origin)
	case SPIDER:
		return b.spiderDestinations(origin)
	case GRASSHOPPER:
		return b.grasshopperDestinations(origin)
	case ANT:
		return b.antDestinations(origin)
	case BEETLE:
		return b.beetleDestinations(origin, covering)
	}
	exceptions.Panicf("Destinations: piece at %s has invalid type %d", origin, uint8(tile.Kind))
	return nil
}

// queenDestinations: one slide to an adjacent frontier cell that isn't a
// closed gate.
func (b *Board) queenDestinations(origin hex.Coord) generics.Set[hex.Coord] {
	destinations := generics.MakeSet[hex.Coord]()
	for n := range b.EmptyNeighboursIter(origin) {
		if b.frontier.Has(n) && !b.IsSpaceSurrounded(n) {
			destinations.Insert(n)
		}
	}
	b.dropDetachedNeighbours(origin, destinations)
	return destinations
}

// spiderDestinations: exactly 3 slide steps along the frontier, never
// revisiting a cell. The cells first reached on the 3rd step are the
// destinations.
func (b *Board) spiderDestinations(origin hex.Coord) generics.Set[hex.Coord] {
	type step struct {
		pos   hex.Coord
		depth int
	}
	destinations := generics.MakeSet[hex.Coord]()
	visited := generics.SetWith(origin)
	queue := []step{{origin, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for n := range b.EmptyNeighboursIter(cur.pos) {
			if visited.Has(n) || !b.frontier.Has(n) {
				continue
			}
			visited.Insert(n)
			if cur.depth == 2 {
				destinations.Insert(n)
			} else {
				queue = append(queue, step{n, cur.depth + 1})
			}
		}
	}
	b.dropDetachedNeighbours(origin, destinations)
	return destinations
}

// grasshopperDestinations: jump over the adjacent line of pieces in each of
// the 6 directions, landing on the first empty cell behind it. At least one
// piece must be jumped over.
func (b *Board) grasshopperDestinations(origin hex.Coord) generics.Set[hex.Coord] {
	destinations := generics.MakeSet[hex.Coord]()
	for _, dir := range hex.Directions {
		pos := origin.Add(dir)
		if !b.HasPiece(pos) {
			continue
		}
		for b.HasPiece(pos) {
			pos = pos.Add(dir)
		}
		destinations.Insert(pos)
	}
	return destinations
}

// antDestinations: anywhere on the frontier that isn't a closed gate.
func (b *Board) antDestinations(origin hex.Coord) generics.Set[hex.Coord] {
	destinations := generics.MakeSet[hex.Coord]()
	for c := range b.frontier {
		if !b.IsSpaceSurrounded(c) {
			destinations.Insert(c)
		}
	}
	b.dropDetachedNeighbours(origin, destinations)
	return destinations
}

// beetleDestinations: one step to any of the 6 neighbours, empty or not. A
// beetle already on top of the hive goes anywhere; one on the ground level
// cannot slide into a closed gate.
func (b *Board) beetleDestinations(origin hex.Coord, covering bool) generics.Set[hex.Coord] {
	destinations := generics.MakeSet[hex.Coord](NumNeighbours)
	destinations.Insert(origin.Neighbours()...)
	if covering {
		return destinations
	}
	for n := range b.EmptyNeighboursIter(origin) {
		if b.IsSpaceSurrounded(n) {
			delete(destinations, n)
		}
	}
	b.dropDetachedNeighbours(origin, destinations)
	return destinations
}

// dropDetachedNeighbours removes from destinations the empty neighbours of
// origin whose only occupied neighbour is the origin itself: once the mover
// leaves, such a cell no longer touches the hive.
func (b *Board) dropDetachedNeighbours(origin hex.Coord, destinations generics.Set[hex.Coord]) {
	for n := range b.EmptyNeighboursIter(origin) {
		if destinations.Has(n) && b.countOccupiedNeighbours(n) <= 1 {
			delete(destinations, n)
		}
	}
}
