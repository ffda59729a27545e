package state_test

import (
	"maps"
	"slices"
	"testing"

	"github.com/onehive/hive/internal/generics"
	"github.com/onehive/hive/internal/hex"
	. "github.com/onehive/hive/internal/state"
	. "github.com/onehive/hive/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sortedDestinations returns the destinations of the piece at origin in
// q-then-r order, so tests can compare against literal slices.
func sortedDestinations(board *Board, origin hex.Coord) []hex.Coord {
	destinations := slices.Collect(maps.Keys(board.Destinations(origin)))
	hex.Sort(destinations)
	return destinations
}

func sorted(coords []hex.Coord) []hex.Coord {
	hex.Sort(coords)
	return coords
}

func TestQueenDestinations(t *testing.T) {
	// A straight chain with a queen on each end: every queen slides around
	// its neighbour, to the two cells hugging it. The cells straight ahead
	// would detach from the hive and are excluded.
	layout := []PieceOnBoard{
		{Pos: hex.Coord{0, 0}, Player: PlayerSecond, Piece: QUEEN},
		{Pos: hex.Coord{1, 0}, Player: PlayerFirst, Piece: SPIDER},
		{Pos: hex.Coord{2, 0}, Player: PlayerFirst, Piece: QUEEN},
	}
	board := BuildBoard(layout)

	wantPerQueen := []generics.Pair[hex.Coord, []hex.Coord]{
		{A: hex.Coord{2, 0}, B: []hex.Coord{{1, 1}, {2, -1}}},
		{A: hex.Coord{0, 0}, B: []hex.Coord{{0, 1}, {1, -1}}},
	}
	for _, pair := range wantPerQueen {
		require.Equalf(t, sorted(pair.B), sortedDestinations(board, pair.A),
			"queen at %s", pair.A)
	}
}

func TestQueenPinnedByConnectivity(t *testing.T) {
	// A queen in the middle of a chain cannot move: lifting it splits the hive.
	layout := []PieceOnBoard{
		{Pos: hex.Coord{0, 0}, Player: PlayerFirst, Piece: ANT},
		{Pos: hex.Coord{1, 0}, Player: PlayerFirst, Piece: QUEEN},
		{Pos: hex.Coord{2, 0}, Player: PlayerSecond, Piece: QUEEN},
	}
	board := BuildBoard(layout)
	assert.Empty(t, sortedDestinations(board, hex.Coord{1, 0}))
}

func TestSpiderDestinations(t *testing.T) {
	// A straight 5-tile chain with a spider on one end: 3 slide steps along
	// the hive's perimeter, no less, no more. The two reachable cells sit at
	// grid distance exactly 3 from the origin.
	layout := []PieceOnBoard{
		{Pos: hex.Coord{0, 0}, Player: PlayerFirst, Piece: QUEEN},
		{Pos: hex.Coord{1, 0}, Player: PlayerSecond, Piece: QUEEN},
		{Pos: hex.Coord{2, 0}, Player: PlayerFirst, Piece: GRASSHOPPER},
		{Pos: hex.Coord{3, 0}, Player: PlayerSecond, Piece: GRASSHOPPER},
		{Pos: hex.Coord{4, 0}, Player: PlayerFirst, Piece: SPIDER},
	}
	board := BuildBoard(layout)

	origin := hex.Coord{4, 0}
	got := sortedDestinations(board, origin)
	require.Equal(t, []hex.Coord{{1, 1}, {2, -1}}, got)
	for _, dst := range got {
		assert.Equalf(t, 3, hex.Distance(origin, dst), "spider destination %s", dst)
	}
}

func TestGrasshopperDestinations(t *testing.T) {
	// Jumps over the line of pieces next to it and lands on the first empty
	// cell: from (-1, 0) over (0, 0) and (1, 0), exactly onto (2, 0).
	layout := []PieceOnBoard{
		{Pos: hex.Coord{-1, 0}, Player: PlayerFirst, Piece: GRASSHOPPER},
		{Pos: hex.Coord{0, 0}, Player: PlayerFirst, Piece: QUEEN},
		{Pos: hex.Coord{1, 0}, Player: PlayerSecond, Piece: QUEEN},
	}
	board := BuildBoard(layout)
	require.Equal(t, []hex.Coord{{2, 0}}, sortedDestinations(board, hex.Coord{-1, 0}))
}

func TestGrasshopperPinnedWithoutFreedom(t *testing.T) {
	// 5 of the grasshopper's 6 neighbours are occupied: no freedom to move,
	// so not even the jump is available.
	layout := []PieceOnBoard{
		{Pos: hex.Coord{0, 0}, Player: PlayerFirst, Piece: GRASSHOPPER},
		{Pos: hex.Coord{0, -1}, Player: PlayerSecond, Piece: QUEEN},
		{Pos: hex.Coord{1, -1}, Player: PlayerFirst, Piece: QUEEN},
		{Pos: hex.Coord{1, 0}, Player: PlayerSecond, Piece: ANT},
		{Pos: hex.Coord{0, 1}, Player: PlayerFirst, Piece: ANT},
		{Pos: hex.Coord{-1, 1}, Player: PlayerSecond, Piece: ANT},
	}
	board := BuildBoard(layout)
	assert.Empty(t, sortedDestinations(board, hex.Coord{0, 0}))
}

func TestAntDestinations(t *testing.T) {
	// The ant crawls to any frontier cell of the hive it leaves behind,
	// except the cells that would detach next to its origin.
	layout := []PieceOnBoard{
		{Pos: hex.Coord{0, 1}, Player: PlayerFirst, Piece: ANT},
		{Pos: hex.Coord{0, 0}, Player: PlayerFirst, Piece: QUEEN},
		{Pos: hex.Coord{1, -1}, Player: PlayerSecond, Piece: QUEEN},
	}
	board := BuildBoard(layout)

	want := []hex.Coord{
		{-1, 0}, {-1, 1}, {0, -1}, {1, -2}, {1, 0}, {2, -2}, {2, -1},
	}
	require.Equal(t, want, sortedDestinations(board, hex.Coord{0, 1}))
}

func TestBeetleDestinations(t *testing.T) {
	layout := []PieceOnBoard{
		{Pos: hex.Coord{0, 1}, Player: PlayerFirst, Piece: BEETLE},
		{Pos: hex.Coord{0, 0}, Player: PlayerSecond, Piece: QUEEN},
		{Pos: hex.Coord{1, -1}, Player: PlayerFirst, Piece: QUEEN},
	}
	board := BuildBoard(layout)

	// On the ground the beetle steps to adjacent cells, including climbing
	// onto the queen, but not onto empty cells that would detach.
	want := []hex.Coord{{-1, 1}, {0, 0}, {1, 0}}
	require.Equal(t, want, sortedDestinations(board, hex.Coord{0, 1}))

	// Climb on top of the queen: now it moves anywhere adjacent, the
	// one-hive and freedom checks don't apply on top of the hive.
	board.Move(hex.Coord{0, 1}, hex.Coord{0, 0})
	_, piece, stacked := board.PieceAt(hex.Coord{0, 0})
	require.Equal(t, BEETLE, piece)
	require.True(t, stacked)

	want = sorted(hex.Coord{0, 0}.Neighbours())
	require.Equal(t, want, sortedDestinations(board, hex.Coord{0, 0}))
}

func TestDestinationsPanicsOnEmptyCell(t *testing.T) {
	board := BuildBoard([]PieceOnBoard{
		{Pos: hex.Coord{0, 0}, Player: PlayerFirst, Piece: QUEEN},
	})
	require.Panics(t, func() {
		board.Destinations(hex.Coord{5, 5})
	})
}

func BenchmarkDestinations(b *testing.B) {
	board, _ := convertTextToBoard(benchmarkBoardText)
	positions := board.OccupiedPositions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, pos := range positions {
			_ = board.Destinations(pos)
		}
	}
}
