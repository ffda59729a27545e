// Package state holds the full game state of a match and implements the rules
// of the game: placement, movement per piece type, the hive connectivity and
// freedom-to-move restrictions, the queen deadline and the end-of-game
// conditions.
//
// The Board is the positional state (which tile sits on which cell, what each
// player still has in reserve) and the Match wraps it with the turn machine:
// whose turn it is, the turn counter and the terminal status.
package state

import (
	"fmt"
	"iter"
	"maps"

	"github.com/gomlx/exceptions"
	"github.com/onehive/hive/internal/generics"
	"github.com/onehive/hive/internal/hex"
)

var _ = fmt.Print

// PieceType currently limited to the 5 basic types plus a NoPiece, the null value.
type PieceType uint8

const (
	NoPiece PieceType = iota
	ANT
	BEETLE
	GRASSHOPPER
	QUEEN
	SPIDER
	LastPiece
)

const (
	// NumPlayers currently limited to 2.
	NumPlayers = 2

	// NumNeighbours of each cell: the board is hexagonal.
	NumNeighbours = 6

	// NumPieceTypes doesn't include the NoPiece type.
	NumPieceTypes = LastPiece - 1
)

// PlayerNum is either 0 or 1, corresponding to the first player to move or the second player to move.
type PlayerNum uint8

const (
	PlayerFirst PlayerNum = iota
	PlayerSecond

	// PlayerInvalid represents an invalid PlayerNum.
	PlayerInvalid
)

//go:generate go tool enumer -type=PlayerNum -trimprefix=Player -values -text -json -yaml state.go

// Opponent returns the other player.
func (p PlayerNum) Opponent() PlayerNum {
	return 1 - p
}

var (
	PieceLetters  = [LastPiece]string{"-", "A", "B", "G", "Q", "S"}
	LetterToPiece = map[string]PieceType{"A": ANT, "B": BEETLE, "G": GRASSHOPPER, "Q": QUEEN, "S": SPIDER}
	PieceNames    = [LastPiece]string{
		"None", "Ant", "Beetle", "Grasshopper", "Queen", "Spider",
	}

	// Pieces enumerates all the pieces, skipping the "NoPiece".
	Pieces = [NumPieceTypes]PieceType{ANT, BEETLE, GRASSHOPPER, QUEEN, SPIDER}

	// PieceColors tints each piece type on UIs, as ANSI 256-color codes.
	PieceColors = [LastPiece]string{"", "27", "129", "22", "208", "94"}
)

// String returns the long piece name.
func (p PieceType) String() string {
	return PieceNames[p]
}

// Valid returns whether p is one of the 5 playable piece types.
func (p PieceType) Valid() bool {
	return p > NoPiece && p < LastPiece
}

// GameStatus of a match: still running, or one of the 3 terminal outcomes.
type GameStatus uint8

const (
	StatusRunning GameStatus = iota
	StatusFirstWon
	StatusSecondWon
	StatusDraw
)

var gameStatusNames = [4]string{"Running", "FirstPlayerWon", "SecondPlayerWon", "Draw"}

func (s GameStatus) String() string {
	return gameStatusNames[s]
}

// Finished returns whether the status is one of the terminal outcomes.
func (s GameStatus) Finished() bool {
	return s != StatusRunning
}

// Winner returns the winning player, or PlayerInvalid if the match is still
// running or ended in a draw.
func (s GameStatus) Winner() PlayerNum {
	switch s {
	case StatusFirstWon:
		return PlayerFirst
	case StatusSecondWon:
		return PlayerSecond
	}
	return PlayerInvalid
}

// Availability represents the number of each piece type available to a player to put on the board.
type Availability [NumPieceTypes]uint8

// InitialAvailability at the start of a match. See also TotalPiecesPerPlayer.
var InitialAvailability = Availability{3, 2, 3, 1, 2}

// TotalPiecesPerPlayer is the sum of the InitialAvailability.
const TotalPiecesPerPlayer = 11

// Count total number of pieces available.
func (a Availability) Count() (count uint8) {
	count = 0
	for _, value := range a {
		count += value
	}
	return
}

// TileID indexes one placed tile in the Board's arena. The zero value NoTile
// means no tile, so valid ids start at 1.
type TileID uint8

// NoTile is the null TileID.
const NoTile TileID = 0

// Tile is one physical piece placed on the board. Tiles never leave the
// arena once placed, they only change cell.
type Tile struct {
	Kind  PieceType
	Owner PlayerNum

	// Color used to draw the tile, fixed at placement from PieceColors.
	Color string

	// Covers is the id of the tile immediately below this one, when a beetle
	// sits on top of the hive. NoTile otherwise.
	Covers TileID
}

// Board is the positional state of a match: the tiles placed so far, which
// cell each visible tile occupies, the frontier of empty cells hugging the
// hive and the per-player reserve of unplaced pieces.
//
// Cells only track the visible (topmost) tile; tiles buried under a beetle
// are reachable through the Covers chain.
type Board struct {
	available [NumPlayers]Availability
	tiles     []Tile
	cells     map[hex.Coord]TileID
	frontier  generics.Set[hex.Coord]
}

// NewBoard creates a new empty board, with the correct initial number of pieces.
func NewBoard() *Board {
	return &Board{
		available: [NumPlayers]Availability{
			InitialAvailability, InitialAvailability},
		tiles:    make([]Tile, 1), // Id 0 is reserved for NoTile.
		cells:    make(map[hex.Coord]TileID),
		frontier: generics.MakeSet[hex.Coord](),
	}
}

// Available returns how many pieces of the given type are available for the given player.
func (b *Board) Available(player PlayerNum, piece PieceType) uint8 {
	return b.available[player][piece-1]
}

// SetAvailable sets the number of pieces available for the given type for the
// given player.
func (b *Board) SetAvailable(player PlayerNum, piece PieceType, value uint8) {
	b.available[player][piece-1] = value
}

// Remaining returns the full reserve of the given player.
func (b *Board) Remaining(player PlayerNum) Availability {
	return b.available[player]
}

// HasPlacedQueen returns whether the player's queen is already on the board.
func (b *Board) HasPlacedQueen(player PlayerNum) bool {
	return b.Available(player, QUEEN) == 0
}

// Empty returns whether no tile has been placed yet.
func (b *Board) Empty() bool {
	return len(b.cells) == 0
}

// NumTiles returns how many tiles have been placed so far, including the ones
// buried under beetles.
func (b *Board) NumTiles() int {
	return len(b.tiles) - 1
}

// tileAt returns a pointer to the tile with the given id, for mutation.
func (b *Board) tileAt(id TileID) *Tile {
	if id == NoTile || int(id) >= len(b.tiles) {
		exceptions.Panicf("invalid TileID %d, board has %d tiles", id, len(b.tiles)-1)
	}
	return &b.tiles[id]
}

// HasPiece returns whether there is a piece on the given cell of the board.
func (b *Board) HasPiece(c hex.Coord) bool {
	return b.cells[c] != NoTile
}

// PieceAt returns the owner and type of the visible piece on the given cell,
// and whether it sits on top of another piece. It returns PlayerInvalid and
// NoPiece for empty cells.
func (b *Board) PieceAt(c hex.Coord) (player PlayerNum, piece PieceType, stacked bool) {
	id := b.cells[c]
	if id == NoTile {
		return PlayerInvalid, NoPiece, false
	}
	tile := b.tiles[id]
	return tile.Owner, tile.Kind, tile.Covers != NoTile
}

// VisibleTile returns the topmost tile on the given cell.
func (b *Board) VisibleTile(c hex.Coord) (Tile, bool) {
	id := b.cells[c]
	if id == NoTile {
		return Tile{}, false
	}
	return b.tiles[id], true
}

// CoveredTile returns the tile immediately below the visible one on the given
// cell, when a beetle is on top of it.
func (b *Board) CoveredTile(c hex.Coord) (Tile, bool) {
	id := b.cells[c]
	if id == NoTile || b.tiles[id].Covers == NoTile {
		return Tile{}, false
	}
	return b.tiles[b.tiles[id].Covers], true
}

// OccupiedPositions returns all the cells with a visible tile.
func (b *Board) OccupiedPositions() []hex.Coord {
	positions := make([]hex.Coord, 0, len(b.cells))
	for c := range b.cells {
		positions = append(positions, c)
	}
	return positions
}

// OccupiedPositionsIter iterates over all the cells with a visible tile.
func (b *Board) OccupiedPositionsIter() iter.Seq[hex.Coord] {
	return maps.Keys(b.cells)
}

// Frontier returns the set of empty cells adjacent to at least one occupied
// cell. Callers must not modify it. It is kept incrementally up to date by
// Place and Move.
func (b *Board) Frontier() generics.Set[hex.Coord] {
	return b.frontier
}

// iterFilter returns an iterator that only iterates over the values for which
// the filterFn returns true.
func iterFilter[V any](seq iter.Seq[V], filterFn func(v V) bool) iter.Seq[V] {
	return func(yield func(V) bool) {
		for v := range seq {
			if filterFn(v) {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// FilterCoords filters the given coordinates according to the given filter.
// It destroys the contents of the provided slice and reuses the allocated
// space for the returned slice.
func FilterCoords(coords []hex.Coord, filter func(c hex.Coord) bool) (filtered []hex.Coord) {
	filtered = coords[:0]
	for _, c := range coords {
		if filter(c) {
			filtered = append(filtered, c)
		}
	}
	return
}

// OccupiedNeighbours returns the neighbouring cells holding at least one piece.
func (b *Board) OccupiedNeighbours(c hex.Coord) (positions []hex.Coord) {
	positions = c.Neighbours()
	positions = FilterCoords(positions, func(p hex.Coord) bool { return b.HasPiece(p) })
	return
}

// OccupiedNeighboursIter iterates over the occupied neighbours.
func (b *Board) OccupiedNeighboursIter(c hex.Coord) iter.Seq[hex.Coord] {
	return iterFilter(c.NeighboursIter(), func(p hex.Coord) bool { return b.HasPiece(p) })
}

// EmptyNeighbours returns the neighbouring cells holding no piece.
func (b *Board) EmptyNeighbours(c hex.Coord) (positions []hex.Coord) {
	positions = c.Neighbours()
	positions = FilterCoords(positions, func(p hex.Coord) bool { return !b.HasPiece(p) })
	return
}

// EmptyNeighboursIter iterates over the empty neighbours.
func (b *Board) EmptyNeighboursIter(c hex.Coord) iter.Seq[hex.Coord] {
	return iterFilter(c.NeighboursIter(), func(p hex.Coord) bool { return !b.HasPiece(p) })
}

// PlayerNeighbours returns the neighbouring cells whose visible piece belongs
// to the given player.
func (b *Board) PlayerNeighbours(player PlayerNum, c hex.Coord) (positions []hex.Coord) {
	positions = c.Neighbours()
	positions = FilterCoords(positions, func(p hex.Coord) bool {
		posPlayer, piece, _ := b.PieceAt(p)
		return piece != NoPiece && player == posPlayer
	})
	return
}

// countOccupiedNeighbours of the given cell, without allocating.
func (b *Board) countOccupiedNeighbours(c hex.Coord) (count int) {
	for n := range c.NeighboursIter() {
		if b.HasPiece(n) {
			count++
		}
	}
	return
}
