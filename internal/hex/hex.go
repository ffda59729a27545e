// Package hex implements axial coordinates for the hexagonal grid the game
// is played on, along with the small amount of geometry the engine and the
// UIs need: neighbourhoods, ordering, distances and the conversion from
// pixel space used to resolve pointer positions.
//
// Coordinates are axial (q, r) on a flat-top hexagonal grid, unbounded in
// every direction. There is no third cube axis stored anywhere, it is always
// derived as s = -q-r when needed.
package hex

import (
	"fmt"
	"iter"
	"slices"

	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Coord packages the axial (q, r) coordinate of one cell.
type Coord [2]int8

// Directions are the 6 neighbour offsets, in clockwise order starting at the
// top. Adding the same direction repeatedly walks a straight line, which is
// what grasshopper jumps rely on.
var Directions = [6]Coord{{0, -1}, {1, -1}, {1, 0}, {0, 1}, {-1, 1}, {-1, 0}}

// Q returns the axial column of the coordinate.
func (c Coord) Q() int8 { return c[0] }

// R returns the axial row of the coordinate.
func (c Coord) R() int8 { return c[1] }

func (c Coord) String() string { return fmt.Sprintf("(%d, %d)", c[0], c[1]) }

// Add returns the coordinate translated by o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c[0] + o[0], c[1] + o[1]}
}

// Neighbours returns the 6 cells adjacent to c, in clockwise order.
func (c Coord) Neighbours() []Coord {
	neighbours := make([]Coord, 0, len(Directions))
	for _, dir := range Directions {
		neighbours = append(neighbours, c.Add(dir))
	}
	return neighbours
}

// NeighboursIter iterates over the 6 cells adjacent to c, in clockwise order,
// without allocating.
func (c Coord) NeighboursIter() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for _, dir := range Directions {
			if !yield(c.Add(dir)) {
				return
			}
		}
	}
}

// Cmp orders coordinates by q first and r second. It returns -1, 0 or +1,
// and is suitable for slices.SortFunc.
func (c Coord) Cmp(o Coord) int {
	if c[0] != o[0] {
		if c[0] < o[0] {
			return -1
		}
		return 1
	}
	if c[1] != o[1] {
		if c[1] < o[1] {
			return -1
		}
		return 1
	}
	return 0
}

// Sort sorts coordinates in place, by q first and r second.
func Sort(coords []Coord) {
	slices.SortFunc(coords, Coord.Cmp)
}

// Abs works for any signed numeric type.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Distance returns the number of steps between a and b on the grid.
func Distance(a, b Coord) int {
	dq := int(a[0]) - int(b[0])
	dr := int(a[1]) - int(b[1])
	return (Abs(dq) + Abs(dr) + Abs(dq+dr)) / 2
}

// Round maps fractional axial coordinates to the cell that contains them,
// using cube rounding: each cube axis is rounded independently, and the one
// with the largest rounding error is recomputed from the other two so the
// cube constraint q+r+s=0 still holds.
func Round(q, r float32) Coord {
	s := -q - r
	rq, rr, rs := math32.Round(q), math32.Round(r), math32.Round(s)
	qDiff, rDiff, sDiff := math32.Abs(rq-q), math32.Abs(rr-r), math32.Abs(rs-s)
	if qDiff > rDiff && qDiff > sDiff {
		rq = -rr - rs
	} else if rDiff > sDiff {
		rr = -rq - rs
	}
	// When the s axis has the largest error only s would be recomputed, and
	// the axial result doesn't carry it.
	return Coord{int8(rq), int8(rr)}
}

// FromPixel returns the cell under the pixel position (x, y), for flat-top
// hexagons of the given size (the distance from the center to any corner).
func FromPixel(x, y, size float32) Coord {
	q := (x / size) * 2 / 3
	r := (-x/3 + math32.Sqrt(3)/3*y) / size
	return Round(q, r)
}

// ToPixel returns the pixel position of the center of cell c, for flat-top
// hexagons of the given size. It is the inverse of FromPixel.
func ToPixel(c Coord, size float32) (x, y float32) {
	x = size * 3 / 2 * float32(c[0])
	y = size * (math32.Sqrt(3)/2*float32(c[0]) + math32.Sqrt(3)*float32(c[1]))
	return
}

// ToDisplay converts c to the display coordinate used by UIs that render the
// grid as staggered rows: the column is q unchanged, and the row is shifted
// down by half the column so the hive doesn't shear sideways on screen.
func (c Coord) ToDisplay() Coord {
	return Coord{c[0], c[1] + c[0]>>1}
}

// FromDisplay converts a display coordinate back to the axial coordinate.
// It is the inverse of ToDisplay.
func (c Coord) FromDisplay() Coord {
	return Coord{c[0], c[1] - c[0]>>1}
}
