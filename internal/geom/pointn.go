package geom

import (
	"fmt"
	"strings"
)

// MaxDims is the largest dimension count a PointN can carry.
const MaxDims = 6

// PointN is a point with a dimension count chosen at run time. Components past
// the dimension count are always zero, so two points compare equal exactly when
// their dimension counts and coordinates match.
type PointN struct {
	dims int
	c    [MaxDims]int
}

// Neighbor offsets by dimension count, built once in init
var offsetTable [MaxDims + 1][][MaxDims]int

func init() {
	for dims := 1; dims <= MaxDims; dims++ {
		offsetTable[dims] = buildOffsets(dims)
	}
}

// Counts through {-1,0,1}^dims like an odometer, skipping the all-zero tuple
func buildOffsets(dims int) [][MaxDims]int {
	total := 1

	for i := 0; i < dims; i++ {
		total *= 3
	}

	offsets := make([][MaxDims]int, 0, total-1)

	for n := 0; n < total; n++ {
		var offset [MaxDims]int
		zero := true
		rest := n

		for i := dims - 1; i >= 0; i-- {
			offset[i] = rest%3 - 1
			rest /= 3

			if offset[i] != 0 {
				zero = false
			}
		}

		if !zero {
			offsets = append(offsets, offset)
		}
	}

	return offsets
}

// NewPointN builds a point from its coordinates. It panics when given no
// coordinates or more than MaxDims of them.
func NewPointN(coords ...int) PointN {
	if len(coords) < 1 || len(coords) > MaxDims {
		panic(fmt.Sprintf("geom: PointN needs 1..%d coordinates, got %d", MaxDims, len(coords)))
	}

	p := PointN{dims: len(coords)}
	copy(p.c[:], coords)

	return p
}

// Offsets returns the 3^dims-1 non-zero offsets in ascending lexicographic
// order. It returns nil for an unsupported dimension count.
func Offsets(dims int) [][]int {
	if dims < 1 || dims > MaxDims {
		return nil
	}

	out := make([][]int, len(offsetTable[dims]))

	for i, offset := range offsetTable[dims] {
		out[i] = append([]int(nil), offset[:dims]...)
	}

	return out
}

// Dims returns the number of coordinates.
func (p PointN) Dims() int {
	return p.dims
}

// Coords returns a copy of the coordinates.
func (p PointN) Coords() []int {
	return append([]int(nil), p.c[:p.dims]...)
}

// Neighbors returns every point at Chebyshev distance 1.
func (p PointN) Neighbors() []PointN {
	offsets := offsetTable[p.dims]
	neighbors := make([]PointN, len(offsets))

	for i, offset := range offsets {
		n := p

		for d := 0; d < p.dims; d++ {
			n.c[d] += offset[d]
		}

		neighbors[i] = n
	}

	return neighbors
}

func (p PointN) String() string {
	parts := make([]string, p.dims)

	for i := 0; i < p.dims; i++ {
		parts[i] = fmt.Sprint(p.c[i])
	}

	return "(" + strings.Join(parts, ", ") + ")"
}
