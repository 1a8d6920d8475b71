// Package cube runs Conway-style cellular automata over a sparse lattice of any
// dimension. A grid starts from a 2-D picture embedded at zero in every higher
// dimension and grows its known region by one cell in every direction each
// generation.
package cube

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rfpludwick/machines/internal/geom"
)

const (
	SymbolActive   = '#'
	SymbolInactive = '.'
)

var (
	ErrInvalidSymbol = errors.New("invalid cell symbol")
	ErrRaggedRows    = errors.New("rows are not all the same width")
	ErrDimensions    = errors.New("unsupported dimension count")
	ErrInvalidRule   = errors.New("invalid rule")
)

// State of a single cell
type State int8

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	default:
		return fmt.Sprintf("State(%d)", int8(s))
	}
}

// Coord is anything the grid can be keyed on: a comparable point that can
// enumerate its neighbors and report its components.
type Coord[P any] interface {
	comparable
	Neighbors() []P
	Coords() []int
}

// Rule decides the next state of a cell from its active neighbor count.
type Rule struct {
	// Neighbor counts at which an inactive cell becomes active
	Birth []int
	// Neighbor counts at which an active cell stays active
	Survive []int
}

// ConwayRule is B3/S23.
var ConwayRule = Rule{Birth: []int{3}, Survive: []int{2, 3}}

// Validate rejects negative neighbor counts.
func (r Rule) Validate() error {
	for _, n := range r.Birth {
		if n < 0 {
			return fmt.Errorf("%w: birth count %d must not be negative", ErrInvalidRule, n)
		}
	}

	for _, n := range r.Survive {
		if n < 0 {
			return fmt.Errorf("%w: survive count %d must not be negative", ErrInvalidRule, n)
		}
	}

	return nil
}

// Returns the state a cell in state s moves to with the supplied number of active neighbors
func (r Rule) next(s State, neighborsActive int) State {
	neighborsCheck := r.Birth

	if s == Active {
		neighborsCheck = r.Survive
	}

	if slices.Contains(neighborsCheck, neighborsActive) {
		return Active
	}

	return Inactive
}

func (r Rule) String() string {
	return "B" + joinInts(r.Birth, "") + "/S" + joinInts(r.Survive, "")
}

// Grid is the sparse automaton state. Every point ever known stays in the
// mapping; cells that die are kept as Inactive.
type Grid[P Coord[P]] struct {
	cells      map[P]State
	rule       Rule
	dims       int
	generation int
}

// Parse builds a grid from rows of '#' and '.' characters. Column x and row y
// of the picture are handed to embed to produce the point for that cell.
func Parse[P Coord[P]](rows []string, embed func(x, y int) P, rule Rule) (*Grid[P], error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	g := &Grid[P]{
		cells: make(map[P]State),
		rule:  rule,
		dims:  len(embed(0, 0).Coords()),
	}

	width := -1

	for y, row := range rows {
		runes := []rune(row)

		if width == -1 {
			width = len(runes)
		} else if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, expected %d", ErrRaggedRows, y+1, len(runes), width)
		}

		for x, r := range runes {
			switch r {
			case SymbolActive:
				g.cells[embed(x, y)] = Active
			case SymbolInactive:
				g.cells[embed(x, y)] = Inactive
			default:
				return nil, fmt.Errorf("%w: %q at row %d, column %d", ErrInvalidSymbol, r, y+1, x+1)
			}
		}
	}

	return g, nil
}

// New builds a grid of any supported dimension count (2 through geom.MaxDims)
// using the Conway rule.
func New(rows []string, dims int) (*Grid[geom.PointN], error) {
	return NewWithRule(rows, dims, ConwayRule)
}

// NewWithRule is New with a rule other than Conway's.
func NewWithRule(rows []string, dims int, rule Rule) (*Grid[geom.PointN], error) {
	if dims < 2 || dims > geom.MaxDims {
		return nil, fmt.Errorf("%w: %d (must be 2 through %d)", ErrDimensions, dims, geom.MaxDims)
	}

	return Parse(rows, func(x, y int) geom.PointN {
		coords := make([]int, dims)
		coords[0], coords[1] = x, y

		return geom.NewPointN(coords...)
	}, rule)
}

// New2D builds a plain Game of Life grid.
func New2D(rows []string) (*Grid[geom.Point2D], error) {
	return Parse(rows, func(x, y int) geom.Point2D { return geom.Point2D{X: x, Y: y} }, ConwayRule)
}

// New3D builds a grid with the picture at z=0.
func New3D(rows []string) (*Grid[geom.Point3D], error) {
	return Parse(rows, func(x, y int) geom.Point3D { return geom.Point3D{X: x, Y: y} }, ConwayRule)
}

// New4D builds a grid with the picture at z=0, w=0.
func New4D(rows []string) (*Grid[geom.Point4D], error) {
	return Parse(rows, func(x, y int) geom.Point4D { return geom.Point4D{X: x, Y: y} }, ConwayRule)
}

// ReadRows splits a picture into rows, trimming whitespace and skipping blank lines.
func ReadRows(r io.Reader) ([]string, error) {
	var rows []string

	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		rows = append(rows, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading grid: %w", err)
	}

	return rows, nil
}

// Step advances the grid by one generation. Every known point first gets its
// missing neighbors stubbed in as Inactive so the frontier is counted; then
// every transition is computed against the pre-step state and committed at once.
func (g *Grid[P]) Step() {
	g.generation++

	// Boundary growth
	var stubs []P

	for p := range g.cells {
		for _, n := range p.Neighbors() {
			if _, ok := g.cells[n]; !ok {
				stubs = append(stubs, n)
			}
		}
	}

	for _, p := range stubs {
		g.cells[p] = Inactive
	}

	// Rule evaluation
	var flips []P

	for p, s := range g.cells {
		if g.rule.next(s, g.activeNeighbors(p)) != s {
			flips = append(flips, p)
		}
	}

	// Commit
	for _, p := range flips {
		if g.cells[p] == Active {
			g.cells[p] = Inactive
		} else {
			g.cells[p] = Active
		}
	}
}

// Run advances the grid by n generations.
func (g *Grid[P]) Run(n int) {
	for i := 0; i < n; i++ {
		g.Step()
	}
}

// Returns how many neighbors of p are active; unknown neighbors count as inactive
func (g *Grid[P]) activeNeighbors(p P) int {
	count := 0

	for _, n := range p.Neighbors() {
		if g.cells[n] == Active {
			count++
		}
	}

	return count
}

// CountActive returns how many points are active.
func (g *Grid[P]) CountActive() int {
	count := 0

	for _, s := range g.cells {
		if s == Active {
			count++
		}
	}

	return count
}

// Known returns how many points the grid tracks, active or not.
func (g *Grid[P]) Known() int {
	return len(g.cells)
}

// State reports the state of p; points the grid has never seen are Inactive.
func (g *Grid[P]) State(p P) State {
	return g.cells[p]
}

// Generation returns how many steps have run.
func (g *Grid[P]) Generation() int {
	return g.generation
}

// Dims returns the dimension count of the grid's points.
func (g *Grid[P]) Dims() int {
	return g.dims
}

// Rule returns the birth/survival rule the grid steps with.
func (g *Grid[P]) Rule() Rule {
	return g.rule
}

// Active returns the active points sorted by their coordinates.
func (g *Grid[P]) Active() []P {
	active := make([]P, 0, len(g.cells))

	for p, s := range g.cells {
		if s == Active {
			active = append(active, p)
		}
	}

	slices.SortFunc(active, func(a, b P) int {
		return slices.Compare(a.Coords(), b.Coords())
	})

	return active
}

// Write outputs the active cells, one per line, sorted. Planar grids use the
// Life 1.06 header; others are headed with their dimension count.
func (g *Grid[P]) Write(w io.Writer) error {
	header := fmt.Sprintf("#Cube %dD", g.dims)

	if g.dims == 2 {
		header = "#Life 1.06"
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, header)

	for _, p := range g.Active() {
		fmt.Fprintln(bw, joinInts(p.Coords(), " "))
	}

	return bw.Flush()
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))

	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}

	return strings.Join(parts, sep)
}
