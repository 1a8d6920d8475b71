package cube

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfpludwick/machines/internal/geom"
)

var glider = []string{
	".#.",
	"..#",
	"###",
}

func TestParse(t *testing.T) {
	g, err := New3D(glider)
	require.NoError(t, err)

	assert.Equal(t, 9, g.Known())
	assert.Equal(t, 5, g.CountActive())
	assert.Equal(t, 3, g.Dims())
	assert.Equal(t, 0, g.Generation())
	assert.Equal(t, Active, g.State(geom.Point3D{X: 1, Y: 0}))
	assert.Equal(t, Inactive, g.State(geom.Point3D{X: 0, Y: 0}))
	assert.Equal(t, Inactive, g.State(geom.Point3D{X: 9, Y: 9, Z: 9}))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		wantErr error
		wantMsg string
	}{
		{"bad symbol", []string{".#.", ".x."}, ErrInvalidSymbol, "row 2, column 2"},
		{"ragged", []string{".#.", ".#"}, ErrRaggedRows, "row 2 has width 2, expected 3"},
		{"ragged longer", []string{"#", "##"}, ErrRaggedRows, "row 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New3D(tt.rows)
			assert.Nil(t, g)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNewDimensions(t *testing.T) {
	for _, dims := range []int{0, 1, geom.MaxDims + 1} {
		_, err := New(glider, dims)
		assert.ErrorIs(t, err, ErrDimensions, "dims=%d", dims)
	}

	g, err := New(glider, geom.MaxDims)
	require.NoError(t, err)
	assert.Equal(t, geom.MaxDims, g.Dims())
	assert.Equal(t, Active, g.State(geom.NewPointN(2, 2, 0, 0, 0, 0)))
}

func TestEmptyGrid(t *testing.T) {
	g, err := New3D(nil)
	require.NoError(t, err)

	g.Run(3)
	assert.Equal(t, 0, g.Known())
	assert.Equal(t, 0, g.CountActive())
	assert.Equal(t, 3, g.Generation())
}

func TestBoundaryGrowth(t *testing.T) {
	g, err := New3D(glider)
	require.NoError(t, err)

	g.Step()

	// 3x3x1 grows to 5x5x3
	assert.Equal(t, 75, g.Known())

	g.Step()
	assert.Equal(t, 7*7*5, g.Known())
}

func TestKnownNeverShrinks(t *testing.T) {
	g, err := New2D([]string{"#"})
	require.NoError(t, err)

	g.Step()
	assert.Equal(t, 0, g.CountActive())
	assert.Equal(t, 9, g.Known())

	g.Step()
	assert.Equal(t, 25, g.Known())
}

func TestIsolatedCellDies(t *testing.T) {
	for dims := 2; dims <= geom.MaxDims; dims++ {
		g, err := New([]string{"#"}, dims)
		require.NoError(t, err)

		g.Step()
		assert.Equal(t, 0, g.CountActive(), "dims=%d", dims)
	}
}

func TestGlider3D(t *testing.T) {
	g, err := New3D(glider)
	require.NoError(t, err)

	g.Step()
	assert.Equal(t, 11, g.CountActive())

	plane := 0

	for _, p := range g.Active() {
		if p.Z == 0 {
			plane++
		}
	}

	assert.Equal(t, 5, plane)

	g.Run(5)
	assert.Equal(t, 6, g.Generation())
	assert.Equal(t, 112, g.CountActive())
}

func TestGlider4D(t *testing.T) {
	g, err := New4D(glider)
	require.NoError(t, err)

	g.Step()
	assert.Equal(t, 29, g.CountActive())

	g.Run(5)
	assert.Equal(t, 848, g.CountActive())
}

func TestGenericMatchesFixed(t *testing.T) {
	tests := []struct {
		dims int
		want int
	}{
		{3, 112},
		{4, 848},
	}

	for _, tt := range tests {
		g, err := New(glider, tt.dims)
		require.NoError(t, err)

		g.Run(6)
		assert.Equal(t, tt.want, g.CountActive(), "dims=%d", tt.dims)
	}
}

func TestBlinker2D(t *testing.T) {
	g, err := New2D([]string{
		".....",
		"..#..",
		"..#..",
		"..#..",
		".....",
	})
	require.NoError(t, err)

	g.Step()
	assert.Equal(t, []geom.Point2D{{X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}}, g.Active())

	g.Step()
	assert.Equal(t, []geom.Point2D{{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}}, g.Active())
}

func TestBlockIsFixpoint(t *testing.T) {
	g, err := New2D([]string{"##", "##"})
	require.NoError(t, err)

	before := g.Active()
	g.Run(4)
	assert.Equal(t, before, g.Active())
}

func TestCustomRule(t *testing.T) {
	// Nothing is ever born and nothing survives
	g, err := NewWithRule(glider, 2, Rule{})
	require.NoError(t, err)

	g.Step()
	assert.Equal(t, 0, g.CountActive())

	_, err = NewWithRule(glider, 3, Rule{Birth: []int{-1}})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestRuleString(t *testing.T) {
	assert.Equal(t, "B3/S23", ConwayRule.String())
	assert.Equal(t, "B36/S23", Rule{Birth: []int{3, 6}, Survive: []int{2, 3}}.String())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "inactive", Inactive.String())
	assert.Equal(t, "State(7)", State(7).String())
}

func TestReadRows(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("\n .#.\r\n..#\n\n###\n"))
	require.NoError(t, err)
	assert.Equal(t, glider, rows)
}

func TestWrite(t *testing.T) {
	g, err := New2D(glider)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.Write(&buf))
	assert.Equal(t, "#Life 1.06\n0 2\n1 0\n1 2\n2 1\n2 2\n", buf.String())

	g3, err := New(glider, 3)
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, g3.Write(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "#Cube 3D\n0 2 0\n"))
}
