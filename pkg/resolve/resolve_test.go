package resolve

import (
	"fmt"
	"testing"

	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ref string

func (r ref) ElementID() string { return string(r) }

func el(id string, left, top, w, h float64) registry.FocusableElement {
	return registry.FocusableElement{
		Ref:   ref(id),
		Box:   geom.Rect{Left: left, Top: top, Width: w, Height: h},
		Props: registry.Properties{Role: registry.RoleButton},
	}
}

// grid builds rows×cols 40x20 cells with 10 units of gap, row-major.
func grid(rows, cols int) []registry.FocusableElement {
	var out []registry.FocusableElement
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, el(fmt.Sprintf("r%dc%d", r, c), float64(c*50), float64(r*30), 40, 20))
		}
	}
	return out
}

func TestTwoButtonsStackedDown(t *testing.T) {
	elements := []registry.FocusableElement{
		el("A", 0, 0, 50, 20),
		el("B", 0, 100, 50, 20),
	}
	idx, ok := Resolve(elements, 0, geom.Down)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestSingleElementStaysPut(t *testing.T) {
	elements := []registry.FocusableElement{el("only", 10, 10, 20, 20)}
	for _, d := range geom.Directions {
		idx, ok := Resolve(elements, 0, d)
		require.True(t, ok)
		assert.Equal(t, 0, idx, d.String())
	}
}

func TestEmptyRegistryResolvesToNothing(t *testing.T) {
	for _, d := range geom.Directions {
		_, ok := Resolve(nil, 0, d)
		assert.False(t, ok)
		_, ok = Resolve(nil, -1, d)
		assert.False(t, ok)
	}
}

func TestNoFocusStartsAtFirst(t *testing.T) {
	elements := grid(2, 2)
	idx, ok := Resolve(elements, -1, geom.Left)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = Resolve(elements, 99, geom.Up)
	require.True(t, ok)
	assert.Equal(t, 0, idx, "stale index behaves like no focus")
}

func TestGridMoves(t *testing.T) {
	elements := grid(3, 3)
	center := 4 // r1c1

	tests := []struct {
		dir  geom.Direction
		want string
	}{
		{geom.Up, "r0c1"},
		{geom.Down, "r2c1"},
		{geom.Left, "r1c0"},
		{geom.Right, "r1c2"},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			idx, ok := Resolve(elements, center, tt.dir)
			require.True(t, ok)
			assert.Equal(t, tt.want, elements[idx].ID())
		})
	}
}

func TestPrefersAlignedOverMerelyClose(t *testing.T) {
	elements := []registry.FocusableElement{
		el("origin", 0, 0, 20, 20),
		el("close-off-axis", 30, 40, 20, 20), // primary 40, perp 30 -> 40*(1+0.75)=70
		el("far-aligned", 0, 60, 20, 20),     // primary 60, perp 0 -> 60
	}
	idx, ok := Resolve(elements, 0, geom.Down)
	require.True(t, ok)
	assert.Equal(t, "far-aligned", elements[idx].ID())
}

func TestConeExcludesSteepDiagonals(t *testing.T) {
	elements := []registry.FocusableElement{
		el("origin", 0, 0, 20, 20),
		el("steep", 200, 20, 20, 20), // below by 20 but 200 to the side
		el("top", 0, -100, 20, 20),
	}
	res := New(DefaultWeights()).Explain(elements, 0, geom.Down)
	assert.True(t, res.Wrapped, "the steep element is outside the cone")
	assert.Empty(t, res.Candidates)
	assert.Equal(t, "top", elements[res.Index].ID(), "down wraps to the topmost element")
}

func TestWrapAround(t *testing.T) {
	elements := grid(3, 3)

	tests := []struct {
		name    string
		from    string
		dir     geom.Direction
		want    string
		wrapped bool
	}{
		{"up from top row wraps to bottom row", "r0c1", geom.Up, "r2c1", true},
		{"down from bottom row wraps to top row", "r2c0", geom.Down, "r0c0", true},
		{"left from first column wraps to last", "r1c0", geom.Left, "r1c2", true},
		{"right from last column wraps to first", "r2c2", geom.Right, "r2c0", true},
	}

	index := func(id string) int {
		for i, e := range elements {
			if e.ID() == id {
				return i
			}
		}
		t.Fatalf("no element %s", id)
		return -1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(DefaultWeights()).Explain(elements, index(tt.from), tt.dir)
			require.True(t, res.Found)
			assert.Equal(t, tt.wrapped, res.Wrapped)
			assert.Equal(t, tt.want, elements[res.Index].ID())
		})
	}
}

func TestAlwaysFindsSomething(t *testing.T) {
	layouts := [][]registry.FocusableElement{
		grid(1, 2),
		grid(2, 1),
		grid(4, 3),
		{
			el("hero", 0, 0, 300, 100),
			el("tiny", 290, 110, 5, 5),
			el("side", 400, 20, 40, 300),
			el("overlap", 10, 10, 30, 30),
		},
	}
	for li, elements := range layouts {
		for i := range elements {
			for _, d := range geom.Directions {
				idx, ok := Resolve(elements, i, d)
				require.True(t, ok, "layout %d index %d %s", li, i, d)
				require.True(t, idx >= 0 && idx < len(elements))
				assert.NotEqual(t, i, idx, "layout %d index %d %s", li, i, d)
			}
		}
	}
}

func TestDeterministicTies(t *testing.T) {
	// Two candidates mirrored around the origin score identically.
	elements := []registry.FocusableElement{
		el("origin", 100, 0, 20, 20),
		el("right", 150, 100, 20, 20),
		el("left", 50, 100, 20, 20),
	}
	first, _ := Resolve(elements, 0, geom.Down)
	for i := 0; i < 50; i++ {
		idx, _ := Resolve(elements, 0, geom.Down)
		require.Equal(t, first, idx)
	}
	assert.Equal(t, 1, first, "ties go to the lower index")
}

func TestAlignmentWeight(t *testing.T) {
	elements := []registry.FocusableElement{
		el("origin", 0, 0, 20, 20),
		el("close-off-axis", 30, 40, 20, 20),
		el("far-aligned", 0, 60, 20, 20),
	}
	// Without the alignment penalty the closer element wins.
	r := New(Weights{AlignmentWeight: 0, ConeRatio: 0.5})
	idx, _ := r.Resolve(elements, 0, geom.Down)
	assert.Equal(t, "close-off-axis", elements[idx].ID())

	assert.Equal(t, DefaultWeights(), New(Weights{AlignmentWeight: -1, ConeRatio: -1}).Weights())
}
