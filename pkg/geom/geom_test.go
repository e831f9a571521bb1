package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"up", Up},
		{" Down ", Down},
		{"h", Left},
		{"RIGHT", Right},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func TestRectGeometry(t *testing.T) {
	r := Rect{Top: 10, Left: 20, Width: 40, Height: 10}

	assert.Equal(t, Point{X: 40, Y: 15}, r.Center())
	assert.Equal(t, 20.0, r.Bottom())
	assert.Equal(t, 60.0, r.Right())
	assert.False(t, r.Empty())
	assert.True(t, Rect{Width: 0, Height: 5}.Empty())

	outer := Rect{Top: 0, Left: 0, Width: 100, Height: 100}
	assert.True(t, outer.Contains(r))
	assert.False(t, r.Contains(outer))
	assert.Equal(t, Rect{Top: 15, Left: 25, Width: 40, Height: 10}, r.Translate(5, 5))
}

func TestOffsets(t *testing.T) {
	from := Point{X: 0, Y: 0}
	to := Point{X: 3, Y: -10}

	primary, perp := Offsets(from, to, Up)
	assert.Equal(t, 10.0, primary)
	assert.Equal(t, 3.0, perp)

	primary, _ = Offsets(from, to, Down)
	assert.Equal(t, -10.0, primary)

	primary, perp = Offsets(from, to, Right)
	assert.Equal(t, 3.0, primary)
	assert.Equal(t, 10.0, perp)

	assert.Equal(t, Down, Up.Opposite())
	assert.True(t, Down.Vertical())
	assert.False(t, Left.Vertical())
}
