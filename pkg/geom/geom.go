package geom

import (
	"fmt"
	"math"
	"strings"
)

// Direction is a requested navigation direction.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in a stable order.
var Directions = []Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection converts a name such as "up" or "Left" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "k":
		return Up, nil
	case "down", "d", "j":
		return Down, nil
	case "left", "h":
		return Left, nil
	case "right", "r", "l":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Vertical reports whether the direction's primary axis is Y.
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Point is a position in layout units.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned bounding box in layout units.
type Rect struct {
	Top    float64 `yaml:"top" json:"top"`
	Left   float64 `yaml:"left" json:"left"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Bottom returns the Y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Center returns the center point of the box.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Empty reports whether the box has no rendered area.
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.Top >= r.Top && o.Left >= r.Left && o.Bottom() <= r.Bottom() && o.Right() <= r.Right()
}

// Translate returns the box moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// Offsets returns the signed distance from `from` to `to` along the primary
// axis of d (positive when `to` lies in direction d) and the absolute
// distance along the perpendicular axis.
func Offsets(from, to Point, d Direction) (primary, perpendicular float64) {
	switch d {
	case Up:
		return from.Y - to.Y, math.Abs(to.X - from.X)
	case Down:
		return to.Y - from.Y, math.Abs(to.X - from.X)
	case Left:
		return from.X - to.X, math.Abs(to.Y - from.Y)
	default:
		return to.X - from.X, math.Abs(to.Y - from.Y)
	}
}
