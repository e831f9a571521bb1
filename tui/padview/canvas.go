package padview

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/padnav/pkg/geom"
)

type paint uint8

const (
	paintNone paint = iota
	paintElement
	paintFocused
	paintOverlay
	paintDisabled
	paintInert
)

type cell struct {
	r rune
	p paint
}

// canvas is a grid of terminal cells. One layout unit is one cell.
type canvas struct {
	w, h  int
	cells [][]cell
}

type border struct {
	tl, tr, bl, br, h, v rune
}

var (
	thinBorder  = border{'┌', '┐', '└', '┘', '─', '│'}
	thickBorder = border{'┏', '┓', '┗', '┛', '━', '┃'}
)

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		c.cells[y] = make([]cell, w)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, p: p}
}

// cellBounds converts a layout rect to inclusive cell bounds.
func cellBounds(r geom.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.Left))
	y0 = int(math.Floor(r.Top))
	x1 = int(math.Ceil(r.Right())) - 1
	y1 = int(math.Ceil(r.Bottom())) - 1
	return
}

func (c *canvas) fill(r geom.Rect, p paint) {
	x0, y0, x1, y1 := cellBounds(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.set(x, y, ' ', p)
		}
	}
}

// box draws r with a label. Single-row boxes render as [label].
func (c *canvas) box(r geom.Rect, label string, b border, p paint) {
	x0, y0, x1, y1 := cellBounds(r)
	if x1 < x0 || y1 < y0 {
		return
	}
	if y0 == y1 {
		c.set(x0, y0, '[', p)
		c.set(x1, y0, ']', p)
		c.text(x0+1, y0, x1-1, label, p)
		return
	}

	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, b.h, p)
		c.set(x, y1, b.h, p)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, b.v, p)
		c.set(x1, y, b.v, p)
		for x := x0 + 1; x < x1; x++ {
			c.set(x, y, ' ', p)
		}
	}
	c.set(x0, y0, b.tl, p)
	c.set(x1, y0, b.tr, p)
	c.set(x0, y1, b.bl, p)
	c.set(x1, y1, b.br, p)

	row := y0 + (y1-y0)/2
	if row == y0 {
		c.text(x0+1, row, x1-1, label, p)
		return
	}
	// Center the label on the middle row.
	inner := x1 - x0 - 1
	start := x0 + 1
	if n := len([]rune(label)); n < inner {
		start += (inner - n) / 2
	}
	c.text(start, row, x1-1, label, p)
}

// text writes s from x up to and including limit.
func (c *canvas) text(x, y, limit int, s string, p paint) {
	for _, r := range s {
		if x > limit {
			return
		}
		c.set(x, y, r, p)
		x++
	}
}

// render joins rows, styling each run of equally painted cells.
func (c *canvas) render(styles map[paint]lipgloss.Style) string {
	var out strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			out.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].p == row[start].p {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, cl := range row[start:x] {
				run = append(run, cl.r)
			}
			if style, ok := styles[row[start].p]; ok {
				out.WriteString(style.Render(string(run)))
			} else {
				out.WriteString(string(run))
			}
			start = x
		}
	}
	return out.String()
}
