// Package resolve picks the next element to focus for a directional
// request using only element geometry.
package resolve

import (
	"math"
	"sort"

	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/pkg/registry"
)

// Weights tunes candidate selection and scoring.
type Weights struct {
	// AlignmentWeight scales the perpendicular/primary ratio penalty.
	AlignmentWeight float64
	// ConeRatio: a candidate's primary offset must exceed ConeRatio times
	// its perpendicular offset.
	ConeRatio float64
}

// DefaultWeights returns score = primary × (1 + perpendicular/primary) with
// a half-width cone.
func DefaultWeights() Weights {
	return Weights{AlignmentWeight: 1, ConeRatio: 0.5}
}

// Resolver computes directional moves with fixed weights.
type Resolver struct {
	weights Weights
}

// New creates a Resolver. Negative weights are replaced by the defaults.
func New(w Weights) *Resolver {
	def := DefaultWeights()
	if w.AlignmentWeight < 0 || math.IsNaN(w.AlignmentWeight) {
		w.AlignmentWeight = def.AlignmentWeight
	}
	if w.ConeRatio < 0 || math.IsNaN(w.ConeRatio) {
		w.ConeRatio = def.ConeRatio
	}
	return &Resolver{weights: w}
}

// Weights returns the resolver's weights.
func (r *Resolver) Weights() Weights { return r.weights }

// Candidate is a scored element considered by a resolution.
type Candidate struct {
	Index         int
	Primary       float64
	Perpendicular float64
	Score         float64
}

// Resolution explains how a move was decided.
type Resolution struct {
	Index      int
	Found      bool
	Wrapped    bool
	Candidates []Candidate
}

// Resolve returns the index to focus when moving in dir from current. The
// boolean is false only for an empty element list. With nothing focused
// (current -1, or an index that is no longer valid) the first element is
// chosen.
func (r *Resolver) Resolve(elements []registry.FocusableElement, current int, dir geom.Direction) (int, bool) {
	res := r.Explain(elements, current, dir)
	return res.Index, res.Found
}

// Explain resolves like Resolve and also reports the scored candidates.
func (r *Resolver) Explain(elements []registry.FocusableElement, current int, dir geom.Direction) Resolution {
	if len(elements) == 0 {
		return Resolution{Index: -1}
	}
	if current < 0 || current >= len(elements) {
		return Resolution{Index: 0, Found: true}
	}
	if len(elements) == 1 {
		return Resolution{Index: current, Found: true}
	}

	origin := elements[current].Box.Center()
	var candidates []Candidate
	for i, el := range elements {
		if i == current {
			continue
		}
		primary, perp := geom.Offsets(origin, el.Box.Center(), dir)
		if primary <= 0 || primary <= r.weights.ConeRatio*perp {
			continue
		}
		candidates = append(candidates, Candidate{
			Index:         i,
			Primary:       primary,
			Perpendicular: perp,
			Score:         r.score(primary, perp),
		})
	}

	if len(candidates) > 0 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			// Candidates are in index order, so strict comparison keeps the
			// lower index on ties.
			if c.Score < best.Score {
				best = c
			}
		}
		return Resolution{Index: best.Index, Found: true, Candidates: candidates}
	}

	return Resolution{Index: wrap(elements, current, dir), Found: true, Wrapped: true}
}

func (r *Resolver) score(primary, perp float64) float64 {
	return primary * (1 + r.weights.AlignmentWeight*perp/math.Max(primary, 1))
}

// wrap picks the element at the far edge of the layout: moving up with
// nothing above selects the bottommost element, and so on.
func wrap(elements []registry.FocusableElement, current int, dir geom.Direction) int {
	origin := elements[current].Box.Center()
	order := make([]int, 0, len(elements)-1)
	for i := range elements {
		if i != current {
			order = append(order, i)
		}
	}

	// position grows toward the edge we wrap to.
	position := func(i int) float64 {
		c := elements[i].Box.Center()
		switch dir {
		case geom.Up:
			return c.Y
		case geom.Down:
			return -c.Y
		case geom.Left:
			return c.X
		default:
			return -c.X
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := position(order[a]), position(order[b])
		if pa != pb {
			return pa > pb
		}
		_, da := geom.Offsets(origin, elements[order[a]].Box.Center(), dir)
		_, db := geom.Offsets(origin, elements[order[b]].Box.Center(), dir)
		if da != db {
			return da < db
		}
		return order[a] < order[b]
	})
	return order[0]
}

var defaultResolver = New(DefaultWeights())

// Resolve uses the default weights.
func Resolve(elements []registry.FocusableElement, current int, dir geom.Direction) (int, bool) {
	return defaultResolver.Resolve(elements, current, dir)
}
