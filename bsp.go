package main

import (
	"math/rand"

	"github.com/paulmach/orb"
)

// Region is one cell of a hierarchical spatial partition
type Region interface {
	Bounds() orb.Bound
	Children() []Region
}

// Container is a binary space partition cell. Leaves have no children.
type Container struct {
	Bound orb.Bound
	Subs  []*Container
}

// Bounds implements Region
func (c *Container) Bounds() orb.Bound {
	return c.Bound
}

// Children implements Region
func (c *Container) Children() []Region {
	out := make([]Region, len(c.Subs))
	for i, s := range c.Subs {
		out[i] = s
	}
	return out
}

// Leaves returns every leaf container in depth-first order
func (c *Container) Leaves() []*Container {
	if len(c.Subs) == 0 {
		return []*Container{c}
	}
	var leaves []*Container
	for _, s := range c.Subs {
		leaves = append(leaves, s.Leaves()...)
	}
	return leaves
}

const (
	minSplitRatio = 0.3
	maxSplitRatio = 0.7

	// maxSplitDepth bounds the tree at 2^maxSplitDepth leaves
	maxSplitDepth = 12
)

// SplitBSP recursively splits bound in two along its longer side until a
// split would leave a side shorter than minSize. The split position is drawn
// from rng, so the same seed always yields the same tree. Splitting also
// stops after maxSplitDepth levels, however small minSize is.
func SplitBSP(bound orb.Bound, minSize float64, rng *rand.Rand) *Container {
	root := &Container{Bound: bound}
	if !(minSize > 0) || !isFinite(minSize) {
		return root
	}
	split(root, minSize, rng, 0)
	return root
}

func split(c *Container, minSize float64, rng *rand.Rand, depth int) {
	if depth >= maxSplitDepth {
		return
	}

	width := c.Bound.Max[0] - c.Bound.Min[0]
	height := c.Bound.Max[1] - c.Bound.Min[1]

	horizontal := width >= height
	length := height
	if horizontal {
		length = width
	}

	// The smaller half must still be at least minSize
	if length*minSplitRatio < minSize {
		return
	}

	ratio := minSplitRatio + rng.Float64()*(maxSplitRatio-minSplitRatio)
	a, b := c.Bound, c.Bound
	if horizontal {
		at := c.Bound.Min[0] + width*ratio
		a.Max[0] = at
		b.Min[0] = at
	} else {
		at := c.Bound.Min[1] + height*ratio
		a.Max[1] = at
		b.Min[1] = at
	}

	c.Subs = []*Container{{Bound: a}, {Bound: b}}
	for _, s := range c.Subs {
		split(s, minSize, rng, depth+1)
	}
}
