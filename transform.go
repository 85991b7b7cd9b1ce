package main

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Translate adds offset to every node position. Connection costs are left untouched.
func (p *Path) Translate(offset orb.Point) {
	for i := range p.nodes {
		p.nodes[i].Position = addPoints(p.nodes[i].Position, offset)
	}
}

// Scale multiplies every node position and every connection cost by factor,
// so costs stay proportional to the distances they were derived from.
// The factor must be finite and non-zero so the scaling can be undone.
// A negative factor mirrors the graph and makes every cost negative, which
// the path finder does not support.
func (p *Path) Scale(factor float64) error {
	if factor == 0 || !isFinite(factor) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, factor)
	}

	for i := range p.nodes {
		n := &p.nodes[i]
		n.Position = scalePoint(n.Position, factor)
		for j := range n.Connections {
			n.Connections[j].Cost *= factor
		}
	}
	return nil
}
