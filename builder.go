package main

import (
	"fmt"

	"github.com/paulmach/orb"
)

// CostFunc derives the cost of a connection between two node positions
type CostFunc func(from, to orb.Point) float64

// Qualifier decides whether a partition region gets a node of its own
type Qualifier func(region Region) bool

type buildOptions struct {
	cost    CostFunc
	qualify Qualifier
}

// BuildOption customizes graph construction
type BuildOption func(*buildOptions)

// WithCostFunc replaces the default Euclidean connection cost
func WithCostFunc(fn CostFunc) BuildOption {
	return func(o *buildOptions) {
		if fn != nil {
			o.cost = fn
		}
	}
}

// WithQualifier only creates nodes for regions accepted by fn
func WithQualifier(fn Qualifier) BuildOption {
	return func(o *buildOptions) {
		if fn != nil {
			o.qualify = fn
		}
	}
}

// WithObstacles skips regions whose centre lies inside an indexed obstacle
func WithObstacles(idx *ObstacleIndex) BuildOption {
	return WithQualifier(func(region Region) bool {
		return !idx.Blocks(region.Bounds().Center())
	})
}

func defaultBuildOptions() buildOptions {
	return buildOptions{
		cost:    Distance,
		qualify: func(Region) bool { return true },
	}
}

// Fragment is a subgraph produced by one traversal of a partition tree.
// Connections inside Nodes use fragment-local indices; Links are the
// connections from the external predecessor into the fragment.
type Fragment struct {
	Nodes []Node
	Links []Connection
}

type fragmentBuilder struct {
	opts   buildOptions
	origin *orb.Point // Position of the external predecessor, nil at top level
	frag   Fragment
}

// buildFragment walks root and returns the nodes and edges it derives.
// When origin is set, nodes that have no predecessor inside the fragment
// are linked from the origin instead.
func buildFragment(root Region, origin *orb.Point, opts buildOptions) Fragment {
	b := &fragmentBuilder{opts: opts, origin: origin}
	if root != nil {
		b.walk(root, NoNode)
	}
	return b.frag
}

// walk emits one node per qualifying child and links it from prev, then
// descends into the child with the new node as predecessor. A child that
// does not qualify passes prev through to its own children.
func (b *fragmentBuilder) walk(region Region, prev NodeID) {
	for _, child := range region.Children() {
		if child == nil {
			continue
		}

		next := prev
		if b.opts.qualify(child) {
			pos := child.Bounds().Center()
			id := NodeID(len(b.frag.Nodes))
			b.frag.Nodes = append(b.frag.Nodes, Node{Position: pos})

			switch {
			case prev != NoNode:
				from := &b.frag.Nodes[prev]
				from.Connections = append(from.Connections, Connection{
					To:   id,
					Cost: b.opts.cost(from.Position, pos),
				})
			case b.origin != nil:
				b.frag.Links = append(b.frag.Links, Connection{
					To:   id,
					Cost: b.opts.cost(*b.origin, pos),
				})
			}
			next = id
		}

		b.walk(child, next)
	}
}

// Build derives nodes and connections from a partition tree and adds them to the path.
//
// A top-level build (sublevel false) creates unconnected root nodes for the
// first qualifying regions. A sublevel build attaches the new subgraph under
// prev, which must already belong to the path. It returns the number of
// nodes added; a nil or leafless root adds none.
func (p *Path) Build(root Region, sublevel bool, prev NodeID, opts ...BuildOption) (int, error) {
	cfg := defaultBuildOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	var origin *orb.Point
	if sublevel {
		if prev == NoNode {
			return 0, ErrInvalidBuildState
		}
		if !p.Has(prev) {
			return 0, fmt.Errorf("build under %d: %w", prev, ErrNodeNotFound)
		}
		pos := p.nodes[prev].Position
		origin = &pos
	}

	frag := buildFragment(root, origin, cfg)
	p.merge(frag, prev)
	return len(frag.Nodes), nil
}

// merge appends a fragment to the path, rebasing its local indices
func (p *Path) merge(frag Fragment, prev NodeID) {
	offset := NodeID(len(p.nodes))

	for _, n := range frag.Nodes {
		for j := range n.Connections {
			n.Connections[j].To += offset
		}
		p.nodes = append(p.nodes, n)
	}

	if len(frag.Links) == 0 {
		return
	}
	from := &p.nodes[prev]
	for _, link := range frag.Links {
		from.Connections = append(from.Connections, Connection{To: link.To + offset, Cost: link.Cost})
	}
}
