package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Path owns a set of nodes and their outgoing connections.
//
// Nodes are stored by value and addressed by NodeID, so every connection
// refers to a node of the same Path. Dropping the Path drops the whole graph.
type Path struct {
	ID    uuid.UUID
	nodes []Node
}

// NewPath creates an empty path with a fresh identifier
func NewPath() *Path {
	return &Path{ID: uuid.New()}
}

// Len returns the number of nodes in the path
func (p *Path) Len() int {
	return len(p.nodes)
}

// EdgeCount returns the number of connections across all nodes
func (p *Path) EdgeCount() int {
	count := 0
	for i := range p.nodes {
		count += len(p.nodes[i].Connections)
	}
	return count
}

// Has reports whether id belongs to the path
func (p *Path) Has(id NodeID) bool {
	return id >= 0 && int(id) < len(p.nodes)
}

// Node returns a copy of the node with the given id
func (p *Path) Node(id NodeID) (Node, error) {
	if !p.Has(id) {
		return Node{}, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	n := p.nodes[id]
	n.Connections = append([]Connection(nil), n.Connections...)
	return n, nil
}

// Nodes returns a deep copy of every node, indexed by NodeID
func (p *Path) Nodes() []Node {
	out := make([]Node, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = Node{
			Position:    n.Position,
			Connections: append([]Connection(nil), n.Connections...),
		}
	}
	return out
}

// Position returns the position of a node; ok is false for unknown ids
func (p *Path) Position(id NodeID) (orb.Point, bool) {
	if !p.Has(id) {
		return orb.Point{}, false
	}
	return p.nodes[id].Position, true
}

// Connect adds a directed connection between two existing nodes
func (p *Path) Connect(from, to NodeID, cost float64) error {
	if !p.Has(from) {
		return fmt.Errorf("connect from %d: %w", from, ErrNodeNotFound)
	}
	if !p.Has(to) {
		return fmt.Errorf("connect to %d: %w", to, ErrNodeNotFound)
	}
	if cost < 0 || !isFinite(cost) {
		return fmt.Errorf("connect %d->%d cost %v: %w", from, to, cost, ErrInvalidCost)
	}

	p.nodes[from].Connections = append(p.nodes[from].Connections, Connection{To: to, Cost: cost})
	return nil
}

// Clear drops every node and connection owned by the path
func (p *Path) Clear() {
	p.nodes = nil
}

// Renderer receives the drawable state of a path. It must not retain or
// mutate anything beyond the values it is handed.
type Renderer interface {
	DrawNode(id NodeID, position orb.Point)
	DrawConnection(from, to orb.Point, cost float64)
}

// RouteRenderer receives a computed route
type RouteRenderer interface {
	DrawRoute(route Route, line orb.LineString)
}

// Render hands every node position, then every connection's endpoints, to r
func (p *Path) Render(r Renderer) {
	for i, n := range p.nodes {
		r.DrawNode(NodeID(i), n.Position)
	}
	for _, n := range p.nodes {
		for _, c := range n.Connections {
			r.DrawConnection(n.Position, p.nodes[c.To].Position, c.Cost)
		}
	}
}

// RenderRoute hands a route and its polyline to r
func (p *Path) RenderRoute(r RouteRenderer, route Route) {
	r.DrawRoute(route, route.LineString(p))
}
