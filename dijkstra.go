package main

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Route is an ordered list of nodes from a search's begin to its end
type Route struct {
	Nodes []NodeID
	Cost  float64 // Sum of the connection costs along Nodes
}

// Found reports whether the search reached its target
func (r Route) Found() bool {
	return len(r.Nodes) > 0
}

// Points returns the positions of the route's nodes in order
func (r Route) Points(p *Path) []orb.Point {
	points := make([]orb.Point, 0, len(r.Nodes))
	for _, id := range r.Nodes {
		if pos, ok := p.Position(id); ok {
			points = append(points, pos)
		}
	}
	return points
}

// LineString returns the route as a polyline
func (r Route) LineString(p *Path) orb.LineString {
	return orb.LineString(r.Points(p))
}

// searchItem is an entry in the Dijkstra frontier
type searchItem struct {
	id   NodeID
	cost float64
}

// searchQueue implements heap.Interface ordered by cost, then by NodeID so
// that equal costs are resolved in node creation order
type searchQueue []searchItem

func (q searchQueue) Len() int { return len(q) }

func (q searchQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].id < q[j].id
}

func (q searchQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *searchQueue) Push(x interface{}) {
	*q = append(*q, x.(searchItem))
}

func (q *searchQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// PathFinder runs shortest-path searches over a Path. The carried cost,
// visited flag and predecessor of every node live here, not on the nodes,
// so the graph itself is only read during a search. A PathFinder is not
// safe for concurrent use; give each goroutine its own.
type PathFinder struct {
	path    *Path
	cost    []float64
	visited []bool
	prev    []NodeID
}

// NewPathFinder creates a finder for p
func NewPathFinder(p *Path) *PathFinder {
	f := &PathFinder{path: p}
	f.ResetSearchState()
	return f
}

// ResetSearchState clears every visited flag, carried cost and predecessor.
// FindPath calls it before each search.
func (f *PathFinder) ResetSearchState() {
	n := f.path.Len()
	if cap(f.cost) < n {
		f.cost = make([]float64, n)
		f.visited = make([]bool, n)
		f.prev = make([]NodeID, n)
	}
	f.cost = f.cost[:n]
	f.visited = f.visited[:n]
	f.prev = f.prev[:n]

	for i := 0; i < n; i++ {
		f.cost[i] = math.Inf(1)
		f.visited[i] = false
		f.prev[i] = NoNode
	}
}

// Visited reports whether id was finalized by the last search
func (f *PathFinder) Visited(id NodeID) bool {
	if id < 0 || int(id) >= len(f.visited) {
		return false
	}
	return f.visited[id]
}

// CarriedCost returns the best known cost from the last search's begin to id,
// or +Inf when id was never reached
func (f *PathFinder) CarriedCost(id NodeID) float64 {
	if id < 0 || int(id) >= len(f.cost) {
		return math.Inf(1)
	}
	return f.cost[id]
}

// FindPath computes the minimum-cost route from begin to end with Dijkstra's
// algorithm. An unreachable end yields an empty Route and no error.
// Connection costs must be non-negative.
func (f *PathFinder) FindPath(begin, end NodeID) (Route, error) {
	if !f.path.Has(begin) {
		return Route{}, fmt.Errorf("find path from %d: %w", begin, ErrNodeNotFound)
	}
	if !f.path.Has(end) {
		return Route{}, fmt.Errorf("find path to %d: %w", end, ErrNodeNotFound)
	}

	f.ResetSearchState()
	f.cost[begin] = 0

	openSet := &searchQueue{}
	heap.Push(openSet, searchItem{id: begin, cost: 0})

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(searchItem)

		// Skip stale entries left behind by later improvements
		if f.visited[current.id] || current.cost > f.cost[current.id] {
			continue
		}
		f.visited[current.id] = true

		if current.id == end {
			return f.route(begin, end), nil
		}

		for _, conn := range f.path.nodes[current.id].Connections {
			if f.visited[conn.To] {
				continue
			}

			candidate := f.cost[current.id] + conn.Cost
			if candidate < f.cost[conn.To] {
				f.cost[conn.To] = candidate
				f.prev[conn.To] = current.id
				heap.Push(openSet, searchItem{id: conn.To, cost: candidate})
			}
		}
	}

	return Route{}, nil
}

// route follows predecessors back from end and reverses them
func (f *PathFinder) route(begin, end NodeID) Route {
	var nodes []NodeID
	for id := end; id != NoNode; id = f.prev[id] {
		nodes = append(nodes, id)
		if id == begin {
			break
		}
	}

	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	return Route{Nodes: nodes, Cost: f.cost[end]}
}

// FindPath searches with a fresh PathFinder, leaving no state behind.
// Concurrent calls are safe as long as nothing mutates the path meanwhile.
func (p *Path) FindPath(begin, end NodeID) (Route, error) {
	return NewPathFinder(p).FindPath(begin, end)
}
