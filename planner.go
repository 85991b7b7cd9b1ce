package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Planner bundles a navigation graph with the indexes used to query it
type Planner struct {
	Path      *Path
	Partition *Container
	Obstacles *ObstacleIndex
	nodes     *NodeIndex
}

// NewPlanner partitions the configured scene, drops cells blocked by
// obstacles and derives the navigation graph from what remains
func NewPlanner(cfg BSPConfig, obstacles []orb.Polygon, logger *log.Logger) (*Planner, error) {
	startTime := time.Now()

	partition := SplitBSP(cfg.Bound(), cfg.MinSize, rand.New(rand.NewSource(cfg.Seed)))
	obstacleIdx := NewObstacleIndex(obstacles)

	path := NewPath()
	added, err := path.Build(partition, false, NoNode, WithObstacles(obstacleIdx))
	if err != nil {
		return nil, fmt.Errorf("build navigation graph: %w", err)
	}
	if err := linkBothWays(path); err != nil {
		return nil, fmt.Errorf("link navigation graph: %w", err)
	}

	logger.Info("navigation graph built",
		"id", path.ID,
		"nodes", added,
		"edges", path.EdgeCount(),
		"cells", len(partition.Leaves()),
		"obstacles", obstacleIdx.Len(),
		"elapsed", time.Since(startTime).Round(time.Millisecond))

	return &Planner{
		Path:      path,
		Partition: partition,
		Obstacles: obstacleIdx,
		nodes:     NewNodeIndex(path),
	}, nil
}

// linkBothWays makes a built partition graph walkable in every direction.
// Each builder edge gets its reverse, and the nodes with no parent (the
// first-level cells, plus cells orphaned by obstacles) are chained together
// in creation order, so every node can reach every other.
func linkBothWays(p *Path) error {
	nodes := p.Nodes()
	hasParent := make([]bool, len(nodes))

	for from, n := range nodes {
		for _, c := range n.Connections {
			hasParent[c.To] = true
			if err := p.Connect(c.To, NodeID(from), c.Cost); err != nil {
				return err
			}
		}
	}

	prev := NoNode
	for id := range nodes {
		if hasParent[id] {
			continue
		}
		if prev != NoNode {
			cost := Distance(nodes[prev].Position, nodes[id].Position)
			if err := p.Connect(prev, NodeID(id), cost); err != nil {
				return err
			}
			if err := p.Connect(NodeID(id), prev, cost); err != nil {
				return err
			}
		}
		prev = NodeID(id)
	}
	return nil
}

// Nearest returns the node closest to point
func (pl *Planner) Nearest(point orb.Point) NodeID {
	return pl.nodes.Nearest(point)
}

// Route snaps start and end to their nearest nodes and searches between them
func (pl *Planner) Route(start, end orb.Point) (Route, error) {
	begin := pl.Nearest(start)
	finish := pl.Nearest(end)
	if begin == NoNode || finish == NoNode {
		return Route{}, fmt.Errorf("route: %w", ErrNoGraph)
	}
	return pl.Path.FindPath(begin, finish)
}

// Transform scales then translates the graph and refreshes the node index
func (pl *Planner) Transform(offset orb.Point, factor float64) error {
	if factor != 1 {
		if err := pl.Path.Scale(factor); err != nil {
			return err
		}
	}
	pl.Path.Translate(offset)
	pl.nodes = NewNodeIndex(pl.Path)
	return nil
}

// RouteFeature draws route as a GeoJSON line, thinned with tolerance
func (pl *Planner) RouteFeature(route Route, tolerance float64) *geojson.Feature {
	r := NewGeoJSONRenderer(tolerance)
	pl.Path.RenderRoute(r, route)
	return r.FeatureCollection().Features[0]
}

// Render draws the whole graph into a GeoJSON renderer
func (pl *Planner) Render(tolerance float64) *GeoJSONRenderer {
	r := NewGeoJSONRenderer(tolerance)
	pl.Path.Render(r)
	return r
}
