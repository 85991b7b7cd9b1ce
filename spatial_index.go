package main

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

const pointTolerance = 1e-9

// obstacleEntry wraps a polygon for R-tree storage
type obstacleEntry struct {
	polygon orb.Polygon
	bbox    rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (o *obstacleEntry) Bounds() rtreego.Rect {
	return o.bbox
}

// ObstacleIndex answers point-in-obstacle queries over no-fly polygons
type ObstacleIndex struct {
	tree *rtreego.Rtree
}

// NewObstacleIndex indexes polygons by bounding box; empty polygons are skipped
func NewObstacleIndex(polygons []orb.Polygon) *ObstacleIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, polygon := range polygons {
		if len(polygon) == 0 || len(polygon[0]) < 3 {
			continue
		}
		bbox, err := boundToRect(polygon.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&obstacleEntry{polygon: polygon, bbox: bbox})
	}

	return &ObstacleIndex{tree: tree}
}

// Len returns the number of indexed obstacles
func (idx *ObstacleIndex) Len() int {
	if idx == nil {
		return 0
	}
	return idx.tree.Size()
}

// Blocks reports whether point lies inside any indexed obstacle
func (idx *ObstacleIndex) Blocks(point orb.Point) bool {
	if idx == nil || idx.tree.Size() == 0 {
		return false
	}

	query := rtreego.Point{point[0], point[1]}.ToRect(pointTolerance)
	for _, item := range idx.tree.SearchIntersect(query) {
		if IsPointInPolygon(point, item.(*obstacleEntry).polygon) {
			return true
		}
	}
	return false
}

// nodeEntry wraps a node position for R-tree storage
type nodeEntry struct {
	id   NodeID
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (n *nodeEntry) Bounds() rtreego.Rect {
	return n.rect
}

// NodeIndex finds the node closest to an arbitrary point. It is a snapshot:
// rebuild it after the path is transformed or extended.
type NodeIndex struct {
	tree *rtreego.Rtree
}

// NewNodeIndex indexes every node position of p
func NewNodeIndex(p *Path) *NodeIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for i, n := range p.nodes {
		tree.Insert(&nodeEntry{
			id:   NodeID(i),
			rect: rtreego.Point{n.Position[0], n.Position[1]}.ToRect(pointTolerance),
		})
	}
	return &NodeIndex{tree: tree}
}

// Nearest returns the node closest to point, or NoNode for an empty index
func (idx *NodeIndex) Nearest(point orb.Point) NodeID {
	if idx == nil || idx.tree.Size() == 0 {
		return NoNode
	}

	item := idx.tree.NearestNeighbor(rtreego.Point{point[0], point[1]})
	if item == nil {
		return NoNode
	}
	return item.(*nodeEntry).id
}

// boundToRect converts an orb bound into an R-tree rectangle, padding
// degenerate sides so the rectangle has positive extent
func boundToRect(b orb.Bound) (rtreego.Rect, error) {
	width := b.Max[0] - b.Min[0]
	height := b.Max[1] - b.Min[1]
	if width <= 0 {
		width = pointTolerance
	}
	if height <= 0 {
		height = pointTolerance
	}
	return rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{width, height})
}
