package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
)

// GeoJSONRenderer collects a path's nodes, connections and routes as GeoJSON features
type GeoJSONRenderer struct {
	// SimplifyTolerance, when positive, thins route polylines with Douglas-Peucker.
	// Only the drawn line is affected; the route's nodes are unchanged.
	SimplifyTolerance float64

	fc *geojson.FeatureCollection
}

// NewGeoJSONRenderer creates an empty renderer
func NewGeoJSONRenderer(tolerance float64) *GeoJSONRenderer {
	return &GeoJSONRenderer{
		SimplifyTolerance: tolerance,
		fc:                geojson.NewFeatureCollection(),
	}
}

// DrawNode implements Renderer
func (r *GeoJSONRenderer) DrawNode(id NodeID, position orb.Point) {
	f := geojson.NewFeature(position)
	f.Properties["kind"] = "node"
	f.Properties["id"] = int(id)
	r.fc.Append(f)
}

// DrawConnection implements Renderer
func (r *GeoJSONRenderer) DrawConnection(from, to orb.Point, cost float64) {
	f := geojson.NewFeature(orb.LineString{from, to})
	f.Properties["kind"] = "connection"
	f.Properties["cost"] = cost
	r.fc.Append(f)
}

// DrawRoute implements RouteRenderer
func (r *GeoJSONRenderer) DrawRoute(route Route, line orb.LineString) {
	f := geojson.NewFeature(SimplifyRoute(line, r.SimplifyTolerance))
	f.Properties["kind"] = "route"
	f.Properties["cost"] = route.Cost
	f.Properties["nodes"] = len(route.Nodes)
	r.fc.Append(f)
}

// FeatureCollection returns everything drawn so far
func (r *GeoJSONRenderer) FeatureCollection() *geojson.FeatureCollection {
	return r.fc
}

// SimplifyRoute reduces a route polyline with Douglas-Peucker. The input is
// not modified; a non-positive tolerance or a line of two points or fewer is
// returned as a copy.
func SimplifyRoute(line orb.LineString, tolerance float64) orb.LineString {
	clone := line.Clone()
	if tolerance <= 0 || len(clone) <= 2 {
		return clone
	}
	return simplify.DouglasPeucker(tolerance).LineString(clone)
}
