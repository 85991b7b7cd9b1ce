package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Distance calculates the Euclidean distance between two points
func Distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// addPoints returns the component-wise sum of two points
func addPoints(a, b orb.Point) orb.Point {
	return orb.Point{a[0] + b[0], a[1] + b[1]}
}

// scalePoint multiplies both coordinates of a point by factor
func scalePoint(p orb.Point, factor float64) orb.Point {
	return orb.Point{p[0] * factor, p[1] * factor}
}

// IsPointInPolygon reports whether point lies inside polygon (holes excluded)
func IsPointInPolygon(point orb.Point, polygon orb.Polygon) bool {
	if len(polygon) == 0 || len(polygon[0]) < 3 {
		return false
	}
	return planar.PolygonContains(polygon, point)
}

// isFinite reports whether v is neither NaN nor infinite
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// parsePoint parses "x,y" into a point
func parsePoint(s string) (orb.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return orb.Point{}, fmt.Errorf("point %q: expected x,y", s)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("point %q: %w", s, err)
	}

	return orb.Point{x, y}, nil
}
