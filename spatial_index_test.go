package main

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestObstacleIndex_Blocks(t *testing.T) {
	square := orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}}
	triangle := orb.Polygon{{{10, 10}, {14, 10}, {10, 14}, {10, 10}}}
	idx := NewObstacleIndex([]orb.Polygon{square, triangle, {}, {{{1, 1}}}})

	assert.Equal(t, 2, idx.Len())
	assert.True(t, idx.Blocks(orb.Point{2, 2}))
	assert.True(t, idx.Blocks(orb.Point{11, 11}))
	assert.False(t, idx.Blocks(orb.Point{13.5, 13.5}), "inside the bbox but outside the triangle")
	assert.False(t, idx.Blocks(orb.Point{6, 6}))
}

func TestObstacleIndex_NilAndEmpty(t *testing.T) {
	var idx *ObstacleIndex
	assert.False(t, idx.Blocks(orb.Point{0, 0}))
	assert.Zero(t, idx.Len())

	assert.False(t, NewObstacleIndex(nil).Blocks(orb.Point{0, 0}))
}

func TestNodeIndex_Nearest(t *testing.T) {
	p := newTestPath(5) // nodes at x = 0..4

	idx := NewNodeIndex(p)
	assert.Equal(t, NodeID(0), idx.Nearest(orb.Point{-3, 1}))
	assert.Equal(t, NodeID(2), idx.Nearest(orb.Point{2.2, 0.5}))
	assert.Equal(t, NodeID(4), idx.Nearest(orb.Point{40, 0}))
}

func TestNodeIndex_Empty(t *testing.T) {
	assert.Equal(t, NoNode, NewNodeIndex(NewPath()).Nearest(orb.Point{1, 1}))

	var idx *NodeIndex
	assert.Equal(t, NoNode, idx.Nearest(orb.Point{1, 1}))
}
