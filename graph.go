package main

import "github.com/paulmach/orb"

// NodeID is the stable index of a node inside the Path that owns it
type NodeID int

// NoNode marks the absence of a node (no predecessor, no nearest match)
const NoNode NodeID = -1

// Node represents a navigable point in the graph derived from the partition
type Node struct {
	Position    orb.Point
	Connections []Connection // Outgoing edges, in insertion order
}

// Connection represents a directed edge to another node with a cost
type Connection struct {
	To   NodeID  // Index of the destination node in the same Path
	Cost float64 // Usually the distance between the two nodes, but callers may assign any non-negative value
}
