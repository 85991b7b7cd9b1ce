package main

import "errors"

var (
	// ErrInvalidBuildState is returned when a sublevel build is requested without a predecessor node.
	ErrInvalidBuildState = errors.New("invalid build state: sublevel build requires a previous node")

	// ErrNodeNotFound is returned when a NodeID does not belong to the Path.
	ErrNodeNotFound = errors.New("node not found")

	// ErrInvalidCost is returned when a connection cost is negative or not a number.
	ErrInvalidCost = errors.New("invalid connection cost")

	// ErrInvalidScale is returned when a scale factor is zero or not finite.
	ErrInvalidScale = errors.New("invalid scale factor")

	// ErrNoGraph is returned by the host when no graph has been built yet.
	ErrNoGraph = errors.New("graph not built")
)
