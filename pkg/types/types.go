package types

import (
	"image"
	"math"
)

// Quad holds the four corners of a quadrilateral in canonical order.
// The labeling is deterministic regardless of the order the corners were
// detected in, and is stable under translation and uniform scaling.
type Quad struct {
	TopLeft     image.Point
	TopRight    image.Point
	BottomRight image.Point
	BottomLeft  image.Point
}

// Corners returns the quad corners in top-left, top-right, bottom-right,
// bottom-left order.
func (q Quad) Corners() [4]image.Point {
	return [4]image.Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
}

// Position is a marker location normalized to the rectified map, with both
// components in [0,1] and Y measured upward from the map's bottom edge.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Reading is the final result of a map read: where the marker tip sits and
// the direction it points, in degrees clockwise from north.
type Reading struct {
	Position Position `json:"position"`
	Bearing  float64  `json:"bearing"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
