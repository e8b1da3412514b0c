// Package marker derives a pointer reading from a triangular marker
// silhouette. The marker is an isosceles triangle: its two long equal sides
// meet at the tip, so the vertex opposite the shortest edge is the tip and
// the shortest edge is the base. The bearing comes from the angle between
// the tip-to-base-midpoint line and a vertical north line, disambiguated
// into compass quadrants by the tip's position relative to the midpoint.
package marker

import (
	"fmt"
	"image"
	"math"

	"github.com/menta2k/map-reader/pkg/types"
)

// Resolve computes the normalized position and compass bearing of a marker
// from its three silhouette vertices on a rectified map of the given pixel
// dimensions.
func Resolve(vertices []image.Point, mapWidth, mapHeight int) (types.Reading, error) {
	if len(vertices) != 3 {
		return types.Reading{}, fmt.Errorf("expected 3 marker vertices, got %d", len(vertices))
	}
	if mapWidth <= 0 || mapHeight <= 0 {
		return types.Reading{}, fmt.Errorf("invalid map dimensions %dx%d", mapWidth, mapHeight)
	}

	apex, base := splitApexAndBase(vertices)

	midX := (base[0].X + base[1].X) / 2
	midY := (base[0].Y + base[1].Y) / 2

	bearing := computeBearing(apex, midX, midY, mapWidth)

	position := types.Position{
		X: float64(apex.X) / float64(mapWidth),
		Y: math.Abs(float64(apex.Y)-float64(mapHeight)) / float64(mapHeight),
	}

	return types.Reading{Position: position, Bearing: bearing}, nil
}

// splitApexAndBase finds the triangle's shortest edge; its endpoints form
// the base and the remaining vertex is the apex.
func splitApexAndBase(v []image.Point) (image.Point, [2]image.Point) {
	d01 := types.Distance(v[0], v[1])
	d02 := types.Distance(v[0], v[2])
	d12 := types.Distance(v[1], v[2])

	min := math.Min(d01, math.Min(d02, d12))

	switch {
	case d01 == min:
		return v[2], [2]image.Point{v[0], v[1]}
	case d02 == min:
		return v[1], [2]image.Point{v[0], v[2]}
	default:
		return v[0], [2]image.Point{v[1], v[2]}
	}
}

// slope returns the slope of the line through two points. When the points
// share an x coordinate the second one is nudged right by a pixel so the
// near-vertical case stays finite and comparable through the same formula.
func slope(x1, y1, x2, y2 float64) float64 {
	if x2 == x1 {
		x2++
	}
	return (y2 - y1) / (x2 - x1)
}

// computeBearing derives the heading in degrees clockwise from north.
//
// North is modeled as a line from just past the base midpoint straight up
// the image, with the map width standing in for a distant coordinate along
// that axis so that both lines go through the same guarded slope formula.
// The tangent-of-angle-between-lines identity gives an unsigned angle in
// [0,90); the tip's half-plane relative to the midpoint plus the tangent's
// sign selects the compass quadrant. The quadrant branches mirror the
// behavior observed with imprecise simplified corners and are intentionally
// asymmetric; a tip up-and-left of the midpoint gets +180 like the
// down-left case does.
func computeBearing(apex image.Point, midX, midY, mapWidth int) float64 {
	northSlope := slope(float64(midX+1), float64(midY+1), float64(midX+1), float64(mapWidth))
	pointerSlope := slope(float64(apex.X), float64(apex.Y), float64(midX+1), float64(midY+1))

	tangent := (northSlope - pointerSlope) / (1 + northSlope*pointerSlope)
	bearing := math.Abs(math.Atan(tangent)) * 180 / math.Pi

	if midX > apex.X {
		switch {
		case midY < apex.Y:
			bearing += 180
		case tangent < 0:
			bearing += 270
		default:
			bearing += 180
		}
	}

	return bearing
}
