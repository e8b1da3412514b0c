package types

import (
	"image"
	"testing"
)

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]image.Point{
		{image.Pt(0, 0), image.Pt(3, 4)},
		{image.Pt(-5, 2), image.Pt(7, -1)},
		{image.Pt(100, 200), image.Pt(100, 200)},
		{image.Pt(1, 0), image.Pt(0, 1)},
	}

	for _, pair := range pairs {
		ab := Distance(pair[0], pair[1])
		ba := Distance(pair[1], pair[0])
		if ab != ba {
			t.Errorf("Distance(%v, %v) = %f but Distance(%v, %v) = %f",
				pair[0], pair[1], ab, pair[1], pair[0], ba)
		}
	}
}

func TestDistanceZeroOnlyForEqualPoints(t *testing.T) {
	a := image.Pt(42, 17)

	if d := Distance(a, a); d != 0 {
		t.Errorf("Distance of a point to itself should be 0, got %f", d)
	}

	if d := Distance(a, image.Pt(42, 18)); d <= 0 {
		t.Errorf("Distance of distinct points should be positive, got %f", d)
	}
}

func TestDistanceKnownValues(t *testing.T) {
	if d := Distance(image.Pt(0, 0), image.Pt(3, 4)); d != 5 {
		t.Errorf("Expected 3-4-5 triangle distance 5, got %f", d)
	}
}

func TestQuadCornersOrder(t *testing.T) {
	q := Quad{
		TopLeft:     image.Pt(0, 0),
		TopRight:    image.Pt(10, 0),
		BottomRight: image.Pt(10, 10),
		BottomLeft:  image.Pt(0, 10),
	}

	corners := q.Corners()
	if corners[0] != q.TopLeft || corners[1] != q.TopRight ||
		corners[2] != q.BottomRight || corners[3] != q.BottomLeft {
		t.Errorf("Corners() does not preserve TL, TR, BR, BL order: %v", corners)
	}
}
