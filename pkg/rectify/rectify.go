package rectify

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/menta2k/map-reader/pkg/types"
)

// ErrDegenerateQuad is returned when a quadrilateral is too close to
// collinear to define a rectangle, i.e. the computed output width or height
// collapses to zero.
var ErrDegenerateQuad = errors.New("degenerate quadrilateral")

// OrderCorners labels four unordered corner points canonically. The corner
// with the smallest x+y sum is top-left and the largest is bottom-right; the
// smallest x-y difference is top-right and the largest bottom-left. This
// holds for any convex quadrilateral roughly aligned with the image axes.
func OrderCorners(points []image.Point) (types.Quad, error) {
	if len(points) != 4 {
		return types.Quad{}, fmt.Errorf("expected 4 corner points, got %d", len(points))
	}

	var quad types.Quad
	minSum, maxSum := points[0].X+points[0].Y, points[0].X+points[0].Y
	minDiff, maxDiff := points[0].X-points[0].Y, points[0].X-points[0].Y
	quad.TopLeft, quad.BottomRight = points[0], points[0]
	quad.TopRight, quad.BottomLeft = points[0], points[0]

	for _, p := range points[1:] {
		sum := p.X + p.Y
		diff := p.X - p.Y

		if sum < minSum {
			minSum = sum
			quad.TopLeft = p
		}
		if sum > maxSum {
			maxSum = sum
			quad.BottomRight = p
		}
		if diff > maxDiff {
			maxDiff = diff
			quad.TopRight = p
		}
		if diff < minDiff {
			minDiff = diff
			quad.BottomLeft = p
		}
	}

	return quad, nil
}

// OutputSize computes the dimensions of the rectified map: the width is the
// longer of the quad's two horizontal edges and the height the longer of its
// two vertical edges.
func OutputSize(quad types.Quad) (int, int) {
	widthBottom := types.Distance(quad.BottomRight, quad.BottomLeft)
	widthTop := types.Distance(quad.TopRight, quad.TopLeft)
	width := int(widthBottom)
	if int(widthTop) > width {
		width = int(widthTop)
	}

	heightRight := types.Distance(quad.TopRight, quad.BottomRight)
	heightLeft := types.Distance(quad.TopLeft, quad.BottomLeft)
	height := int(heightRight)
	if int(heightLeft) > height {
		height = int(heightLeft)
	}

	return width, height
}

// Rectify warps the source image so that the given quadrilateral becomes an
// axis-aligned rectangle of computed size, and returns the warped image with
// its width and height. The caller owns the returned Mat.
func Rectify(img gocv.Mat, quad types.Quad) (gocv.Mat, int, int, error) {
	if img.Empty() {
		return gocv.NewMat(), 0, 0, fmt.Errorf("cannot rectify empty image")
	}

	width, height := OutputSize(quad)
	if width <= 0 || height <= 0 {
		return gocv.NewMat(), 0, 0, fmt.Errorf("%w: output size %dx%d", ErrDegenerateQuad, width, height)
	}

	src := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: float32(quad.TopLeft.X), Y: float32(quad.TopLeft.Y)},
		{X: float32(quad.TopRight.X), Y: float32(quad.TopRight.Y)},
		{X: float32(quad.BottomRight.X), Y: float32(quad.BottomRight.Y)},
		{X: float32(quad.BottomLeft.X), Y: float32(quad.BottomLeft.Y)},
	})
	defer src.Close()

	dst := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: 0, Y: 0},
		{X: float32(width - 1), Y: 0},
		{X: float32(width - 1), Y: float32(height - 1)},
		{X: 0, Y: float32(height - 1)},
	})
	defer dst.Close()

	transform := gocv.GetPerspectiveTransform2f(src, dst)
	defer transform.Close()

	warped := gocv.NewMat()
	gocv.WarpPerspective(img, &warped, transform, image.Pt(width, height))

	return warped, width, height, nil
}
