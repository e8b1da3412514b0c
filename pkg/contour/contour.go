package contour

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ErrEmptyScene is returned when an image contains no contours at all, e.g.
// when segmentation removed every pixel.
var ErrEmptyScene = errors.New("no object found in scene")

// Extractor reduces an image to the simplified polygon outlining its largest
// connected region.
type Extractor struct {
	config Config
}

// Config holds configuration for contour extraction.
type Config struct {
	// EpsilonRatio is the Douglas-Peucker tolerance expressed as a fraction
	// of the contour's closed perimeter.
	EpsilonRatio float64
}

// New creates an Extractor with the default simplification tolerance of 10%
// of the contour perimeter.
func New() *Extractor {
	return &Extractor{
		config: Config{
			EpsilonRatio: 0.10,
		},
	}
}

// NewWithConfig creates an Extractor with a custom configuration.
func NewWithConfig(config Config) *Extractor {
	return &Extractor{config: config}
}

// LargestPolygon finds all external contours of the image's non-zero
// regions, keeps the one enclosing the largest area (ties keep the first
// encountered), and simplifies it to its corner vertices.
func (e *Extractor) LargestPolygon(img gocv.Mat) ([]image.Point, error) {
	if img.Empty() {
		return nil, fmt.Errorf("cannot extract contours from empty image")
	}

	var gray gocv.Mat
	if img.Channels() > 1 {
		gray = gocv.NewMat()
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		gray = img.Clone()
	}
	defer gray.Close()

	contours := gocv.FindContours(gray, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return nil, ErrEmptyScene
	}

	largest := 0
	largestArea := -1.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > largestArea {
			largestArea = area
			largest = i
		}
	}

	curve := contours.At(largest)
	perimeter := gocv.ArcLength(curve, true)

	simplified := gocv.ApproxPolyDP(curve, e.config.EpsilonRatio*perimeter, true)
	defer simplified.Close()

	return simplified.ToPoints(), nil
}
