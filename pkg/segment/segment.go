package segment

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Segmenter isolates image regions by color. Pixels whose hue falls inside a
// requested band (and whose saturation and value clear fixed floors) are
// kept; everything else is zeroed. Inverting the mask removes the band
// instead, which is how the map is isolated: by deleting the known
// background color rather than matching the map's own unconstrained colors.
type Segmenter struct {
	config Config
}

// Config holds the saturation and value floors applied alongside every hue
// band. The defaults separate vivid foreground colors from washed-out
// background and shadow.
type Config struct {
	MinSaturation float64
	MinValue      float64
}

// HueBand is an inclusive hue range in OpenCV's 0-179 hue scale.
type HueBand struct {
	Low  float64
	High float64
}

// New creates a Segmenter with default thresholds.
func New() *Segmenter {
	return &Segmenter{
		config: Config{
			MinSaturation: 50,
			MinValue:      30,
		},
	}
}

// NewWithConfig creates a Segmenter with custom thresholds.
func NewWithConfig(config Config) *Segmenter {
	return &Segmenter{config: config}
}

// Mask builds the binary color mask for an image: 255 where a pixel's HSV
// value lies inside the band, 0 elsewhere. With invert set the mask is
// complemented. The caller owns the returned Mat.
func (s *Segmenter) Mask(img gocv.Mat, band HueBand, invert bool) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.NewMat(), fmt.Errorf("cannot mask empty image")
	}
	if band.Low > band.High {
		return gocv.NewMat(), fmt.Errorf("invalid hue band: %v > %v", band.Low, band.High)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	lower := gocv.NewScalar(band.Low, s.config.MinSaturation, s.config.MinValue, 0)
	upper := gocv.NewScalar(band.High, 255, 255, 0)

	mask := gocv.NewMat()
	gocv.InRangeWithScalar(hsv, lower, upper, &mask)

	if invert {
		gocv.BitwiseNot(mask, &mask)
	}

	return mask, nil
}

// Isolate applies the band's mask to the image, zeroing every pixel outside
// the selection, and returns the result as a new image. The input is not
// modified. The caller owns the returned Mat.
func (s *Segmenter) Isolate(img gocv.Mat, band HueBand, invert bool) (gocv.Mat, error) {
	mask, err := s.Mask(img, band, invert)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer mask.Close()

	result := gocv.NewMat()
	gocv.BitwiseAndWithMask(img, img, &result, mask)

	return result, nil
}
