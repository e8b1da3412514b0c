// Package mapreader locates a triangular pointer on a photographed map and
// reports where it sits and where it points.
//
// The input scene is a rectangular map lying on a uniformly colored
// background, with a single triangular marker of a known color placed fully
// on the map. The pipeline removes the background by color, finds the map's
// outline, rectifies the map into an axis-aligned rectangle, isolates the
// marker on the rectified map, and finally derives the marker tip's
// normalized position (unit square, origin bottom-left) and its bearing in
// degrees clockwise from north.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		mapreader "github.com/menta2k/map-reader"
//	)
//
//	func main() {
//		reader := mapreader.New()
//
//		reading, err := reader.ReadFile("scene.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("POSITION %.3f %.3f\n", reading.Position.X, reading.Position.Y)
//		fmt.Printf("BEARING %.1f\n", reading.Bearing)
//	}
//
// The pipeline consists of four stages applied in strict sequence:
//
// 1. Segmentator (pkg/segment): hue-band color isolation with optional inversion
// 2. Extractor (pkg/contour): largest external contour reduced to a polygon
// 3. Rectifier (pkg/rectify): corner ordering and perspective warping
// 4. Resolver (pkg/marker): apex/base geometry, position and bearing
//
// Each stage is a pure function of the previous stage's output; no state
// survives a run. Scene assumptions are checked, not trusted: an empty
// segmentation result, a map outline that is not a quadrilateral, a marker
// outline that is not a triangle, or a degenerate map quadrilateral all
// produce distinct errors instead of undefined downstream behavior.
package mapreader

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/menta2k/map-reader/internal/utils"
	"github.com/menta2k/map-reader/pkg/contour"
	"github.com/menta2k/map-reader/pkg/marker"
	"github.com/menta2k/map-reader/pkg/processing"
	"github.com/menta2k/map-reader/pkg/rectify"
	"github.com/menta2k/map-reader/pkg/segment"
	"github.com/menta2k/map-reader/pkg/types"
)

// Version of the map reader library
const Version = "1.0.0"

// ErrAmbiguousScene is returned when segmentation succeeds but the resulting
// outline does not have the expected number of corners: 4 for the map, 3 for
// the marker.
var ErrAmbiguousScene = errors.New("ambiguous scene")

// Options configures a Reader.
type Options struct {
	// MapBand is the background hue band removed to isolate the map.
	MapBand segment.HueBand
	// MarkerBand is the marker hue band kept to isolate the pointer.
	MarkerBand segment.HueBand
	Segment    segment.Config
	Contour    contour.Config

	// DebugDir, when non-empty, receives an image per pipeline stage.
	DebugDir    string
	DebugFormat string
}

// DefaultOptions returns options tuned for a dark blue background and a red
// triangular pointer.
func DefaultOptions() Options {
	return Options{
		MapBand:     segment.HueBand{Low: 97, High: 107},
		MarkerBand:  segment.HueBand{Low: 160, High: 179},
		Segment:     segment.Config{MinSaturation: 50, MinValue: 30},
		Contour:     contour.Config{EpsilonRatio: 0.10},
		DebugFormat: "png",
	}
}

// Reader runs the full map reading pipeline
type Reader struct {
	segmenter *segment.Segmenter
	extractor *contour.Extractor
	processor *processing.Processor
	opts      Options
}

// New creates a Reader with default options
func New() *Reader {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a Reader with custom options
func NewWithOptions(opts Options) *Reader {
	if opts.DebugFormat == "" {
		opts.DebugFormat = "png"
	}
	return &Reader{
		segmenter: segment.NewWithConfig(opts.Segment),
		extractor: contour.NewWithConfig(opts.Contour),
		processor: processing.NewProcessor(),
		opts:      opts,
	}
}

// ReadFile loads an image file and reads the marker from it.
func (r *Reader) ReadFile(path string) (types.Reading, error) {
	img, err := r.processor.LoadMat(path)
	if err != nil {
		return types.Reading{}, err
	}
	defer img.Close()

	return r.Read(img)
}

// Read runs the pipeline over a decoded BGR image.
func (r *Reader) Read(img gocv.Mat) (types.Reading, error) {
	// Stage 1: remove the background color; what remains is the map.
	mapScene, err := r.segmenter.Isolate(img, r.opts.MapBand, true)
	if err != nil {
		return types.Reading{}, fmt.Errorf("map segmentation failed: %w", err)
	}
	defer mapScene.Close()
	r.dumpStage(1, "map_mask", mapScene)

	// Stage 2: the map's outline must simplify to a quadrilateral.
	corners, err := r.extractor.LargestPolygon(mapScene)
	if err != nil {
		return types.Reading{}, fmt.Errorf("map outline extraction failed: %w", err)
	}
	if len(corners) != 4 {
		return types.Reading{}, fmt.Errorf("%w: map outline has %d corners, want 4", ErrAmbiguousScene, len(corners))
	}

	// Stage 3: rectify the map into an axis-aligned rectangle.
	quad, err := rectify.OrderCorners(corners)
	if err != nil {
		return types.Reading{}, err
	}

	warped, mapWidth, mapHeight, err := rectify.Rectify(img, quad)
	if err != nil {
		return types.Reading{}, fmt.Errorf("map rectification failed: %w", err)
	}
	defer warped.Close()
	r.dumpStage(2, "rectified", warped)

	// Stage 4: isolate the marker on the rectified map.
	markerScene, err := r.segmenter.Isolate(warped, r.opts.MarkerBand, false)
	if err != nil {
		return types.Reading{}, fmt.Errorf("marker segmentation failed: %w", err)
	}
	defer markerScene.Close()
	r.dumpStage(3, "marker_mask", markerScene)

	vertices, err := r.extractor.LargestPolygon(markerScene)
	if err != nil {
		return types.Reading{}, fmt.Errorf("marker outline extraction failed: %w", err)
	}
	if len(vertices) != 3 {
		return types.Reading{}, fmt.Errorf("%w: marker outline has %d corners, want 3", ErrAmbiguousScene, len(vertices))
	}

	reading, err := marker.Resolve(vertices, mapWidth, mapHeight)
	if err != nil {
		return types.Reading{}, fmt.Errorf("marker resolution failed: %w", err)
	}

	return reading, nil
}

// dumpStage writes a pipeline stage image into the debug directory.
// Best-effort: a failed debug write never fails the read.
func (r *Reader) dumpStage(stage int, name string, img gocv.Mat) {
	if r.opts.DebugDir == "" {
		return
	}
	if err := utils.EnsureDir(r.opts.DebugDir); err != nil {
		return
	}

	path := utils.GenerateOutputFilename(name, r.opts.DebugDir,
		fmt.Sprintf("%02d_", stage), "", r.opts.DebugFormat)
	_ = r.processor.SaveMat(img, path)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
