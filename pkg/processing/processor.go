package processing

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnreadableImage is returned when an input file is missing or cannot be
// decoded by any available codec.
var ErrUnreadableImage = errors.New("unreadable image")

// Processor handles image file I/O for the pipeline. Images are loaded into
// OpenCV Mats (BGR byte order); when OpenCV cannot decode a file the
// pure-Go decoders take over and the result is converted.
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadMat loads an image file into a BGR Mat.
func (p *Processor) LoadMat(path string) (gocv.Mat, error) {
	if _, err := os.Stat(path); err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if !mat.Empty() {
		return mat, nil
	}
	mat.Close()

	// Fallback: pure-Go decode, then convert. ImageToMatRGB produces BGR
	// channel order, same as IMRead.
	img, err := p.loadGoImage(path)
	if err != nil {
		return gocv.NewMat(), err
	}

	converted, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to convert decoded image: %w", err)
	}

	return converted, nil
}

// loadGoImage decodes an image with the registered pure-Go codecs, trying
// imaging first and an explicit WebP decode as a last resort.
func (p *Processor) loadGoImage(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return img, nil
	}

	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}

	return nil, fmt.Errorf("%w: unknown format for %s", ErrUnreadableImage, path)
}

// SaveMat writes a Mat to disk, choosing the encoder from the file
// extension. Used for debug artifacts.
func (p *Processor) SaveMat(mat gocv.Mat, path string) error {
	if mat.Empty() {
		return fmt.Errorf("cannot save empty image")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "jpg", "jpeg", "png", "bmp", "tif", "tiff":
		if ok := gocv.IMWrite(path, mat); !ok {
			return fmt.Errorf("failed to save image: %s", path)
		}
		return nil
	case "webp":
		img, err := mat.ToImage()
		if err != nil {
			return fmt.Errorf("failed to convert image for saving: %w", err)
		}
		return p.SaveImage(img, path, 90, false)
	default:
		return fmt.Errorf("unsupported output format: %s", ext)
	}
}

// SaveImage saves a decoded image to path in the format given by its
// extension, with quality and lossless applying to WebP/JPEG output.
func (p *Processor) SaveImage(img image.Image, path string, quality int, lossless bool) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	default: // jpg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}
