package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	mapreader "github.com/menta2k/map-reader"
	"github.com/menta2k/map-reader/internal/config"
	"github.com/menta2k/map-reader/internal/utils"
	"github.com/menta2k/map-reader/pkg/contour"
	"github.com/menta2k/map-reader/pkg/processing"
	"github.com/menta2k/map-reader/pkg/segment"
)

func main() {
	var configPath, debugDir string

	flag.StringVar(&configPath, "config", "", "path to a JSON config file (hue bands, thresholds)")
	flag.StringVar(&debugDir, "debug", "", "directory for per-stage debug images")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <image-file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	if !utils.FileExists(filename) || !utils.IsImageFile(filename) {
		fmt.Println("File not found")
		os.Exit(1)
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "map-reader: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if debugDir != "" {
		cfg.Output.DebugDir = debugDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "map-reader: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	reader := mapreader.NewWithOptions(mapreader.Options{
		MapBand:     segment.HueBand{Low: cfg.Segmentation.MapHueLow, High: cfg.Segmentation.MapHueHigh},
		MarkerBand:  segment.HueBand{Low: cfg.Segmentation.MarkerHueLow, High: cfg.Segmentation.MarkerHueHigh},
		Segment:     segment.Config{MinSaturation: cfg.Segmentation.MinSaturation, MinValue: cfg.Segmentation.MinValue},
		Contour:     contour.Config{EpsilonRatio: cfg.Contour.EpsilonRatio},
		DebugDir:    cfg.Output.DebugDir,
		DebugFormat: cfg.Output.DebugFormat,
	})

	reading, err := reader.ReadFile(filename)
	if err != nil {
		if errors.Is(err, processing.ErrUnreadableImage) {
			fmt.Println("File not found")
		} else {
			fmt.Fprintf(os.Stderr, "map-reader: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("The filename to work on is %s.\n", filename)
	fmt.Printf("POSITION %.3f %.3f\n", reading.Position.X, reading.Position.Y)
	fmt.Printf("BEARING %.1f\n", reading.Bearing)
}
