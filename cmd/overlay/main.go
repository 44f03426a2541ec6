// Command overlay runs one frame of raw detector output through the overlay
// pipeline and prints the resulting screen boxes as JSON.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nvr-ai/go-overlay/images"
	"github.com/nvr-ai/go-overlay/inference"
	"github.com/nvr-ai/go-overlay/models/model"
	"github.com/nvr-ai/go-overlay/render"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

type screenBox struct {
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
	Left       float32 `json:"left"`
	Top        float32 `json:"top"`
	Width      float32 `json:"width"`
	Height     float32 `json:"height"`
}

type output struct {
	FrameID string            `json:"frame_id"`
	Boxes   []screenBox       `json:"boxes"`
	Timings inference.Timings `json:"timings"`
}

func main() {
	var (
		configFile       = flag.String("config", "", "Path to YAML configuration file (defaults apply when empty)")
		tensorFile       = flag.String("tensor", "", "Path to raw little-endian float32 detector output")
		sensorAspect     = flag.String("sensor-aspect", "", "Sensor aspect as W:H or width divided by height")
		sensorResolution = flag.String("sensor-resolution", string(images.ResolutionTypeFHD1080p), "Named sensor resolution, used when -sensor-aspect is empty")
		cameraAspect     = flag.Float64("camera-aspect", 16.0/9.0, "Camera preview width divided by height")
		surface          = flag.String("surface", "1920x1080", "Rendering surface size as WIDTHxHEIGHT")
		outFile          = flag.String("out", "", "Optional path of an annotated PNG of the overlay")
		debug            = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger, *configFile, *tensorFile, *sensorAspect, *sensorResolution,
		float32(*cameraAspect), *surface, *outFile); err != nil {
		logger.Fatal("overlay failed", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(logger *zap.Logger, configFile, tensorFile, sensorAspectArg,
	sensorResolution string, cameraAspect float32, surfaceArg, outFile string,
) error {
	if tensorFile == "" {
		return errors.New("tensor file is required (-tensor)")
	}

	config := model.DefaultConfig()
	if configFile != "" {
		loaded, err := model.LoadConfig(configFile)
		if err != nil {
			return err
		}
		config = *loaded
	}

	surface, err := parseSize(surfaceArg)
	if err != nil {
		return err
	}

	sensorAspect, err := parseAspect(sensorAspectArg)
	if err != nil {
		return err
	}
	if sensorAspect == 0 {
		res, ok := images.GetResolutionByType(images.ResolutionType(sensorResolution))
		if !ok {
			return errors.Errorf("unknown sensor resolution %q", sensorResolution)
		}
		logger.Info("using named sensor resolution", zap.Stringer("resolution", res))
	}

	tensor, err := readTensor(tensorFile)
	if err != nil {
		return err
	}

	pipeline, err := inference.NewPipelineBuilder().
		WithConfig(config).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}
	logger.Info("pipeline ready",
		zap.String("orientation_policy", string(pipeline.Config().OrientationPolicy)),
		zap.Float32("model_side", pipeline.Config().ModelSide))

	result := pipeline.Process(inference.Frame{
		Tensor:           tensor,
		SensorAspect:     sensorAspect,
		SensorResolution: images.ResolutionType(sensorResolution),
		CameraAspect:     cameraAspect,
		Surface:          surface,
	})
	if result.Err != nil {
		return result.Err
	}

	out := output{FrameID: result.FrameID.String(), Boxes: []screenBox{}, Timings: result.Timings}
	for _, b := range result.Boxes {
		out.Boxes = append(out.Boxes, screenBox{
			Label:      b.Label,
			Confidence: b.Confidence,
			Left:       b.Rect.Left,
			Top:        b.Rect.Top,
			Width:      b.Rect.Width,
			Height:     b.Rect.Height,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(err, "failed to write boxes")
	}

	if outFile != "" {
		img := gocv.NewMatWithSize(int(surface.Height), int(surface.Width), gocv.MatTypeCV8UC3)
		defer img.Close()

		render.Boxes(&img, result.Boxes, render.DefaultStyle())
		if ok := gocv.IMWrite(outFile, img); !ok {
			return errors.Errorf("failed to write %s", outFile)
		}
		logger.Info("overlay written", zap.String("path", outFile), zap.Int("boxes", len(result.Boxes)))
	}

	return nil
}

// readTensor reads a whole file of little-endian float32 values.
func readTensor(path string) ([]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tensor %s", path)
	}
	if len(raw)%4 != 0 {
		return nil, errors.Errorf("tensor %s has %d bytes, not a multiple of 4", path, len(raw))
	}

	data := make([]float32, len(raw)/4)
	if _, err := binary.Decode(raw, binary.LittleEndian, data); err != nil {
		return nil, errors.Wrapf(err, "failed to decode tensor %s", path)
	}
	return data, nil
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (images.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return images.Size{}, errors.Errorf("malformed size %q, want WIDTHxHEIGHT", s)
	}
	width, err := strconv.ParseFloat(w, 32)
	if err != nil {
		return images.Size{}, errors.Wrapf(err, "malformed width in %q", s)
	}
	height, err := strconv.ParseFloat(h, 32)
	if err != nil {
		return images.Size{}, errors.Wrapf(err, "malformed height in %q", s)
	}
	return images.Size{Width: float32(width), Height: float32(height)}, nil
}

// parseAspect parses "W:H" or a decimal ratio. An empty string yields 0.
func parseAspect(s string) (float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.Contains(s, ":") {
		return images.AspectRatio(s).Value()
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed aspect ratio %q", s)
	}
	if v <= 0 {
		return 0, errors.Errorf("aspect ratio %q must be positive", s)
	}
	return float32(v), nil
}
