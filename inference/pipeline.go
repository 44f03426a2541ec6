package inference

import (
	"time"

	"github.com/google/uuid"
	"github.com/nvr-ai/go-overlay/images"
	"github.com/nvr-ai/go-overlay/models/model"
	"github.com/nvr-ai/go-overlay/models/postprocess"
	"github.com/nvr-ai/go-overlay/models/postprocess/tensors"
	"github.com/nvr-ai/go-overlay/overlay"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Frame is one frame of detector output together with its display geometry.
type Frame struct {
	// Tensor is the flat feature-major detector output.
	Tensor []float32
	// SensorAspect is the sensor frame width divided by its height.
	SensorAspect float32
	// SensorResolution names the sensor resolution; it is used when
	// SensorAspect is zero.
	SensorResolution images.ResolutionType
	// CameraAspect is the camera preview width divided by its height.
	CameraAspect float32
	// Surface is the rendering surface size.
	Surface images.Size
}

// Timings records how long each stage took for a frame.
type Timings struct {
	Decode   time.Duration `json:"decode"`
	Suppress time.Duration `json:"suppress"`
	Map      time.Duration `json:"map"`
}

// Total returns the sum of all stage durations.
func (t Timings) Total() time.Duration {
	return t.Decode + t.Suppress + t.Map
}

// Result is the outcome of processing one frame.
type Result struct {
	// FrameID correlates diagnostics of a single frame.
	FrameID uuid.UUID
	// Detections are the suppressed detections in model space.
	Detections []postprocess.Detection
	// Boxes are the detections placed on screen, in the same order.
	Boxes []overlay.ScreenBox
	// Timings are the per-stage durations.
	Timings Timings
	// Err is set when the frame failed; Boxes and Detections are then empty.
	Err error
}

// Pipeline decodes, suppresses and maps detector output frame by frame. It
// holds no per-frame state and is safe for concurrent use.
type Pipeline struct {
	config  model.Config
	decoder *postprocess.Decoder
	mapper  *overlay.Mapper
	logger  *zap.Logger
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() model.Config {
	return p.config
}

// Process runs one frame through decoding, suppression and screen mapping.
//
// Failures never escape as panics: invalid geometry or any panic raised while
// processing yields a Result with no boxes and Err set, and is logged.
//
// Arguments:
//   - frame: The detector output and display geometry.
//
// Returns:
//   - Result: The screen boxes for the frame.
func (p *Pipeline) Process(frame Frame) (result Result) {
	result.FrameID = uuid.New()
	logger := p.logger.With(zap.String("frame_id", result.FrameID.String()))

	defer func() {
		if r := recover(); r != nil {
			result = p.fail(result, logger, errors.Errorf("frame processing panicked: %v", r))
		}
	}()

	lb, fit, err := p.geometry(frame)
	if err != nil {
		return p.fail(result, logger, err)
	}

	start := time.Now()
	candidates := p.decoder.WithLogger(logger).Decode(frame.Tensor)
	result.Timings.Decode = time.Since(start)

	start = time.Now()
	result.Detections = postprocess.ApplyGreedyNMS(candidates, &p.config.NMS)
	result.Timings.Suppress = time.Since(start)

	start = time.Now()
	result.Boxes = p.mapper.MapAll(result.Detections, lb, fit)
	result.Timings.Map = time.Since(start)

	logger.Debug("frame processed",
		zap.Int("candidates", len(candidates)),
		zap.Int("detections", len(result.Detections)),
		zap.Duration("elapsed", result.Timings.Total()))

	return result
}

// ProcessOutput processes a frame whose tensor comes from an inference
// runtime adapter. A declared shape that disagrees with the configuration is
// logged; the buffer is still decoded against the configured shape.
func (p *Pipeline) ProcessOutput(out tensors.Output, frame Frame) Result {
	if out.Classes() != len(p.config.Labels) || out.Detections != p.config.NumDetections {
		p.logger.Warn("runtime output shape differs from configuration",
			zap.Int("classes", out.Classes()),
			zap.Int("detections", out.Detections),
			zap.Int("configured_classes", len(p.config.Labels)),
			zap.Int("configured_detections", p.config.NumDetections))
	}
	frame.Tensor = out.Data
	return p.Process(frame)
}

func (p *Pipeline) geometry(frame Frame) (images.Letterbox, images.PreviewFit, error) {
	sensorAspect := frame.SensorAspect
	if sensorAspect == 0 && frame.SensorResolution != "" {
		aspect, err := images.AspectOf(frame.SensorResolution)
		if err != nil {
			return images.Letterbox{}, images.PreviewFit{}, errors.Wrap(err, "sensor resolution")
		}
		sensorAspect = aspect
	}

	lb, err := images.NewLetterbox(sensorAspect, p.config.ModelSide)
	if err != nil {
		return images.Letterbox{}, images.PreviewFit{}, errors.Wrap(err, "letterbox")
	}
	fit, err := images.NewPreviewFit(frame.CameraAspect, frame.Surface)
	if err != nil {
		return images.Letterbox{}, images.PreviewFit{}, errors.Wrap(err, "preview fit")
	}
	return lb, fit, nil
}

func (p *Pipeline) fail(result Result, logger *zap.Logger, err error) Result {
	logger.Error("frame dropped", zap.Error(err))
	return Result{
		FrameID: result.FrameID,
		Timings: result.Timings,
		Err:     err,
	}
}
