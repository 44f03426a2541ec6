package postprocess

import (
	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-overlay/images"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DecoderConfig defines the static shape and filtering of a detector output.
type DecoderConfig struct {
	// NumDetections is the number of detection slots the model emits (e.g. 8400).
	NumDetections int
	// Labels is the ordered class label list; its length is the number of classes.
	Labels []string
	// ConfidenceThreshold drops detections whose winning score is not above it.
	ConfidenceThreshold float32
}

// Validate checks the configuration for programmer errors.
func (c DecoderConfig) Validate() error {
	if c.NumDetections <= 0 {
		return errors.Errorf("num detections must be positive, got %d", c.NumDetections)
	}
	if len(c.Labels) == 0 {
		return errors.New("label list is empty")
	}
	if !(c.ConfidenceThreshold >= 0 && c.ConfidenceThreshold <= 1) {
		return errors.Errorf("confidence threshold must be within [0, 1], got %v", c.ConfidenceThreshold)
	}
	return nil
}

// Decoder turns flat detector output into candidate detections.
type Decoder struct {
	config DecoderConfig
	logger *zap.Logger
}

// NewDecoder creates a decoder for a fixed output shape.
//
// Arguments:
//   - config: The output shape, labels and confidence threshold.
//   - logger: The diagnostics logger, nil for none.
//
// Returns:
//   - *Decoder: The decoder.
//   - error: If the configuration is invalid.
//
// @example
//
//	decoder, err := NewDecoder(DecoderConfig{
//	    NumDetections:       8400,
//	    Labels:              model.YOLOClasses,
//	    ConfidenceThreshold: 0.5,
//	}, logger)
func NewDecoder(config DecoderConfig, logger *zap.Logger) (*Decoder, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid decoder config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{config: config, logger: logger}, nil
}

// WithLogger returns a copy of the decoder that reports to logger.
func (d *Decoder) WithLogger(logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{config: d.config, logger: logger}
}

// Decode decodes one frame of detector output.
func (d *Decoder) Decode(data []float32) []Detection {
	return Decode(data, d.config.NumDetections, d.config.Labels, d.config.ConfidenceThreshold, d.logger)
}

// Decode reads a feature-major [1, 4+len(labels), numDetections] buffer and
// returns every slot whose best class score is strictly above the threshold,
// in slot order.
//
// A buffer whose length does not match the declared shape is still decoded:
// the mismatch is logged and missing values read as 0. Negative box extents
// are clamped to 0.
//
// Arguments:
//   - data: The flat detector output.
//   - numDetections: The number of detection slots.
//   - labels: The ordered class labels.
//   - confidenceThreshold: The exclusive minimum winning score.
//   - logger: The diagnostics logger, nil for none.
//
// Returns:
//   - []Detection: The candidate detections, unsorted and not deduplicated.
func Decode(data []float32, numDetections int, labels []string, confidenceThreshold float32,
	logger *zap.Logger,
) []Detection {
	if logger == nil {
		logger = zap.NewNop()
	}
	if numDetections <= 0 || len(labels) == 0 {
		logger.Warn("nothing to decode",
			zap.Int("num_detections", numDetections),
			zap.Int("num_classes", len(labels)))
		return nil
	}

	tensor := NewOutputTensor(data, len(labels), numDetections)
	if tensor.Len() != tensor.ExpectedLen() {
		logger.Warn("output tensor shape mismatch",
			zap.Int("expected", tensor.ExpectedLen()),
			zap.Int("actual", tensor.Len()),
			zap.Int("num_detections", numDetections),
			zap.Int("num_classes", len(labels)))
	}

	var detections []Detection
	for i := 0; i < numDetections; i++ {
		// NaN scores never compare greater, so they can neither win nor pass.
		classID := -1
		score := math32.Inf(-1)
		for c := 0; c < len(labels); c++ {
			if s := tensor.At(numBoxFeatures+c, i); s > score {
				score = s
				classID = c
			}
		}

		if classID < 0 || !(score > confidenceThreshold) {
			continue
		}

		detections = append(detections, Detection{
			Box: images.Box{
				X:      tensor.At(0, i),
				Y:      tensor.At(1, i),
				Width:  nonNegative(tensor.At(2, i)),
				Height: nonNegative(tensor.At(3, i)),
			},
			Confidence: score,
			ClassID:    classID,
			ClassName:  labels[classID],
		})
	}

	if misses := tensor.Misses(); misses > 0 {
		logger.Warn("out-of-range tensor reads returned zero",
			zap.Int("misses", misses))
	}

	return detections
}

// nonNegative clamps negative and NaN extents to zero.
func nonNegative(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	return v
}
