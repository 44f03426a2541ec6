// Package model - Configuration of the detector output and its overlay mapping.
package model

import (
	"os"
	"path/filepath"

	"github.com/nvr-ai/go-overlay/images"
	"github.com/nvr-ai/go-overlay/models/postprocess"
	"github.com/nvr-ai/go-overlay/overlay"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes a detector's output layout and how its detections are
// filtered and placed on screen.
type Config struct {
	// Labels is the ordered class label list; it defines the number of classes.
	Labels []string `json:"labels" yaml:"labels"`
	// LabelsFile, when set, replaces Labels with one label per line read from
	// the file. Relative paths resolve against the config file directory.
	LabelsFile string `json:"labels_file,omitempty" yaml:"labels_file,omitempty"`
	// NumDetections is the number of detection slots in the output tensor.
	NumDetections int `json:"num_detections" yaml:"num_detections"`
	// ModelSide is the side length of the square model input.
	ModelSide float32 `json:"model_side" yaml:"model_side"`
	// ConfidenceThreshold drops detections whose winning score is not above it.
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"`
	// NMS configures duplicate suppression.
	NMS postprocess.NMSConfig `json:"nms" yaml:"nms"`
	// OrientationPolicy selects how the sensor frame maps to the display.
	OrientationPolicy overlay.OrientationPolicy `json:"orientation_policy" yaml:"orientation_policy"`
	// SizeCorrection scales box extents on screen.
	SizeCorrection overlay.SizeCorrection `json:"size_correction" yaml:"size_correction"`
}

// DefaultConfig returns a configuration for a COCO-trained YOLOv8 style
// detector with a 640x640 input.
//
// Returns:
//   - Config: Default configuration
//
// @example
// config := DefaultConfig()
// config.OrientationPolicy = overlay.PolicyRotateMirror
func DefaultConfig() Config {
	labels := make([]string, len(YOLOClasses))
	copy(labels, YOLOClasses)

	return Config{
		Labels:              labels,
		NumDetections:       8400,
		ModelSide:           640,
		ConfidenceThreshold: 0.5,
		NMS: postprocess.NMSConfig{
			IoUThreshold: 0.7,
		},
		OrientationPolicy: overlay.PolicyDirect,
		SizeCorrection:    overlay.DefaultSizeCorrection(),
	}
}

// Validate rejects configurations that indicate programmer or deployment error.
func (c Config) Validate() error {
	if len(c.Labels) == 0 {
		return errors.New("label list is empty")
	}
	if c.NumDetections <= 0 {
		return errors.Errorf("num_detections must be positive, got %d", c.NumDetections)
	}
	if !images.PositiveFinite(c.ModelSide) {
		return errors.Errorf("model_side must be positive, got %v", c.ModelSide)
	}
	if !inUnitRange(c.ConfidenceThreshold) {
		return errors.Errorf("confidence_threshold must be within [0, 1], got %v", c.ConfidenceThreshold)
	}
	if !inUnitRange(c.NMS.IoUThreshold) {
		return errors.Errorf("nms.iou_threshold must be within [0, 1], got %v", c.NMS.IoUThreshold)
	}
	if err := c.OrientationPolicy.Validate(); err != nil {
		return err
	}
	return errors.Wrap(c.SizeCorrection.Validate(), "size_correction")
}

// inUnitRange reports whether v lies in [0, 1]; NaN does not.
func inUnitRange(v float32) bool {
	return v >= 0 && v <= 1
}

// DecoderConfig returns the decoder settings of the configuration.
func (c Config) DecoderConfig() postprocess.DecoderConfig {
	return postprocess.DecoderConfig{
		NumDetections:       c.NumDetections,
		Labels:              c.Labels,
		ConfidenceThreshold: c.ConfidenceThreshold,
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
//
// Arguments:
//   - path: Path to the YAML file.
//
// Returns:
//   - *Config: The validated configuration.
//   - error: If the file cannot be read or parsed, or the result is invalid.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}

	if config.LabelsFile != "" {
		labelsPath := config.LabelsFile
		if !filepath.IsAbs(labelsPath) {
			labelsPath = filepath.Join(filepath.Dir(path), labelsPath)
		}
		labels, err := LoadLabels(labelsPath)
		if err != nil {
			return nil, err
		}
		config.Labels = labels
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return &config, nil
}
