// Package inference - Per-frame post-processing pipeline from detector output to screen boxes.
package inference

import (
	"github.com/nvr-ai/go-overlay/models/model"
	"github.com/nvr-ai/go-overlay/models/postprocess"
	"github.com/nvr-ai/go-overlay/overlay"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PipelineBuilder assembles a Pipeline with a fluent API.
type PipelineBuilder struct {
	config *model.Config
	logger *zap.Logger
	err    error
}

// NewPipelineBuilder creates a new pipeline builder.
//
// Returns:
//   - *PipelineBuilder: The pipeline builder.
func NewPipelineBuilder() *PipelineBuilder {
	return &PipelineBuilder{}
}

// WithConfig sets the configuration for the pipeline.
//
// Arguments:
//   - config: The detector and overlay configuration.
//
// Returns:
//   - *PipelineBuilder: The pipeline builder.
func (b *PipelineBuilder) WithConfig(config model.Config) *PipelineBuilder {
	if b.HasError() {
		return b
	}
	if err := config.Validate(); err != nil {
		b.err = errors.Wrap(err, "invalid pipeline config")
		return b
	}
	b.config = &config
	return b
}

// WithLogger sets the diagnostics logger for the pipeline.
//
// Arguments:
//   - logger: The logger. Nil leaves diagnostics disabled.
//
// Returns:
//   - *PipelineBuilder: The pipeline builder.
func (b *PipelineBuilder) WithLogger(logger *zap.Logger) *PipelineBuilder {
	b.logger = logger
	return b
}

// HasError checks if the pipeline builder has errors.
//
// Returns:
//   - bool: True if there are errors, false otherwise.
func (b *PipelineBuilder) HasError() bool {
	return b.err != nil
}

// MustBuild builds the pipeline and panics if there is an error.
//
// Returns:
//   - *Pipeline: The pipeline.
func (b *PipelineBuilder) MustBuild() *Pipeline {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

// Build builds the pipeline.
//
// Returns:
//   - *Pipeline: The pipeline.
//   - error: The error if any.
func (b *PipelineBuilder) Build() (*Pipeline, error) {
	if b.HasError() {
		return nil, b.err
	}
	if b.config == nil {
		return nil, errors.New("config not configured")
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	decoder, err := postprocess.NewDecoder(b.config.DecoderConfig(), logger)
	if err != nil {
		return nil, err
	}
	mapper, err := overlay.NewMapper(b.config.OrientationPolicy, b.config.SizeCorrection)
	if err != nil {
		return nil, err
	}

	logger.Debug("pipeline built",
		zap.String("orientation_policy", string(mapper.Policy())),
		zap.Int("classes", len(b.config.Labels)),
		zap.Int("detections", b.config.NumDetections))

	return &Pipeline{
		config:  *b.config,
		decoder: decoder,
		mapper:  mapper,
		logger:  logger,
	}, nil
}
