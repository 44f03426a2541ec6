package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-overlay/overlay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate(), "default configuration should be valid")

	assert.Len(t, config.Labels, 80)
	assert.Equal(t, 8400, config.NumDetections)
	assert.Equal(t, float32(640), config.ModelSide)
	assert.Equal(t, overlay.PolicyDirect, config.OrientationPolicy)
	assert.Equal(t, float32(1.1), config.SizeCorrection.Width)
	assert.Equal(t, float32(1.25), config.SizeCorrection.Height)
	assert.False(t, config.NMS.ClassAware, "suppression should compare across classes by default")

	config.Labels[0] = "changed"
	assert.Equal(t, "person", YOLOClasses[0], "default labels should be a copy")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty labels", func(c *Config) { c.Labels = nil }},
		{"zero detections", func(c *Config) { c.NumDetections = 0 }},
		{"zero model side", func(c *Config) { c.ModelSide = 0 }},
		{"negative confidence", func(c *Config) { c.ConfidenceThreshold = -0.1 }},
		{"confidence above one", func(c *Config) { c.ConfidenceThreshold = 1.1 }},
		{"negative iou", func(c *Config) { c.NMS.IoUThreshold = -0.5 }},
		{"unknown policy", func(c *Config) { c.OrientationPolicy = "upside-down" }},
		{"zero width correction", func(c *Config) { c.SizeCorrection.Width = 0 }},
		{"nan model side", func(c *Config) { c.ModelSide = math32.NaN() }},
		{"infinite model side", func(c *Config) { c.ModelSide = math32.Inf(1) }},
		{"nan confidence", func(c *Config) { c.ConfidenceThreshold = math32.NaN() }},
		{"nan iou", func(c *Config) { c.NMS.IoUThreshold = math32.NaN() }},
		{"nan height correction", func(c *Config) { c.SizeCorrection.Height = math32.NaN() }},
		{"infinite width correction", func(c *Config) { c.SizeCorrection.Width = math32.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "labels.txt", "# fruit\nbanana\n\napple\n")
	path := writeFile(t, dir, "overlay.yaml", `
labels_file: labels.txt
num_detections: 2100
model_side: 320
confidence_threshold: 0.4
nms:
  iou_threshold: 0.45
orientation_policy: rotate-mirror
size_correction:
  height: 1.5
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"banana", "apple"}, config.Labels)
	assert.Equal(t, 2100, config.NumDetections)
	assert.Equal(t, float32(320), config.ModelSide)
	assert.Equal(t, float32(0.4), config.ConfidenceThreshold)
	assert.Equal(t, float32(0.45), config.NMS.IoUThreshold)
	assert.Equal(t, overlay.PolicyRotateMirror, config.OrientationPolicy)
	assert.Equal(t, float32(1.1), config.SizeCorrection.Width, "unset fields keep their defaults")
	assert.Equal(t, float32(1.5), config.SizeCorrection.Height)

	decoder := config.DecoderConfig()
	assert.Equal(t, 2100, decoder.NumDetections)
	assert.Equal(t, config.Labels, decoder.Labels)
}

func TestLoadConfig_InlineLabels(t *testing.T) {
	path := writeFile(t, t.TempDir(), "overlay.yaml", "labels: [A, B]\nnum_detections: 4\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, config.Labels)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "missing file")

	_, err = LoadConfig(writeFile(t, dir, "bad.yaml", "labels: [unterminated"))
	assert.Error(t, err, "malformed yaml")

	_, err = LoadConfig(writeFile(t, dir, "invalid.yaml", "confidence_threshold: -1\n"))
	assert.Error(t, err, "invalid values")

	_, err = LoadConfig(writeFile(t, dir, "nan.yaml", "confidence_threshold: .nan\n"))
	assert.Error(t, err, "nan threshold")

	_, err = LoadConfig(writeFile(t, dir, "nolabels.yaml", "labels_file: nope.txt\n"))
	assert.Error(t, err, "missing labels file")
}

func TestLoadLabels_Empty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "labels.txt", "\n# nothing here\n")
	_, err := LoadLabels(path)
	assert.Error(t, err)
}
