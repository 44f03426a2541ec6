package postprocess

// numBoxFeatures is the number of leading box coordinate features (cx, cy, w, h).
const numBoxFeatures = 4

// OutputTensor is a read-only view over a flattened [1, numFeatures, numDetections]
// detector output stored feature-major.
//
// Reads outside the buffer return 0 instead of panicking; each one is counted
// so callers can report how degraded the frame was.
type OutputTensor struct {
	data          []float32
	numFeatures   int
	numDetections int
	misses        int
}

// NewOutputTensor wraps a flat output buffer.
//
// Arguments:
//   - data: The flat feature-major buffer.
//   - numClasses: The number of class score features following the box features.
//   - numDetections: The number of detection slots.
//
// Returns:
//   - *OutputTensor: The accessor.
func NewOutputTensor(data []float32, numClasses, numDetections int) *OutputTensor {
	return &OutputTensor{
		data:          data,
		numFeatures:   numBoxFeatures + numClasses,
		numDetections: numDetections,
	}
}

// ExpectedLen returns the buffer length implied by the declared shape.
func (t *OutputTensor) ExpectedLen() int {
	return t.numFeatures * t.numDetections
}

// Len returns the actual buffer length.
func (t *OutputTensor) Len() int {
	return len(t.data)
}

// At returns the value of feature for the given detection slot, or 0 when the
// index falls outside the buffer.
func (t *OutputTensor) At(feature, detection int) float32 {
	idx := feature*t.numDetections + detection
	if feature < 0 || detection < 0 || detection >= t.numDetections || idx >= len(t.data) {
		t.misses++
		return 0
	}
	return t.data[idx]
}

// Misses returns the number of out-of-range reads so far.
func (t *OutputTensor) Misses() int {
	return t.misses
}
