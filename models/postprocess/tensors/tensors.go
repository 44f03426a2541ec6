// Package tensors - Adapters from inference runtime outputs to flat detector buffers.
package tensors

import (
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"
)

// Output is a flat feature-major detector output with its declared shape.
type Output struct {
	// Data is the flattened [1, Features, Detections] buffer.
	Data []float32
	// Features is the number of features per detection (4 + classes).
	Features int
	// Detections is the number of detection slots.
	Detections int
}

// Classes returns the number of class score features.
func (o Output) Classes() int {
	return o.Features - 4
}

// TensorData is the read side of an onnxruntime output tensor;
// *ort.Tensor[float32] satisfies it.
type TensorData interface {
	GetData() []float32
	GetShape() ort.Shape
}

// FromORT adapts an onnxruntime output tensor of shape [1, F, N] or [F, N].
//
// Arguments:
//   - t: The output tensor.
//
// Returns:
//   - Output: The flat buffer and its shape. The data is shared with t unless
//     t is a view (sliced or transposed), which is materialized first.
//   - error: If the rank is unsupported.
func FromORT(t TensorData) (Output, error) {
	shape := t.GetShape()
	dims := make([]int, len(shape))
	for i, d := range shape {
		dims[i] = int(d)
	}
	features, detections, err := featureMajor(dims)
	if err != nil {
		return Output{}, errors.Wrap(err, "onnxruntime output")
	}
	return Output{Data: t.GetData(), Features: features, Detections: detections}, nil
}

// FromDense adapts a gorgonia dense tensor of shape [1, F, N] or [F, N]
// holding float32 values.
//
// Arguments:
//   - t: The dense tensor.
//
// Returns:
//   - Output: The flat buffer and its shape. The data is shared with t unless
//     t is a view (sliced or transposed), which is materialized first.
//   - error: If the dtype or rank is unsupported.
func FromDense(t *tensor.Dense) (Output, error) {
	if t == nil {
		return Output{}, errors.New("dense tensor is nil")
	}
	if t.Dtype() != tensor.Float32 {
		return Output{}, errors.Errorf("dense tensor dtype %v is not float32", t.Dtype())
	}
	features, detections, err := featureMajor([]int(t.Shape()))
	if err != nil {
		return Output{}, errors.Wrap(err, "dense tensor")
	}
	if t.IsMaterializable() {
		dense, ok := t.Materialize().(*tensor.Dense)
		if !ok {
			return Output{}, errors.New("materialized tensor is not dense")
		}
		t = dense
	}
	data, ok := t.Data().([]float32)
	if !ok {
		return Output{}, errors.New("dense tensor backing is not a float32 slice")
	}
	return Output{Data: data, Features: features, Detections: detections}, nil
}

func featureMajor(dims []int) (features, detections int, err error) {
	switch {
	case len(dims) == 3 && dims[0] == 1:
		features, detections = dims[1], dims[2]
	case len(dims) == 2:
		features, detections = dims[0], dims[1]
	default:
		return 0, 0, errors.Errorf("unsupported output shape %v, want [1, F, N]", dims)
	}
	if features <= 4 || detections <= 0 {
		return 0, 0, errors.Errorf("output shape %v has no class features or detections", dims)
	}
	return features, detections, nil
}
