package tensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"
)

type fakeORT struct {
	data  []float32
	shape ort.Shape
}

func (f fakeORT) GetData() []float32  { return f.data }
func (f fakeORT) GetShape() ort.Shape { return f.shape }

var _ TensorData = (*ort.Tensor[float32])(nil)

func TestFromORT(t *testing.T) {
	data := make([]float32, 6*4)
	data[4*4] = 0.9

	out, err := FromORT(fakeORT{data: data, shape: ort.NewShape(1, 6, 4)})
	require.NoError(t, err)
	assert.Equal(t, 6, out.Features)
	assert.Equal(t, 4, out.Detections)
	assert.Equal(t, 2, out.Classes())
	assert.Equal(t, float32(0.9), out.Data[16])

	out, err = FromORT(fakeORT{data: data, shape: ort.NewShape(6, 4)})
	require.NoError(t, err)
	assert.Equal(t, 6, out.Features)

	_, err = FromORT(fakeORT{data: data, shape: ort.NewShape(2, 6, 4)})
	assert.Error(t, err, "batched output is unsupported")

	_, err = FromORT(fakeORT{data: data, shape: ort.NewShape(24)})
	assert.Error(t, err, "rank one output is unsupported")

	_, err = FromORT(fakeORT{data: data, shape: ort.NewShape(1, 4, 6)})
	assert.Error(t, err, "output without class features is unsupported")
}

func TestFromDense(t *testing.T) {
	backing := make([]float32, 84*8400)
	backing[4*8400+17] = 0.75

	dense := tensor.New(tensor.WithShape(1, 84, 8400), tensor.WithBacking(backing))
	out, err := FromDense(dense)
	require.NoError(t, err)
	assert.Equal(t, 84, out.Features)
	assert.Equal(t, 8400, out.Detections)
	assert.Equal(t, 80, out.Classes())
	assert.Equal(t, float32(0.75), out.Data[4*8400+17])
}

func TestFromDense_TransposedView(t *testing.T) {
	// Detection-major [N=3, F=6] backing, transposed into [F, N].
	const n, f = 3, 6
	backing := make([]float32, n*f)
	for det := 0; det < n; det++ {
		for feat := 0; feat < f; feat++ {
			backing[det*f+feat] = float32(det*10 + feat)
		}
	}

	dense := tensor.New(tensor.WithShape(n, f), tensor.WithBacking(backing))
	require.NoError(t, dense.T())

	out, err := FromDense(dense)
	require.NoError(t, err)
	assert.Equal(t, f, out.Features)
	assert.Equal(t, n, out.Detections)
	require.Len(t, out.Data, n*f)
	for det := 0; det < n; det++ {
		for feat := 0; feat < f; feat++ {
			assert.Equal(t, float32(det*10+feat), out.Data[feat*n+det],
				"feature %d of detection %d should be read feature-major", feat, det)
		}
	}
}

func TestFromDense_Errors(t *testing.T) {
	_, err := FromDense(nil)
	assert.Error(t, err)

	f64 := tensor.New(tensor.WithShape(1, 6, 2), tensor.WithBacking(make([]float64, 12)))
	_, err = FromDense(f64)
	assert.Error(t, err, "float64 tensors are unsupported")

	batched := tensor.New(tensor.WithShape(2, 6, 2), tensor.WithBacking(make([]float32, 24)))
	_, err = FromDense(batched)
	assert.Error(t, err)
}
