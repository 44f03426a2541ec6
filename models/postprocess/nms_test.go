package postprocess

import (
	"math/rand"
	"testing"

	"github.com/nvr-ai/go-overlay/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func det(x, y, w, h, conf float32, class int) Detection {
	return Detection{
		Box:        images.Box{X: x, Y: y, Width: w, Height: h},
		Confidence: conf,
		ClassID:    class,
	}
}

// TestApplyGreedyNMS_KeepsHigherConfidence validates that of two boxes with an
// IoU of 0.7 only the more confident one survives a 0.5 threshold.
func TestApplyGreedyNMS_KeepsHigherConfidence(t *testing.T) {
	low := det(50, 50, 70, 100, 0.8, 0)
	high := det(50, 50, 100, 100, 0.9, 0)
	require.InDelta(t, 0.7, images.CalculateIoU(low.Box, high.Box), 1e-5)

	kept := ApplyGreedyNMS([]Detection{low, high}, &NMSConfig{IoUThreshold: 0.5})
	require.Len(t, kept, 1)
	assert.Equal(t, float32(0.9), kept[0].Confidence)
}

func TestApplyGreedyNMS_EqualToThresholdIsKept(t *testing.T) {
	a := det(50, 50, 100, 100, 0.9, 0)
	b := det(50, 50, 50, 100, 0.8, 0)
	require.Equal(t, float32(0.5), images.CalculateIoU(a.Box, b.Box))

	kept := ApplyGreedyNMS([]Detection{a, b}, &NMSConfig{IoUThreshold: 0.5})
	assert.Len(t, kept, 2, "IoU equal to the threshold should not suppress")
}

func TestApplyGreedyNMS_CrossClassByDefault(t *testing.T) {
	person := det(50, 50, 100, 100, 0.9, 0)
	car := det(52, 50, 100, 100, 0.6, 1)

	kept := ApplyGreedyNMS([]Detection{car, person}, &NMSConfig{IoUThreshold: 0.5})
	require.Len(t, kept, 1, "overlapping boxes of different classes should suppress each other")
	assert.Equal(t, 0, kept[0].ClassID)

	kept = ApplyGreedyNMS([]Detection{car, person}, &NMSConfig{IoUThreshold: 0.5, ClassAware: true})
	assert.Len(t, kept, 2, "class aware suppression should keep both classes")
}

func TestApplyGreedyNMS_OrderAndTies(t *testing.T) {
	first := det(10, 10, 5, 5, 0.7, 0)
	second := det(100, 100, 5, 5, 0.7, 1)
	top := det(200, 200, 5, 5, 0.95, 2)
	overlapsFirst := det(10, 10, 5, 5, 0.7, 3)

	input := []Detection{first, second, top, overlapsFirst}
	kept := ApplyGreedyNMS(input, &NMSConfig{IoUThreshold: 0.5})

	require.Len(t, kept, 3)
	assert.Equal(t, 2, kept[0].ClassID, "highest confidence first")
	assert.Equal(t, 0, kept[1].ClassID, "ties keep input order")
	assert.Equal(t, 1, kept[2].ClassID)

	assert.Equal(t, []Detection{first, second, top, overlapsFirst}, input, "input should not be reordered")
}

func TestApplyGreedyNMS_Empty(t *testing.T) {
	assert.Nil(t, ApplyGreedyNMS(nil, &NMSConfig{IoUThreshold: 0.5}))
	assert.Nil(t, ApplyGreedyNMS([]Detection{}, &NMSConfig{IoUThreshold: 0.5}))
}

func randomDetections(rng *rand.Rand, n int) []Detection {
	out := make([]Detection, n)
	for i := range out {
		out[i] = det(
			rng.Float32()*640,
			rng.Float32()*640,
			10+rng.Float32()*120,
			10+rng.Float32()*120,
			0.05+rng.Float32()*0.95,
			rng.Intn(3),
		)
	}
	return out
}

// TestApplyGreedyNMS_Properties checks the suppression invariants over random
// candidate sets.
func TestApplyGreedyNMS_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	thresholds := []float32{0.1, 0.45, 0.7}

	for round := 0; round < 20; round++ {
		input := randomDetections(rng, 60)
		for _, threshold := range thresholds {
			config := &NMSConfig{IoUThreshold: threshold}
			kept := ApplyGreedyNMS(input, config)
			require.NotEmpty(t, kept)

			for i := range kept {
				for j := i + 1; j < len(kept); j++ {
					assert.LessOrEqual(t, images.CalculateIoU(kept[i].Box, kept[j].Box), threshold,
						"no surviving pair may overlap above the threshold")
				}
				if i > 0 {
					assert.GreaterOrEqual(t, kept[i-1].Confidence, kept[i].Confidence,
						"output should be ordered by descending confidence")
				}
			}

			again := ApplyGreedyNMS(kept, config)
			assert.Equal(t, kept, again, "suppression should be idempotent")

			shuffled := make([]Detection, len(input))
			copy(shuffled, input)
			rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			assert.ElementsMatch(t, kept, ApplyGreedyNMS(shuffled, config),
				"distinct confidences should give the same set regardless of input order")
		}
	}
}

func TestSortByConfidence(t *testing.T) {
	in := []Detection{det(0, 0, 1, 1, 0.5, 0), det(0, 0, 1, 1, 0.9, 1), det(0, 0, 1, 1, 0.7, 2)}
	sorted := SortByConfidence(in)
	assert.Equal(t, []int{1, 2, 0}, []int{sorted[0].ClassID, sorted[1].ClassID, sorted[2].ClassID})
	assert.Equal(t, 0, in[0].ClassID, "input should be untouched")
}
