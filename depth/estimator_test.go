package depth

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateDepthProducesMatchingDimensions(t *testing.T) {
	provider := &fakeProvider{network: &fakeNetwork{pred: gradientPrediction(4, 4)}}
	estimator := NewEstimator(NewHandle(provider), false)

	tests := []struct {
		name   string
		width  int
		height int
	}{
		{name: "square", width: 64, height: 64},
		{name: "landscape", width: 300, height: 200},
		{name: "tiny", width: 4, height: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.width, tt.height))

			encoded, err := estimator.EstimateDepth(img)
			require.NoError(t, err)

			decoded, err := png.Decode(bytes.NewReader(encoded))
			require.NoError(t, err)
			assert.Equal(t, tt.width, decoded.Bounds().Dx())
			assert.Equal(t, tt.height, decoded.Bounds().Dy())
		})
	}
}

func TestEstimateDepthFlatPredictionRendersZeroMap(t *testing.T) {
	pred := &Prediction{Data: []float32{3, 3, 3, 3}, Width: 2, Height: 2}
	provider := &fakeProvider{network: &fakeNetwork{pred: pred}}
	estimator := NewEstimator(NewHandle(provider), false)

	encoded, err := estimator.EstimateDepth(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	gray, ok := decoded.(*image.Gray)
	require.True(t, ok)
	for i, p := range gray.Pix {
		assert.Equal(t, uint8(0), p, "pixel %d", i)
	}
}

func TestEstimateDepthConcurrentColdStart(t *testing.T) {
	provider := &fakeProvider{network: &fakeNetwork{pred: gradientPrediction(4, 4)}}
	estimator := NewEstimator(NewHandle(provider), false)

	const callers = 10
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			img := image.NewRGBA(image.Rect(0, 0, 32, 32))
			encoded, err := estimator.EstimateDepth(img)
			if err == nil {
				_, err = png.Decode(bytes.NewReader(encoded))
			}
			results <- err
		}()
	}

	for i := 0; i < callers; i++ {
		require.NoError(t, <-results)
	}
	assert.Equal(t, int64(1), provider.loads.Load())
}

func TestEstimateDepthErrorClasses(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		img      image.Image
		class    error
	}{
		{
			name:     "nil image",
			provider: &fakeProvider{network: &fakeNetwork{pred: gradientPrediction(4, 4)}},
			img:      nil,
			class:    ErrInvalidImage,
		},
		{
			name:     "zero area image",
			provider: &fakeProvider{network: &fakeNetwork{pred: gradientPrediction(4, 4)}},
			img:      image.NewRGBA(image.Rect(0, 0, 0, 0)),
			class:    ErrInvalidImage,
		},
		{
			name: "load failure",
			provider: func() Provider {
				p := &fakeProvider{network: &fakeNetwork{pred: gradientPrediction(4, 4)}}
				p.failures.Store(1)
				return p
			}(),
			img:   image.NewRGBA(image.Rect(0, 0, 8, 8)),
			class: ErrModelLoad,
		},
		{
			name:     "forward failure",
			provider: &fakeProvider{network: &fakeNetwork{err: errors.New("device lost")}},
			img:      image.NewRGBA(image.Rect(0, 0, 8, 8)),
			class:    ErrInference,
		},
		{
			name:     "malformed prediction",
			provider: &fakeProvider{network: &fakeNetwork{pred: &Prediction{Data: make([]float32, 3), Width: 2, Height: 2}}},
			img:      image.NewRGBA(image.Rect(0, 0, 8, 8)),
			class:    ErrInference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimator := NewEstimator(NewHandle(tt.provider), false)

			_, err := estimator.EstimateDepth(tt.img)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.class)

			// The classes stay mutually distinguishable.
			for _, other := range []error{ErrInvalidImage, ErrModelLoad, ErrInference} {
				if other == tt.class {
					continue
				}
				assert.NotErrorIs(t, err, other)
			}
		})
	}
}

func TestEstimateDepthErrorRetainsCause(t *testing.T) {
	cause := errors.New("device lost")
	provider := &fakeProvider{network: &fakeNetwork{err: cause}}
	estimator := NewEstimator(NewHandle(provider), false)

	_, err := estimator.EstimateDepth(image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "inference failed")
	assert.Contains(t, err.Error(), "device lost")
}
