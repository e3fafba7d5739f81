package models

import (
	"testing"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-depth/images"
	"github.com/nvr-ai/go-depth/models/model"
)

func TestLookup(t *testing.T) {
	t.Run("midas small", func(t *testing.T) {
		desc, err := Lookup(model.NameMiDaSSmall)
		require.NoError(t, err)

		assert.Equal(t, model.NameMiDaSSmall, desc.Name)
		assert.Equal(t, 256, desc.Transform.InputWidth)
		assert.Equal(t, 256, desc.Transform.InputHeight)
		assert.Equal(t, images.InterpolationBicubic, desc.Transform.Interpolation)
		assert.InDelta(t, 0.485, desc.Transform.Mean[0], 1e-6)
		assert.InDelta(t, 0.229, desc.Transform.Std[0], 1e-6)
		assert.NotEmpty(t, desc.InputName)
		assert.NotEmpty(t, desc.OutputName)
		assert.NotEmpty(t, desc.WeightsFile)
		assert.NotEmpty(t, desc.WeightsURL)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := Lookup("resnet-50")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported model name")
	})
}

func TestPredictionDims(t *testing.T) {
	tests := []struct {
		name        string
		shape       ort.Shape
		height      int
		width       int
		expectError bool
	}{
		{
			name:   "batch height width",
			shape:  ort.NewShape(1, 256, 256),
			height: 256,
			width:  256,
		},
		{
			name:   "batch channel height width",
			shape:  ort.NewShape(1, 1, 384, 512),
			height: 384,
			width:  512,
		},
		{
			name:   "bare height width",
			shape:  ort.NewShape(240, 320),
			height: 240,
			width:  320,
		},
		{
			name:        "too few dimensions",
			shape:       ort.NewShape(256),
			expectError: true,
		},
		{
			name:        "non-singleton leading axis",
			shape:       ort.NewShape(2, 256, 256),
			expectError: true,
		},
		{
			name:        "zero dimension",
			shape:       ort.NewShape(1, 0, 256),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, w, err := predictionDims(tt.shape)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.height, h)
			assert.Equal(t, tt.width, w)
		})
	}
}
