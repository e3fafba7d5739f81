package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedImage(t *testing.T, format string, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	default:
		require.NoError(t, png.Encode(&buf, img))
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name: "png",
			data: encodedImage(t, "png", 12, 8),
		},
		{
			name: "jpeg",
			data: encodedImage(t, "jpeg", 12, 8),
		},
		{
			name:        "empty payload",
			data:        nil,
			expectError: true,
		},
		{
			name:        "not an image",
			data:        []byte("definitely not pixels"),
			expectError: true,
		},
		{
			name:        "truncated png",
			data:        encodedImage(t, "png", 12, 8)[:20],
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(bytes.NewReader(tt.data))
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 12, img.Bounds().Dx())
			assert.Equal(t, 8, img.Bounds().Dy())
		})
	}
}
