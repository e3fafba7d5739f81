// Package images - Image decoding, model-input preprocessing, and depth-map
// rendering.
package images

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Interpolation selects the resampling filter used for the model-input
// resize.
type Interpolation int

const (
	// InterpolationBicubic resamples with a bicubic filter.
	InterpolationBicubic Interpolation = iota
	// InterpolationLanczos resamples with a Lanczos3 filter.
	InterpolationLanczos
)

// TransformConfig defines the deterministic, model-specific transform that
// maps a decoded image to the tensor layout the network expects.
//
// The transform must exactly match the one the loaded network was trained
// with. A mismatched transform produces wrong depth silently, it does not
// fail.
type TransformConfig struct {
	// Name of the owning model, for error messages.
	Name string
	// InputWidth is the fixed width of the network input.
	InputWidth int
	// InputHeight is the fixed height of the network input.
	InputHeight int
	// Mean holds per-channel means applied after scaling pixels to [0, 1].
	Mean [3]float32
	// Std holds per-channel standard deviations.
	Std [3]float32
	// Interpolation is the resampling filter for the input resize.
	Interpolation Interpolation
}

// Preprocess applies cfg to a decoded image and produces the network input:
// a CHW float32 tensor of shape [3, InputHeight, InputWidth] with each
// channel scaled to [0, 1] and standardized with the configured mean and
// std.
//
// Arguments:
//   - img: The decoded image. Must have positive, non-zero dimensions.
//   - cfg: The model-specific transform configuration.
//
// Returns:
//   - []float32: The preprocessed tensor data.
//   - error: An error if the input or configuration is invalid.
func Preprocess(img image.Image, cfg TransformConfig) ([]float32, error) {
	if img == nil {
		return nil, errors.New("image is nil")
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}
	if cfg.InputWidth <= 0 || cfg.InputHeight <= 0 {
		return nil, errors.Errorf("invalid transform input size: %dx%d", cfg.InputWidth, cfg.InputHeight)
	}
	for c := 0; c < 3; c++ {
		if cfg.Std[c] == 0 {
			return nil, errors.Errorf("transform %s has zero std for channel %d", cfg.Name, c)
		}
	}

	var filter resize.InterpolationFunction
	switch cfg.Interpolation {
	case InterpolationLanczos:
		filter = resize.Lanczos3
	default:
		filter = resize.Bicubic
	}
	resized := resize.Resize(uint(cfg.InputWidth), uint(cfg.InputHeight), img, filter)

	width := cfg.InputWidth
	height := cfg.InputHeight
	channelSize := width * height
	data := make([]float32, 3*channelSize)
	red := data[0:channelSize]
	green := data[channelSize : channelSize*2]
	blue := data[channelSize*2 : channelSize*3]

	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			red[i] = (float32(r>>8)/255.0 - cfg.Mean[0]) / cfg.Std[0]
			green[i] = (float32(g>>8)/255.0 - cfg.Mean[1]) / cfg.Std[1]
			blue[i] = (float32(b>>8)/255.0 - cfg.Mean[2]) / cfg.Std[2]
			i++
		}
	}
	return data, nil
}
