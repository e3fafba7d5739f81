package depth

import (
	"image"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-depth/images"
)

// Estimator runs the full depth pipeline over a decoded image: preprocess
// to the model's input tensor, forward pass, resize the prediction back to
// the source dimensions, normalize, and encode a grayscale PNG.
type Estimator struct {
	handle *Handle
	invert bool
}

// NewEstimator creates an estimator over the given handle.
//
// Arguments:
//   - handle: The lazily loaded model handle shared across requests.
//   - invert: When true, near objects render dark instead of bright.
//
// Returns:
//   - *Estimator: The estimator.
func NewEstimator(handle *Handle, invert bool) *Estimator {
	return &Estimator{handle: handle, invert: invert}
}

// EstimateDepth produces a PNG-encoded depth map with the same dimensions
// as the input image. Errors carry one of the pipeline sentinel classes so
// callers can tell a bad image from a model failure.
//
// Arguments:
//   - img: The decoded source image.
//
// Returns:
//   - []byte: The PNG bytes of the grayscale depth map.
//   - error: A classified pipeline error, if any stage fails.
func (e *Estimator) EstimateDepth(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, classify(ErrInvalidImage, errors.New("nil image"))
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, classify(ErrInvalidImage, errors.Errorf("empty image %dx%d", width, height))
	}

	network, transform, err := e.handle.EnsureLoaded()
	if err != nil {
		return nil, err
	}

	input, err := images.Preprocess(img, transform)
	if err != nil {
		return nil, classify(ErrInvalidImage, err)
	}

	pred, err := network.Forward(input)
	if err != nil {
		return nil, classify(ErrInference, err)
	}

	gray, err := images.RenderDepthMap(pred.Data, pred.Width, pred.Height, width, height, e.invert)
	if err != nil {
		return nil, classify(ErrInference, err)
	}

	encoded, err := images.EncodePNG(gray)
	if err != nil {
		return nil, classify(ErrInference, err)
	}
	return encoded, nil
}
