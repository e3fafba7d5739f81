package images

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// flatEpsilon is the min/max spread below which a prediction is treated as
// flat and rendered as an all-zero map, avoiding division by zero.
const flatEpsilon = 1e-6

// RenderDepthMap converts raw inverse-depth scores at the model's native
// output resolution into an 8-bit grayscale map of exactly width x height.
//
// The prediction is first resized to the target dimensions with bicubic
// interpolation (OpenCV convention: sample centers, no corner alignment),
// then min/max-normalized over the resized values and scaled to [0, 255].
// Non-finite values are excluded from the range and pinned to the minimum.
//
// Arguments:
//   - pred: Row-major prediction values, length predW*predH.
//   - predW: Width of the prediction.
//   - predH: Height of the prediction.
//   - width: Target width, the original image width.
//   - height: Target height, the original image height.
//   - invert: Whether to flip the near/far intensity convention.
//
// Returns:
//   - *image.Gray: The rendered depth map.
//   - error: An error if the prediction or target dimensions are invalid.
func RenderDepthMap(pred []float32, predW, predH, width, height int, invert bool) (*image.Gray, error) {
	if predW <= 0 || predH <= 0 || len(pred) != predW*predH {
		return nil, errors.Errorf("prediction shape mismatch: %d values for %dx%d", len(pred), predW, predH)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid target dimensions: %dx%d", width, height)
	}

	values, err := resizeBicubic(pred, predW, predH, width, height)
	if err != nil {
		return nil, err
	}

	gray := image.NewGray(image.Rect(0, 0, width, height))

	minV, maxV, ok := valueRange(values)
	if !ok || maxV-minV <= flatEpsilon {
		// Flat or all-invalid prediction: uniformly zero map.
		return gray, nil
	}

	den := maxV - minV
	for i, v := range values {
		if !finite(v) {
			v = minV
		}
		n := (v - minV) / den
		if invert {
			n = 1.0 - n
		}
		if n < 0 {
			n = 0
		}
		if n > 1 {
			n = 1
		}
		gray.Pix[i] = uint8(n * 255.0)
	}
	return gray, nil
}

// EncodePNG serializes a depth map as single-channel PNG bytes.
//
// Arguments:
//   - depthMap: The rendered depth map.
//
// Returns:
//   - []byte: The PNG-encoded bytes.
//   - error: An error if encoding fails.
func EncodePNG(depthMap *image.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, depthMap); err != nil {
		return nil, errors.Wrap(err, "encoding depth map")
	}
	return buf.Bytes(), nil
}

// resizeBicubic resizes a row-major float32 map to (dstW, dstH) through a
// CV32F Mat. The resize runs on the raw scores so that normalization sees
// the post-resize value range.
func resizeBicubic(pred []float32, srcW, srcH, dstW, dstH int) ([]float32, error) {
	if srcW == dstW && srcH == dstH {
		out := make([]float32, len(pred))
		copy(out, pred)
		return out, nil
	}

	buf := make([]byte, len(pred)*4)
	for i, v := range pred {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	src, err := gocv.NewMatFromBytes(srcH, srcW, gocv.MatTypeCV32F, buf)
	if err != nil {
		return nil, errors.Wrap(err, "creating prediction mat")
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, image.Pt(dstW, dstH), 0, 0, gocv.InterpolationCubic)

	view, err := dst.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "reading resized mat")
	}
	out := make([]float32, dstW*dstH)
	copy(out, view)
	return out, nil
}

// valueRange finds the finite min/max of values. ok is false when no finite
// value exists.
func valueRange(values []float32) (minV, maxV float32, ok bool) {
	minV = math32.Inf(1)
	maxV = math32.Inf(-1)
	for _, v := range values {
		if !finite(v) {
			continue
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if !finite(minV) || !finite(maxV) {
		return 0, 0, false
	}
	return minV, maxV, true
}

// finite reports whether v is neither NaN nor +/-Inf.
func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
