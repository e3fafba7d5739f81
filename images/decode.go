package images

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// Decode reads an uploaded image in any registered format (JPEG, PNG, GIF,
// WebP) and rejects zero-area results.
//
// Arguments:
//   - r: The reader holding the raw upload bytes.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: An error if the bytes are not a decodable image.
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding image")
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.Errorf("decoded %s image has zero area", format)
	}
	return img, nil
}
