package media

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	// Register the still image formats the pipeline accepts so that
	// image.Decode reports their canonical format names.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrDecode is returned when a file cannot be parsed as a still image.
var ErrDecode = errors.New("image decode failed")

// ImageCodec implements ImageProcessor using the standard image
// registry for decoding and the imaging library for encoding.
type ImageCodec struct{}

var _ ImageProcessor = (*ImageCodec)(nil)

// NewImageCodec creates a new ImageCodec.
func NewImageCodec() *ImageCodec {
	return &ImageCodec{}
}

// Decode reads the image at path, returning the pixel data and the
// detected format name.
func (c *ImageCodec) Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path) // #nosec G304 - path is produced by the application
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, format, nil
}

// ProbeFormat inspects the image header at path and returns the
// detected format name without decoding pixel data.
func (c *ImageCodec) ProbeFormat(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 - path is produced by the application
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return format, nil
}

// EncodeJPEG writes img to path as a JPEG at the given quality (1-100).
func (c *ImageCodec) EncodeJPEG(img image.Image, path string, quality int) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("save jpeg: %w", err)
	}
	return nil
}
