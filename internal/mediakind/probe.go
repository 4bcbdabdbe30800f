package mediakind

import (
	"context"
	"errors"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/media"
)

// Detection is the outcome of a successful probe: the detected kind and
// the canonical extension for the content.
type Detection struct {
	Kind Kind
	Ext  string
}

// Prober inspects file content for one family of formats. ok reports
// whether the file belongs to the prober's family; err is reserved for
// failures that prevented inspection altogether.
type Prober interface {
	Probe(ctx context.Context, path string) (Detection, bool, error)
}

// Canonical extension per decoded still image format name.
var imageFormatExts = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"webp": ".webp",
}

// ImageProber recognizes still images by decoding the file header.
type ImageProber struct {
	codec media.ImageProcessor
}

var _ Prober = (*ImageProber)(nil)

// NewImageProber creates an ImageProber backed by the given codec.
func NewImageProber(codec media.ImageProcessor) *ImageProber {
	return &ImageProber{codec: codec}
}

// Probe reports whether the file decodes as one of the accepted still
// image formats.
func (p *ImageProber) Probe(_ context.Context, path string) (Detection, bool, error) {
	format, err := p.codec.ProbeFormat(path)
	if err != nil {
		if errors.Is(err, media.ErrDecode) {
			// Not a still image; let the next prober try.
			return Detection{}, false, nil
		}
		return Detection{}, false, err
	}

	ext, ok := imageFormatExts[format]
	if !ok {
		return Detection{}, false, nil
	}
	return Detection{Kind: KindImage, Ext: ext}, true, nil
}

// VideoProber recognizes video files through the codec backend's stream
// inspector.
type VideoProber struct {
	codec media.VideoProcessor
}

var _ Prober = (*VideoProber)(nil)

// NewVideoProber creates a VideoProber backed by the given codec.
func NewVideoProber(codec media.VideoProcessor) *VideoProber {
	return &VideoProber{codec: codec}
}

// Probe reports whether the file contains a video stream. Detected
// videos are canonicalized to ".mp4".
func (p *VideoProber) Probe(ctx context.Context, path string) (Detection, bool, error) {
	if _, err := p.codec.Probe(ctx, path); err != nil {
		if errors.Is(err, media.ErrNoVideoStream) || errors.Is(err, media.ErrUnrecognizedMedia) {
			return Detection{}, false, nil
		}
		return Detection{}, false, err
	}
	return Detection{Kind: KindVideo, Ext: ".mp4"}, true, nil
}
