// Package media provides the image and video codec backends used to
// produce output renditions. Still images are handled in process;
// video work is delegated to the ffmpeg and ffprobe binaries.
package media

import (
	"context"
	"image"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/geometry"
)

// ImageProcessor defines in-process still image operations.
type ImageProcessor interface {
	// Decode reads and parses the image at path, returning the pixel
	// data and the detected format name ("jpeg", "png", "webp").
	Decode(path string) (image.Image, string, error)

	// ProbeFormat inspects the image header at path and returns the
	// detected format name without decoding pixel data.
	ProbeFormat(path string) (string, error)

	// EncodeJPEG writes img to path as a JPEG at the given quality (1-100).
	EncodeJPEG(img image.Image, path string, quality int) error
}

// VideoProcessor defines video operations delegated to an external tool.
type VideoProcessor interface {
	// Probe returns the pixel dimensions of the first video stream of
	// the file at path. It fails if the file has no video stream.
	Probe(ctx context.Context, path string) (geometry.Size, error)

	// Transcode re-encodes the video at src through the given filtergraph
	// and writes the result to dst. Audio is re-encoded at a fixed
	// bitrate and metadata is placed up front for streaming playback.
	Transcode(ctx context.Context, src, dst, filtergraph string) error
}
