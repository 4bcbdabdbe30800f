// Package transform produces the output renditions of a run. For each
// target format it computes the geometry, applies it through the image
// or video backend, and writes one file to the output directory.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/geometry"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/mediakind"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/platform"
)

// Static errors for transform operations.
var (
	// ErrUnknownMode is returned when a mode string is neither "crop" nor "pad".
	ErrUnknownMode = errors.New("transform: unknown mode")
	// ErrUnsupportedKind is returned when a source of unresolved kind reaches dispatch.
	ErrUnsupportedKind = errors.New("transform: unsupported media kind")
)

// Mode selects how the source is reshaped into a target format.
type Mode string

const (
	// ModeCrop fills the target exactly, discarding source content
	// outside the computed crop box.
	ModeCrop Mode = "crop"
	// ModePad scales the whole source to fit inside the target and
	// fills the remainder with black.
	ModePad Mode = "pad"
)

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeCrop:
		return ModeCrop, nil
	case ModePad:
		return ModePad, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownMode, s, ModeCrop, ModePad)
	}
}

// OutputExt returns the rendition file extension for a media kind.
// Image renditions are always JPEG, video renditions always MP4.
func OutputExt(kind mediakind.Kind) string {
	if kind == mediakind.KindVideo {
		return ".mp4"
	}
	return ".jpg"
}

// Request describes one dispatch: a kind-resolved source asset and the
// formats to produce from it.
type Request struct {
	// SourcePath is the acquired local file, already kind-resolved.
	SourcePath string
	// Kind is the resolved media kind of the source.
	Kind mediakind.Kind
	// Mode selects cropping or padding.
	Mode Mode
	// Focal biases where crop boxes are anchored.
	Focal geometry.FocalPoint
	// BaseName is the output file base name.
	BaseName string
	// Formats are produced in order.
	Formats []platform.Format
}
