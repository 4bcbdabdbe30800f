// Package mediakind classifies a source file as still image or video.
// Recognized extensions are trusted outright; files with a placeholder
// extension go through an ordered sequence of content probes, and the
// file is renamed once to match what the probes detect.
package mediakind

import "strings"

// Kind classifies a source asset.
type Kind string

const (
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindUnknown Kind = "unknown"
)

// Extensions recognized without probing (lowercase, leading dot).
var (
	imageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}
	videoExts = map[string]bool{
		".mp4":  true,
		".mov":  true,
		".m4v":  true,
		".webm": true,
	}
)

// FromExt returns the kind a file extension implies, or KindUnknown
// when the extension is not recognized. Matching is case-insensitive.
func FromExt(ext string) Kind {
	ext = strings.ToLower(ext)
	switch {
	case imageExts[ext]:
		return KindImage
	case videoExts[ext]:
		return KindVideo
	default:
		return KindUnknown
	}
}
