// Package geometry computes crop and fit boxes for reshaping media
// between aspect ratios. All operations are pure and deterministic;
// derived dimensions use integer arithmetic so equal aspect ratios
// compare exactly.
package geometry

import (
	"fmt"
	"math"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// String returns the size as "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// IsValid reports whether both dimensions are positive.
func (s Size) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}

// FocalPoint is a fractional position within a frame. Both coordinates
// lie in [0,1]; (0.5, 0.5) is the frame center.
type FocalPoint struct {
	X float64
	Y float64
}

// NewFocalPoint builds a FocalPoint, clamping both coordinates into
// [0,1]. Out-of-range input is adjusted, never rejected.
func NewFocalPoint(x, y float64) FocalPoint {
	return FocalPoint{X: clamp01(x), Y: clamp01(y)}
}

// Center is the focal point used when the caller expresses no preference.
var Center = FocalPoint{X: 0.5, Y: 0.5}

// Box is a rectangular region within a source frame.
type Box struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Size returns the box dimensions.
func (b Box) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// CropBox returns the largest box with target's aspect ratio that fits
// inside src. Exactly one axis spans the full source; the focal point
// positions the box along the other axis, consuming the slack as a
// fraction. (0,0) anchors top-left, (1,1) bottom-right.
//
// If src and target share the same aspect ratio the box equals the
// source and the focal point is irrelevant.
func CropBox(src, target Size, focal FocalPoint) Box {
	cropW, cropH := src.Width, src.Height
	if src.Width*target.Height > src.Height*target.Width {
		// Source is relatively wider: keep full height, trim the sides.
		cropW = src.Height * target.Width / target.Height
	} else {
		// Source is relatively taller or ratios match: keep full width.
		cropH = src.Width * target.Height / target.Width
	}

	maxLeft := src.Width - cropW
	maxTop := src.Height - cropH
	left := clampInt(int(math.Round(float64(maxLeft)*focal.X)), 0, maxLeft)
	top := clampInt(int(math.Round(float64(maxTop)*focal.Y)), 0, maxTop)

	return Box{Left: left, Top: top, Width: cropW, Height: cropH}
}

// FitBox returns src scaled to the largest size that fits inside target
// while preserving the source aspect ratio. At least one axis matches
// target exactly.
func FitBox(src, target Size) Size {
	if target.Width*src.Height <= target.Height*src.Width {
		// Width is the binding axis.
		return Size{Width: target.Width, Height: src.Height * target.Width / src.Width}
	}
	return Size{Width: src.Width * target.Height / src.Height, Height: target.Height}
}

// CenterOffset returns the top-left offset that centers inner within
// outer. Odd remainders round toward the top-left.
func CenterOffset(outer, inner Size) (x, y int) {
	return (outer.Width - inner.Width) / 2, (outer.Height - inner.Height) / 2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
