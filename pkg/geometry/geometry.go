// Package geometry provides the frame, bar and viewport arithmetic for
// the overlay layout. All functions are pure; rounding rules are fixed
// (truncation toward zero) so output is deterministic.
package geometry

import (
	"errors"
	"fmt"
)

// Target frame dimensions when cropping is enabled.
const (
	TargetWidth  = 1920
	TargetHeight = 1080
)

// Layout ratios relative to the frame and bar heights.
const (
	barHeightRatio = 0.10 // bar is 10% of frame height
	marginRatio    = 0.10 // margins are 10% of bar height
	maxTextRatio   = 0.5  // text may use half the bar height
)

// ErrInvalidAsset is returned when an asset has non-positive dimensions.
var ErrInvalidAsset = errors.New("geometry: asset has invalid dimensions")

// CoverSize returns the dimensions the source must be scaled to so the
// target frame is fully covered, preserving aspect ratio. The result is
// always at least targetW x targetH; the excess is meant to be
// center-cropped away.
func CoverSize(srcW, srcH, targetW, targetH int) (int, int) {
	ratio := max(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
	w := int(float64(srcW) * ratio)
	h := int(float64(srcH) * ratio)
	if w < targetW {
		w = targetW
	}
	if h < targetH {
		h = targetH
	}
	return w, h
}

// FitWithinHeight scales asset dimensions uniformly so the height equals
// maxHeight, width following the aspect ratio.
func FitWithinHeight(assetW, assetH, maxHeight int) (int, int, error) {
	if assetW <= 0 || assetH <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidAsset, assetW, assetH)
	}
	ratio := float64(maxHeight) / float64(assetH)
	w := int(float64(assetW) * ratio)
	if w < 1 {
		w = 1
	}
	return w, maxHeight, nil
}

// Layout holds the derived overlay geometry for a given frame.
//
// The viewport is a centered square of side frameHeight, clamped to the
// frame width; logo and text placement are constrained to its
// horizontal span.
type Layout struct {
	FrameWidth    int
	FrameHeight   int
	BarHeight     int
	Margin        int
	MaxLogoHeight int
	MaxTextHeight int
	ViewportLeft  int
	ViewportRight int
}

// NewLayout derives the overlay geometry from frame dimensions.
// Bar height is floor(0.10*frameHeight); for a 1080-high frame that is
// 108px with 10px margins and an 88px logo ceiling.
func NewLayout(frameW, frameH int) Layout {
	barH := int(float64(frameH) * barHeightRatio)
	margin := int(float64(barH) * marginRatio)

	side := frameH
	left := 0
	if side < frameW {
		left = (frameW - side) / 2
	} else {
		side = frameW
	}

	return Layout{
		FrameWidth:    frameW,
		FrameHeight:   frameH,
		BarHeight:     barH,
		Margin:        margin,
		MaxLogoHeight: barH - 2*margin,
		MaxTextHeight: int(float64(barH) * maxTextRatio),
		ViewportLeft:  left,
		ViewportRight: left + side,
	}
}

// LogoX returns the left edge for logo placement.
func (l Layout) LogoX() int {
	return l.ViewportLeft + l.Margin
}

// TextRight returns the fixed right edge for right-aligned text.
func (l Layout) TextRight() int {
	return l.ViewportRight - l.Margin
}

// TextLeftMin returns the leftmost x the text may reach, given the
// right edge of the placed logo (zero when no logo was placed).
func (l Layout) TextLeftMin(logoRight int) int {
	m := l.ViewportLeft + l.Margin
	if logoRight+l.Margin > m {
		m = logoRight + l.Margin
	}
	return m
}
