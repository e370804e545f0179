// Package compositor implements the overlay layout algorithm: frame
// normalization, blur underlay, bar overlay, logo placement and
// constrained text fitting.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/menta2k/image-titler/internal/config"
	"github.com/menta2k/image-titler/pkg/codec"
	"github.com/menta2k/image-titler/pkg/fontfind"
	"github.com/menta2k/image-titler/pkg/geometry"
)

// Static errors for item-scoped compositing failures.
var (
	ErrLogoLoad       = errors.New("compositor: failed to load logo")
	ErrTextDoesNotFit = errors.New("compositor: no text size fits the bar")
)

// Text is drawn near-black and fully opaque regardless of bar
// transparency.
var textColor = color.NRGBA{R: 0x14, G: 0x14, B: 0x14, A: 0xff}

// Compositor applies the full overlay sequence to source images. It is
// built once per run and reused sequentially across the batch; the
// resolved font is cached after the first image.
type Compositor struct {
	opts   config.Options
	fonts  *fontfind.Index
	logger *slog.Logger

	font *fontfind.Font
}

// New creates a Compositor for the given options and font index.
func New(opts config.Options, fonts *fontfind.Index, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compositor{opts: opts, fonts: fonts, logger: logger}
}

// Compose runs the strictly ordered overlay steps and returns the
// flattened result. The source image is never modified.
func (c *Compositor) Compose(src image.Image) (*image.NRGBA, error) {
	frame := c.normalize(src)
	layout := geometry.NewLayout(frame.Bounds().Dx(), frame.Bounds().Dy())

	if c.opts.Blur > 0 {
		frame = c.blurUnderlay(frame)
	}

	frame = drawBar(frame, layout, c.opts.Transparency)

	logoRight := 0
	if c.opts.LogoPath != "" {
		var err error
		frame, logoRight, err = c.placeLogo(frame, layout)
		if err != nil {
			return nil, err
		}
	}

	if c.opts.Text != "" {
		var err error
		frame, err = c.placeText(frame, layout, logoRight)
		if err != nil {
			return nil, err
		}
	}

	return frame, nil
}

// normalize scales the source so the 1920x1080 frame is fully covered
// and center-crops the excess. With cropping disabled the source passes
// through unchanged apart from conversion to NRGBA.
func (c *Compositor) normalize(src image.Image) *image.NRGBA {
	if !c.opts.Crop {
		return imaging.Clone(src)
	}

	b := src.Bounds()
	w, h := geometry.CoverSize(b.Dx(), b.Dy(), geometry.TargetWidth, geometry.TargetHeight)
	resized := imaging.Resize(src, w, h, imaging.Lanczos)
	return imaging.CropCenter(resized, geometry.TargetWidth, geometry.TargetHeight)
}

// blurUnderlay overlays a Gaussian-blurred copy of the frame at
// Blur/100 opacity, so blur intensity and visibility stay independently
// tunable.
func (c *Compositor) blurUnderlay(frame *image.NRGBA) *image.NRGBA {
	blurred := imaging.Blur(frame, float64(c.opts.BlurRadius))
	c.logger.Debug("blur underlay", "amount", c.opts.Blur, "radius", c.opts.BlurRadius)
	return imaging.Overlay(frame, blurred, image.Pt(0, 0), float64(c.opts.Blur)/100)
}

// drawBar composites the white bar across the top of the frame at
// transparency/100 opacity.
func drawBar(frame *image.NRGBA, layout geometry.Layout, transparency int) *image.NRGBA {
	bar := imaging.New(layout.FrameWidth, layout.BarHeight, color.NRGBA{255, 255, 255, 255})
	return imaging.Overlay(frame, bar, image.Pt(0, 0), float64(transparency)/100)
}

// placeLogo scales the logo to fit the bar and composites it
// left-aligned inside the viewport, vertically centered. Returns the
// logo's right edge for text layout.
func (c *Compositor) placeLogo(frame *image.NRGBA, layout geometry.Layout) (*image.NRGBA, int, error) {
	logo, err := codec.Load(c.opts.LogoPath)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrLogoLoad, err)
	}

	b := logo.Bounds()
	w, h, err := geometry.FitWithinHeight(b.Dx(), b.Dy(), layout.MaxLogoHeight)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrLogoLoad, err)
	}

	// A very wide logo could cross the viewport; scale it down further
	// and keep the margins intact.
	if maxW := layout.TextRight() - layout.LogoX(); w > maxW {
		c.logger.Warn("logo too wide for the bar, scaling down",
			"width", w, "max", maxW)
		h = h * maxW / w
		w = maxW
		if h < 1 {
			h = 1
		}
	}

	scaled := imaging.Resize(logo, w, h, imaging.Lanczos)
	pos := image.Pt(layout.LogoX(), (layout.BarHeight-h)/2)
	c.logger.Debug("logo placement", "x", pos.X, "y", pos.Y, "w", w, "h", h)

	return imaging.Overlay(frame, scaled, pos, 1.0), layout.LogoX() + w, nil
}

// placeText finds the largest size that satisfies the height and
// overlap constraints, then draws the text right-aligned and vertically
// centered in the bar.
func (c *Compositor) placeText(frame *image.NRGBA, layout geometry.Layout, logoRight int) (*image.NRGBA, error) {
	if c.font == nil {
		f, err := c.fonts.Resolve(c.opts.FontFamily)
		if err != nil {
			return nil, err
		}
		c.font = f
	}

	leftMin := layout.TextLeftMin(logoRight)
	size, err := c.fitTextSize(layout, leftMin)
	if err != nil {
		return nil, err
	}

	face, err := c.font.Face(float64(size))
	if err != nil {
		return nil, err
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, c.opts.Text)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	height := (bounds.Max.Y - bounds.Min.Y).Ceil()

	// The dot is offset by the bounding box so the visible glyphs end
	// exactly at the right edge and center vertically in the bar.
	dotX := layout.TextRight() - width - bounds.Min.X.Floor()
	dotY := (layout.BarHeight-height)/2 - bounds.Min.Y.Floor()

	c.logger.Debug("text placement",
		"size", size, "width", width, "height", height,
		"dot_x", dotX, "dot_y", dotY, "left_min", leftMin)

	d := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(dotX, dotY),
	}
	d.DrawString(c.opts.Text)
	return frame, nil
}

// fitTextSize binary-searches the largest pixel size whose rendered
// bounding box is at most half the bar height and does not reach left
// of leftMin when right-aligned. Measured extent grows monotonically
// with size, which makes the binary search valid.
func (c *Compositor) fitTextSize(layout geometry.Layout, leftMin int) (int, error) {
	best := 0
	lo, hi := 1, layout.BarHeight

	for lo <= hi {
		mid := (lo + hi) / 2
		width, height, err := c.measure(c.opts.Text, mid)
		if err != nil {
			return 0, err
		}

		if height <= layout.MaxTextHeight && layout.TextRight()-width >= leftMin {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if best == 0 {
		return 0, fmt.Errorf("%w: usable span [%d,%d], max height %d",
			ErrTextDoesNotFit, leftMin, layout.TextRight(), layout.MaxTextHeight)
	}
	return best, nil
}

// measure returns the rendered bounding box of the text at a candidate
// size.
func (c *Compositor) measure(text string, size int) (int, int, error) {
	face, err := c.font.Face(float64(size))
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, text)
	return (bounds.Max.X - bounds.Min.X).Ceil(), (bounds.Max.Y - bounds.Min.Y).Ceil(), nil
}
