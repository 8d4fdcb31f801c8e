package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// ScaleOption ...
type ScaleOption struct {
	Width, Height int
	Mode          Mode
	KeepRatio     bool
}

func (so ScaleOption) String() string {
	return fmt.Sprintf("%dx%d %s keep=%v", so.Width, so.Height, so.Mode, so.KeepRatio)
}

// calc final dimensions for the aspect-preserving modes
func (so ScaleOption) calc(ow, oh int) (dw, dh int) {
	origRel := float64(ow) / float64(oh)
	targetRel := float64(so.Width) / float64(so.Height)

	switch so.Mode {
	case ModeFit:
		if origRel > targetRel {
			dw = so.Width
			dh = round(float64(so.Width) / origRel)
		} else {
			dw = round(float64(so.Height) * origRel)
			dh = so.Height
		}
	case ModeFill:
		if origRel > targetRel {
			dw = round(float64(so.Height) * origRel)
			dh = so.Height
		} else {
			dw = so.Width
			dh = round(float64(so.Width) / origRel)
		}
	default:
		dw, dh = so.Width, so.Height
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	return
}

// cropBox largest centered region of ow x oh matching the target ratio
func (so ScaleOption) cropBox(ow, oh int) (cw, ch int) {
	targetRel := float64(so.Width) / float64(so.Height)
	if float64(ow)/float64(oh) > targetRel {
		cw = round(float64(oh) * targetRel)
		ch = oh
	} else {
		cw = ow
		ch = round(float64(ow) / targetRel)
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	return
}

// Scale resamples img onto the target box with Lanczos, per mode.
// Fit scales up as well as down; without KeepRatio every
// aspect-preserving mode degrades to a plain stretch.
func Scale(img image.Image, so ScaleOption) image.Image {
	ob := img.Bounds()
	ow, oh := ob.Dx(), ob.Dy()

	mode := so.Mode
	if !so.KeepRatio {
		mode = ModeStretch
	}

	switch mode {
	case ModeFit:
		dw, dh := so.calc(ow, oh)
		return imaging.Resize(img, dw, dh, imaging.Lanczos)
	case ModeFill:
		return imaging.Fill(img, so.Width, so.Height, imaging.Center, imaging.Lanczos)
	case ModeCrop:
		cw, ch := so.cropBox(ow, oh)
		m := imaging.CropCenter(img, cw, ch)
		return imaging.Resize(m, so.Width, so.Height, imaging.Lanczos)
	}
	return imaging.Resize(img, so.Width, so.Height, imaging.Lanczos)
}

// HasAlpha ...
func HasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}

// Flatten composites img over an opaque white background
func Flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func round(v float64) int {
	return int(math.Round(v))
}
