package image

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
)

// WriteOption ...
type WriteOption struct {
	Format  Format
	Quality uint8
}

// SaveTo encodes m per the write option. Transparent pixels are
// flattened onto white before a jpeg encode; quality is ignored
// for png.
func SaveTo(w io.Writer, m image.Image, opt WriteOption) error {
	q := int(opt.Quality)
	if q < 1 || q > 100 {
		q = 85
	}
	switch opt.Format {
	case FormatPNG:
		return png.Encode(w, m)
	case FormatWEBP:
		return webp.Encode(w, m, &webp.Options{Quality: float32(q)})
	}
	if HasAlpha(m) {
		m = Flatten(m)
	}
	return jpeg.Encode(w, m, &jpeg.Options{Quality: q})
}
