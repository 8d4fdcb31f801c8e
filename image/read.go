package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Attr basic attributes of a decoded source
type Attr struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Ext    string `json:"ext,omitempty"`
	Mime   string `json:"mime,omitempty"`
	Name   string `json:"name,omitempty"`
	Size   int64  `json:"size,omitempty"`
}

// Decode reads any supported source format: jpeg, png, gif, bmp, tiff, webp
func Decode(r io.Reader) (image.Image, string, error) {
	im, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrorFormat, err)
	}
	return im, format, nil
}

// Probe reads only the header of a source
func Probe(r io.Reader) (*Attr, error) {
	conf, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrorFormat, err)
	}
	return &Attr{
		Width:  conf.Width,
		Height: conf.Height,
		Ext:    "." + format,
		Mime:   "image/" + format,
	}, nil
}
