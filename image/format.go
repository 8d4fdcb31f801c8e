package image

import (
	"fmt"
	"strings"
)

// Format output encoding
type Format uint8

const (
	FormatJPEG Format = iota
	FormatPNG
	FormatWEBP
)

var formatNames = []string{"jpeg", "png", "webp"}

// ParseFormat ...
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "jpg" {
		name = "jpeg"
	}
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}
	return FormatJPEG, fmt.Errorf("%w: format %q", ErrBadOption, s)
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// Ext with leading dot
func (f Format) Ext() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatWEBP:
		return ".webp"
	}
	return ".jpg"
}

// HasAlpha whether the encoding can carry transparency
func (f Format) HasAlpha() bool {
	return f != FormatJPEG
}

// Lossy whether quality applies
func (f Format) Lossy() bool {
	return f != FormatPNG
}

// Formats all supported output formats
func Formats() []string {
	return append([]string{}, formatNames...)
}
