package image

import (
	"errors"
)

var (
	ErrorFormat  = errors.New("invalid or unsupported image format")
	ErrBadOption = errors.New("invalid option")
)
