package image

import (
	"fmt"
	"strings"
)

// Mode how a source is mapped onto the target box
type Mode uint8

const (
	ModeFit Mode = iota // whole image inside the box, aspect kept
	ModeFill
	ModeCrop
	ModeStretch
)

var modeNames = []string{"fit", "fill", "crop", "stretch"}

// ParseMode ...
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return ModeFit, fmt.Errorf("%w: mode %q", ErrBadOption, s)
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Modes all supported resize modes
func Modes() []string {
	return append([]string{}, modeNames...)
}
