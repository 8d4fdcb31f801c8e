package batch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	tokenRe = regexp.MustCompile(`\{[^{}]*\}`)
	varRe   = regexp.MustCompile(`^\{(?:(name|original_name)|(index|width|height)(?::0(\d+)d)?)\}$`)
)

// Pattern output-name template with {name}, {original_name},
// {index}, {width}, {height} variables; numeric variables accept a
// zero-padding directive like {index:03d}.
type Pattern struct {
	raw string
}

// ParsePattern validates every variable of the template
func ParsePattern(s string) (*Pattern, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty name pattern")
	}
	for _, tok := range tokenRe.FindAllString(s, -1) {
		if !varRe.MatchString(tok) {
			return nil, fmt.Errorf("bad pattern variable %s", tok)
		}
	}
	return &Pattern{raw: s}, nil
}

func (p *Pattern) String() string {
	return p.raw
}

// Render substitutes the variables; the result is always safe as a
// bare file name.
func (p *Pattern) Render(name, origName string, index, width, height int) string {
	out := tokenRe.ReplaceAllStringFunc(p.raw, func(tok string) string {
		m := varRe.FindStringSubmatch(tok)
		if m == nil {
			return tok
		}
		if m[1] == "name" {
			return name
		}
		if m[1] == "original_name" {
			return origName
		}
		pad := 0
		if m[3] != "" {
			pad, _ = strconv.Atoi(m[3])
		}
		switch m[2] {
		case "index":
			return fmt.Sprintf("%0*d", pad, index)
		case "width":
			return fmt.Sprintf("%0*d", pad, width)
		case "height":
			return fmt.Sprintf("%0*d", pad, height)
		}
		return tok
	})
	return sanitizeName(out)
}

func sanitizeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
	s = strings.Trim(s, ". ")
	if s == "" {
		s = "resized"
	}
	return s
}
