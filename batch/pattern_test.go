package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternRender(t *testing.T) {
	tests := []struct {
		pattern string
		index   int
		want    string
	}{
		{"{name}_{width}x{height}", 1, "photo_800x600"},
		{"img_{index:03d}", 1, "img_001"},
		{"img_{index:03d}", 12, "img_012"},
		{"{original_name}", 3, "photo.png"},
		{"{name}_resized", 9, "photo_resized"},
		{"{name}_{index}", 2, "photo_2"},
	}
	for _, tt := range tests {
		p, err := ParsePattern(tt.pattern)
		assert.NoError(t, err, tt.pattern)
		got := p.Render("photo", "photo.png", tt.index, 800, 600)
		assert.Equal(t, tt.want, got, tt.pattern)
	}
}

func TestPatternReject(t *testing.T) {
	for _, s := range []string{"", "  ", "{nope}", "{name:03d}", "{index:3d}", "{index"} {
		_, err := ParsePattern(s)
		if s == "{index" {
			// no closing brace: literal text, allowed
			assert.NoError(t, err, s)
			continue
		}
		assert.Error(t, err, "pattern %q", s)
	}
}

func TestPatternSanitize(t *testing.T) {
	p, err := ParsePattern("{name}")
	assert.NoError(t, err)
	assert.Equal(t, "a_b", p.Render("a/b", "a/b.png", 1, 10, 10))
	assert.Equal(t, "resized", p.Render("..", "x", 1, 10, 10))
}
