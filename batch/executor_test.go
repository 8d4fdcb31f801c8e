package batch

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	iimg "github.com/go-imsto/bulkimg/image"
)

func pngSource(t *testing.T, name string, w, h int) Source {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 77, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		t.Fatal(err)
	}
	return Source{Name: name, Data: buf.Bytes()}
}

func testOptions() Options {
	return Options{
		Width: 80, Height: 60,
		Mode: iimg.ModeFit, KeepRatio: true,
		Format: iimg.FormatJPEG, Quality: 85,
		Pattern: "{name}_{width}x{height}", Workers: 4,
	}
}

type countingSink struct {
	mu      sync.Mutex
	updates []int
	total   int
}

func (c *countingSink) Progress(completed, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, completed)
	c.total = total
}

func TestRunIsolatesFailures(t *testing.T) {
	sources := []Source{
		pngSource(t, "a.png", 200, 100),
		pngSource(t, "b.png", 100, 200),
		{Name: "broken.png", Data: []byte("not an image at all")},
		pngSource(t, "c.png", 64, 64),
	}
	sink := &countingSink{}
	s, err := New(t.TempDir(), WithSink(sink))
	assert.NoError(t, err)

	res, err := s.Run(BuildJobs(sources, testOptions()))
	assert.NoError(t, err)
	assert.Len(t, res.Succeeded, 3)
	assert.Len(t, res.Failed, 1)
	assert.Equal(t, 3, res.Failed[0].Index)
	assert.Equal(t, "broken.png", res.Failed[0].Name)
	assert.NotEmpty(t, res.Failed[0].Reason)

	// every index exactly once
	seen := map[int]int{}
	for _, o := range res.Succeeded {
		seen[o.Index]++
	}
	for _, f := range res.Failed {
		seen[f.Index]++
	}
	assert.Len(t, seen, len(sources))
	for i := 1; i <= len(sources); i++ {
		assert.Equal(t, 1, seen[i], "index %d", i)
	}

	// progress: one update per job, monotonic, ending at total
	assert.Len(t, sink.updates, len(sources))
	assert.Equal(t, len(sources), sink.total)
	for i, c := range sink.updates {
		assert.Equal(t, i+1, c)
	}

	for _, o := range res.Succeeded {
		assert.True(t, o.Size > 0)
		fi, err := os.Stat(o.Path)
		assert.NoError(t, err)
		assert.Equal(t, o.Size, fi.Size())
	}
}

func TestRunNaming(t *testing.T) {
	sources := []Source{
		pngSource(t, "x.png", 50, 50),
		pngSource(t, "y.png", 50, 50),
		pngSource(t, "z.png", 50, 50),
	}
	opt := testOptions()
	opt.Pattern = "img_{index:03d}"
	opt.Format = iimg.FormatPNG

	root := t.TempDir()
	s, err := New(root)
	assert.NoError(t, err)
	res, err := s.Run(BuildJobs(sources, opt))
	assert.NoError(t, err)
	assert.Len(t, res.Succeeded, 3)
	for i, o := range res.Succeeded {
		assert.Equal(t, []string{"img_001.png", "img_002.png", "img_003.png"}[i], o.Name)
		assert.Equal(t, filepath.Join(root, o.Name), o.Path)
	}
}

func TestRunFitBounds(t *testing.T) {
	sources := []Source{
		pngSource(t, "wide.png", 400, 100),
		pngSource(t, "tall.png", 100, 400),
	}
	opt := testOptions()
	opt.Mode = iimg.ModeFit
	opt.Workers = 8 // clamped to batch size

	s, err := New(t.TempDir())
	assert.NoError(t, err)
	res, err := s.Run(BuildJobs(sources, opt))
	assert.NoError(t, err)
	assert.Len(t, res.Succeeded, 2)

	for _, o := range res.Succeeded {
		data, err := os.ReadFile(o.Path)
		assert.NoError(t, err)
		attr, err := iimg.Probe(bytes.NewReader(data))
		assert.NoError(t, err)
		assert.LessOrEqual(t, attr.Width, opt.Width)
		assert.LessOrEqual(t, attr.Height, opt.Height)
	}
}

func TestRunFillExact(t *testing.T) {
	opt := testOptions()
	opt.Mode = iimg.ModeFill
	opt.Format = iimg.FormatPNG

	s, err := New(t.TempDir())
	assert.NoError(t, err)
	res, err := s.Run(BuildJobs([]Source{pngSource(t, "p.png", 333, 77)}, opt))
	assert.NoError(t, err)
	assert.Len(t, res.Succeeded, 1)

	data, _ := os.ReadFile(res.Succeeded[0].Path)
	attr, err := iimg.Probe(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, opt.Width, attr.Width)
	assert.Equal(t, opt.Height, attr.Height)
}

func TestRunPreconditions(t *testing.T) {
	s, err := New(t.TempDir())
	assert.NoError(t, err)

	_, err = s.Run(nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	opt := testOptions()
	opt.Workers = 9
	_, err = s.Run(BuildJobs([]Source{pngSource(t, "a.png", 10, 10)}, opt))
	assert.Error(t, err)

	opt = testOptions()
	opt.Quality = 0
	_, err = s.Run(BuildJobs([]Source{pngSource(t, "a.png", 10, 10)}, opt))
	assert.Error(t, err)

	opt = testOptions()
	opt.Pattern = "{bogus}"
	_, err = s.Run(BuildJobs([]Source{pngSource(t, "a.png", 10, 10)}, opt))
	assert.Error(t, err)
}

func TestRunIdempotent(t *testing.T) {
	opt := testOptions()
	sources := []Source{pngSource(t, "same.png", 120, 90)}

	read := func() []byte {
		root := t.TempDir()
		s, err := New(root)
		assert.NoError(t, err)
		res, err := s.Run(BuildJobs(sources, opt))
		assert.NoError(t, err)
		assert.Len(t, res.Succeeded, 1)
		data, err := os.ReadFile(res.Succeeded[0].Path)
		assert.NoError(t, err)
		return data
	}
	assert.Equal(t, read(), read())
}
