package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	iimg "github.com/go-imsto/bulkimg/image"
)

// limits of the worker pool
const (
	MinWorkers = 1
	MaxWorkers = 8
)

var (
	ErrEmptyBatch = errors.New("Please upload at least one image")
	ErrNoSource   = errors.New("empty source")
)

// Source one input image, in memory or on disk
type Source struct {
	Name string // original file name
	Path string // staged file, used when Data is nil
	Data []byte
}

func (s Source) open() (io.ReadCloser, error) {
	if s.Data != nil {
		return io.NopCloser(bytes.NewReader(s.Data)), nil
	}
	if s.Path == "" {
		return nil, ErrNoSource
	}
	return os.Open(s.Path)
}

// Stem original name without extension
func (s Source) Stem() string {
	base := filepath.Base(s.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Options shared configuration of a batch, immutable once built
type Options struct {
	Width, Height int
	Mode          iimg.Mode
	KeepRatio     bool
	Format        iimg.Format
	Quality       uint8
	KeepMeta      bool
	Pattern       string
	Workers       int
}

// Validate checks every recognized option once, before any job runs
func (o Options) Validate() error {
	if o.Width < 1 || o.Height < 1 {
		return fmt.Errorf("bad dimensions %dx%d", o.Width, o.Height)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("bad quality %d, want 1..100", o.Quality)
	}
	if o.Workers < MinWorkers || o.Workers > MaxWorkers {
		return fmt.Errorf("bad workers %d, want %d..%d", o.Workers, MinWorkers, MaxWorkers)
	}
	if int(o.Mode) >= len(iimg.Modes()) {
		return fmt.Errorf("bad mode %s", o.Mode)
	}
	if int(o.Format) >= len(iimg.Formats()) {
		return fmt.Errorf("bad format %s", o.Format)
	}
	if _, err := ParsePattern(o.Pattern); err != nil {
		return err
	}
	return nil
}

// Job one requested transformation; Index is 1-based
type Job struct {
	Index   int
	Source  Source
	Options Options
}

// BuildJobs pairs the ordered sources with the shared options
func BuildJobs(sources []Source, opt Options) []Job {
	jobs := make([]Job, len(sources))
	for i, src := range sources {
		jobs[i] = Job{Index: i + 1, Source: src, Options: opt}
	}
	return jobs
}
