package batch

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	iimg "github.com/go-imsto/bulkimg/image"
	zlog "github.com/go-imsto/bulkimg/log"
	"github.com/go-imsto/bulkimg/utils"
)

func logger() zlog.Logger {
	return zlog.Get()
}

// Runner executes a whole batch and returns only after every job
// has settled. Running batches cannot be cancelled.
type Runner interface {
	Run(jobs []Job) (*Result, error)
}

// New builds a runner writing outputs under root
func New(root string, opts ...Option) (Runner, error) {
	if root == "" {
		return nil, fmt.Errorf("empty output root")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	s := &runner{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type runner struct {
	root    string
	sink    ProgressSink
	workers int
}

func (s *runner) Run(jobs []Job) (*Result, error) {
	if len(jobs) == 0 {
		return nil, ErrEmptyBatch
	}
	for i := range jobs {
		if err := jobs[i].Options.Validate(); err != nil {
			return nil, err
		}
	}

	workers := s.workers
	if workers == 0 {
		workers = jobs[0].Options.Workers
	}
	if workers < MinWorkers || workers > MaxWorkers {
		return nil, fmt.Errorf("bad workers %d, want %d..%d", workers, MinWorkers, MaxWorkers)
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	res := newResult(len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			s.process(job, res)
			return nil
		})
	}
	g.Wait()

	res.sortByIndex()
	return res, nil
}

// process settles exactly one job; any error stays with it
func (s *runner) process(job Job, res *Result) {
	out, err := s.resizeOne(job)
	if err != nil {
		logger().Infow("job fail", "index", job.Index, "name", job.Source.Name, "err", err)
		res.fail(Failure{Index: job.Index, Name: job.Source.Name, Reason: err.Error()}, s.sink)
		return
	}
	logger().Debugw("job done", "index", job.Index, "name", out.Name, "size", out.Size)
	res.ok(out, s.sink)
}

func (s *runner) resizeOne(job Job) (out Outcome, err error) {
	rc, err := job.Source.open()
	if err != nil {
		return
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return
	}

	opt := job.Options
	im, _, err := iimg.Decode(bytes.NewReader(raw))
	if err != nil {
		return
	}
	m := iimg.Scale(im, iimg.ScaleOption{
		Width:     opt.Width,
		Height:    opt.Height,
		Mode:      opt.Mode,
		KeepRatio: opt.KeepRatio,
	})

	var buf bytes.Buffer
	if err = iimg.SaveTo(&buf, m, iimg.WriteOption{Format: opt.Format, Quality: opt.Quality}); err != nil {
		return
	}
	data := buf.Bytes()
	if opt.KeepMeta && opt.Format == iimg.FormatJPEG {
		// carried only when both ends are jpeg; dropped silently otherwise
		if seg := iimg.ExifSegment(raw); seg != nil {
			data = iimg.SpliceExif(data, seg)
		}
	}

	p, err := ParsePattern(opt.Pattern)
	if err != nil {
		return
	}
	name := p.Render(job.Source.Stem(), filepath.Base(job.Source.Name), job.Index, opt.Width, opt.Height) + opt.Format.Ext()
	dst := filepath.Join(s.root, name)
	if err = utils.SaveFile(dst, data); err != nil {
		return
	}
	return Outcome{Index: job.Index, Name: name, Path: dst, Size: int64(len(data))}, nil
}
