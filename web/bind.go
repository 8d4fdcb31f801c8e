package web

import (
	"net/http"

	"github.com/go-playground/form"

	"github.com/go-imsto/bulkimg/batch"
	"github.com/go-imsto/bulkimg/config"
	iimg "github.com/go-imsto/bulkimg/image"
)

var (
	formDecoder = form.NewDecoder()
)

// Bind ...
func Bind(req *http.Request, obj interface{}) error {
	if err := req.ParseForm(); err != nil {
		return err
	}
	req.ParseMultipartForm(DefaultMaxMemory)
	if err := formDecoder.Decode(obj, req.Form); err != nil {
		return err
	}
	return nil
}

type resizeSchema struct {
	Width       int    `form:"width"`
	Height      int    `form:"height"`
	Mode        string `form:"mode"`
	Format      string `form:"format"`
	Quality     uint8  `form:"quality"`
	Pattern     string `form:"pattern"`
	Workers     int    `form:"workers"`
	IgnoreRatio bool   `form:"ignore_ratio"`
	KeepMeta    bool   `form:"keep_meta"`
}

// options fills unset fields from the configured defaults and
// validates once, before any job is built
func (s resizeSchema) options() (opt batch.Options, err error) {
	cur := config.Current
	if s.Width == 0 {
		s.Width = cur.Width
	}
	if s.Height == 0 {
		s.Height = cur.Height
	}
	if s.Quality == 0 {
		s.Quality = cur.Quality
	}
	if s.Mode == "" {
		s.Mode = cur.Mode
	}
	if s.Format == "" {
		s.Format = cur.Format
	}
	if s.Pattern == "" {
		s.Pattern = cur.Pattern
	}
	if s.Workers == 0 {
		s.Workers = cur.Workers
	}

	opt = batch.Options{
		Width: s.Width, Height: s.Height,
		Quality:   s.Quality,
		KeepRatio: !s.IgnoreRatio,
		KeepMeta:  s.KeepMeta,
		Pattern:   s.Pattern,
		Workers:   s.Workers,
	}
	if opt.Mode, err = iimg.ParseMode(s.Mode); err != nil {
		return
	}
	if opt.Format, err = iimg.ParseFormat(s.Format); err != nil {
		return
	}
	err = opt.Validate()
	return
}
