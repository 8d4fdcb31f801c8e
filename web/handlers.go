package web

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"sort"

	"github.com/bmizerany/pat"

	"github.com/go-imsto/bulkimg/batch"
	"github.com/go-imsto/bulkimg/config"
	iimg "github.com/go-imsto/bulkimg/image"
	"github.com/go-imsto/bulkimg/storage"
)

// pattern presets offered to UI pickers
var namingPresets = map[string]string{
	"default":    "{name}_resized",
	"with_size":  "{name}_{width}x{height}",
	"sequential": "img_{index:03d}",
	"original":   "{original_name}",
}

// Handler ...
func Handler(store *storage.Store) http.Handler {
	h := &handlers{store: store}

	mux := pat.New()
	mux.Get("/bulk/modes", http.HandlerFunc(h.modesHandler))
	mux.Post("/bulk/batch", CheckAPIKey(http.HandlerFunc(h.batchHandler)))
	mux.Get("/bulk/batch/:id/archive", http.HandlerFunc(h.archiveHandler))
	mux.Get("/show/:id/:name", http.HandlerFunc(h.showHandler))

	return Recovery(mux)
}

type handlers struct {
	store *storage.Store
}

type outItem struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	URL   string `json:"url"`
}

func (h *handlers) batchHandler(w http.ResponseWriter, r *http.Request) {
	var rs resizeSchema
	if err := Bind(r, &rs); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeJSONError(w, r, err)
		return
	}
	opt, err := rs.options()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeJSONError(w, r, err)
		return
	}

	form := r.MultipartForm
	if form == nil || len(form.File) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		writeJSONError(w, r, batch.ErrEmptyBatch)
		return
	}
	defer form.RemoveAll()

	b, err := h.store.NewBatch()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSONError(w, r, err)
		return
	}

	jobs, preFailed, err := h.collect(b, form, opt)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeJSONError(w, r, err)
		return
	}
	if len(jobs)+len(preFailed) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		writeJSONError(w, r, batch.ErrEmptyBatch)
		return
	}

	res := &batch.Result{Failed: preFailed}
	if len(jobs) > 0 {
		s, err := batch.New(b.OutDir(), batch.WithSink(batch.ProgressFunc(func(completed, total int) {
			logger().Debugw("batch progress", "id", b.ID, "completed", completed, "total", total)
		})))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSONError(w, r, err)
			return
		}
		run, err := s.Run(jobs)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			writeJSONError(w, r, err)
			return
		}
		run.Failed = append(run.Failed, preFailed...)
		sort.Slice(run.Failed, func(i, j int) bool { return run.Failed[i].Index < run.Failed[j].Index })
		res = run
	}
	logger().Infow("batch done", "id", b.ID, "succeeded", len(res.Succeeded), "failed", len(res.Failed))

	failed := res.Failed
	if failed == nil {
		failed = []batch.Failure{}
	}
	data := map[string]interface{}{
		"id":     b.ID,
		"total":  len(res.Succeeded) + len(res.Failed),
		"failed": failed,
	}
	items := make([]outItem, 0, len(res.Succeeded))
	for _, o := range res.Succeeded {
		items = append(items, outItem{
			Index: o.Index, Name: o.Name, Size: o.Size,
			URL: fmt.Sprintf("/show/%s/%s", b.ID, o.Name),
		})
	}
	data["succeeded"] = items

	if len(res.Succeeded) > 0 {
		if _, err = b.Archive(res.Succeeded); err != nil {
			logger().Warnw("archive fail", "id", b.ID, "err", err)
		} else {
			data["archive_url"] = fmt.Sprintf("/bulk/batch/%s/archive", b.ID)
		}
	}

	meta := newApiMeta(len(res.Failed) == 0)
	meta["version"] = config.Version
	writeJSONQuiet(w, r, newApiRes(meta, data))
}

// collect stages the ordered uploads of the request: either one
// "archive" zip or any number of plain file fields. Per-file
// staging problems become failure slots keeping their upload
// index, never request errors.
func (h *handlers) collect(b *storage.Batch, form *multipart.Form, opt batch.Options) (jobs []batch.Job, preFailed []batch.Failure, err error) {
	if fhs := form.File["archive"]; len(fhs) > 0 {
		var data []byte
		data, err = readUpload(fhs[0])
		if err != nil {
			return
		}
		var sources []batch.Source
		sources, err = storage.ExtractSources(
			bytes.NewReader(data), int64(len(data)),
			config.Current.MaxBatchFiles, config.Current.MaxFileSize)
		if err != nil {
			return
		}
		jobs = batch.BuildJobs(sources, opt)
		return
	}

	keys := make([]string, 0, len(form.File))
	for k := range form.File {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	index := 0
	for _, k := range keys {
		for _, fh := range form.File[k] {
			index++
			if index > config.Current.MaxBatchFiles {
				err = fmt.Errorf("too many files, limit %d", config.Current.MaxBatchFiles)
				return
			}
			if fh.Size > config.Current.MaxFileSize {
				preFailed = append(preFailed, batch.Failure{
					Index: index, Name: fh.Filename,
					Reason: fmt.Sprintf("file too large, limit %d bytes", config.Current.MaxFileSize),
				})
				continue
			}
			data, fe := readUpload(fh)
			if fe != nil {
				preFailed = append(preFailed, batch.Failure{Index: index, Name: fh.Filename, Reason: fe.Error()})
				continue
			}
			src, fe := b.StageUpload(fh.Filename, data)
			if fe != nil {
				preFailed = append(preFailed, batch.Failure{Index: index, Name: fh.Filename, Reason: fe.Error()})
				continue
			}
			jobs = append(jobs, batch.Job{Index: index, Source: src, Options: opt})
		}
	}
	return
}

func (h *handlers) archiveHandler(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.Batch(r.URL.Query().Get(":id"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		writeJSONError(w, r, err)
		return
	}
	h.serveFile(w, r, b.ArchivePath(), b.ID+".zip")
}

func (h *handlers) showHandler(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.Batch(r.URL.Query().Get(":id"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		writeJSONError(w, r, err)
		return
	}
	fp, err := b.Output(r.URL.Query().Get(":name"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		writeJSONError(w, r, err)
		return
	}
	h.serveFile(w, r, fp, r.URL.Query().Get(":name"))
}

func (h *handlers) serveFile(w http.ResponseWriter, r *http.Request, fp, name string) {
	f, err := os.Open(fp)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		writeJSONError(w, r, storage.ErrBatchNotFound)
		return
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSONError(w, r, err)
		return
	}
	http.ServeContent(w, r, name, fi.ModTime(), f)
}

func (h *handlers) modesHandler(w http.ResponseWriter, r *http.Request) {
	m := newApiMeta(true)
	m["version"] = config.Version
	data := map[string]interface{}{
		"modes":    iimg.Modes(),
		"formats":  iimg.Formats(),
		"patterns": namingPresets,
		"defaults": map[string]interface{}{
			"width":   config.Current.Width,
			"height":  config.Current.Height,
			"quality": config.Current.Quality,
			"format":  config.Current.Format,
			"mode":    config.Current.Mode,
			"pattern": config.Current.Pattern,
			"workers": config.Current.Workers,
		},
	}
	writeJSONQuiet(w, r, newApiRes(m, data))
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
