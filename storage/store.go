package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/go-imsto/bulkimg/batch"
	zlog "github.com/go-imsto/bulkimg/log"
	"github.com/go-imsto/bulkimg/utils"
)

func logger() zlog.Logger {
	return zlog.Get()
}

const (
	catSrc  = "src"
	catOut  = "out"
	zipName = "archive.zip"
)

var (
	ErrBatchNotFound = errors.New("batch not found")
	ErrBadName       = errors.New("bad file name")
)

// Store batch workspaces under one root directory. Any workspace
// may be removed at any time without affecting a runner's
// correctness; callers simply lose the downloads.
type Store struct {
	root string
}

// New ...
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("empty store root")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Root ...
func (s *Store) Root() string {
	return s.root
}

// Batch one workspace: staged sources, produced outputs, archive
type Batch struct {
	ID  string
	dir string
}

// NewBatch ...
func (s *Store) NewBatch() (*Batch, error) {
	id := uuid.New().String()
	b := &Batch{ID: id, dir: filepath.Join(s.root, id)}
	for _, cat := range []string{catSrc, catOut} {
		if err := os.MkdirAll(filepath.Join(b.dir, cat), 0755); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Batch reopens an existing workspace
func (s *Store) Batch(id string) (*Batch, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBatchNotFound
	}
	dir := filepath.Join(s.root, id)
	if !utils.IsDir(dir) {
		return nil, ErrBatchNotFound
	}
	return &Batch{ID: id, dir: dir}, nil
}

// OutDir where a runner writes its outputs
func (b *Batch) OutDir() string {
	return filepath.Join(b.dir, catOut)
}

// ArchivePath ...
func (b *Batch) ArchivePath() string {
	return filepath.Join(b.dir, zipName)
}

// StageUpload saves an uploaded blob under its content hash and
// returns a source keeping the original name
func (b *Batch) StageUpload(name string, data []byte) (batch.Source, error) {
	staged := filepath.Join(b.dir, catSrc, HashContent(data)+strings.ToLower(filepath.Ext(name)))
	if !utils.Exists(staged) {
		if err := utils.SaveFile(staged, data); err != nil {
			return batch.Source{}, err
		}
	}
	return batch.Source{Name: filepath.Base(name), Path: staged}, nil
}

// Output resolves one produced file, guarding against path escape
func (b *Batch) Output(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrBadName
	}
	fp := filepath.Join(b.OutDir(), name)
	if !utils.Exists(fp) {
		return "", ErrBatchNotFound
	}
	return fp, nil
}

// Sweep removes workspaces older than retention
func (s *Store) Sweep(retention time.Duration) (cleaned int, err error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-retention)
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		if _, e := uuid.Parse(ent.Name()); e != nil {
			continue
		}
		fi, e := ent.Info()
		if e != nil || !fi.ModTime().Before(cutoff) {
			continue
		}
		if e = os.RemoveAll(filepath.Join(s.root, ent.Name())); e != nil {
			logger().Warnw("sweep fail", "batch", ent.Name(), "err", e)
			continue
		}
		cleaned++
	}
	if cleaned > 0 {
		logger().Infow("swept batches", "count", cleaned)
	}
	return
}
