package storage

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-imsto/bulkimg/batch"
)

// input set of the original UI
var srcExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tiff": true, ".tif": true, ".webp": true,
}

// SourceExt whether a file name looks like a readable image
func SourceExt(name string) bool {
	return srcExts[strings.ToLower(filepath.Ext(name))]
}

// ExtractSources expands an uploaded archive into ordered sources.
// Directories and non-image entries are skipped; maxFiles and
// maxSize bound the expansion.
func ExtractSources(ra io.ReaderAt, size int64, maxFiles int, maxSize int64) ([]batch.Source, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("bad archive: %w", err)
	}
	var sources []batch.Source
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !SourceExt(zf.Name) {
			continue
		}
		if strings.HasPrefix(filepath.Base(zf.Name), ".") {
			continue
		}
		if maxFiles > 0 && len(sources) >= maxFiles {
			return nil, fmt.Errorf("too many files in archive, limit %d", maxFiles)
		}
		if maxSize > 0 && int64(zf.UncompressedSize64) > maxSize {
			return nil, fmt.Errorf("%s too large, limit %d bytes", zf.Name, maxSize)
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		sources = append(sources, batch.Source{Name: filepath.Base(zf.Name), Data: data})
	}
	return sources, nil
}

// BuildArchive packs produced outputs into a fresh zip at fp
func BuildArchive(fp string, outs []batch.Outcome) error {
	zipFile, err := os.Create(fp)
	if err != nil {
		return err
	}
	defer zipFile.Close()
	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	for _, o := range outs {
		w, err := zw.Create(o.Name)
		if err != nil {
			return err
		}
		f, err := os.Open(o.Path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// Archive builds the downloadable archive of a finished batch
func (b *Batch) Archive(outs []batch.Outcome) (string, error) {
	fp := b.ArchivePath()
	if err := BuildArchive(fp, outs); err != nil {
		return "", err
	}
	return fp, nil
}
