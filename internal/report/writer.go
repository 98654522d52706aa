// Package report persists review text to a fixed path.
package report

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/roivaz/diff-review/internal/failure"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Writer replaces the file at Path with each review it is given.
type Writer struct {
	fs   afero.Fs
	path string
}

// NewWriter writes to path on the host filesystem.
func NewWriter(path string) *Writer {
	return NewWriterFs(afero.NewOsFs(), path)
}

func NewWriterFs(fs afero.Fs, path string) *Writer {
	return &Writer{fs: fs, path: path}
}

// Write stores text byte-for-byte, creating missing parent directories. The
// content goes to a sibling temp file that is renamed over the destination, so
// a failed write keeps the previous report.
func (w *Writer) Write(text string) (string, error) {
	if w.path == "" {
		return "", failure.Wrap(failure.CategoryFilesystem, "write report", errors.New("output path is empty"))
	}
	dir := filepath.Dir(w.path)
	if err := w.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", failure.Wrap(failure.CategoryFilesystem, "create report directory", err)
	}
	if info, err := w.fs.Stat(w.path); err == nil && info.IsDir() {
		return "", failure.Wrap(failure.CategoryFilesystem, "write report", fmt.Errorf("%s is a directory", w.path))
	}

	if err := w.writeAtomic(dir, []byte(text)); err != nil {
		return "", failure.Wrap(failure.CategoryFilesystem, "write report", err)
	}
	return w.path, nil
}

func (w *Writer) writeAtomic(dir string, data []byte) (err error) {
	tmp, err := afero.TempFile(w.fs, dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = w.fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = w.fs.Chmod(tmpName, filePerm); err != nil {
		return err
	}
	return w.fs.Rename(tmpName, w.path)
}
