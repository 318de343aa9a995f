// Package output writes rendered transcripts to their final location.
package output

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// AtomicWriter writes files through a temporary sibling so a reader never
// sees a partial document.
type AtomicWriter struct {
	fs afero.Fs
}

// NewAtomicWriter returns a writer backed by fs, or the OS filesystem if fs is nil.
func NewAtomicWriter(fs afero.Fs) *AtomicWriter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &AtomicWriter{fs: fs}
}

// Fs returns the filesystem the writer targets.
func (w *AtomicWriter) Fs() afero.Fs {
	return w.fs
}

// WriteFile calls fn with a buffered writer and moves the result to path
// once fn and the flush succeed. On any error the destination is untouched.
func (w *AtomicWriter) WriteFile(path string, fn func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := afero.TempFile(w.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			w.fs.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = fn(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = w.fs.Chmod(tmpName, 0644); err != nil {
		return err
	}
	if err = w.fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
