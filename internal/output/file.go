package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/modcatalog/internal/dom"
)

// File writes each rendered document to a path on disk.
type File struct {
	path string
	doc  dom.Document
}

// NewFile creates a file sink. The parent directory is created on first
// write.
func NewFile(path string, doc dom.Document) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("output: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("output: resolve path: %w", err)
	}
	return &File{path: abs, doc: doc}, nil
}

// Path returns the absolute output path.
func (f *File) Path() string {
	return f.path
}

// Replace implements Sink.
func (f *File) Replace(_ context.Context, tree *dom.Node) error {
	b, err := dom.DocumentBytes(f.doc, tree)
	if err != nil {
		return err
	}
	return writeAtomic(f.path, b)
}

// writeAtomic writes content via tmp file → fsync → rename so readers see
// either the old or the new document.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("output: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".modcatalog-tmp-*")
	if err != nil {
		return fmt.Errorf("output: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("output: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("output: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("output: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("output: chmod: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("output: rename: %w", err)
	}
	success = true
	return nil
}
