package bundle

import (
	"fmt"
	"os"
	"path/filepath"
)

type artifact struct {
	rel  string
	data []byte
}

// Writer buffers artifacts in memory and writes them only on Commit, so a
// failed build never leaves a mix of fresh and stale bundles behind.
type Writer struct {
	root      string
	artifacts []artifact
}

// NewWriter creates a Writer for artifacts below root.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Add stages data for the artifact at rel (relative to the writer root).
func (w *Writer) Add(rel string, data []byte) {
	w.artifacts = append(w.artifacts, artifact{rel: rel, data: data})
}

// Len is the number of staged artifacts.
func (w *Writer) Len() int { return len(w.artifacts) }

// Commit writes every staged artifact and returns the written paths.
func (w *Writer) Commit() ([]string, error) {
	paths := make([]string, 0, len(w.artifacts))
	for _, a := range w.artifacts {
		dest := filepath.Join(w.root, filepath.FromSlash(a.rel))
		if err := WriteFileAtomic(dest, a.data); err != nil {
			return paths, err
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

// WriteFileAtomic writes data to a uniquely named temp file next to dest and
// renames it into place. Concurrent writers to the same dest never share a
// temp file; the last rename wins.
func WriteFileAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dest, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", dest, err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", dest, err)
	}
	return nil
}
