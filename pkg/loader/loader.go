// Package loader discovers the YAML content files of a category and parses
// them into document trees.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Document is one parsed content file. Node is nil for an empty file.
type Document struct {
	Path string
	Node *yaml.Node
}

// ParseError reports a content file that is not well-formed YAML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// IsContentFile reports whether path has a recognized YAML extension.
func IsContentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Discover walks root depth-first and returns every content file below it, sorted.
// A symlinked root is followed; returned paths stay under root as given.
func Discover(root string) ([]string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walk %s: not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !IsContentFile(path) {
			return nil
		}
		rel, err := filepath.Rel(resolved, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.Join(root, rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Parse decodes a single YAML document. Multiple documents in one file are rejected.
func Parse(path string, data []byte) (*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return nil, &ParseError{Path: path, Err: errors.New("multiple YAML documents in one file")}
	} else if !errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: path, Err: err}
	}

	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		return doc.Content[0], nil
	}
	return &doc, nil
}

// Loader reads a category tree with a bounded number of concurrent file reads.
type Loader struct {
	Workers int
	Logger  *zap.Logger
}

// New creates a Loader. A nil logger disables logging.
func New(workers int, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{Workers: workers, Logger: logger}
}

// Load discovers and parses every content file under root. All reads finish
// before Load returns; the first read or parse failure aborts the load and is
// returned. Documents come back in discovery order.
func (l *Loader) Load(ctx context.Context, root string) ([]Document, error) {
	files, err := Discover(root)
	if err != nil {
		return nil, err
	}
	l.Logger.Debug("discovered content files", zap.String("root", root), zap.Int("files", len(files)))
	if len(files) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		firstErr error
		errMu    sync.Mutex
	)
	pool := NewWorkerPool(l.Workers, len(files))
	pool.OnError = func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	pool.Start(ctx)

	docs := make([]Document, len(files))
	for i, path := range files {
		job := func(ctx context.Context) error {
			if ctx.Err() != nil {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			node, err := Parse(path, data)
			if err != nil {
				return err
			}
			docs[i] = Document{Path: path, Node: node}
			return nil
		}
		if err := pool.SubmitCtx(ctx, job); err != nil {
			break
		}
	}
	pool.Close()

	errMu.Lock()
	defer errMu.Unlock()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
