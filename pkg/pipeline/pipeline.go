// Package pipeline runs the content build: load, validate, assemble and
// write each category, in order, refusing to write anything unless every
// category is clean.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/japaniel/thaicontent/pkg/bundle"
	"github.com/japaniel/thaicontent/pkg/catalog"
	"github.com/japaniel/thaicontent/pkg/content"
	"github.com/japaniel/thaicontent/pkg/loader"
)

// Options configures a build.
type Options struct {
	ContentDir string // holds alphabet/, lexicon/ and phrasebook/
	OutDir     string // receives alphabet/letters.json etc.

	// CatalogPath, if set, also mirrors the collections into a SQLite catalog.
	CatalogPath string
	// DryRun validates everything and writes nothing.
	DryRun bool

	Workers int
	Logger  *zap.Logger
}

// CategoryResult summarizes one category of a successful build.
type CategoryResult struct {
	Category content.Category
	Files    int
	Records  int
	Output   string
}

// Result summarizes a successful build.
type Result struct {
	Categories []CategoryResult
	Written    []string
	Catalog    string
}

// ValidationError reports every file of a category that failed validation.
// Collection is true when the failure came from the collection-level pass.
type ValidationError struct {
	Category   content.Category
	Collection bool
	Files      []content.FileIssues
}

func (e *ValidationError) Error() string {
	stage := "validation"
	if e.Collection {
		stage = "collection validation"
	}
	return fmt.Sprintf("%s %s failed: %d file(s) had errors", e.Category.Label(), stage, len(e.Files))
}

// Run builds every category. The returned error is a *ValidationError for
// content problems, a *loader.ParseError for malformed YAML, or a wrapped
// I/O error.
func Run(ctx context.Context, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ld := loader.New(opts.Workers, log)
	out := bundle.NewWriter(opts.OutDir)
	res := &Result{}

	log.Info("reading content", zap.String("dir", opts.ContentDir))

	letters, cr, err := buildCategory(ctx, opts, ld, out, content.Alphabet, content.ValidateLetter)
	if err != nil {
		return nil, err
	}
	res.Categories = append(res.Categories, cr)

	words, cr, err := buildCategory(ctx, opts, ld, out, content.Lexicon, content.ValidateWord)
	if err != nil {
		return nil, err
	}
	res.Categories = append(res.Categories, cr)

	phrases, cr, err := buildCategory(ctx, opts, ld, out, content.Phrasebook, content.ValidatePhrase)
	if err != nil {
		return nil, err
	}
	res.Categories = append(res.Categories, cr)

	if opts.DryRun {
		log.Info("dry run, nothing written", zap.Int("staged", out.Len()))
		return res, nil
	}

	written, err := out.Commit()
	res.Written = written
	if err != nil {
		return res, err
	}
	for _, p := range written {
		log.Info("wrote artifact", zap.String("path", p))
	}

	if opts.CatalogPath != "" {
		if err := writeCatalog(ctx, opts.CatalogPath, catalog.Bundle{Letters: letters, Words: words, Phrases: phrases}); err != nil {
			return res, err
		}
		res.Catalog = opts.CatalogPath
		log.Info("wrote catalog", zap.String("path", opts.CatalogPath))
	}
	return res, nil
}

func buildCategory[T content.Record](
	ctx context.Context,
	opts Options,
	ld *loader.Loader,
	out *bundle.Writer,
	cat content.Category,
	validate func(*yaml.Node) (T, content.Issues),
) ([]T, CategoryResult, error) {
	log := ld.Logger.With(zap.String("category", string(cat)))
	cr := CategoryResult{Category: cat, Output: filepath.Join(opts.OutDir, filepath.FromSlash(cat.OutputPath()))}

	docs, err := ld.Load(ctx, filepath.Join(opts.ContentDir, cat.SourceDir()))
	if err != nil {
		return nil, cr, err
	}
	cr.Files = len(docs)

	items := make([]bundle.Item[T], 0, len(docs))
	var failed []content.FileIssues
	for _, d := range docs {
		rec, issues := validate(d.Node)
		if len(issues) > 0 {
			failed = append(failed, content.FileIssues{File: d.Path, Issues: issues})
			continue
		}
		items = append(items, bundle.Item[T]{Source: d.Path, Record: rec})
	}
	if len(failed) > 0 {
		return nil, cr, &ValidationError{Category: cat, Files: failed}
	}

	records, failed := bundle.Assemble(items)
	if len(failed) > 0 {
		return nil, cr, &ValidationError{Category: cat, Collection: true, Files: failed}
	}
	cr.Records = len(records)

	data, err := bundle.Encode(records)
	if err != nil {
		return nil, cr, fmt.Errorf("encode %s: %w", cat, err)
	}
	out.Add(cat.OutputPath(), data)

	log.Debug("category validated", zap.Int("files", cr.Files), zap.Int("records", cr.Records))
	return records, cr, nil
}

func writeCatalog(ctx context.Context, path string, b catalog.Bundle) error {
	db, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return catalog.Replace(ctx, db, b)
}
