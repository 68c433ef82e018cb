// Package bundle turns validated records into the JSON artifacts consumed by
// the site: a collection-level check, deterministic ordering and encoding,
// and all-or-nothing writes.
package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/japaniel/thaicontent/pkg/content"
)

// Item is a validated record together with the file it came from.
type Item[T content.Record] struct {
	Source string
	Record T
}

// Assemble runs the collection-level pass over a category: every id must be
// non-empty and unique. On success the records are returned sorted by id.
// Failures are grouped by source file.
func Assemble[T content.Record](items []Item[T]) ([]T, []content.FileIssues) {
	var failed []content.FileIssues
	seen := make(map[string]string, len(items))
	for i, it := range items {
		id := it.Record.Key()
		if id == "" {
			failed = append(failed, content.FileIssues{
				File:   it.Source,
				Issues: content.Issues{{Path: content.IndexPath("", i) + ".id", Message: "id is required"}},
			})
			continue
		}
		if first, dup := seen[id]; dup {
			failed = append(failed, content.FileIssues{
				File: it.Source,
				Issues: content.Issues{{
					Path:    "id",
					Message: fmt.Sprintf("duplicate id %q (also in %s)", id, first),
				}},
			})
			continue
		}
		seen[id] = it.Source
	}
	if len(failed) > 0 {
		return nil, failed
	}

	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Record
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

// Encode renders v as two-space indented JSON with a trailing newline.
// HTML characters are left unescaped so glyphs and notes read naturally.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
