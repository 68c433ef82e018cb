package pipeline

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/thaicontent/pkg/loader"
)

// Report prints the diagnostics for a failed build in the form content
// authors read: one block per offending file, one line per issue.
func Report(w io.Writer, err error) {
	var ve *ValidationError
	var pe *loader.ParseError
	switch {
	case errors.As(err, &ve):
		label := ve.Category.Label()
		if ve.Collection {
			label += " collection"
		}
		for _, f := range ve.Files {
			fmt.Fprintf(w, "\n%s validation failed for: %s\n", label, f.File)
			for _, it := range f.Issues {
				fmt.Fprintf(w, "  - %s\n", it)
			}
		}
		fmt.Fprintf(w, "\n%d %s file(s) had errors. Aborting.\n", len(ve.Files), strings.ToLower(ve.Category.Label()))
	case errors.As(err, &pe):
		fmt.Fprintf(w, "Failed to parse %s: %v\n", pe.Path, pe.Err)
	default:
		fmt.Fprintf(w, "Build failed: %v\n", err)
	}
}

// Summary prints one line per category of a successful build.
func Summary(w io.Writer, res *Result) {
	for _, c := range res.Categories {
		fmt.Fprintf(w, "%-10s %3d record(s) -> %s\n", c.Category, c.Records, c.Output)
	}
}
