package content

import (
	"fmt"
	"strconv"
	"strings"
)

// Issue is a single validation failure: a route into the record
// ("audio.source", "syllables.1.tone") and a message.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String renders "path: message". Issues about the whole record have an
// empty path and render as ": message".
func (i Issue) String() string { return fmt.Sprintf("%s: %s", i.Path, i.Message) }

// Issues is the failure side of a validation result. An empty list means success.
type Issues []Issue

func (is *Issues) add(path, format string, args ...any) {
	*is = append(*is, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether an issue was recorded at path.
func (is Issues) Has(path string) bool {
	for _, it := range is {
		if it.Path == path {
			return true
		}
	}
	return false
}

func (is Issues) Error() string {
	parts := make([]string, 0, len(is))
	for _, it := range is {
		parts = append(parts, it.String())
	}
	return strings.Join(parts, "; ")
}

// FileIssues groups the issues found in one source file.
type FileIssues struct {
	File   string
	Issues Issues
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// IndexPath builds the path of element i of a sequence rooted at base.
func IndexPath(base string, i int) string {
	return joinPath(base, strconv.Itoa(i))
}
