package content

import (
	"math"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node tags as reported by yaml.Node.ShortTag.
const (
	tagStr       = "!!str"
	tagTimestamp = "!!timestamp"
	tagBinary    = "!!binary"
	tagInt       = "!!int"
	tagFloat     = "!!float"
	tagBool      = "!!bool"
	tagNull      = "!!null"
)

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// typeName describes a node the way an author thinks about it.
func typeName(n *yaml.Node) string {
	n = resolveAlias(n)
	if n == nil {
		return "null"
	}
	switch n.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "array"
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return "null"
		}
		return typeName(n.Content[0])
	}
	switch n.ShortTag() {
	case tagStr, tagTimestamp, tagBinary:
		return "string"
	case tagInt, tagFloat:
		return "number"
	case tagBool:
		return "boolean"
	case tagNull:
		return "null"
	}
	return "unknown"
}

// object reads fields out of a YAML mapping and records issues against
// paths relative to the record root. Unknown keys are ignored.
type object struct {
	path   string
	fields map[string]*yaml.Node
	issues *Issues
}

// readObject returns nil (after recording an issue at path) when n is not a mapping.
func readObject(n *yaml.Node, path string, issues *Issues) *object {
	n = resolveAlias(n)
	if n != nil && n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			n = nil
		} else {
			n = resolveAlias(n.Content[0])
		}
	}
	if n == nil || n.Kind != yaml.MappingNode {
		issues.add(path, "expected object, received %s", typeName(n))
		return nil
	}
	o := &object{path: path, fields: make(map[string]*yaml.Node, len(n.Content)/2), issues: issues}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if _, dup := o.fields[key]; dup {
			issues.add(joinPath(path, key), "duplicate key")
			continue
		}
		o.fields[key] = resolveAlias(n.Content[i+1])
	}
	return o
}

func (o *object) at(key string) string { return joinPath(o.path, key) }

func (o *object) lookup(key string) (*yaml.Node, bool) {
	n, ok := o.fields[key]
	return n, ok
}

// scalarString returns the text of a string scalar, or records a type issue.
func (o *object) scalarString(key string, n *yaml.Node) (string, bool) {
	if n.Kind != yaml.ScalarNode {
		o.issues.add(o.at(key), "expected string, received %s", typeName(n))
		return "", false
	}
	switch n.ShortTag() {
	case tagStr, tagTimestamp, tagBinary:
		return n.Value, true
	}
	o.issues.add(o.at(key), "expected string, received %s", typeName(n))
	return "", false
}

// requiredString reads a string that must be present and non-empty.
func (o *object) requiredString(key string) string {
	n, ok := o.lookup(key)
	if !ok {
		o.issues.add(o.at(key), "required")
		return ""
	}
	s, ok := o.scalarString(key, n)
	if ok && s == "" {
		o.issues.add(o.at(key), "must not be empty")
	}
	return s
}

// id reads the record identifier. Any non-empty string is accepted,
// whitespace included.
func (o *object) id(key string) string {
	n, ok := o.lookup(key)
	if !ok {
		o.issues.add(o.at(key), "id is required")
		return ""
	}
	s, ok := o.scalarString(key, n)
	if ok && s == "" {
		o.issues.add(o.at(key), "id is required")
	}
	return s
}

// optionalString reads a string that may be absent. Absent and empty read as "".
func (o *object) optionalString(key string) string {
	n, ok := o.lookup(key)
	if !ok {
		return ""
	}
	s, _ := o.scalarString(key, n)
	return s
}

// optionalNonEmpty reads a string that may be absent but must not be empty when given.
func (o *object) optionalNonEmpty(key string) string {
	n, ok := o.lookup(key)
	if !ok {
		return ""
	}
	s, ok := o.scalarString(key, n)
	if ok && s == "" {
		o.issues.add(o.at(key), "must not be empty")
	}
	return s
}

func (o *object) checkEnum(key, s string, allowed []string) string {
	if slices.Contains(allowed, s) {
		return s
	}
	o.issues.add(o.at(key), "invalid value %q (expected one of: %s)", s, strings.Join(allowed, ", "))
	return ""
}

func (o *object) requiredEnum(key string, allowed []string) string {
	n, ok := o.lookup(key)
	if !ok {
		o.issues.add(o.at(key), "required")
		return ""
	}
	s, ok := o.scalarString(key, n)
	if !ok {
		return ""
	}
	return o.checkEnum(key, s, allowed)
}

// optionalEnum returns "" when the key is absent. present reports whether the key was given at all.
func (o *object) optionalEnum(key string, allowed []string) (value string, present bool) {
	n, ok := o.lookup(key)
	if !ok {
		return "", false
	}
	s, ok := o.scalarString(key, n)
	if !ok {
		return "", true
	}
	return o.checkEnum(key, s, allowed), true
}

func (o *object) optionalNumber(key string) *float64 {
	n, ok := o.lookup(key)
	if !ok {
		return nil
	}
	if n.Kind != yaml.ScalarNode || (n.ShortTag() != tagInt && n.ShortTag() != tagFloat) {
		o.issues.add(o.at(key), "expected number, received %s", typeName(n))
		return nil
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		o.issues.add(o.at(key), "invalid number %q", n.Value)
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		o.issues.add(o.at(key), "number must be finite")
		return nil
	}
	return &f
}

func (o *object) optionalObject(key string) *object {
	n, ok := o.lookup(key)
	if !ok {
		return nil
	}
	return readObject(n, o.at(key), o.issues)
}

// optionalArray returns the element nodes and the path of the array.
func (o *object) optionalArray(key string) ([]*yaml.Node, string) {
	n, ok := o.lookup(key)
	if !ok {
		return nil, ""
	}
	if n.Kind != yaml.SequenceNode {
		o.issues.add(o.at(key), "expected array, received %s", typeName(n))
		return nil, ""
	}
	return n.Content, o.at(key)
}
