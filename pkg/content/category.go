// Package content defines the typed records of the site (alphabet letters,
// lexicon words and phrasebook phrases) and the schemas their source YAML
// documents are validated against.
package content

import "path"

// Category is one of the three content kinds. Each has its own source
// directory, schema and output artifact.
type Category string

const (
	Alphabet   Category = "alphabet"
	Lexicon    Category = "lexicon"
	Phrasebook Category = "phrasebook"
)

// Categories returns the categories in build order.
func Categories() []Category {
	return []Category{Alphabet, Lexicon, Phrasebook}
}

// Label is the singular record name used in diagnostics.
func (c Category) Label() string {
	switch c {
	case Alphabet:
		return "Letter"
	case Lexicon:
		return "Word"
	case Phrasebook:
		return "Phrase"
	}
	return string(c)
}

// SourceDir is the directory under the content root holding the category's files.
func (c Category) SourceDir() string { return string(c) }

// OutputPath is the artifact path relative to the output root.
func (c Category) OutputPath() string {
	switch c {
	case Alphabet:
		return path.Join("alphabet", "letters.json")
	case Lexicon:
		return path.Join("lexicon", "words.json")
	case Phrasebook:
		return path.Join("phrasebook", "phrases.json")
	}
	return path.Join(string(c), string(c)+".json")
}

// Record is implemented by every validated content item.
type Record interface {
	Key() string
}
