package content

import "gopkg.in/yaml.v3"

// Syllable is one component of a word's breakdown.
type Syllable struct {
	InitialConsonant string `json:"initialConsonant,omitempty"`
	Vowel            string `json:"vowel,omitempty"`
	FinalConsonant   string `json:"finalConsonant,omitempty"`
	ToneMark         string `json:"toneMark,omitempty"`
	Tone             string `json:"tone,omitempty"`
}

// Word is a lexicon entry.
type Word struct {
	ID        string     `json:"id"`
	Thai      string     `json:"thai"`
	Rtgs      string     `json:"rtgs"`
	IPA       string     `json:"ipa,omitempty"`
	Audio     string     `json:"audio,omitempty"`
	Meaning   string     `json:"meaning"`
	POS       string     `json:"pos,omitempty"`   // noun, verb, ...
	Topic     string     `json:"topic,omitempty"` // food, greetings, ...
	Syllables []Syllable `json:"syllables,omitzero"`
	Register  string     `json:"register,omitempty"` // neutral, formal, slang
	Notes     string     `json:"notes,omitempty"`
}

func (w Word) Key() string { return w.ID }

// ValidateWord checks doc against the word schema.
func ValidateWord(doc *yaml.Node) (Word, Issues) {
	var issues Issues
	o := readObject(doc, "", &issues)
	if o == nil {
		return Word{}, issues
	}

	w := Word{
		ID:       o.id("id"),
		Thai:     o.requiredString("thai"),
		Rtgs:     o.requiredString("rtgs"),
		IPA:      o.optionalString("ipa"),
		Audio:    o.optionalNonEmpty("audio"),
		Meaning:  o.requiredString("meaning"),
		POS:      o.optionalString("pos"),
		Topic:    o.optionalString("topic"),
		Register: o.optionalString("register"),
		Notes:    o.optionalString("notes"),
	}

	if nodes, path := o.optionalArray("syllables"); path != "" {
		w.Syllables = make([]Syllable, 0, len(nodes))
		for i, n := range nodes {
			s := readObject(n, IndexPath(path, i), &issues)
			if s == nil {
				continue
			}
			w.Syllables = append(w.Syllables, Syllable{
				InitialConsonant: s.optionalString("initialConsonant"),
				Vowel:            s.optionalString("vowel"),
				FinalConsonant:   s.optionalString("finalConsonant"),
				ToneMark:         s.optionalString("toneMark"),
				Tone:             s.optionalString("tone"),
			})
		}
	}

	if len(issues) > 0 {
		return Word{}, issues
	}
	return w, nil
}
