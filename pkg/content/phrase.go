package content

import "gopkg.in/yaml.v3"

// Variant is an alternative form of a phrase.
type Variant struct {
	ID          string `json:"id,omitempty"`
	Thai        string `json:"thai"`
	Rtgs        string `json:"rtgs"`
	Translation string `json:"translation,omitempty"`
	Audio       string `json:"audio,omitempty"`
}

// Phrase is a phrasebook entry.
type Phrase struct {
	ID          string    `json:"id"`
	Thai        string    `json:"thai"`
	Rtgs        string    `json:"rtgs"`
	Translation string    `json:"translation"`
	Audio       string    `json:"audio,omitempty"`
	Topic       string    `json:"topic,omitempty"`
	Formality   string    `json:"formality,omitempty"` // formal, neutral
	Variants    []Variant `json:"variants,omitzero"`
	Notes       string    `json:"notes,omitempty"`
}

func (p Phrase) Key() string { return p.ID }

// ValidatePhrase checks doc against the phrase schema.
func ValidatePhrase(doc *yaml.Node) (Phrase, Issues) {
	var issues Issues
	o := readObject(doc, "", &issues)
	if o == nil {
		return Phrase{}, issues
	}

	p := Phrase{
		ID:          o.id("id"),
		Thai:        o.requiredString("thai"),
		Rtgs:        o.requiredString("rtgs"),
		Translation: o.requiredString("translation"),
		Audio:       o.optionalNonEmpty("audio"),
		Topic:       o.optionalString("topic"),
		Formality:   o.optionalString("formality"),
		Notes:       o.optionalString("notes"),
	}

	if nodes, path := o.optionalArray("variants"); path != "" {
		p.Variants = make([]Variant, 0, len(nodes))
		for i, n := range nodes {
			v := readObject(n, IndexPath(path, i), &issues)
			if v == nil {
				continue
			}
			variant := Variant{
				Thai:        v.requiredString("thai"),
				Rtgs:        v.requiredString("rtgs"),
				Translation: v.optionalString("translation"),
				Audio:       v.optionalNonEmpty("audio"),
			}
			if _, ok := v.lookup("id"); ok {
				variant.ID = v.id("id")
			}
			p.Variants = append(p.Variants, variant)
		}
	}

	if len(issues) > 0 {
		return Phrase{}, issues
	}
	return p, nil
}
