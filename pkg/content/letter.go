package content

import "gopkg.in/yaml.v3"

// LetterType distinguishes consonants from vowels.
type LetterType string

const (
	Consonant LetterType = "consonant"
	Vowel     LetterType = "vowel"
)

// ConsonantClass is the tone class of a consonant.
type ConsonantClass string

const (
	ClassHigh ConsonantClass = "High"
	ClassMid  ConsonantClass = "Mid"
	ClassLow  ConsonantClass = "Low"
)

// AudioSource records where a recording came from.
type AudioSource string

const (
	AudioTTS   AudioSource = "tts"
	AudioHuman AudioSource = "human"
)

var (
	letterTypes      = []string{string(Consonant), string(Vowel)}
	consonantClasses = []string{string(ClassHigh), string(ClassMid), string(ClassLow)}
	audioSources     = []string{string(AudioTTS), string(AudioHuman)}
)

// AudioMeta describes the pronunciation recording of a letter.
type AudioMeta struct {
	Glyph       string      `json:"glyph,omitempty"` // public path or https URL
	DurationSec *float64    `json:"durationSec,omitempty"`
	Source      AudioSource `json:"source,omitempty"`
	RecordedBy  string      `json:"recordedBy,omitempty"`
	TTSProvider string      `json:"ttsProvider,omitempty"`
	TTSVoice    string      `json:"ttsVoice,omitempty"`
	UpdatedAt   string      `json:"updatedAt,omitempty"`
}

// Letter is a glyph of the Thai script.
type Letter struct {
	ID             string         `json:"id"`
	Glyph          string         `json:"glyph"`
	Type           LetterType     `json:"type"`
	ConsonantClass ConsonantClass `json:"consonantClass,omitempty"`

	NameThai  string `json:"nameThai"`
	NameRtgs  string `json:"nameRtgs"`
	NameGloss string `json:"nameGloss,omitempty"`

	Rtgs    string `json:"rtgs,omitempty"`
	IPA     string `json:"ipa,omitempty"`
	IPANote string `json:"ipaNote,omitempty"`
	Initial string `json:"initial,omitempty"`
	Final   string `json:"final,omitempty"`
	Tip     string `json:"tip,omitempty"`

	Audio  *AudioMeta `json:"audio,omitempty"`
	Review *Review    `json:"review,omitempty"`
}

func (l Letter) Key() string { return l.ID }

// ValidateLetter checks doc against the letter schema. On success the
// returned issue list is empty.
func ValidateLetter(doc *yaml.Node) (Letter, Issues) {
	var issues Issues
	o := readObject(doc, "", &issues)
	if o == nil {
		return Letter{}, issues
	}

	l := Letter{
		ID:        o.id("id"),
		Glyph:     o.requiredString("glyph"),
		Type:      LetterType(o.requiredEnum("type", letterTypes)),
		NameThai:  o.requiredString("nameThai"),
		NameRtgs:  o.requiredString("nameRtgs"),
		NameGloss: o.optionalString("nameGloss"),
		Rtgs:      o.optionalString("rtgs"),
		IPA:       o.optionalString("ipa"),
		IPANote:   o.optionalString("ipaNote"),
		Initial:   o.optionalString("initial"),
		Final:     o.optionalString("final"),
		Tip:       o.optionalString("tip"),
	}
	class, classGiven := o.optionalEnum("consonantClass", consonantClasses)
	l.ConsonantClass = ConsonantClass(class)

	if l.Type == Consonant && !classGiven {
		issues.add("consonantClass", "consonantClass is required when type = 'consonant'")
	}

	if a := o.optionalObject("audio"); a != nil {
		src, _ := a.optionalEnum("source", audioSources)
		l.Audio = &AudioMeta{
			Glyph:       a.optionalNonEmpty("glyph"),
			DurationSec: a.optionalNumber("durationSec"),
			Source:      AudioSource(src),
			RecordedBy:  a.optionalString("recordedBy"),
			TTSProvider: a.optionalString("ttsProvider"),
			TTSVoice:    a.optionalString("ttsVoice"),
			UpdatedAt:   a.optionalString("updatedAt"),
		}
	}
	if r := o.optionalObject("review"); r != nil {
		l.Review = readReview(r)
	}

	if len(issues) > 0 {
		return Letter{}, issues
	}
	return l, nil
}
