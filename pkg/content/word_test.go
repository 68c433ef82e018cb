package content

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWord(t *testing.T) {
	w, issues := ValidateWord(parseDoc(t, `
id: khao
thai: ข้าว
rtgs: khao
ipa: kʰâːw
audio: /assets/audio/words/khao.mp3
meaning: rice
pos: noun
topic: food
syllables:
  - initialConsonant: ข
    vowel: า
    finalConsonant: ว
    toneMark: ้
    tone: falling
register: neutral
notes: Also means "food" in general.
extra: ignored
`))
	require.Empty(t, issues)

	want := Word{
		ID:      "khao",
		Thai:    "ข้าว",
		Rtgs:    "khao",
		IPA:     "kʰâːw",
		Audio:   "/assets/audio/words/khao.mp3",
		Meaning: "rice",
		POS:     "noun",
		Topic:   "food",
		Syllables: []Syllable{{
			InitialConsonant: "ข",
			Vowel:            "า",
			FinalConsonant:   "ว",
			ToneMark:         "้",
			Tone:             "falling",
		}},
		Register: "neutral",
		Notes:    `Also means "food" in general.`,
	}
	if diff := cmp.Diff(want, w); diff != "" {
		t.Fatalf("word mismatch (-want +got):\n%s", diff)
	}
}

func TestWordWithoutMeaningFails(t *testing.T) {
	_, issues := ValidateWord(parseDoc(t, "id: nam\nthai: น้ำ\nrtgs: nam\n"))
	require.Len(t, issues, 1)
	assert.Equal(t, Issue{Path: "meaning", Message: "required"}, issues[0])
}

func TestWordSyllablesValidatedElementWise(t *testing.T) {
	_, issues := ValidateWord(parseDoc(t, `
id: maeo
thai: แมว
rtgs: maeo
meaning: cat
syllables:
  - vowel: แ
  - "not an object"
  - tone: 3
audio: ""
`))
	want := Issues{
		{Path: "audio", Message: "must not be empty"},
		{Path: "syllables.1", Message: "expected object, received string"},
		{Path: "syllables.2.tone", Message: "expected string, received number"},
	}
	if diff := cmp.Diff(want, issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestWordSyllablesMustBeArray(t *testing.T) {
	_, issues := ValidateWord(parseDoc(t, "id: x\nthai: x\nrtgs: x\nmeaning: x\nsyllables: {vowel: a}\n"))
	require.Len(t, issues, 1)
	assert.Equal(t, "syllables", issues[0].Path)
}

func TestWordJSONKeepsEmptySyllableList(t *testing.T) {
	w, issues := ValidateWord(parseDoc(t, "id: x\nthai: x\nrtgs: x\nmeaning: x\nsyllables: []\n"))
	require.Empty(t, issues)
	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","thai":"x","rtgs":"x","meaning":"x","syllables":[]}`, string(data))

	w, issues = ValidateWord(parseDoc(t, "id: x\nthai: x\nrtgs: x\nmeaning: x\n"))
	require.Empty(t, issues)
	data, err = json.Marshal(w)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "syllables")
}
