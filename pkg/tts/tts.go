// Package tts wraps Google Cloud Text-to-Speech for Thai audio generation.
package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultLanguage is the only language the content is voiced in.
const DefaultLanguage = "th-TH"

var (
	ErrEmptyText = errors.New("text is required for synthesis")
	ErrNoVoices  = errors.New("no voices available")
)

// Encoding names an audio container the service can return.
type Encoding string

const (
	MP3      Encoding = "MP3"
	OggOpus  Encoding = "OGG_OPUS"
	Linear16 Encoding = "LINEAR16"
)

// MIMEType maps the encoding to a content type. Unknown encodings map to
// application/octet-stream.
func (e Encoding) MIMEType() string {
	switch e {
	case MP3:
		return "audio/mpeg"
	case OggOpus:
		return "audio/ogg"
	case Linear16:
		return "audio/wav"
	}
	return "application/octet-stream"
}

// Ext is the file extension clips in this encoding are saved with.
func (e Encoding) Ext() string {
	switch e {
	case OggOpus:
		return ".ogg"
	case Linear16:
		return ".wav"
	}
	return ".mp3"
}

// ParseEncoding accepts MP3, OGG_OPUS and LINEAR16 in any case.
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(strings.ToUpper(strings.TrimSpace(s))); e {
	case MP3, OggOpus, Linear16:
		return e, nil
	case "":
		return MP3, nil
	}
	return "", fmt.Errorf("unsupported audio encoding %q", s)
}

type Voice struct {
	Name                   string   `json:"name"`
	LanguageCodes          []string `json:"languageCodes"`
	Gender                 string   `json:"ssmlGender"`
	NaturalSampleRateHertz int32    `json:"naturalSampleRateHertz"`
}

func (v Voice) speaks(lang string) bool {
	for _, c := range v.LanguageCodes {
		if c == lang {
			return true
		}
	}
	return false
}

// Request describes one synthesis call. Zero values mean MP3 at normal
// speed and pitch in DefaultLanguage.
type Request struct {
	Text         string
	Voice        string
	LanguageCode string
	SpeakingRate float64
	Pitch        float64
	Encoding     Encoding
}

type Result struct {
	Audio       []byte
	ContentType string
	Voice       Voice
	Encoding    Encoding
}

// Synthesizer is implemented by *Client and by fakes in tests.
type Synthesizer interface {
	ListVoices(ctx context.Context, languageCode string) ([]Voice, error)
	Synthesize(ctx context.Context, req Request) (*Result, error)
	Close() error
}

// SelectVoice picks the requested voice if offered, else the first
// "Standard" voice, else the first voice.
func SelectVoice(voices []Voice, requested string) (Voice, error) {
	if len(voices) == 0 {
		return Voice{}, ErrNoVoices
	}
	if requested != "" {
		for _, v := range voices {
			if v.Name == requested {
				return v, nil
			}
		}
	}
	for _, v := range voices {
		if strings.Contains(strings.ToLower(v.Name), "standard") {
			return v, nil
		}
	}
	return voices[0], nil
}
