package tts

import (
	"context"
	"fmt"
	"strings"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// backend is the slice of the generated client the Client uses.
type backend interface {
	ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest) (*texttospeechpb.ListVoicesResponse, error)
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

type gcpBackend struct {
	c *texttospeech.Client
}

func (b gcpBackend) ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest) (*texttospeechpb.ListVoicesResponse, error) {
	return b.c.ListVoices(ctx, req)
}

func (b gcpBackend) SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	return b.c.SynthesizeSpeech(ctx, req)
}

func (b gcpBackend) Close() error { return b.c.Close() }

// Client talks to Google Cloud Text-to-Speech. Voice lists are cached per
// language for an hour.
type Client struct {
	log        *zap.Logger
	api        backend
	voices     *cache.Cache
	maxRetries int
	backoff    time.Duration
}

const (
	defaultVoiceTTL = time.Hour
	maxBackoff      = 10 * time.Second
)

// NewClient dials the service with credentials from the environment.
func NewClient(ctx context.Context, log *zap.Logger) (*Client, error) {
	c, err := texttospeech.NewClient(ctx, envCredentials()...)
	if err != nil {
		return nil, fmt.Errorf("texttospeech client: %w", err)
	}
	return newClient(gcpBackend{c: c}, log), nil
}

func newClient(api backend, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		log: log.With(zap.String("service", "tts")),
		api: api,
		// No janitor: expired entries are dropped on lookup.
		voices:     cache.New(defaultVoiceTTL, 0),
		maxRetries: 4,
		backoff:    750 * time.Millisecond,
	}
}

func (c *Client) Close() error {
	if c == nil || c.api == nil {
		return nil
	}
	return c.api.Close()
}

// ListVoices returns the voices that speak languageCode, in service order.
func (c *Client) ListVoices(ctx context.Context, languageCode string) ([]Voice, error) {
	if languageCode == "" {
		languageCode = DefaultLanguage
	}
	if v, ok := c.voices.Get(languageCode); ok {
		return v.([]Voice), nil
	}

	resp, err := retry(ctx, c, func() (*texttospeechpb.ListVoicesResponse, error) {
		return c.api.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{LanguageCode: languageCode})
	})
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}

	var out []Voice
	for _, pv := range resp.GetVoices() {
		v := Voice{
			Name:                   pv.GetName(),
			LanguageCodes:          pv.GetLanguageCodes(),
			Gender:                 pv.GetSsmlGender().String(),
			NaturalSampleRateHertz: pv.GetNaturalSampleRateHertz(),
		}
		if v.speaks(languageCode) {
			out = append(out, v)
		}
	}
	c.voices.SetDefault(languageCode, out)
	c.log.Debug("voices fetched", zap.String("language", languageCode), zap.Int("count", len(out)))
	return out, nil
}

// Synthesize renders req.Text. The requested voice is used when the service
// offers it; otherwise SelectVoice picks a fallback.
func (c *Client) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}
	lang := req.LanguageCode
	if lang == "" {
		lang = DefaultLanguage
	}
	enc := req.Encoding
	if enc == "" {
		enc = MP3
	}
	pbEnc, ok := pbEncodings[enc]
	if !ok {
		return nil, fmt.Errorf("unsupported audio encoding %q", enc)
	}
	rate := req.SpeakingRate
	if rate == 0 {
		rate = 1.0
	}

	voices, err := c.ListVoices(ctx, lang)
	if err != nil {
		return nil, err
	}
	voice, err := SelectVoice(voices, req.Voice)
	if err != nil {
		return nil, fmt.Errorf("%w for %s", err, lang)
	}
	if req.Voice != "" && voice.Name != req.Voice {
		c.log.Warn("requested voice unavailable, using fallback",
			zap.String("requested", req.Voice), zap.String("voice", voice.Name))
	}

	pbReq := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{LanguageCode: lang, Name: voice.Name},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: pbEnc,
			SpeakingRate:  rate,
			Pitch:         req.Pitch,
		},
	}
	resp, err := retry(ctx, c, func() (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return c.api.SynthesizeSpeech(ctx, pbReq)
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, fmt.Errorf("synthesize: empty audio for voice %s", voice.Name)
	}

	return &Result{
		Audio:       resp.GetAudioContent(),
		ContentType: enc.MIMEType(),
		Voice:       voice,
		Encoding:    enc,
	}, nil
}

var pbEncodings = map[Encoding]texttospeechpb.AudioEncoding{
	MP3:      texttospeechpb.AudioEncoding_MP3,
	OggOpus:  texttospeechpb.AudioEncoding_OGG_OPUS,
	Linear16: texttospeechpb.AudioEncoding_LINEAR16,
}

func retryable(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded:
		return true
	}
	return false
}

func retry[T any](ctx context.Context, c *Client, fn func() (T, error)) (T, error) {
	var zero T
	backoff := c.backoff
	var last error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		last = err
		if !retryable(err) || attempt == c.maxRetries {
			break
		}
		c.log.Debug("transient tts error, retrying", zap.Int("attempt", attempt+1), zap.Error(err))
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
	return zero, last
}
