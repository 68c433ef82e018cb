// Package audio generates pronunciation clips for consonants from the built
// letters collection.
package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/japaniel/thaicontent/pkg/bundle"
	"github.com/japaniel/thaicontent/pkg/content"
	"github.com/japaniel/thaicontent/pkg/tts"
)

// PublicPrefix is where the site serves letter audio from.
const PublicPrefix = "/assets/audio/letters/"

// Carrier is appended to a bare consonant to voice its inherent -o sound.
const Carrier = "อ"

type Options struct {
	Dir   string   // destination directory for the clips
	Voice string   // requested voice name
	Only  []string // restrict to these letter ids
	// UseName voices the exemplar word (nameThai) instead of glyph+Carrier.
	UseName bool
	Force   bool
	// Encoding of the clips; zero means MP3.
	Encoding tts.Encoding
	Workers  int
	Logger   *zap.Logger
}

// Job is one clip to synthesize.
type Job struct {
	ID   string
	Text string
	File string // base name inside Options.Dir
}

type Summary struct {
	Created     int
	Overwritten int
	Skipped     int
	Failed      int
}

// ReadLetters loads a built letters.json.
func ReadLetters(file string) ([]content.Letter, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read letters: %w", err)
	}
	var letters []content.Letter
	if err := json.Unmarshal(data, &letters); err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	return letters, nil
}

// Plan picks the consonants to voice and the text and file name for each.
// Letters with nothing to say, or whose file name is already taken by an
// earlier letter, are counted in skipped.
func Plan(letters []content.Letter, opts Options) (jobs []Job, skipped int) {
	log := logger(opts)
	ext := encoding(opts).Ext()
	claimed := map[string]string{}
	only := map[string]bool{}
	for _, id := range opts.Only {
		if id = strings.TrimSpace(id); id != "" {
			only[id] = true
		}
	}

	for _, l := range letters {
		if l.Type != content.Consonant {
			continue
		}
		if len(only) > 0 && !only[l.ID] {
			continue
		}

		text := textFor(l, opts.UseName)
		if text == "" {
			log.Warn("no usable text, skipping", zap.String("id", l.ID))
			skipped++
			continue
		}

		file := strings.ReplaceAll(l.ID, "-", "_") + ext
		if l.Audio != nil && l.Audio.Glyph != "" {
			base := path.Base(l.Audio.Glyph)
			file = strings.TrimSuffix(base, path.Ext(base)) + ext
			if !strings.HasPrefix(l.Audio.Glyph, PublicPrefix) {
				log.Warn("audio.glyph points outside "+PublicPrefix,
					zap.String("id", l.ID), zap.String("path", l.Audio.Glyph))
			}
		}
		if owner, ok := claimed[file]; ok {
			log.Warn("file already planned for another letter, skipping",
				zap.String("id", l.ID), zap.String("file", file), zap.String("owner", owner))
			skipped++
			continue
		}
		claimed[file] = l.ID
		jobs = append(jobs, Job{ID: l.ID, Text: text, File: file})
	}
	return jobs, skipped
}

func textFor(l content.Letter, useName bool) string {
	if useName {
		if l.NameThai != "" {
			return l.NameThai
		}
		return l.Glyph
	}
	if l.Glyph != "" {
		return l.Glyph + Carrier
	}
	if l.NameThai != "" {
		return l.NameThai + Carrier
	}
	return ""
}

// Generate synthesizes every job into opts.Dir. Existing clips are kept
// unless opts.Force is set. A failed clip is logged and counted; only
// context cancellation or an unusable destination aborts the run.
func Generate(ctx context.Context, synth tts.Synthesizer, jobs []Job, opts Options) (Summary, error) {
	log := logger(opts)
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create audio dir: %w", err)
	}

	var created, overwritten, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	g.SetLimit(workers)

	for _, j := range jobs {
		dest := filepath.Join(opts.Dir, j.File)
		_, statErr := os.Stat(dest)
		exists := statErr == nil
		if exists && !opts.Force {
			log.Info("exists, skipping (use --force to overwrite)", zap.String("id", j.ID), zap.String("file", j.File))
			skipped.Add(1)
			continue
		}

		g.Go(func() error {
			res, err := synth.Synthesize(gctx, tts.Request{Text: j.Text, Voice: opts.Voice, Encoding: encoding(opts)})
			if err == nil {
				err = bundle.WriteFileAtomic(dest, res.Audio)
			}
			if err != nil {
				if errors.Is(err, context.Canceled) && gctx.Err() != nil {
					return err
				}
				log.Error("clip failed", zap.String("id", j.ID), zap.Error(err))
				failed.Add(1)
				return nil
			}
			if exists {
				overwritten.Add(1)
				log.Info("overwritten", zap.String("id", j.ID), zap.String("file", j.File))
			} else {
				created.Add(1)
				log.Info("created", zap.String("id", j.ID), zap.String("file", j.File))
			}
			return nil
		})
	}

	err := g.Wait()
	sum := Summary{
		Created:     int(created.Load()),
		Overwritten: int(overwritten.Load()),
		Skipped:     int(skipped.Load()),
		Failed:      int(failed.Load()),
	}
	return sum, err
}

func encoding(opts Options) tts.Encoding {
	if opts.Encoding == "" {
		return tts.MP3
	}
	return opts.Encoding
}

func logger(opts Options) *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}
