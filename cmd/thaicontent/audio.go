package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/japaniel/thaicontent/pkg/audio"
	"github.com/japaniel/thaicontent/pkg/content"
	"github.com/japaniel/thaicontent/pkg/tts"
)

func (a *app) audioCmd() *cobra.Command {
	var (
		force   bool
		only    []string
		use      string
		letters  string
		encoding string
	)
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Generate consonant pronunciation clips with Google Text-to-Speech",
		Long: `Reads the built letters.json and synthesizes one clip per consonant (MP3
unless --encoding says otherwise).
By default the consonant is voiced with the carrier อ (ก -> กอ); --use=name
voices the exemplar word instead. Existing clips are kept unless --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.settings
			var useName bool
			switch strings.ToLower(use) {
			case "glyph":
			case "name":
				useName = true
			default:
				return usageErr(fmt.Errorf("--use must be glyph or name, got %q", use))
			}
			enc, err := tts.ParseEncoding(encoding)
			if err != nil {
				return usageErr(err)
			}
			if letters == "" {
				letters = filepath.Join(s.OutDir, filepath.FromSlash(content.Alphabet.OutputPath()))
			}

			all, err := audio.ReadLetters(letters)
			if err != nil {
				return failure(err)
			}
			opts := audio.Options{
				Dir:      s.Audio.Dir,
				Voice:    s.TTS.Voice,
				Only:     only,
				UseName:  useName,
				Force:    force,
				Encoding: enc,
				Workers:  s.Workers,
				Logger:   a.logger,
			}
			jobs, skipped := audio.Plan(all, opts)
			if len(jobs) == 0 {
				fmt.Fprintln(a.stdout, "No letters to process. Check your filters.")
				return nil
			}

			a.logger.Info("generating letter audio",
				zap.String("voice", opts.Voice), zap.String("encoding", string(enc)), zap.Bool("useName", useName), zap.Int("letters", len(jobs)))
			synth, err := a.newSynth(cmd.Context(), a.logger)
			if err != nil {
				return failure(err)
			}
			defer synth.Close()

			sum, err := audio.Generate(cmd.Context(), synth, jobs, opts)
			sum.Skipped += skipped
			fmt.Fprintf(a.stdout, "Created:     %d\nOverwritten: %d\nSkipped:     %d\nFailed:      %d\n",
				sum.Created, sum.Overwritten, sum.Skipped, sum.Failed)
			fmt.Fprintf(a.stdout, "Files saved in: %s\n", opts.Dir)
			if err != nil {
				return failure(err)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&force, "force", false, "overwrite existing clips")
	f.StringSliceVar(&only, "only", nil, "comma separated letter ids to generate")
	f.StringVar(&use, "use", "glyph", "text to voice: glyph (glyph + อ) or name (nameThai)")
	f.StringVar(&encoding, "encoding", "mp3", "clip encoding: mp3, ogg_opus or linear16")
	f.StringVar(&letters, "letters", "", "letters.json to read (default <out-dir>/alphabet/letters.json)")
	f.String("voice", "", "Google TTS voice name (default from config or TTS_VOICE)")
	f.String("dir", "", "output directory for clips (default from config)")
	a.bind("tts.voice", f.Lookup("voice"))
	a.bind("audio.dir", f.Lookup("dir"))
	return cmd
}
