package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) voicesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List the Text-to-Speech voices available for the content language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			synth, err := a.newSynth(cmd.Context(), a.logger)
			if err != nil {
				return failure(err)
			}
			defer synth.Close()

			lang := a.settings.TTS.Language
			voices, err := synth.ListVoices(cmd.Context(), lang)
			if err != nil {
				return failure(err)
			}

			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(voices)
			}
			fmt.Fprintf(a.stdout, "Available %s voices:\n", lang)
			for _, v := range voices {
				fmt.Fprintf(a.stdout, "- %s (%s)\n", v.Name, v.Gender)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print voices as JSON")
	cmd.Flags().String("language", "", "BCP-47 language code (default from config)")
	a.bind("tts.language", cmd.Flags().Lookup("language"))
	return cmd
}
