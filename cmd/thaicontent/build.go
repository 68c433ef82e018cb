package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/thaicontent/pkg/loader"
	"github.com/japaniel/thaicontent/pkg/pipeline"
)

func (a *app) buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate all content and write the JSON bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPipeline(cmd, false)
		},
	}
	cmd.Flags().String("catalog", "", "also write the collections to this SQLite database")
	a.bind("catalog", cmd.Flags().Lookup("catalog"))
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate all content without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPipeline(cmd, true)
		},
	}
}

func (a *app) runPipeline(cmd *cobra.Command, dryRun bool) error {
	s := a.settings
	opts := pipeline.Options{
		ContentDir: s.ContentDir,
		OutDir:     s.OutDir,
		DryRun:     dryRun,
		Workers:    s.Workers,
		Logger:     a.logger,
	}
	if !dryRun {
		opts.CatalogPath = s.Catalog
	}

	res, err := pipeline.Run(cmd.Context(), opts)
	if err != nil {
		var ve *pipeline.ValidationError
		var pe *loader.ParseError
		if errors.As(err, &ve) || errors.As(err, &pe) {
			pipeline.Report(a.stderr, err)
			return &exitError{code: exitFailure, err: err, reported: true}
		}
		return failure(err)
	}

	pipeline.Summary(a.stdout, res)
	switch {
	case dryRun:
		fmt.Fprintln(a.stdout, "All content valid.")
	case res.Catalog != "":
		fmt.Fprintf(a.stdout, "Catalog written to %s\n", res.Catalog)
	}
	return nil
}
