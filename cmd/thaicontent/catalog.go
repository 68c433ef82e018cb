package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/thaicontent/pkg/catalog"
	"github.com/japaniel/thaicontent/pkg/content"
)

func (a *app) catalogCmd() *cobra.Command {
	var (
		dbPath string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Query the SQLite catalog written by build --catalog",
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "", "catalog database (default the catalog config key)")
	pf.BoolVar(&asJSON, "json", false, "print full records as JSON")

	open := func() (*sql.DB, error) {
		path := dbPath
		if path == "" {
			path = a.settings.Catalog
		}
		if path == "" {
			return nil, usageErr(errors.New("no catalog: pass --db or set catalog in the config"))
		}
		if _, err := os.Stat(path); err != nil {
			return nil, failure(fmt.Errorf("catalog %s: %w", path, err))
		}
		db, err := catalog.Open(path)
		if err != nil {
			return nil, failure(err)
		}
		return db, nil
	}
	printJSON := func(v any) error {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	var class string
	letters := &cobra.Command{
		Use:   "letters",
		Short: "List the consonants of a tone class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, ok := parseClass(class)
			if !ok {
				return usageErr(fmt.Errorf("--class must be High, Mid or Low, got %q", class))
			}
			db, err := open()
			if err != nil {
				return err
			}
			defer db.Close()

			ls, err := catalog.LettersByClass(cmd.Context(), db, cc)
			if err != nil {
				return failure(err)
			}
			if asJSON {
				return printJSON(ls)
			}
			for _, l := range ls {
				fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", l.ID, l.Glyph, l.NameRtgs)
			}
			return nil
		},
	}
	letters.Flags().StringVar(&class, "class", "", "consonant class: High, Mid or Low")

	var topic string
	words := &cobra.Command{
		Use:   "words",
		Short: "List the words tagged with a topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(topic) == "" {
				return usageErr(errors.New("--topic is required"))
			}
			db, err := open()
			if err != nil {
				return err
			}
			defer db.Close()

			ws, err := catalog.WordsByTopic(cmd.Context(), db, topic)
			if err != nil {
				return failure(err)
			}
			if asJSON {
				return printJSON(ws)
			}
			for _, w := range ws {
				fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", w.ID, w.Thai, w.Meaning)
			}
			return nil
		},
	}
	words.Flags().StringVar(&topic, "topic", "", "topic tag, e.g. food")

	cmd.AddCommand(letters, words)
	return cmd
}

// parseClass matches a consonant class name case-insensitively.
func parseClass(s string) (content.ConsonantClass, bool) {
	for _, c := range []content.ConsonantClass{content.ClassHigh, content.ClassMid, content.ClassLow} {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}
