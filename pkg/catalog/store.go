package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/japaniel/thaicontent/pkg/content"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Bundle is the full set of validated collections of one build.
type Bundle struct {
	Letters []content.Letter
	Words   []content.Word
	Phrases []content.Phrase
}

// Counts holds the number of rows per table.
type Counts struct {
	Letters int
	Words   int
	Phrases int
}

// Replace swaps the catalog contents for b inside a single transaction.
func Replace(ctx context.Context, db *sql.DB, b Bundle) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, table := range []string{"letters", "words", "phrases"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, l := range b.Letters {
		if err := insertLetter(ctx, tx, l); err != nil {
			return err
		}
	}
	for _, w := range b.Words {
		if err := insertWord(ctx, tx, w); err != nil {
			return err
		}
	}
	for _, p := range b.Phrases {
		if err := insertPhrase(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}
	return nil
}

func insertLetter(ctx context.Context, db DBExecutor, l content.Letter) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode letter %s: %w", l.ID, err)
	}
	var audioPath, status string
	if l.Audio != nil {
		audioPath = l.Audio.Glyph
	}
	if l.Review != nil {
		status = string(l.Review.Overall())
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO letters (id, glyph, type, consonant_class, name_thai, name_rtgs, audio_path, review_status, doc)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Glyph, string(l.Type), nullable(string(l.ConsonantClass)), l.NameThai, l.NameRtgs,
		nullable(audioPath), nullable(status), string(doc))
	if err != nil {
		return fmt.Errorf("insert letter %s: %w", l.ID, err)
	}
	return nil
}

func insertWord(ctx context.Context, db DBExecutor, w content.Word) error {
	doc, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode word %s: %w", w.ID, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO words (id, thai, rtgs, meaning, pos, topic, doc) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Thai, w.Rtgs, w.Meaning, nullable(w.POS), nullable(w.Topic), string(doc))
	if err != nil {
		return fmt.Errorf("insert word %s: %w", w.ID, err)
	}
	return nil
}

func insertPhrase(ctx context.Context, db DBExecutor, p content.Phrase) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode phrase %s: %w", p.ID, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO phrases (id, thai, rtgs, translation, topic, formality, variant_count, doc)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Thai, p.Rtgs, p.Translation, nullable(p.Topic), nullable(p.Formality), len(p.Variants), string(doc))
	if err != nil {
		return fmt.Errorf("insert phrase %s: %w", p.ID, err)
	}
	return nil
}

// nullable returns nil for "" so optional columns stay NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// LettersByClass returns the consonants of a tone class, ordered by id.
func LettersByClass(ctx context.Context, db DBExecutor, class content.ConsonantClass) ([]content.Letter, error) {
	rows, err := db.QueryContext(ctx, `SELECT doc FROM letters WHERE consonant_class = ? ORDER BY id`, string(class))
	if err != nil {
		return nil, err
	}
	return scanDocs[content.Letter](rows)
}

// WordsByTopic returns the words tagged with topic, ordered by id.
func WordsByTopic(ctx context.Context, db DBExecutor, topic string) ([]content.Word, error) {
	rows, err := db.QueryContext(ctx, `SELECT doc FROM words WHERE topic = ? ORDER BY id`, topic)
	if err != nil {
		return nil, err
	}
	return scanDocs[content.Word](rows)
}

// CountRows reports how many records each table holds.
func CountRows(ctx context.Context, db DBExecutor) (Counts, error) {
	var c Counts
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM letters), (SELECT COUNT(*) FROM words), (SELECT COUNT(*) FROM phrases)`,
	).Scan(&c.Letters, &c.Words, &c.Phrases)
	return c, err
}

func scanDocs[T any](rows *sql.Rows) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, fmt.Errorf("decode catalog row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
