package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/japaniel/thaicontent/pkg/catalog"
	"github.com/japaniel/thaicontent/pkg/content"
	"github.com/japaniel/thaicontent/pkg/loader"
)

// fixture copies testdata/valid into a temp dir so tests can add broken files.
func fixture(t *testing.T) (contentDir, outDir string) {
	t.Helper()
	root := t.TempDir()
	contentDir = filepath.Join(root, "content")
	require.NoError(t, os.CopyFS(contentDir, os.DirFS(filepath.Join("testdata", "valid"))))
	return contentDir, filepath.Join(root, "out")
}

func emptyTree(t *testing.T) (contentDir, outDir string) {
	t.Helper()
	root := t.TempDir()
	contentDir = filepath.Join(root, "content")
	for _, c := range content.Categories() {
		require.NoError(t, os.MkdirAll(filepath.Join(contentDir, c.SourceDir()), 0o755))
	}
	return contentDir, filepath.Join(root, "out")
}

func put(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func readArray[T any](t *testing.T, path string) []T {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out []T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func assertNothingWritten(t *testing.T, outDir string) {
	t.Helper()
	_, err := os.Stat(outDir)
	assert.True(t, os.IsNotExist(err), "expected no output in %s", outDir)
}

func TestRunWritesEveryCategory(t *testing.T) {
	contentDir, outDir := fixture(t)

	res, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir, Workers: 2})
	require.NoError(t, err)
	require.Len(t, res.Categories, 3)
	assert.Len(t, res.Written, 3)

	letters := readArray[content.Letter](t, filepath.Join(outDir, "alphabet", "letters.json"))
	require.Len(t, letters, 4)
	ids := []string{letters[0].ID, letters[1].ID, letters[2].ID, letters[3].ID}
	assert.Equal(t, []string{"kho-khai", "kho-khwai", "ko-kai", "sara-a"}, ids)
	assert.Equal(t, content.OverallComplete, letters[2].Review.LetterStatus)

	words := readArray[content.Word](t, filepath.Join(outDir, "lexicon", "words.json"))
	assert.Len(t, words, 2)

	phrases := readArray[content.Phrase](t, filepath.Join(outDir, "phrasebook", "phrases.json"))
	require.Len(t, phrases, 1)
	assert.Equal(t, res.Categories[2].Records, len(phrases))
}

func TestRunIsIdempotent(t *testing.T) {
	contentDir, outDir := fixture(t)
	opts := Options{ContentDir: contentDir, OutDir: outDir, Workers: 4}

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)
	first := map[string][]byte{}
	for _, c := range content.Categories() {
		data, err := os.ReadFile(filepath.Join(outDir, c.OutputPath()))
		require.NoError(t, err)
		first[c.OutputPath()] = data
	}

	_, err = Run(context.Background(), opts)
	require.NoError(t, err)
	for rel, want := range first {
		got, err := os.ReadFile(filepath.Join(outDir, rel))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(want, got), "%s changed between runs", rel)
	}
}

func TestConsonantWithoutClassAbortsBuild(t *testing.T) {
	contentDir, outDir := fixture(t)
	put(t, contentDir, "alphabet/consonants/ngo-ngu.yaml", "id: ngo-ngu\nglyph: ง\ntype: consonant\nnameThai: ง งู\nnameRtgs: ngo ngu\n")

	_, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, content.Alphabet, ve.Category)
	require.Len(t, ve.Files, 1)
	assert.True(t, ve.Files[0].Issues.Has("consonantClass"))
	assertNothingWritten(t, outDir)
}

func TestThreeClassesRetained(t *testing.T) {
	contentDir, outDir := emptyTree(t)
	put(t, contentDir, "alphabet/a.yaml", "id: kho-khai\nglyph: ข\ntype: consonant\nconsonantClass: High\nnameThai: ข ไข่\nnameRtgs: kho khai\n")
	put(t, contentDir, "alphabet/b.yaml", "id: ko-kai\nglyph: ก\ntype: consonant\nconsonantClass: Mid\nnameThai: ก ไก่\nnameRtgs: ko kai\n")
	put(t, contentDir, "alphabet/c.yaml", "id: kho-khwai\nglyph: ค\ntype: consonant\nconsonantClass: Low\nnameThai: ค ควาย\nnameRtgs: kho khwai\n")

	_, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir})
	require.NoError(t, err)

	letters := readArray[content.Letter](t, filepath.Join(outDir, "alphabet", "letters.json"))
	require.Len(t, letters, 3)
	classes := map[string]content.ConsonantClass{}
	for _, l := range letters {
		classes[l.ID] = l.ConsonantClass
	}
	assert.Equal(t, map[string]content.ConsonantClass{
		"kho-khai":  content.ClassHigh,
		"ko-kai":    content.ClassMid,
		"kho-khwai": content.ClassLow,
	}, classes)

	assert.Empty(t, readArray[content.Word](t, filepath.Join(outDir, "lexicon", "words.json")))
}

func TestWordWithoutMeaningAbortsBeforeAnyWrite(t *testing.T) {
	contentDir, outDir := fixture(t)
	put(t, contentDir, "lexicon/food/kai.yaml", "id: kai\nthai: ไก่\nrtgs: kai\n")

	_, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, content.Lexicon, ve.Category)
	assert.True(t, ve.Files[0].Issues.Has("meaning"))
	// Alphabet passed, but nothing is committed until every category does.
	assertNothingWritten(t, outDir)
}

func TestVariantWithoutTranslationPreserved(t *testing.T) {
	contentDir, outDir := fixture(t)
	_, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "phrasebook", "phrases.json"))
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	variants := raw[0]["variants"].([]any)
	require.Len(t, variants, 2)
	second := variants[1].(map[string]any)
	_, has := second["translation"]
	assert.False(t, has)
	assert.Equal(t, "สวัสดีค่ะ", second["thai"])
}

func TestValidationIsExhaustive(t *testing.T) {
	contentDir, outDir := fixture(t)
	put(t, contentDir, "alphabet/bad1.yaml", "id: bad1\nglyph: x\ntype: vowel\n")
	put(t, contentDir, "alphabet/bad2.yaml", "glyph: x\ntype: letter\nnameThai: x\nnameRtgs: x\n")
	put(t, contentDir, "alphabet/empty.yaml", "")

	_, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Files, 3)

	byFile := map[string]content.Issues{}
	for _, f := range ve.Files {
		byFile[filepath.Base(f.File)] = f.Issues
	}
	assert.Len(t, byFile["bad1.yaml"], 2)
	assert.True(t, byFile["bad2.yaml"].Has("id"))
	assert.True(t, byFile["bad2.yaml"].Has("type"))
	assert.True(t, byFile["empty.yaml"].Has(""))
}

func TestLaterCategoriesNotAttemptedAfterFailure(t *testing.T) {
	contentDir, outDir := fixture(t)
	put(t, contentDir, "alphabet/bad.yaml", "id: bad\n")
	put(t, contentDir, "lexicon/broken.yaml", "id: [\n")

	_, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, content.Alphabet, ve.Category)
}

func TestParseErrorIsFatal(t *testing.T) {
	contentDir, outDir := fixture(t)
	put(t, contentDir, "phrasebook/broken.yaml", "id: x\nthai: \"unterminated\n")

	_, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir})
	var pe *loader.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, filepath.Join(contentDir, "phrasebook", "broken.yaml"), pe.Path)
	assertNothingWritten(t, outDir)
}

func TestDuplicateIDsRejected(t *testing.T) {
	contentDir, outDir := fixture(t)
	put(t, contentDir, "lexicon/misc/khao.yaml", "id: khao\nthai: ขาว\nrtgs: khao\nmeaning: white\n")

	_, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Collection)
	require.Len(t, ve.Files, 1)
	assert.Contains(t, ve.Files[0].Issues[0].Message, `duplicate id "khao"`)
	assertNothingWritten(t, outDir)
}

func TestMissingCategoryDirIsIOError(t *testing.T) {
	contentDir, outDir := fixture(t)
	require.NoError(t, os.RemoveAll(filepath.Join(contentDir, "phrasebook")))

	_, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assertNothingWritten(t, outDir)
}

func TestSymlinkedCategoryDirIsFollowed(t *testing.T) {
	contentDir, outDir := fixture(t)
	dir := filepath.Join(contentDir, "alphabet")
	moved := filepath.Join(t.TempDir(), "alphabet")
	require.NoError(t, os.Rename(dir, moved))
	if err := os.Symlink(moved, dir); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	res, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir, Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Categories[0].Files)
	assert.Equal(t, 4, res.Categories[0].Records)

	letters := readArray[content.Letter](t, filepath.Join(outDir, "alphabet", "letters.json"))
	assert.Len(t, letters, 4)
}

func TestDryRunWritesNothing(t *testing.T) {
	contentDir, outDir := fixture(t)
	core, logs := observer.New(zap.InfoLevel)
	res, err := Run(context.Background(), Options{
		ContentDir: contentDir, OutDir: outDir, DryRun: true,
		CatalogPath: filepath.Join(outDir, "c.db"), Logger: zap.New(core),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Written)
	assert.Equal(t, 4, res.Categories[0].Records)
	assertNothingWritten(t, outDir)

	dry := logs.FilterMessage("dry run, nothing written").All()
	require.Len(t, dry, 1)
	assert.EqualValues(t, 3, dry[0].ContextMap()["staged"])
}

func TestRunWritesCatalog(t *testing.T) {
	contentDir, outDir := fixture(t)
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	res, err := Run(context.Background(), Options{ContentDir: contentDir, OutDir: outDir, CatalogPath: dbPath})
	require.NoError(t, err)
	assert.Equal(t, dbPath, res.Catalog)

	db, err := catalog.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()
	counts, err := catalog.CountRows(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, catalog.Counts{Letters: 4, Words: 2, Phrases: 1}, counts)
}
