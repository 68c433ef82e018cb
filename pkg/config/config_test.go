package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	// Empty values count as unset for viper.
	for _, k := range []string{"THAICONTENT_CONTENT_DIR", "THAICONTENT_OUT_DIR", "THAICONTENT_WORKERS", "THAICONTENT_TTS_VOICE", "TTS_VOICE"} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	s, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "content", s.ContentDir)
	assert.Equal(t, "src/data", s.OutDir)
	assert.Equal(t, 8, s.Workers)
	assert.Empty(t, s.Catalog)
	assert.Equal(t, "th-TH-Chirp3-HD-Zephyr", s.TTS.Voice)
	assert.Equal(t, "th-TH", s.TTS.Language)
	assert.Equal(t, "public/assets/audio/letters", s.Audio.Dir)
}

func TestConfigFileInWorkingDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "thaicontent.yaml"),
		[]byte("content_dir: data/content\nworkers: 2\ntts:\n  voice: th-TH-Neural2-C\n"), 0o644))

	s, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "data/content", s.ContentDir)
	assert.Equal(t, 2, s.Workers)
	assert.Equal(t, "th-TH-Neural2-C", s.TTS.Voice)
	assert.Equal(t, "th-TH", s.TTS.Language)
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	clearEnv(t)
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("THAICONTENT_OUT_DIR", "build/data")
	t.Setenv("TTS_VOICE", "th-TH-Standard-A")

	s, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "build/data", s.OutDir)
	assert.Equal(t, "th-TH-Standard-A", s.TTS.Voice)

	t.Setenv("THAICONTENT_TTS_VOICE", "th-TH-Neural2-C")
	s, err = Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "th-TH-Neural2-C", s.TTS.Voice)
}

func TestFlagsWin(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("THAICONTENT_WORKERS", "3")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("workers", 8, "")
	require.NoError(t, fs.Parse([]string{"--workers=5"}))

	v := New()
	require.NoError(t, v.BindPFlag("workers", fs.Lookup("workers")))
	s, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, 5, s.Workers)
}

func TestValidate(t *testing.T) {
	s := &Settings{Workers: 0}
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content_dir must not be empty")
	assert.Contains(t, err.Error(), "workers must be at least 1, got 0")
	assert.Contains(t, err.Error(), "tts.language must not be empty")
}
