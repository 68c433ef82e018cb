// Package config loads thaicontent settings from defaults, an optional
// thaicontent.yaml, THAICONTENT_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. THAICONTENT_OUT_DIR.
const EnvPrefix = "THAICONTENT"

type Settings struct {
	ContentDir string `mapstructure:"content_dir"`
	OutDir     string `mapstructure:"out_dir"`
	Workers    int    `mapstructure:"workers"`
	Catalog    string `mapstructure:"catalog"`
	Verbose    bool   `mapstructure:"verbose"`

	TTS struct {
		Voice    string `mapstructure:"voice"`
		Language string `mapstructure:"language"`
	} `mapstructure:"tts"`

	Audio struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"audio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("content_dir", "content")
	v.SetDefault("out_dir", "src/data")
	v.SetDefault("workers", 8)
	v.SetDefault("catalog", "")
	v.SetDefault("verbose", false)
	v.SetDefault("tts.voice", "th-TH-Chirp3-HD-Zephyr")
	v.SetDefault("tts.language", "th-TH")
	v.SetDefault("audio.dir", "public/assets/audio/letters")
}

// New returns a viper instance with defaults and environment bindings in
// place. Callers bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// TTS_VOICE predates the prefixed form and is still honoured.
	_ = v.BindEnv("tts.voice", EnvPrefix+"_TTS_VOICE", "TTS_VOICE")
	return v
}

// Load reads the config file (an explicit path, or thaicontent.yaml in the
// working directory if present) and returns the merged settings.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("thaicontent")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings the commands cannot run with.
func Validate(s *Settings) error {
	var problems []string
	if strings.TrimSpace(s.ContentDir) == "" {
		problems = append(problems, "content_dir must not be empty")
	}
	if strings.TrimSpace(s.OutDir) == "" {
		problems = append(problems, "out_dir must not be empty")
	}
	if s.Workers < 1 {
		problems = append(problems, fmt.Sprintf("workers must be at least 1, got %d", s.Workers))
	}
	if strings.TrimSpace(s.TTS.Language) == "" {
		problems = append(problems, "tts.language must not be empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
