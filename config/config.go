// Package config loads animalese configuration from flags, the environment,
// a .env file and a YAML config file, and keeps the live settings in sync
// with that file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/d1nch8g/animalese/log"
	"github.com/d1nch8g/animalese/settings"
	"github.com/d1nch8g/animalese/sound"
)

// EnvPrefix prefixes every environment variable, e.g. ANIMALESE_VOLUME.
const EnvPrefix = "ANIMALESE"

// Config holds all configuration options for animalese.
type Config struct {
	Volume          int    `mapstructure:"volume"`
	NarrateAlphabet bool   `mapstructure:"narrate_alphabet"`
	NarrateNumbers  bool   `mapstructure:"narrate_numbers"`
	NarrateOthers   bool   `mapstructure:"narrate_others"`
	SpeakingType    string `mapstructure:"speaking_type"`

	// SoundTable is a YAML/JSON table or a directory of clips. Empty uses
	// the built-in synthesized voices.
	SoundTable string `mapstructure:"sound_table"`
	// Output is the audio backend: portaudio, system or none.
	Output string `mapstructure:"output"`

	Audio AudioConfig `mapstructure:"audio"`
	Log   LogConfig   `mapstructure:"log"`
	Trace TraceConfig `mapstructure:"trace"`
}

// AudioConfig tunes the portaudio backend.
type AudioConfig struct {
	FramesPerBuffer int           `mapstructure:"frames_per_buffer"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type TraceConfig struct {
	// File receives finished spans as JSON. Empty disables tracing.
	File string `mapstructure:"file"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	s := settings.Defaults()
	pc := sound.GetDefaultConfig()
	return Config{
		Volume:          s.Volume,
		NarrateAlphabet: s.NarrateAlphabet,
		NarrateNumbers:  s.NarrateNumbers,
		NarrateOthers:   s.NarrateOthers,
		SpeakingType:    string(s.SpeakingType),
		Output:          sound.BackendPortaudio,
		Audio: AudioConfig{
			FramesPerBuffer: pc.FramesPerBuffer,
			CacheTTL:        pc.CacheTTL,
		},
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogPath(),
		},
	}
}

// SetDefaults registers every key with its default so environment variables
// and Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("volume", d.Volume)
	v.SetDefault("narrate_alphabet", d.NarrateAlphabet)
	v.SetDefault("narrate_numbers", d.NarrateNumbers)
	v.SetDefault("narrate_others", d.NarrateOthers)
	v.SetDefault("speaking_type", d.SpeakingType)
	v.SetDefault("sound_table", d.SoundTable)
	v.SetDefault("output", d.Output)
	v.SetDefault("audio.frames_per_buffer", d.Audio.FramesPerBuffer)
	v.SetDefault("audio.cache_ttl", d.Audio.CacheTTL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("trace.file", d.Trace.File)
}

// Settings extracts the narration settings, normalizing out-of-range
// values. The error describes what was corrected; the settings are usable
// either way.
func (c Config) Settings() (settings.Settings, error) {
	return settings.Settings{
		Volume:          c.Volume,
		NarrateAlphabet: c.NarrateAlphabet,
		NarrateNumbers:  c.NarrateNumbers,
		NarrateOthers:   c.NarrateOthers,
		SpeakingType:    settings.SpeakingType(c.SpeakingType),
	}.Normalize()
}

// Validate checks the parts of the config that cannot be normalized.
func (c Config) Validate() error {
	for _, b := range sound.Backends {
		if c.Output == b {
			return nil
		}
	}
	return fmt.Errorf("output %q: want one of %v", c.Output, sound.Backends)
}

// DefaultDir is the per-user config directory.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".animalese"
	}
	return filepath.Join(dir, "animalese")
}

// DefaultPath is the per-user config file.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultLogPath is where logs go unless log.file says otherwise.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "animalese", "animalese.log")
}

// LoadEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables already set. Missing files are
// ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// New prepares a viper instance with defaults and environment binding and
// reads configFile (or the default config file, if present).
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load unmarshals the current viper state.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Watch re-reads the settings whenever the config file changes and swaps
// them into store. Broken edits keep the previous settings.
func Watch(v *viper.Viper, store *settings.Store) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := Load(v)
		if err != nil {
			log.Warn(log.CatConfig, "Ignoring config change", "file", e.Name, "error", err)
			return
		}
		s, err := cfg.Settings()
		if err != nil {
			log.Warn(log.CatConfig, "Corrected config values", "file", e.Name, "error", err)
		}
		store.Replace(s)
		log.Info(log.CatConfig, "Settings reloaded", "file", e.Name,
			"volume", s.Volume, "speakingType", s.SpeakingType)
	})
	v.WatchConfig()
}
