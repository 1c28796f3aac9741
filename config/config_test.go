package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/d1nch8g/animalese/settings"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaults_MatchSettingsDefaults(t *testing.T) {
	s, err := Defaults().Settings()
	require.NoError(t, err)
	require.Equal(t, settings.Defaults(), s)
	require.NoError(t, Defaults().Validate())
}

func TestNew_WithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	v, err := New("")
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, 70, cfg.Volume)
	require.Equal(t, "female_voice_1", cfg.SpeakingType)
	require.Equal(t, "portaudio", cfg.Output)
	require.Equal(t, 10*time.Minute, cfg.Audio.CacheTTL)
}

func TestNew_MissingExplicitFileFails(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
volume: 50
narrate_numbers: false
speaking_type: male_voice_2
sound_table: /srv/sounds
output: system
audio:
  frames_per_buffer: 256
  cache_ttl: 30s
log:
  level: debug
`)
	v, err := New(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	require.Equal(t, 50, cfg.Volume)
	require.False(t, cfg.NarrateNumbers)
	require.True(t, cfg.NarrateAlphabet, "unset keys keep defaults")
	require.Equal(t, "/srv/sounds", cfg.SoundTable)
	require.Equal(t, "system", cfg.Output)
	require.Equal(t, 256, cfg.Audio.FramesPerBuffer)
	require.Equal(t, 30*time.Second, cfg.Audio.CacheTTL)
	require.Equal(t, "debug", cfg.Log.Level)

	s, err := cfg.Settings()
	require.NoError(t, err)
	require.Equal(t, settings.MaleVoice2, s.SpeakingType)
	require.InDelta(t, 0.5, s.Level(), 1e-9)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "volume: 50\nspeaking_type: male_voice_2\n")
	t.Setenv("ANIMALESE_VOLUME", "15")
	t.Setenv("ANIMALESE_AUDIO_FRAMES_PER_BUFFER", "128")

	v, err := New(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	require.Equal(t, 15, cfg.Volume)
	require.Equal(t, 128, cfg.Audio.FramesPerBuffer)
	require.Equal(t, "male_voice_2", cfg.SpeakingType)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ANIMALESE_SPEAKING_TYPE=female_voice_3\n"), 0600))

	// godotenv.Load sets variables outside t.Setenv; make sure they are cleared.
	t.Setenv("ANIMALESE_SPEAKING_TYPE", "")
	require.NoError(t, os.Unsetenv("ANIMALESE_SPEAKING_TYPE"))

	require.NoError(t, LoadEnv(envFile, filepath.Join(dir, "missing.env")))
	require.Equal(t, "female_voice_3", os.Getenv("ANIMALESE_SPEAKING_TYPE"))

	v, err := New(writeConfig(t, "speaking_type: male_voice_1\n"))
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "female_voice_3", cfg.SpeakingType)
}

func TestSettings_NormalizesBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Volume = 400
	cfg.SpeakingType = "parrot"

	s, err := cfg.Settings()
	require.Error(t, err)
	require.Equal(t, 100, s.Volume)
	require.Equal(t, settings.FemaleVoice1, s.SpeakingType)
}

func TestValidate_Output(t *testing.T) {
	cfg := Defaults()
	cfg.Output = "speaker"
	require.Error(t, cfg.Validate())

	for _, out := range []string{"portaudio", "system", "none"} {
		cfg.Output = out
		require.NoError(t, cfg.Validate())
	}
}

func TestWriteDefaultConfig_LoadsAsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))

	v, err := New(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	s, err := cfg.Settings()
	require.NoError(t, err)
	require.Equal(t, settings.Defaults(), s)
	require.Equal(t, "portaudio", cfg.Output)
}

func TestWatch_ReloadsSettings(t *testing.T) {
	path := writeConfig(t, "volume: 70\nspeaking_type: female_voice_1\n")
	v, err := New(path)
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	initial, err := cfg.Settings()
	require.NoError(t, err)
	store := settings.NewStore(initial)

	Watch(v, store)
	require.NoError(t, os.WriteFile(path, []byte("volume: 20\nspeaking_type: male_voice_4\n"), 0600))

	require.Eventually(t, func() bool {
		s := store.Snapshot()
		return s.Volume == 20 && s.SpeakingType == settings.MaleVoice4
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatch_NoFileIsNoop(t *testing.T) {
	v := viper.New()
	store := settings.NewStore(settings.Defaults())
	require.NotPanics(t, func() { Watch(v, store) })
	require.Equal(t, settings.Defaults(), store.Snapshot())
}
