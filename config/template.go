package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Animalese Configuration
# Changes to the narration settings apply while animalese is running.

# How loud the sound will be when typing (0-100)
volume: 70

# If the animal should narrate the English alphabet (A-Z)
narrate_alphabet: true

# If the animal should narrate the numbers (0-9)
narrate_numbers: true

# If the animal should narrate symbols (!, @, #, ...)
narrate_others: true

# Which voice tone will play when typing (run 'animalese voices' to list them)
#   male_voice_1 .. male_voice_4, female_voice_1 .. female_voice_4
speaking_type: female_voice_1

# Sound table: a YAML/JSON file mapping keys to data URIs, or a directory
# of <key>.wav / <key>.mp3 files. Leave empty for the built-in voices.
# sound_table: ~/animalese/sounds.yaml

# Audio output: portaudio, system (afplay/paplay/aplay) or none
output: portaudio

audio:
  frames_per_buffer: 512
  cache_ttl: 10m

log:
  level: info
  # file: ~/.cache/animalese/animalese.log

# Write OpenTelemetry spans for each key press to this file
# trace:
#   file: /tmp/animalese-trace.json
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
