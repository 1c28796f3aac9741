// Package settings holds the user-adjustable options read on every keystroke.
package settings

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrVolumeOutOfRange    = errors.New("volume out of range")
	ErrInvalidSpeakingType = errors.New("invalid speaking type")
)

// SpeakingType selects one of the voice variants of the sound table.
type SpeakingType string

const (
	MaleVoice1   SpeakingType = "male_voice_1"
	MaleVoice2   SpeakingType = "male_voice_2"
	MaleVoice3   SpeakingType = "male_voice_3"
	MaleVoice4   SpeakingType = "male_voice_4"
	FemaleVoice1 SpeakingType = "female_voice_1"
	FemaleVoice2 SpeakingType = "female_voice_2"
	FemaleVoice3 SpeakingType = "female_voice_3"
	FemaleVoice4 SpeakingType = "female_voice_4"
)

// Voice pairs a speaking type with its display label.
type Voice struct {
	Type  SpeakingType
	Label string
}

// Voices lists every speaking type in display order.
var Voices = []Voice{
	{MaleVoice1, "Masculine 1"},
	{MaleVoice2, "Masculine 2"},
	{MaleVoice3, "Masculine 3"},
	{MaleVoice4, "Masculine 4"},
	{FemaleVoice1, "Feminine 1"},
	{FemaleVoice2, "Feminine 2"},
	{FemaleVoice3, "Feminine 3"},
	{FemaleVoice4, "Feminine 4"},
}

// Valid reports whether t is one of the known voice variants.
func (t SpeakingType) Valid() bool {
	for _, v := range Voices {
		if v.Type == t {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw identifier when unknown.
func (t SpeakingType) Label() string {
	for _, v := range Voices {
		if v.Type == t {
			return v.Label
		}
	}
	return string(t)
}

const (
	MinVolume     = 0
	MaxVolume     = 100
	DefaultVolume = 70
)

// Settings is a snapshot of the narration options.
type Settings struct {
	Volume          int
	NarrateAlphabet bool
	NarrateNumbers  bool
	NarrateOthers   bool
	SpeakingType    SpeakingType
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		Volume:          DefaultVolume,
		NarrateAlphabet: true,
		NarrateNumbers:  true,
		NarrateOthers:   true,
		SpeakingType:    FemaleVoice1,
	}
}

// Level returns the linear output level in [0.0, 1.0].
func (s Settings) Level() float64 {
	v := s.Volume
	if v < MinVolume {
		v = MinVolume
	}
	if v > MaxVolume {
		v = MaxVolume
	}
	return float64(v) / MaxVolume
}

// Validate reports the first problem with s, if any.
func (s Settings) Validate() error {
	if s.Volume < MinVolume || s.Volume > MaxVolume {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrVolumeOutOfRange, s.Volume, MinVolume, MaxVolume)
	}
	if !s.SpeakingType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSpeakingType, s.SpeakingType)
	}
	return nil
}

// Normalize clamps the volume and replaces an unknown speaking type with the
// default one. The returned error lists what was corrected.
func (s Settings) Normalize() (Settings, error) {
	var errs []error
	if s.Volume < MinVolume || s.Volume > MaxVolume {
		errs = append(errs, fmt.Errorf("%w: %d (want %d..%d)", ErrVolumeOutOfRange, s.Volume, MinVolume, MaxVolume))
		s.Volume = max(MinVolume, min(MaxVolume, s.Volume))
	}
	if !s.SpeakingType.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidSpeakingType, s.SpeakingType))
		s.SpeakingType = Defaults().SpeakingType
	}
	return s, errors.Join(errs...)
}

// Store holds the current settings. The host replaces the snapshot; readers
// only ever see complete values.
type Store struct {
	current atomic.Pointer[Settings]
}

// NewStore creates a store seeded with s.
func NewStore(s Settings) *Store {
	st := &Store{}
	st.Replace(s)
	return st
}

// Snapshot returns the current settings.
func (st *Store) Snapshot() Settings {
	if p := st.current.Load(); p != nil {
		return *p
	}
	return Defaults()
}

// Replace swaps in a new snapshot.
func (st *Store) Replace(s Settings) {
	st.current.Store(&s)
}
