// Package sound is the audio-output facility: it receives encoded payloads
// with a level and plays them without blocking the caller.
package sound

import (
	"fmt"
	"time"
)

// Request is one playback: an encoded payload played at a linear level.
type Request struct {
	// Key is the sound table key, used for caching and diagnostics.
	Key     string
	Payload []byte
	// Volume is the linear output level in [0.0, 1.0].
	Volume float64
}

// Player defines the interface for audio playback
type Player interface {
	// Initialize initializes the audio playback system
	Initialize() error

	// Terminate waits for sounds in flight and releases the playback system
	Terminate()

	// Play starts playback and returns immediately. Every call is an
	// independent playback; failures are handled internally.
	Play(req Request)
}

// Backend names accepted by New.
const (
	BackendPortaudio = "portaudio"
	BackendSystem    = "system"
	BackendNone      = "none"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendPortaudio, BackendSystem, BackendNone}

// Config selects and tunes a Player.
type Config struct {
	Backend         string
	FramesPerBuffer int
	CacheTTL        time.Duration
}

// New creates the player named by cfg.Backend.
func New(cfg Config) (Player, error) {
	switch cfg.Backend {
	case BackendPortaudio, "":
		pc := GetDefaultConfig()
		if cfg.FramesPerBuffer > 0 {
			pc.FramesPerBuffer = cfg.FramesPerBuffer
		}
		if cfg.CacheTTL > 0 {
			pc.CacheTTL = cfg.CacheTTL
		}
		return NewPortaudioPlayer(pc), nil
	case BackendSystem:
		return NewSystemPlayer(), nil
	case BackendNone:
		return NoopPlayer{}, nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q (want one of %v)", cfg.Backend, Backends)
	}
}

// NoopPlayer is a Player that does nothing.
type NoopPlayer struct{}

func (NoopPlayer) Initialize() error { return nil }
func (NoopPlayer) Terminate()        {}
func (NoopPlayer) Play(Request)      {}

// clampVolume keeps v within [0, 1].
func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
