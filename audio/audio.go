// Package audio decodes encoded sound payloads into playable clips.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/hajimehoshi/go-mp3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoSamples         = errors.New("payload holds no samples")
)

// Kind is the container format of a payload.
type Kind int

const (
	Unknown Kind = iota
	WAV
	MP3
)

func (k Kind) String() string {
	switch k {
	case WAV:
		return "wav"
	case MP3:
		return "mp3"
	default:
		return "unknown"
	}
}

// Sniff detects the container format from the leading bytes.
func Sniff(data []byte) Kind {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return WAV
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return MP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG frame sync
		return MP3
	default:
		return Unknown
	}
}

// Clip is a fully decoded sound. It is immutable and safe to share; every
// call to Streamer starts an independent read position.
type Clip struct {
	buf *beep.Buffer
}

// Format returns the sample format of the clip.
func (c *Clip) Format() beep.Format {
	return c.buf.Format()
}

// Len returns the number of sample frames.
func (c *Clip) Len() int {
	return c.buf.Len()
}

// Duration returns the play time of the clip.
func (c *Clip) Duration() time.Duration {
	return c.buf.Format().SampleRate.D(c.buf.Len())
}

// Streamer returns a fresh streamer over the whole clip.
func (c *Clip) Streamer() beep.StreamSeeker {
	return c.buf.Streamer(0, c.buf.Len())
}

// Decode decodes a WAV or MP3 payload.
func Decode(payload []byte) (*Clip, error) {
	switch kind := Sniff(payload); kind {
	case WAV:
		return decodeWAV(payload)
	case MP3:
		return decodeMP3(payload)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func decodeWAV(payload []byte) (*Clip, error) {
	streamer, format, err := wav.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav: %w", err)
	}
	defer streamer.Close()

	return collect(streamer, format)
}

func decodeMP3(payload []byte) (*Clip, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3: %w", err)
	}

	// go-mp3 always yields 16-bit little-endian stereo
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to read mp3 samples: %w", err)
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(decoder.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return collect(&pcmStreamer{data: pcm}, format)
}

func collect(s beep.Streamer, format beep.Format) (*Clip, error) {
	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	if buf.Len() == 0 {
		return nil, ErrNoSamples
	}
	return &Clip{buf: buf}, nil
}

// pcmStreamer streams 16-bit little-endian interleaved stereo bytes.
type pcmStreamer struct {
	data []byte
	pos  int
}

const pcmFrameSize = 4

func (p *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if p.pos+pcmFrameSize > len(p.data) {
		return 0, false
	}
	n := 0
	for n < len(samples) && p.pos+pcmFrameSize <= len(p.data) {
		left := int16(binary.LittleEndian.Uint16(p.data[p.pos:]))
		right := int16(binary.LittleEndian.Uint16(p.data[p.pos+2:]))
		samples[n][0] = float64(left) / (1 << 15)
		samples[n][1] = float64(right) / (1 << 15)
		p.pos += pcmFrameSize
		n++
	}
	return n, true
}

func (p *pcmStreamer) Err() error {
	return nil
}
