// Package synth renders the built-in voice bank: a short pitched blip for
// every voice and character, so the program talks without an asset pack.
package synth

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/d1nch8g/animalese/audio"
	"github.com/d1nch8g/animalese/classifier"
	"github.com/d1nch8g/animalese/settings"
	"github.com/d1nch8g/animalese/soundtable"
	"github.com/d1nch8g/animalese/symbols"
)

const sampleRate = beep.SampleRate(22050)

var format = beep.Format{SampleRate: sampleRate, NumChannels: 1, Precision: 2}

const (
	// Voiced characters: letters and digits
	voicedDuration = 90 * time.Millisecond
	voicedVolume   = 0.6
	voicedDecay    = 18

	// Symbols: shorter, brighter chirps
	symbolDuration = 60 * time.Millisecond
	symbolVolume   = 0.45
	symbolDecay    = 35

	// Fallback click
	defaultFreq     = 900
	defaultDuration = 40 * time.Millisecond
	defaultVolume   = 0.4
	defaultDecay    = 60

	attack = 4 * time.Millisecond
)

// Tone describes one synthesized blip: a fundamental plus a formant partial
// under an exponential decay envelope.
type Tone struct {
	Freq     float64
	Formant  float64
	Duration time.Duration
	Volume   float64
	Decay    float64
}

// Streamer returns the samples of t.
func (t Tone) Streamer() beep.Streamer {
	n := sampleRate.N(t.Duration)
	attackN := float64(sampleRate.N(attack))
	i := 0
	gen := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for k := range samples {
			sec := float64(i) / float64(sampleRate)
			env := t.Volume * math.Exp(-t.Decay*sec)
			if float64(i) < attackN {
				env *= float64(i) / attackN
			}
			v := 0.7*math.Sin(2*math.Pi*t.Freq*sec) + 0.3*math.Sin(2*math.Pi*t.Formant*sec)
			samples[k][0] = env * v
			samples[k][1] = env * v
			i++
		}
		return len(samples), true
	})
	return beep.Take(n, gen)
}

// Render encodes t as a WAV payload.
func Render(t Tone) ([]byte, error) {
	return audio.EncodeWAV(t.Streamer(), format)
}

// basePitch is the fundamental of each voice in Hz.
var basePitch = map[settings.SpeakingType]float64{
	settings.MaleVoice1:   98,
	settings.MaleVoice2:   117,
	settings.MaleVoice3:   131,
	settings.MaleVoice4:   147,
	settings.FemaleVoice1: 220,
	settings.FemaleVoice2: 247,
	settings.FemaleVoice3: 277,
	settings.FemaleVoice4: 311,
}

// vowelFormant gives every letter the first formant of the vowel it sounds
// closest to when spelled out.
var vowelFormant = map[byte]float64{
	'a': 730, 'e': 530, 'i': 270, 'o': 570, 'u': 300, 'y': 270,
	'b': 530, 'c': 530, 'd': 530, 'g': 530, 'p': 530, 't': 530, 'v': 530, 'z': 530,
	'f': 660, 'l': 660, 'm': 660, 'n': 660, 's': 660, 'x': 660,
	'h': 730, 'j': 730, 'k': 730,
	'q': 300, 'w': 300,
	'r': 730,
}

// Voiced returns the tone for a letter or digit in the given voice.
func Voiced(voice settings.SpeakingType, ch byte) Tone {
	base, ok := basePitch[voice]
	if !ok {
		base = basePitch[settings.FemaleVoice1]
	}

	var step int
	formant := 600.0
	switch {
	case ch >= 'a' && ch <= 'z':
		step = int(ch-'a') % 12
		formant = vowelFormant[ch]
	case ch >= '0' && ch <= '9':
		step = int(ch - '0')
		formant = 450 + 40*float64(step)
	}

	return Tone{
		Freq:     base * math.Pow(2, float64(step)/12),
		Formant:  formant,
		Duration: voicedDuration,
		Volume:   voicedVolume,
		Decay:    voicedDecay,
	}
}

// Symbol returns the tone for the i-th entry of the symbol mapping.
func Symbol(i int) Tone {
	freq := 520 * math.Pow(2, float64(i%24)/12)
	return Tone{
		Freq:     freq,
		Formant:  freq * 1.5,
		Duration: symbolDuration,
		Volume:   symbolVolume,
		Decay:    symbolDecay,
	}
}

// Default returns the fallback click.
func Default() Tone {
	return Tone{
		Freq:     defaultFreq,
		Formant:  defaultFreq * 2,
		Duration: defaultDuration,
		Volume:   defaultVolume,
		Decay:    defaultDecay,
	}
}

const voicedChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// Bank renders the full built-in table: every voice times every letter and
// digit, one sound per named symbol and the fallback.
func Bank(m symbols.Mapping) (*soundtable.Table, error) {
	entries := make(map[string][]byte)

	for _, v := range settings.Voices {
		for i := 0; i < len(voicedChars); i++ {
			ch := voicedChars[i]
			payload, err := Render(Voiced(v.Type, ch))
			if err != nil {
				return nil, fmt.Errorf("rendering %s %c: %w", v.Type, ch, err)
			}
			entries[classifier.VoiceKey(v.Type, string(ch))] = payload
		}
	}

	for i, name := range m.Names() {
		payload, err := Render(Symbol(i))
		if err != nil {
			return nil, fmt.Errorf("rendering symbol %s: %w", name, err)
		}
		entries[name] = payload
	}

	payload, err := Render(Default())
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", symbols.DefaultKey, err)
	}
	entries[symbols.DefaultKey] = payload

	return soundtable.New(entries), nil
}
