// Package classifier turns one typed character into a sound table key.
package classifier

import (
	"strings"

	"github.com/d1nch8g/animalese/settings"
	"github.com/d1nch8g/animalese/symbols"
)

// Category is the class a typed character falls into.
type Category int

const (
	Letter Category = iota
	Digit
	Other
)

func (c Category) String() string {
	switch c {
	case Letter:
		return "letter"
	case Digit:
		return "digit"
	default:
		return "other"
	}
}

// fullLower applies the one unconditional multi-rune lowercase mapping that
// strings.ToLower skips: U+0130 becomes "i" plus a combining dot.
var fullLower = strings.NewReplacer("\u0130", "i\u0307")

func lower(ch string) string {
	return strings.ToLower(fullLower.Replace(ch))
}

// Categorize reports the category of ch after lowercasing it.
func Categorize(ch string) Category {
	norm := lower(ch)
	if len(norm) == 1 {
		switch c := norm[0]; {
		case c >= 'a' && c <= 'z':
			return Letter
		case c >= '0' && c <= '9':
			return Digit
		}
	}
	return Other
}

// Classify returns the sound table key for ch under s using the default
// symbol mapping. The bool is false when the category is disabled.
func Classify(ch string, s settings.Settings) (string, bool) {
	return ClassifyWith(symbols.Default, ch, s)
}

// ClassifyWith is Classify with an explicit symbol mapping. Letters and digits
// are keyed by their lowercase form; symbols are looked up by the character
// exactly as typed.
func ClassifyWith(m symbols.Mapping, ch string, s settings.Settings) (string, bool) {
	switch Categorize(ch) {
	case Letter:
		if !s.NarrateAlphabet {
			return "", false
		}
		return voiceKey(s.SpeakingType, ch), true
	case Digit:
		if !s.NarrateNumbers {
			return "", false
		}
		return voiceKey(s.SpeakingType, ch), true
	default:
		if !s.NarrateOthers {
			return "", false
		}
		if name, ok := m.Resolve(ch); ok {
			return name, true
		}
		return symbols.DefaultKey, true
	}
}

// VoiceKey builds the key of a letter or digit sound for the given voice.
func VoiceKey(t settings.SpeakingType, ch string) string {
	return voiceKey(t, ch)
}

func voiceKey(t settings.SpeakingType, ch string) string {
	return string(t) + "_" + lower(ch)
}
