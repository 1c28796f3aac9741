package classifier

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/d1nch8g/animalese/settings"
	"github.com/d1nch8g/animalese/symbols"
)

func allOn(t settings.SpeakingType) settings.Settings {
	return settings.Settings{
		Volume:          50,
		NarrateAlphabet: true,
		NarrateNumbers:  true,
		NarrateOthers:   true,
		SpeakingType:    t,
	}
}

func speakingTypeGen() *rapid.Generator[settings.SpeakingType] {
	return rapid.Custom(func(t *rapid.T) settings.SpeakingType {
		return settings.Voices[rapid.IntRange(0, len(settings.Voices)-1).Draw(t, "voice")].Type
	})
}

func settingsGen() *rapid.Generator[settings.Settings] {
	return rapid.Custom(func(t *rapid.T) settings.Settings {
		return settings.Settings{
			Volume:          rapid.IntRange(0, 100).Draw(t, "volume"),
			NarrateAlphabet: rapid.Bool().Draw(t, "alphabet"),
			NarrateNumbers:  rapid.Bool().Draw(t, "numbers"),
			NarrateOthers:   rapid.Bool().Draw(t, "others"),
			SpeakingType:    speakingTypeGen().Draw(t, "speakingType"),
		}
	})
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		ch   string
		want Category
	}{
		{"a", Letter},
		{"Z", Letter},
		{"0", Digit},
		{"9", Digit},
		{"!", Other},
		{" ", Other},
		{"~", Other},
		{"é", Other},
		{"ß", Other},
	}

	for _, tt := range tests {
		t.Run(tt.ch, func(t *testing.T) {
			require.Equal(t, tt.want, Categorize(tt.ch))
		})
	}
}

func TestCategory_String(t *testing.T) {
	require.Equal(t, "letter", Letter.String())
	require.Equal(t, "digit", Digit.String())
	require.Equal(t, "other", Other.String())
}

func TestProperty_UpperAndLowerLettersShareKey(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := rune(rapid.IntRange('a', 'z').Draw(t, "letter"))
		voice := speakingTypeGen().Draw(t, "voice")
		s := allOn(voice)

		lower, ok := Classify(string(r), s)
		if !ok {
			t.Fatalf("lowercase %q was silenced", r)
		}
		upper, ok := Classify(string(r-'a'+'A'), s)
		if !ok {
			t.Fatalf("uppercase of %q was silenced", r)
		}
		if lower != upper {
			t.Fatalf("keys differ: %q vs %q", lower, upper)
		}
		if want := fmt.Sprintf("%s_%c", voice, r); lower != want {
			t.Fatalf("got %q, want %q", lower, want)
		}
	})
}

func TestProperty_DigitsSilencedWhenNumbersOff(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := settingsGen().Draw(t, "settings")
		s.NarrateNumbers = false
		d := rapid.IntRange(0, 9).Draw(t, "digit")

		if key, ok := Classify(fmt.Sprint(d), s); ok {
			t.Fatalf("digit %d produced %q", d, key)
		}
	})
}

func TestProperty_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := settingsGen().Draw(t, "settings")
		ch := string(rapid.Rune().Draw(t, "ch"))

		k1, ok1 := Classify(ch, s)
		k2, ok2 := Classify(ch, s)
		if k1 != k2 || ok1 != ok2 {
			t.Fatalf("classify(%q) not stable: (%q,%v) then (%q,%v)", ch, k1, ok1, k2, ok2)
		}
	})
}

func TestProperty_CategoryFlagGatesOutput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := settingsGen().Draw(t, "settings")
		ch := string(rapid.Rune().Draw(t, "ch"))

		_, ok := Classify(ch, s)
		var enabled bool
		switch Categorize(ch) {
		case Letter:
			enabled = s.NarrateAlphabet
		case Digit:
			enabled = s.NarrateNumbers
		default:
			enabled = s.NarrateOthers
		}
		if ok != enabled {
			t.Fatalf("classify(%q) ok=%v, category enabled=%v", ch, ok, enabled)
		}
	})
}

func TestClassify_Symbols(t *testing.T) {
	s := allOn(settings.FemaleVoice1)

	key, ok := Classify("!", s)
	require.True(t, ok)
	require.Equal(t, "exclamation", key)

	key, ok = Classify("~", s)
	require.True(t, ok)
	require.Equal(t, symbols.DefaultKey, key)

	s.NarrateOthers = false
	_, ok = Classify("!", s)
	require.False(t, ok)
	_, ok = Classify("~", s)
	require.False(t, ok)
}

func TestClassify_AlphabetOff(t *testing.T) {
	s := allOn(settings.MaleVoice1)
	s.NarrateAlphabet = false

	_, ok := Classify("a", s)
	require.False(t, ok)
	_, ok = Classify("A", s)
	require.False(t, ok)

	key, ok := Classify("7", s)
	require.True(t, ok)
	require.Equal(t, "male_voice_1_7", key)
}

func TestClassify_SymbolScanIsCaseSensitive(t *testing.T) {
	m := symbols.Mapping{
		{Literal: "Ä", Name: "upper_umlaut"},
		{Literal: "ä", Name: "lower_umlaut"},
	}
	s := allOn(settings.FemaleVoice2)

	key, ok := ClassifyWith(m, "Ä", s)
	require.True(t, ok)
	require.Equal(t, "upper_umlaut", key)

	key, ok = ClassifyWith(m, "ä", s)
	require.True(t, ok)
	require.Equal(t, "lower_umlaut", key)
}

func TestClassify_MultiRuneLowercaseIsNotALetter(t *testing.T) {
	s := allOn(settings.FemaleVoice1)

	// U+0130 lowercases to "i" plus a combining dot, two runes.
	require.Equal(t, Other, Categorize("\u0130"))
	key, ok := Classify("\u0130", s)
	require.True(t, ok)
	require.Equal(t, symbols.DefaultKey, key)

	// The Kelvin sign lowercases to a plain "k".
	require.Equal(t, Letter, Categorize("\u212A"))
	key, ok = Classify("\u212A", s)
	require.True(t, ok)
	require.Equal(t, "female_voice_1_k", key)
}

func TestClassify_Scenario(t *testing.T) {
	s := allOn(settings.MaleVoice2)

	var keys []string
	for _, ch := range []string{"H", "i", "!"} {
		key, ok := Classify(ch, s)
		require.True(t, ok)
		keys = append(keys, key)
	}
	require.Equal(t, []string{"male_voice_2_h", "male_voice_2_i", "exclamation"}, keys)
}

func TestVoiceKey(t *testing.T) {
	require.Equal(t, "female_voice_3_q", VoiceKey(settings.FemaleVoice3, "Q"))
	require.Equal(t, "male_voice_4_0", VoiceKey(settings.MaleVoice4, "0"))
}
