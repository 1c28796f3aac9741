package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_Default(t *testing.T) {
	tests := []struct {
		ch   string
		want string
	}{
		{"!", "exclamation"},
		{"?", "question"},
		{"#", "pound"},
		{"\\", "backslash"},
		{"\"", "quote"},
	}

	for _, tt := range tests {
		t.Run(tt.ch, func(t *testing.T) {
			got, ok := Default.Resolve(tt.ch)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Unmapped(t *testing.T) {
	for _, ch := range []string{"~", " ", "a", "1", "é", ""} {
		_, ok := Default.Resolve(ch)
		require.False(t, ok, "%q should not be mapped", ch)
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	m := Mapping{
		{"!", "first"},
		{"?", "question"},
		{"!", "second"},
	}

	got, ok := m.Resolve("!")
	require.True(t, ok)
	require.Equal(t, "first", got)
}

func TestResolve_CaseSensitive(t *testing.T) {
	m := Mapping{{"Ä", "upper_umlaut"}}

	_, ok := m.Resolve("ä")
	require.False(t, ok)

	got, ok := m.Resolve("Ä")
	require.True(t, ok)
	require.Equal(t, "upper_umlaut", got)
}

func TestDefault_LiteralsAreSingleUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range Default {
		require.Len(t, []rune(p.Literal), 1, "literal %q", p.Literal)
		require.False(t, seen[p.Literal], "duplicate literal %q", p.Literal)
		require.NotEqual(t, DefaultKey, p.Name)
		seen[p.Literal] = true
	}
}

func TestNames(t *testing.T) {
	m := Mapping{{"(", "paren"}, {")", "paren"}, {"!", "exclamation"}}
	require.Equal(t, []string{"paren", "exclamation"}, m.Names())
	require.Len(t, Default.Names(), len(Default))
}
