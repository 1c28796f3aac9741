// Package symbols maps non-alphanumeric characters to named sounds.
package symbols

// DefaultKey is the sound played for a symbol with no mapping of its own.
const DefaultKey = "sfx_default"

// Pair maps one literal character to a symbolic sound name.
type Pair struct {
	Literal string
	Name    string
}

// Mapping is an ordered list of pairs. Lookups scan it front to back and the
// first matching literal wins.
type Mapping []Pair

// Resolve returns the name mapped to ch. Matching is exact; no case folding.
func (m Mapping) Resolve(ch string) (string, bool) {
	for _, p := range m {
		if p.Literal == ch {
			return p.Name, true
		}
	}
	return "", false
}

// Names returns every distinct symbolic name in scan order.
func (m Mapping) Names() []string {
	seen := make(map[string]bool, len(m))
	names := make([]string, 0, len(m))
	for _, p := range m {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		names = append(names, p.Name)
	}
	return names
}

// Default is the mapping used by the built-in sound tables.
var Default = Mapping{
	{"!", "exclamation"},
	{"?", "question"},
	{"@", "at"},
	{"#", "pound"},
	{"$", "dollar"},
	{"%", "percent"},
	{"^", "caret"},
	{"&", "ampersand"},
	{"*", "asterisk"},
	{"(", "parenthesis_open"},
	{")", "parenthesis_close"},
	{"[", "bracket_open"},
	{"]", "bracket_close"},
	{"{", "brace_open"},
	{"}", "brace_close"},
	{"<", "less_than"},
	{">", "greater_than"},
	{"-", "dash"},
	{"_", "underscore"},
	{"+", "plus"},
	{"=", "equals"},
	{"/", "slash"},
	{"\\", "backslash"},
	{"|", "pipe"},
	{":", "colon"},
	{";", "semicolon"},
	{",", "comma"},
	{".", "period"},
	{"'", "apostrophe"},
	{"\"", "quote"},
	{"`", "backtick"},
}
