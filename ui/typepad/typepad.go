// Package typepad is the terminal host: a message box and a search line
// whose key presses are published on a keyboard hub before the focused
// widget handles them.
package typepad

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/d1nch8g/animalese/keyboard"
	"github.com/d1nch8g/animalese/log"
	"github.com/d1nch8g/animalese/settings"
)

// Publisher receives every key press.
type Publisher interface {
	Publish(ev keyboard.Event)
}

// Narrator is started when the pad opens and stopped when it quits.
type Narrator interface {
	Activate()
	Deactivate()
}

// SettingsSource feeds the status bar.
type SettingsSource interface {
	Snapshot() settings.Settings
}

type field int

const (
	fieldMessage field = iota
	fieldSearch
)

// activatedMsg is returned once narration has started.
type activatedMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#8E5A2B", Dark: "#F2C57C"})

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2E6B3A", Dark: "#8FD694"})

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}).
			Italic(true)
)

// Model holds the typing pad state.
type Model struct {
	hub      Publisher
	narrator Narrator
	settings SettingsSource

	message textarea.Model
	search  textinput.Model
	focus   field
	active  bool

	width  int
	height int
}

// New creates a typing pad with the message box focused.
func New(hub Publisher, narrator Narrator, store SettingsSource) Model {
	ta := textarea.New()
	ta.Placeholder = "Type something and listen..."
	ta.ShowLineNumbers = false
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "search (quiet)"
	ti.Prompt = ""

	return Model{
		hub:      hub,
		narrator: narrator,
		settings: store,
		message:  ta,
		search:   ti,
	}
}

// Init starts narration.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, func() tea.Msg {
		m.narrator.Activate()
		return activatedMsg{}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case activatedMsg:
		m.active = true
		return m, nil

	case tea.KeyMsg:
		focus := m.focused()
		for _, key := range KeyNames(msg) {
			m.hub.Publish(keyboard.Event{Key: key, Focus: focus})
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			m.narrator.Deactivate()
			m.active = false
			return m, tea.Quit
		case "tab", "shift+tab":
			return m.toggleFocus(), nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldSearch:
		m.search, cmd = m.search.Update(msg)
	default:
		m.message, cmd = m.message.Update(msg)
	}
	return m, cmd
}

// KeyNames splits msg into one key per keystroke. The terminal reader
// delivers runes typed in quick succession as a single message; each of
// them is a separate key press. Pastes stay one key.
func KeyNames(msg tea.KeyMsg) []string {
	if msg.Type == tea.KeyRunes && !msg.Paste && !msg.Alt && len(msg.Runes) > 1 {
		keys := make([]string, len(msg.Runes))
		for i, r := range msg.Runes {
			keys[i] = string(r)
		}
		return keys
	}
	return []string{KeyName(msg)}
}

// KeyName converts a key press to the key string carried by an event.
// Printable single characters map to themselves, everything else keeps its
// descriptive name ("enter", "ctrl+a", pasted text in brackets).
func KeyName(msg tea.KeyMsg) string {
	if msg.Paste || msg.Alt {
		return msg.String()
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return string(msg.Runes)
		}
	case tea.KeySpace:
		return " "
	}
	return msg.String()
}

func (m Model) focused() *keyboard.Focus {
	if m.focus == fieldSearch {
		return &keyboard.Focus{Element: keyboard.ElementInput}
	}
	return &keyboard.Focus{Element: keyboard.ElementTextarea}
}

func (m Model) toggleFocus() Model {
	if m.focus == fieldMessage {
		m.focus = fieldSearch
		m.message.Blur()
		m.search.Focus()
	} else {
		m.focus = fieldMessage
		m.search.Blur()
		m.message.Focus()
	}
	log.Debug(log.CatUI, "Focus changed", "element", m.focused().Element)
	return m
}

// View renders the pad.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("animalese"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Message"))
	b.WriteString("\n")
	b.WriteString(m.message.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Search: "))
	b.WriteString(m.search.View())
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab switch field • esc quit"))

	return b.String()
}

func (m Model) status() string {
	s := m.settings.Snapshot()
	state := "paused"
	if m.active {
		state = "listening"
	}
	return fmt.Sprintf("%s  •  %s  •  volume %d%%  •  %s",
		state, s.SpeakingType.Label(), s.Volume, narrated(s))
}

func narrated(s settings.Settings) string {
	var parts []string
	if s.NarrateAlphabet {
		parts = append(parts, "letters")
	}
	if s.NarrateNumbers {
		parts = append(parts, "numbers")
	}
	if s.NarrateOthers {
		parts = append(parts, "symbols")
	}
	if len(parts) == 0 {
		return "silent"
	}
	return strings.Join(parts, "+")
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height

	if width > 4 {
		m.message.SetWidth(width - 2)
		m.search.Width = width - 12
	}
	if height > 10 {
		m.message.SetHeight(height - 10)
	}
	return m
}
