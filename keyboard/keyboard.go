// Package keyboard carries key-press events from the host UI to whoever
// listens for them.
package keyboard

import (
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	ElementTextarea = "textarea"
	ElementInput    = "input"
	RoleTextbox     = "textbox"
)

// Focus describes the UI element that had focus when a key was pressed.
type Focus struct {
	// Element is the kind of widget, e.g. "textarea" or "input".
	Element string
	// Role is an explicit accessibility role, e.g. "textbox".
	Role string
}

// Editable reports whether typing into f should be narrated: a multi-line
// text area, or anything explicitly marked as a textbox.
func (f Focus) Editable() bool {
	return strings.EqualFold(f.Element, ElementTextarea) || f.Role == RoleTextbox
}

// Event is one key press. Key is the typed character for printable keys and
// a name such as "enter" or "shift" for everything else. A nil Focus means
// nothing was focused.
type Event struct {
	Key   string
	Focus *Focus
}

// Char returns the typed character when Key is exactly one character.
func (e Event) Char() (string, bool) {
	if !utf8.ValidString(e.Key) || utf8.RuneCountInString(e.Key) != 1 {
		return "", false
	}
	return e.Key, true
}

// Eligible returns the typed character if the event happened inside an
// editable element and carries exactly one character.
func (e Event) Eligible() (string, bool) {
	if e.Focus == nil || !e.Focus.Editable() {
		return "", false
	}
	return e.Char()
}

// Handler receives published events.
type Handler func(Event)

// Hub fans events out to every subscriber, synchronously and in
// subscription order. The zero value is ready to use.
type Hub struct {
	mu    sync.RWMutex
	next  int
	order []int
	subs  map[int]Handler
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]Handler)}
}

// Default is the process-wide hub.
var Default = NewHub()

// Subscribe registers fn and returns the func that removes it. Calling the
// returned func more than once is harmless.
func (h *Hub) Subscribe(fn Handler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs == nil {
		h.subs = make(map[int]Handler)
	}
	id := h.next
	h.next++
	h.subs[id] = fn
	h.order = append(h.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Publish delivers ev to the current subscribers.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.order))
	for _, id := range h.order {
		handlers = append(handlers, h.subs[id])
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
