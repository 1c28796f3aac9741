// Package listener is the on/off switch between the keyboard hub and the
// narration engine.
package listener

import (
	"sync"

	"github.com/d1nch8g/animalese/keyboard"
)

// Source is a process-wide event feed such as *keyboard.Hub.
type Source interface {
	Subscribe(fn keyboard.Handler) (unsubscribe func())
}

// Listener forwards eligible typed characters to a handler while active.
// At most one subscription exists at any time.
type Listener struct {
	source Source
	handle func(ch string)

	mu          sync.Mutex
	unsubscribe func()
}

func New(source Source, handle func(ch string)) *Listener {
	return &Listener{source: source, handle: handle}
}

// Activate subscribes to the source. It reports false, and does nothing,
// when the listener is already active.
func (l *Listener) Activate() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.unsubscribe != nil {
		return false
	}
	l.unsubscribe = l.source.Subscribe(l.onKey)
	return true
}

// Deactivate drops the subscription. It reports false when the listener was
// not active.
func (l *Listener) Deactivate() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.unsubscribe == nil {
		return false
	}
	l.unsubscribe()
	l.unsubscribe = nil
	return true
}

// Active reports whether the listener is subscribed.
func (l *Listener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unsubscribe != nil
}

func (l *Listener) onKey(ev keyboard.Event) {
	ch, ok := ev.Eligible()
	if !ok {
		return
	}
	l.handle(ch)
}
