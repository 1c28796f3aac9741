package engine

import (
	"github.com/d1nch8g/animalese/settings"
	"github.com/d1nch8g/animalese/sound"
)

// Table is the read side of a sound table.
type Table interface {
	Get(key string) ([]byte, bool)
}

// Trigger resolves lookup keys against the sound table and hands hits to
// the player.
type Trigger struct {
	table  Table
	player sound.Player
}

func NewTrigger(table Table, player sound.Player) *Trigger {
	return &Trigger{table: table, player: player}
}

// Play starts the sound stored under key at the volume in s. An empty key
// or a key missing from the table is silently skipped. It reports whether a
// playback was requested.
func (t *Trigger) Play(key string, s settings.Settings) bool {
	if key == "" {
		return false
	}
	payload, ok := t.table.Get(key)
	if !ok {
		return false
	}
	t.player.Play(sound.Request{
		Key:     key,
		Payload: payload,
		Volume:  s.Level(),
	})
	return true
}
