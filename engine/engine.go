package engine

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/d1nch8g/animalese/classifier"
	"github.com/d1nch8g/animalese/listener"
	"github.com/d1nch8g/animalese/log"
	"github.com/d1nch8g/animalese/settings"
	"github.com/d1nch8g/animalese/sound"
	"github.com/d1nch8g/animalese/symbols"
)

// Version is reported in the lifecycle log lines.
const Version = "1.0"

// SettingsSource provides the settings snapshot for each key press.
type SettingsSource interface {
	Snapshot() settings.Settings
}

// EngineConfig holds the configuration for the narration engine
type EngineConfig struct {
	// Symbols is the mapping used for non-alphanumeric characters.
	Symbols symbols.Mapping
	// Tracer records one span per handled key press. Defaults to the
	// global provider.
	Tracer trace.Tracer
}

// Engine narrates typed characters: classify, look up, play.
type Engine struct {
	config   EngineConfig
	settings SettingsSource
	trigger  *Trigger
	listener *listener.Listener

	activeMu sync.Mutex
}

// NewEngine creates an engine listening on source once activated.
func NewEngine(
	config EngineConfig,
	source listener.Source,
	store SettingsSource,
	table Table,
	player sound.Player,
) *Engine {
	if config.Symbols == nil {
		config.Symbols = symbols.Default
	}
	if config.Tracer == nil {
		config.Tracer = otel.Tracer("github.com/d1nch8g/animalese/engine")
	}

	e := &Engine{
		config:   config,
		settings: store,
		trigger:  NewTrigger(table, player),
	}
	e.listener = listener.New(source, e.KeyPressed)
	return e
}

// Activate starts listening for key presses. Calling it while active does
// nothing.
func (e *Engine) Activate() {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()

	if e.listener.Activate() {
		log.Info(log.CatInput, "Ready to start speaking Animalese!", "version", Version)
	}
}

// Deactivate stops listening. Sounds already playing are left to finish.
func (e *Engine) Deactivate() {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()

	if e.listener.Deactivate() {
		log.Info(log.CatInput, "See you next time! (narration stopped)", "version", Version)
	}
}

// IsRunning returns whether the engine is currently listening
func (e *Engine) IsRunning() bool {
	return e.listener.Active()
}

// Lookup returns the sound key for ch under the current settings.
func (e *Engine) Lookup(ch string) (string, bool) {
	return classifier.ClassifyWith(e.config.Symbols, ch, e.settings.Snapshot())
}

// KeyPressed narrates one typed character.
func (e *Engine) KeyPressed(ch string) {
	s := e.settings.Snapshot()
	key, ok := classifier.ClassifyWith(e.config.Symbols, ch, s)

	// Typed text is never recorded, only its category and the outcome.
	_, span := e.config.Tracer.Start(context.Background(), "keystroke",
		trace.WithAttributes(attribute.String("category", classifier.Categorize(ch).String())))
	defer span.End()

	played := false
	if ok {
		played = e.trigger.Play(key, s)
	}
	span.SetAttributes(
		attribute.Bool("enabled", ok),
		attribute.Bool("played", played),
		attribute.String("voice", string(s.SpeakingType)),
	)
}
