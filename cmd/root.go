// Package cmd contains the animalese command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/d1nch8g/animalese/config"
	"github.com/d1nch8g/animalese/engine"
	"github.com/d1nch8g/animalese/keyboard"
	"github.com/d1nch8g/animalese/listener"
	"github.com/d1nch8g/animalese/log"
	"github.com/d1nch8g/animalese/settings"
	"github.com/d1nch8g/animalese/sound"
	"github.com/d1nch8g/animalese/soundtable"
	"github.com/d1nch8g/animalese/symbols"
	"github.com/d1nch8g/animalese/synth"
	"github.com/d1nch8g/animalese/tracing"
	"github.com/d1nch8g/animalese/ui/typepad"
)

var (
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	store   *settings.Store

	// shutdown hooks run in reverse order when Execute returns.
	closers []func()
)

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"volume":      "volume",
	"voice":       "speaking_type",
	"output":      "output",
	"sound-table": "sound_table",
	"log-level":   "log.level",
	"log-file":    "log.file",
	"trace-file":  "trace.file",
}

var rootCmd = &cobra.Command{
	Use:   "animalese",
	Short: "Speak Animalese while you type",
	Long: `animalese plays a short animal-voice sound for every character typed
into its message box. Letters and digits are spoken in the selected voice,
symbols get their own sounds.`,
	Version:           engine.Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runPad,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&cfgFile, "config", "c", "", "config file (default: "+config.DefaultPath()+")")
	f.Int("volume", settings.DefaultVolume, "volume from 0 to 100")
	f.String("voice", string(settings.FemaleVoice1), "speaking type, see 'animalese voices'")
	f.String("output", sound.BackendPortaudio, "audio output: "+strings.Join(sound.Backends, ", "))
	f.String("sound-table", "", "sound table file or directory (default: built-in voices)")
	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.String("log-file", "", "log file (default: "+config.DefaultLogPath()+")")
	f.String("trace-file", "", "write keystroke traces to this file")
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer shutdown()

	return rootCmd.ExecuteContext(ctx)
}

func shutdown() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}

func bindFlags(vv *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := vv.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	vv, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(vv, cmd.Flags()); err != nil {
		return err
	}

	c, err := config.Load(vv)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	v, cfg = vv, c

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	closeLog, err := log.Init(expandHome(cfg.Log.File), level)
	if err != nil {
		return err
	}
	closers = append(closers, func() { _ = closeLog() })

	s, err := cfg.Settings()
	if err != nil {
		log.Warn(log.CatConfig, "Corrected config values", "error", err)
	}
	store = settings.NewStore(s)

	log.Info(log.CatConfig, "Config loaded",
		"file", vv.ConfigFileUsed(), "output", cfg.Output, "speakingType", s.SpeakingType, "volume", s.Volume)

	stopTracing, err := tracing.Init(expandHome(cfg.Trace.File))
	if err != nil {
		return err
	}
	closers = append(closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stopTracing(ctx); err != nil {
			log.Warn(log.CatConfig, "Flushing traces failed", "error", err)
		}
	})
	return nil
}

// loadTable builds the sound table: the synthesized bank, overlaid with the
// configured table if there is one.
func loadTable() (*soundtable.Table, error) {
	bank, err := synth.Bank(symbols.Default)
	if err != nil {
		return nil, fmt.Errorf("rendering built-in voices: %w", err)
	}
	if cfg.SoundTable == "" {
		return bank, nil
	}

	loaded, err := soundtable.Load(expandHome(cfg.SoundTable))
	if err != nil {
		return nil, err
	}
	log.Info(log.CatConfig, "Sound table loaded", "path", cfg.SoundTable, "entries", loaded.Len())
	return soundtable.Merge(bank, loaded), nil
}

// openPlayer starts the configured audio output. An output that cannot be
// initialized is replaced by silence so typing keeps working.
func openPlayer(cmd *cobra.Command) sound.Player {
	player, err := sound.New(sound.Config{
		Backend:         cfg.Output,
		FramesPerBuffer: cfg.Audio.FramesPerBuffer,
		CacheTTL:        cfg.Audio.CacheTTL,
	})
	if err == nil {
		err = player.Initialize()
	}
	if err != nil {
		log.Error(log.CatAudio, "Audio output unavailable", "output", cfg.Output, "error", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: audio output %q unavailable: %v\n", cfg.Output, err)
		return sound.NoopPlayer{}
	}
	return player
}

// startEngine wires the sound table, the player and the engine to source.
// The returned player must be terminated by the caller.
func startEngine(cmd *cobra.Command, source listener.Source) (*engine.Engine, sound.Player, error) {
	table, err := loadTable()
	if err != nil {
		return nil, nil, err
	}
	player := openPlayer(cmd)
	eng := engine.NewEngine(engine.EngineConfig{}, source, store, table, player)
	return eng, player, nil
}

func runPad(cmd *cobra.Command, _ []string) error {
	hub := keyboard.Default
	eng, player, err := startEngine(cmd, hub)
	if err != nil {
		return err
	}
	defer player.Terminate()
	defer eng.Deactivate()

	config.Watch(v, store)

	p := tea.NewProgram(typepad.New(hub, eng, store),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running typing pad: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
