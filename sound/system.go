package sound

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/d1nch8g/animalese/audio"
	"github.com/d1nch8g/animalese/log"
)

// SystemPlayer plays payloads through the platform's command line player.
// It needs no cgo, at the cost of one process per sound.
type SystemPlayer struct {
	command string
	goos    string
	run     func(name string, args ...string) error
	active  sync.WaitGroup
}

var _ Player = (*SystemPlayer)(nil)

func NewSystemPlayer() *SystemPlayer {
	return &SystemPlayer{
		command: detectAudioCommand(runtime.GOOS, exec.LookPath),
		goos:    runtime.GOOS,
		run:     runCommand,
	}
}

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run() //nolint:gosec // name comes from detectAudioCommand
}

func (s *SystemPlayer) Initialize() error {
	if s.command == "" {
		return fmt.Errorf("no audio player command found for %s", s.goos)
	}
	log.Debug(log.CatAudio, "System player initialized", "command", s.command, "platform", s.goos)
	return nil
}

func (s *SystemPlayer) Terminate() {
	s.active.Wait()
}

// AudioAvailable reports whether a player command was found.
func (s *SystemPlayer) AudioAvailable() bool {
	return s.command != ""
}

func (s *SystemPlayer) Play(req Request) {
	if s.command == "" {
		return
	}
	s.active.Add(1)
	go func() {
		defer s.active.Done()
		if err := s.playFile(req); err != nil {
			log.Debug(log.CatAudio, "Audio playback failed", "key", req.Key, "error", err)
		}
	}()
}

func (s *SystemPlayer) playFile(req Request) error {
	payload := req.Payload
	if !takesVolume(s.goos, s.command) {
		var err error
		if payload, err = prerender(payload, req.Volume); err != nil {
			return fmt.Errorf("levelling sound: %w", err)
		}
	}

	ext := "." + audio.Sniff(payload).String()
	tmp, err := os.CreateTemp("", "animalese-*"+ext)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Debug(log.CatAudio, "Failed to remove temp file", "path", path, "error", err)
		}
	}()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	return s.run(s.command, buildArgs(s.goos, s.command, path, req.Volume)...)
}

// takesVolume reports whether the player command has a volume option.
func takesVolume(goos, command string) bool {
	return goos == "windows" || goos == "darwin" || isCommand(command, "paplay")
}

// prerender decodes payload and encodes it again as WAV at the given linear
// level, for players that can neither scale volume nor decode MP3.
func prerender(payload []byte, volume float64) ([]byte, error) {
	clip, err := audio.Decode(payload)
	if err != nil {
		return nil, err
	}
	return audio.EncodeWAV(levelled(clip.Streamer(), volume), clip.Format())
}

// buildArgs returns the player arguments for path at the given level.
// aplay has no volume option; its payload is levelled by prerender.
func buildArgs(goos, command, path string, volume float64) []string {
	volume = clampVolume(volume)
	switch {
	case goos == "windows":
		quoted := strings.ReplaceAll(path, "'", "''")
		script := fmt.Sprintf("$p = New-Object System.Windows.Media.MediaPlayer; $p.Open('%s'); $p.Volume = %s; $p.Play(); Start-Sleep -Milliseconds 1500",
			quoted, strconv.FormatFloat(volume, 'f', 2, 64))
		return []string{"-NoProfile", "-c", "Add-Type -AssemblyName PresentationCore; " + script}
	case goos == "darwin":
		return []string{"-v", strconv.FormatFloat(volume, 'f', 2, 64), path}
	case isCommand(command, "paplay"):
		// 65536 is 100% for PulseAudio
		return []string{"--volume=" + strconv.Itoa(int(volume*65536)), path}
	default:
		return []string{"-q", path}
	}
}

func isCommand(path, name string) bool {
	return filepath.Base(path) == name
}

// detectAudioCommand returns the player command for goos, or "" if none is
// installed.
func detectAudioCommand(goos string, lookPath func(string) (string, error)) string {
	var candidates []string
	switch goos {
	case "darwin":
		candidates = []string{"afplay"}
	case "linux", "freebsd", "openbsd":
		candidates = []string{"paplay", "aplay"}
	case "windows":
		candidates = []string{"powershell.exe"}
	}
	for _, c := range candidates {
		if path, err := lookPath(c); err == nil {
			return path
		}
	}
	return ""
}
