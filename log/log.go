// Package log writes categorized, leveled log lines to a file so the
// terminal UI is never disturbed. Until Init is called everything is dropped.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// Category tags the subsystem a log line comes from.
type Category string

const (
	CatConfig Category = "config"
	CatAudio  Category = "audio"
	CatInput  Category = "input"
	CatUI     Category = "ui"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Init opens path for appending and routes all logging there.
// The returned func closes the file.
func Init(path string, level slog.Level) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	SetOutput(f, level)
	return f.Close, nil
}

// SetOutput routes logging to w.
func SetOutput(w io.Writer, level slog.Level) {
	logger.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// ParseLevel accepts debug, info, warn and error (any case).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return level, nil
}

func Debug(cat Category, msg string, kv ...any) {
	write(slog.LevelDebug, cat, msg, kv)
}

func Info(cat Category, msg string, kv ...any) {
	write(slog.LevelInfo, cat, msg, kv)
}

func Warn(cat Category, msg string, kv ...any) {
	write(slog.LevelWarn, cat, msg, kv)
}

func Error(cat Category, msg string, kv ...any) {
	write(slog.LevelError, cat, msg, kv)
}

func write(level slog.Level, cat Category, msg string, kv []any) {
	args := make([]any, 0, len(kv)+2)
	args = append(args, "cat", string(cat))
	args = append(args, kv...)
	logger.Load().Log(context.Background(), level, msg, args...)
}
