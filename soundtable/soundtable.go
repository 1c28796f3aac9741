// Package soundtable holds the immutable key to payload table and loads it
// from sound table files or directories of clips.
package soundtable

import (
	"encoding/base64"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/d1nch8g/animalese/log"
)

var ErrInvalidPayload = errors.New("invalid payload")

// Table maps sound keys to encoded audio payloads. It never changes after
// construction; a nil *Table is an empty table.
type Table struct {
	entries map[string][]byte
}

// New builds a table from a copy of entries.
func New(entries map[string][]byte) *Table {
	t := &Table{entries: make(map[string][]byte, len(entries))}
	for k, v := range entries {
		t.entries[k] = slices.Clone(v)
	}
	return t
}

// Get returns the payload stored under key. The payload must not be modified.
func (t *Table) Get(key string) ([]byte, bool) {
	if t == nil {
		return nil, false
	}
	p, ok := t.entries[key]
	return p, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Keys returns all keys in sorted order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.entries))
}

// Merge combines tables; entries of later tables replace earlier ones.
func Merge(tables ...*Table) *Table {
	merged := &Table{entries: make(map[string][]byte)}
	for _, t := range tables {
		if t == nil {
			continue
		}
		maps.Copy(merged.entries, t.entries)
	}
	return merged
}

// DecodePayload decodes a data URI ("data:audio/mpeg;base64,...") or a bare
// base64 string.
func DecodePayload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, data, found := strings.Cut(rest, ",")
		if !found {
			return nil, fmt.Errorf("%w: data URI without comma", ErrInvalidPayload)
		}
		if !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("%w: data URI is not base64 encoded", ErrInvalidPayload)
		}
		s = data
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPayload)
	}

	payload, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some exporters drop the padding.
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
			return raw, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return payload, nil
}

// Load reads a table from a sound table file or a directory of clips.
func Load(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading sound table: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadFile reads a YAML or JSON object mapping keys to data URIs or base64.
// Entries whose payload cannot be decoded are skipped, so those keys stay
// silent; only an unreadable or unparseable file is an error.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sound table: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing sound table %s: %w", path, err)
	}

	entries := make(map[string][]byte, len(raw))
	for key, value := range raw {
		payload, err := DecodePayload(value)
		if err != nil {
			log.Warn(log.CatConfig, "Skipping sound table entry", "file", path, "key", key, "error", err)
			continue
		}
		entries[key] = payload
	}
	return &Table{entries: entries}, nil
}

var clipExtensions = []string{".wav", ".mp3"}

// LoadDir reads every .wav and .mp3 file in dir; the file name without its
// extension is the key. Other files are skipped.
func LoadDir(dir string) (*Table, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sound directory: %w", err)
	}

	entries := make(map[string][]byte)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if !slices.Contains(clipExtensions, ext) {
			continue
		}
		payload, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading sound %s: %w", f.Name(), err)
		}
		entries[strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))] = payload
	}
	return &Table{entries: entries}, nil
}
