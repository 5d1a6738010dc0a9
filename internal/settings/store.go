// Package settings persists per-view settings in a JSON document keyed by
// file name, so that a view's selected build survives editor restarts.
package settings

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jakoblorz/go-hxproject/internal/editor"
	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Store is a JSON file of the form {"<file name>": {"<key>": value}}.
type Store struct {
	mu   sync.Mutex
	fs   filesystem.FileSystem
	path string
}

// NewStore creates a store backed by the JSON file at path.
func NewStore(fs filesystem.FileSystem, path string) *Store {
	return &Store{fs: fs, path: path}
}

// For returns the settings of one view.
func (s *Store) For(fileName string) editor.Settings {
	return &viewSettings{store: s, file: fileName}
}

func (s *Store) load() []byte {
	data, err := s.fs.ReadFile(s.path)
	if err != nil || !gjson.ValidBytes(data) {
		return []byte("{}")
	}
	return data
}

func (s *Store) get(file, key string) gjson.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gjson.GetBytes(s.load(), settingPath(file, key))
}

func (s *Store) set(file, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := sjson.SetBytes(s.load(), settingPath(file, key), value)
	if err != nil {
		return fmt.Errorf("failed to set %s for %s: %w", key, file, err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := s.fs.WriteFile(s.path, updated, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

type viewSettings struct {
	store *Store
	file  string
}

func (v *viewSettings) Int(key string) (int, bool) {
	r := v.store.get(v.file, key)
	if r.Type != gjson.Number {
		return 0, false
	}
	return int(r.Int()), true
}

func (v *viewSettings) String(key string) (string, bool) {
	r := v.store.get(v.file, key)
	if r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

func (v *viewSettings) StringMap(key string) map[string]string {
	r := v.store.get(v.file, key)
	if !r.IsObject() {
		return nil
	}
	out := make(map[string]string)
	r.ForEach(func(k, val gjson.Result) bool {
		out[k.String()] = val.String()
		return true
	})
	return out
}

func (v *viewSettings) SetInt(key string, value int) error {
	return v.store.set(v.file, key, value)
}

func settingPath(file, key string) string {
	return escapePath(file) + "." + escapePath(key)
}

// escapePath escapes a single path component for gjson/sjson.
func escapePath(component string) string {
	var b strings.Builder
	for _, r := range component {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
