// Package session derives a stable project identity for an editor window
// from the editor's persisted session file.
package session

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
)

// Session file names inside the editor's settings directory. The autosave
// variant is preferred when present.
const (
	AutoSaveSessionFile = "Auto Save Session.sublime_session"
	SessionFile         = "Session.sublime_session"
)

// Store reads session files. Missing files are reported with an error
// satisfying errors.Is(err, fs.ErrNotExist).
type Store interface {
	ModTime(path string) (time.Time, error)
	Read(path string) ([]byte, time.Time, error)
}

// FileStore reads session files through a FileSystem.
type FileStore struct {
	fs filesystem.FileSystem
}

// NewFileStore creates a FileStore.
func NewFileStore(fs filesystem.FileSystem) *FileStore {
	return &FileStore{fs: fs}
}

func (s *FileStore) ModTime(path string) (time.Time, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *FileStore) Read(path string) ([]byte, time.Time, error) {
	mtime, err := s.ModTime(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read session %s: %w", path, err)
	}
	return data, mtime, nil
}

// Locate returns the session file to read in dir, preferring the autosave
// variant. ok is false when neither exists.
func Locate(fs filesystem.FileSystem, dir string) (string, bool) {
	autoSave := filepath.Join(dir, AutoSaveSessionFile)
	if fs.Exists(autoSave) {
		return autoSave, true
	}
	regular := filepath.Join(dir, SessionFile)
	if fs.Exists(regular) {
		return regular, true
	}
	return "", false
}
