package session

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/jakoblorz/go-hxproject/internal/editor"
	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/tidwall/gjson"
)

// Host reconstructs the editor's open windows from the session file so the
// project layer can run outside the editor.
type Host struct {
	fs       filesystem.FileSystem
	dir      string
	resolver *Resolver
	fallback []string
	active   int
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithFallbackFolders sets the folders of windows without a project
// descriptor.
func WithFallbackFolders(folders ...string) HostOption {
	return func(h *Host) {
		h.fallback = folders
	}
}

// WithActiveWindow marks the window with id as active.
func WithActiveWindow(id int) HostOption {
	return func(h *Host) {
		h.active = id
	}
}

// NewHost creates a host reading the session in the resolver's directory.
func NewHost(fs filesystem.FileSystem, resolver *Resolver, options ...HostOption) *Host {
	h := &Host{
		fs:       fs,
		dir:      resolver.dir,
		resolver: resolver,
		active:   -1,
	}

	for _, option := range options {
		option(h)
	}

	return h
}

// WindowIDs lists the window ids recorded in the session in ascending order.
func (h *Host) WindowIDs() []int {
	sessionPath, ok := Locate(h.fs, h.dir)
	if !ok {
		return nil
	}
	data, err := h.fs.ReadFile(sessionPath)
	if err != nil {
		return nil
	}

	var ids []int
	gjson.GetBytes(data, "windows.#.window_id").ForEach(func(_, id gjson.Result) bool {
		if id.Type == gjson.Number {
			ids = append(ids, int(id.Int()))
		}
		return true
	})
	sort.Ints(ids)
	return ids
}

func (h *Host) Windows() []editor.Window {
	ids := h.WindowIDs()
	windows := make([]editor.Window, 0, len(ids))
	for _, id := range ids {
		windows = append(windows, h.window(id))
	}
	return windows
}

func (h *Host) ActiveWindow() editor.Window {
	ids := h.WindowIDs()
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if id == h.active {
			return h.window(id)
		}
	}
	return h.window(ids[0])
}

// Window returns the window with id, or nil when the session lacks it.
func (h *Host) Window(id int) editor.Window {
	for _, known := range h.WindowIDs() {
		if known == id {
			return h.window(id)
		}
	}
	return nil
}

func (h *Host) window(id int) *Window {
	w := &Window{id: id, fs: h.fs}
	if descriptor, ok := h.resolver.Resolve(context.Background(), id); ok {
		w.folders = ProjectFolders(h.fs, descriptor)
	}
	if len(w.folders) == 0 {
		w.folders = h.fallback
	}
	return w
}

// Window is a session window.
type Window struct {
	id      int
	fs      filesystem.FileSystem
	folders []string
}

// NewWindow creates a window that is not backed by a session entry.
func NewWindow(fs filesystem.FileSystem, id int, folders ...string) *Window {
	return &Window{id: id, fs: fs, folders: folders}
}

func (w *Window) ID() int           { return w.id }
func (w *Window) Folders() []string { return w.folders }

// OpenTransient creates the file when missing; there is no buffer to show.
func (w *Window) OpenTransient(path string) error {
	if w.fs.Exists(path) {
		return nil
	}
	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return w.fs.WriteFile(path, nil, 0o644)
}

// ProjectFolders reads the "folders" of a project descriptor, resolving
// relative paths against the descriptor's directory.
func ProjectFolders(fs filesystem.FileSystem, descriptor string) []string {
	data, err := fs.ReadFile(descriptor)
	if err != nil {
		return nil
	}

	base := filepath.Dir(descriptor)
	var folders []string
	gjson.GetBytes(data, "folders.#.path").ForEach(func(_, p gjson.Result) bool {
		folder := p.String()
		if folder == "" {
			return true
		}
		if !filepath.IsAbs(folder) {
			folder = filepath.Join(base, folder)
		}
		folders = append(folders, filepath.Clean(folder))
		return true
	})
	return folders
}
