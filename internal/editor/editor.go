// Package editor defines the narrow view of the host editor the project
// layer consumes: windows, views, per-view settings, status notifications
// and the interactive chooser.
package editor

import (
	"context"
	"path/filepath"
	"strings"
)

// Host enumerates the editor's open windows.
type Host interface {
	Windows() []Window
	ActiveWindow() Window
}

// Window is one editor window.
type Window interface {
	ID() int

	// Folders are the root folders open in the window, in sidebar order.
	Folders() []string

	// OpenTransient opens path as a preview buffer, creating it if needed.
	OpenTransient(path string) error
}

// View is one buffer in a window.
type View interface {
	FileName() string

	// Window is nil for views that were detached from their window.
	Window() Window

	Text() string
	Size() int

	// IsHaxeSource reports whether the buffer is a Haxe source file.
	IsHaxeSource() bool

	// IsBuildFile reports whether the buffer is an hxml build file.
	IsBuildFile() bool

	Save() error
	Settings() Settings
}

// Settings are small key-value pairs scoped to one buffer that survive
// editor restarts.
type Settings interface {
	Int(key string) (int, bool)
	String(key string) (string, bool)
	StringMap(key string) map[string]string
	SetInt(key string, value int) error
}

// Notifier is the status bar and output panel.
type Notifier interface {
	// StatusMessage shows a transient message.
	StatusMessage(msg string)

	// SetStatus sets the keyed status bar entry.
	SetStatus(key, value string)

	// Writeln appends a line to the output panel.
	Writeln(msg string)
}

// Chooser presents labeled rows and reports the chosen index
// asynchronously. done receives ok=false when the user cancels. done may be
// invoked before Choose returns.
type Chooser interface {
	Choose(ctx context.Context, title string, rows [][]string, done func(index int, ok bool))
}

// Setting keys shared with the host.
const (
	SettingBuildID  = "haxe-build-id"
	SettingHaxePath = "haxe_path"
	SettingBuildEnv = "build_env"
)

// Status keys shared with the host.
const (
	StatusBuild  = "haxe-build"
	StatusResult = "haxe-status"
)

// IsHaxeSourceFile reports whether path names a Haxe source file.
func IsHaxeSourceFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".hx")
}

// IsBuildFile reports whether path names an hxml build file.
func IsBuildFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".hxml")
}

// WindowOf returns the view's window, falling back to the host's active one.
func WindowOf(host Host, view View) Window {
	if view != nil {
		if w := view.Window(); w != nil {
			return w
		}
	}
	return host.ActiveWindow()
}

// WindowIDs lists the ids of all open windows.
func WindowIDs(host Host) map[int]struct{} {
	ids := make(map[int]struct{})
	for _, w := range host.Windows() {
		ids[w.ID()] = struct{}{}
	}
	return ids
}
