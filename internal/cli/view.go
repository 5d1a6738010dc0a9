package cli

import (
	"github.com/jakoblorz/go-hxproject/internal/editor"
	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/settings"
)

// fileView is a view on a file on disk. Its settings live in the settings
// store.
type fileView struct {
	fs       filesystem.FileSystem
	path     string
	window   editor.Window
	settings editor.Settings
}

func newFileView(fs filesystem.FileSystem, path string, window editor.Window, store *settings.Store) *fileView {
	return &fileView{
		fs:       fs,
		path:     path,
		window:   window,
		settings: store.For(path),
	}
}

func (v *fileView) FileName() string { return v.path }

func (v *fileView) Window() editor.Window { return v.window }

// Text is "" for missing files.
func (v *fileView) Text() string {
	data, err := v.fs.ReadFile(v.path)
	if err != nil {
		return ""
	}
	return string(data)
}

func (v *fileView) Size() int                 { return len(v.Text()) }
func (v *fileView) IsHaxeSource() bool        { return editor.IsHaxeSourceFile(v.path) }
func (v *fileView) IsBuildFile() bool         { return editor.IsBuildFile(v.path) }
func (v *fileView) Settings() editor.Settings { return v.settings }

// Save is a no-op; the file on disk is the only copy.
func (v *fileView) Save() error { return nil }
