package session

import (
	"path/filepath"
	"testing"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/stretchr/testify/require"
)

func TestHost_WindowsFromSession(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile(filepath.Join(sessionDir, AutoSaveSessionFile), sessionJSON(`
		{"window_id": 4, "workspace_name": "/home/me/game/game.sublime-project"},
		{"window_id": 2}`))
	fs.AddFile("/home/me/game/game.sublime-project", []byte(`{
		"folders": [{"path": "src"}, {"path": "/shared/lib"}, {"follow_symlinks": true}]
	}`))

	r := NewResolver(fs, sessionDir, WithGOOS("linux"))
	host := NewHost(fs, r, WithFallbackFolders("/tmp/scratch"), WithActiveWindow(4))

	windows := host.Windows()
	require.Len(t, windows, 2)
	require.Equal(t, 2, windows[0].ID())
	require.Equal(t, []string{"/tmp/scratch"}, windows[0].Folders())
	require.Equal(t, 4, windows[1].ID())
	require.Equal(t, []string{"/home/me/game/src", "/shared/lib"}, windows[1].Folders())

	require.Equal(t, 4, host.ActiveWindow().ID())
	require.Nil(t, host.Window(9))
}

func TestHost_NoSession(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	host := NewHost(fs, NewResolver(fs, sessionDir))

	require.Empty(t, host.Windows())
	require.Nil(t, host.ActiveWindow())
}

func TestWindow_OpenTransientCreatesFile(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	w := &Window{id: 1, fs: fs}

	require.NoError(t, w.OpenTransient("/p/src/build.hxml"))
	require.True(t, fs.Exists("/p/src/build.hxml"))

	fs.AddFile("/p/src/build.hxml", []byte("-js out.js"))
	require.NoError(t, w.OpenTransient("/p/src/build.hxml"))
	data, err := fs.ReadFile("/p/src/build.hxml")
	require.NoError(t, err)
	require.Equal(t, "-js out.js", string(data))
}
