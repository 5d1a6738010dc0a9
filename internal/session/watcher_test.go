package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsSessionWrites(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- NewWatcher(dir, nil).Watch(ctx, func(path string) {
			changes <- path
		})
	}()

	target := filepath.Join(dir, SessionFile)
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	// The watch is registered asynchronously; keep writing until seen.
	for seen := false; !seen; {
		select {
		case path := <-changes:
			require.Equal(t, target, path)
			seen = true
		case <-tick.C:
			require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))
			require.NoError(t, os.WriteFile(target, []byte(`{"windows": []}`), 0o644))
		case <-deadline:
			t.Fatal("no session change reported")
		}
	}

	cancel()
	require.NoError(t, <-done)
}

func TestIsSessionFile(t *testing.T) {
	require.True(t, isSessionFile("/x/"+AutoSaveSessionFile))
	require.True(t, isSessionFile(SessionFile))
	require.False(t, isSessionFile("/x/Session.sublime_session.tmp"))
}
