package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/jakoblorz/go-hxproject/internal/project"
	"github.com/jakoblorz/go-hxproject/internal/session"
	"github.com/jakoblorz/go-hxproject/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// WatchCommand handles the watch command
type WatchCommand struct {
	fs     filesystem.FileSystem
	runner process.Runner
	opts   *globalOptions
}

// NewWatchCommand creates a new watch command
func NewWatchCommand(fs filesystem.FileSystem, runner process.Runner, opts *globalOptions) *cobra.Command {
	cmd := &WatchCommand{
		fs:     fs,
		runner: runner,
		opts:   opts,
	}

	return &cobra.Command{
		Use:   "watch",
		Short: "Track the projects of all session windows",
		Long: `Resolves the project of every window whenever the editor rewrites its
session. Projects of closed windows are released and their compiler servers
stopped. Runs until interrupted.`,
		RunE: cmd.Run,
	}
}

// Run executes the watch command
func (c *WatchCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := newEnvironment(cmd, c.fs, c.runner, c.opts, withRegistryOptions(project.WithAsyncProbe()))
	if err != nil {
		return err
	}
	defer env.close(ctx)

	out := cmd.OutOrStdout()
	known := make(map[models.ProjectIdentity]int)
	refreshProjects(ctx, env, out, known)

	watcher := session.NewWatcher(env.cfg.Session.Dir, env.logger.Named("watch"))
	return watcher.Watch(ctx, func(path string) {
		env.logger.Debug(ctx, "session rewritten", zap.String("path", path))
		refreshProjects(ctx, env, out, known)
	})
}

// refreshProjects resolves the project of every open window and prints the
// projects that appeared or were released since the last call. known maps
// the reported identities to their ports.
func refreshProjects(ctx context.Context, env *environment, out io.Writer, known map[models.ProjectIdentity]int) {
	for _, w := range env.host.Windows() {
		view := newFileView(env.fs, "", w, env.settings)
		if _, err := env.registry.Resolve(ctx, view); err != nil {
			env.logger.Warn(ctx, "failed to resolve project", zap.Int("window", w.ID()), zap.Error(err))
		}
	}

	live := make(map[models.ProjectIdentity]bool)
	for _, p := range env.registry.Projects() {
		live[p.Identity()] = true
		if _, ok := known[p.Identity()]; ok {
			continue
		}
		known[p.Identity()] = p.Port()
		fmt.Fprintf(out, "%s window %d  %s  port %d\n",
			tui.CurrentStyle.Render("+"), p.WindowID(), p.Identity(), p.Port())
	}

	for _, identity := range slices.Sorted(maps.Keys(known)) {
		if live[identity] {
			continue
		}
		fmt.Fprintf(out, "%s %s  port %d\n", tui.ErrorStyle.Render("-"), identity, known[identity])
		delete(known, identity)
	}
}
