package cli

import (
	"fmt"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/jakoblorz/go-hxproject/internal/tui"
	"github.com/spf13/cobra"
)

// BuildsCommand handles the builds command
type BuildsCommand struct {
	fs     filesystem.FileSystem
	runner process.Runner
	opts   *globalOptions
}

// NewBuildsCommand creates a new builds command
func NewBuildsCommand(fs filesystem.FileSystem, runner process.Runner, opts *globalOptions) *cobra.Command {
	cmd := &BuildsCommand{
		fs:     fs,
		runner: runner,
		opts:   opts,
	}

	return &cobra.Command{
		Use:   "builds",
		Short: "List the hxml and nmml builds of a window",
		Long: `Discovers the builds in the window's folders and marks the current one,
which is the build last chosen with 'hxproject select' for the file.`,
		RunE: cmd.Run,
	}
}

// Run executes the builds command
func (c *BuildsCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := newEnvironment(cmd, c.fs, c.runner, c.opts, withoutCompilerProbe())
	if err != nil {
		return err
	}
	defer env.close(ctx)

	p, err := env.project(ctx)
	if err != nil {
		return err
	}

	builds := p.Builds()
	if err := builds.DiscoverAndSelect(ctx, env.window, env.view, false); err != nil {
		return fmt.Errorf("failed to discover builds: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), tui.RenderBuilds(builds.Builds(), builds.Current(), builds.Variant()))
	return nil
}
