// Package cli implements the hxproject command line.
package cli

import (
	"context"
	"fmt"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem, runner process.Runner) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "hxproject",
		Short: "Resolve Haxe projects, builds and compiler servers of editor windows",
		Long: `hxproject maps the windows of a Sublime Text session to their Haxe
projects, discovers and selects their hxml/nmml builds, runs them and
reports what the compiler knows about each project.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default ~/.config/hxproject/config.yaml)")
	flags.IntVarP(&opts.windowID, "window", "w", -1, "Session window id (default: first window of the session)")
	flags.StringVarP(&opts.file, "file", "f", "", "File the command acts on (default: the window's project file)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Override log.level")

	rootCmd.AddCommand(NewResolveCommand(fs, runner, opts))
	rootCmd.AddCommand(NewBuildsCommand(fs, runner, opts))
	rootCmd.AddCommand(NewSelectCommand(fs, runner, opts))
	rootCmd.AddCommand(NewRunCommand(fs, runner, opts))
	rootCmd.AddCommand(NewInfoCommand(fs, runner, opts))
	rootCmd.AddCommand(NewGenerateCommand(fs, runner, opts))
	rootCmd.AddCommand(NewWatchCommand(fs, runner, opts))

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	fs := filesystem.NewOSFileSystem()
	runner := process.NewOSRunner()

	rootCmd := NewRootCommand(fs, runner)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
