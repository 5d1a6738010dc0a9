package cli

import (
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/spf13/cobra"
)

// GenerateCommand handles the generate command
type GenerateCommand struct {
	fs     filesystem.FileSystem
	runner process.Runner
	opts   *globalOptions
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(fs filesystem.FileSystem, runner process.Runner, opts *globalOptions) *cobra.Command {
	cmd := &GenerateCommand{
		fs:     fs,
		runner: runner,
		opts:   opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the build file of the current build",
		Long: `Writes the hxml file of the current build when it does not exist yet or is
empty. For a Haxe source file without a build, the build.hxml of its
classpath is generated.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().Bool("stdout", false, "Print the build file instead of writing it")

	return cobraCmd
}

// Run executes the generate command
func (c *GenerateCommand) Run(cmd *cobra.Command, args []string) error {
	toStdout, _ := cmd.Flags().GetBool("stdout")
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

	if err := p.Builds().DiscoverAndSelect(ctx, env.window, env.view, false); err != nil {
		return fmt.Errorf("failed to discover builds: %w", err)
	}

	build := p.GetBuild(env.view)
	if build == nil || build.Descriptor == "" {
		return fmt.Errorf("%w: no build for %s", models.ErrNotFound, env.view.FileName())
	}

	content, ok := p.GenerateBuildFileContent(env.viewOf(build.Descriptor))
	if !ok {
		return fmt.Errorf("%s is not empty", build.Descriptor)
	}

	if toStdout {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	if err := env.fs.MkdirAll(filepath.Dir(build.Descriptor), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := env.fs.WriteFile(build.Descriptor, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", build.Descriptor, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", build.Descriptor)
	return nil
}
