package cli

import (
	"fmt"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	fs     filesystem.FileSystem
	runner process.Runner
	opts   *globalOptions
}

// NewRunCommand creates a new run command
func NewRunCommand(fs filesystem.FileSystem, runner process.Runner, opts *globalOptions) *cobra.Command {
	cmd := &RunCommand{
		fs:     fs,
		runner: runner,
		opts:   opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the current build",
		Long: `Runs the current build of the file. Haxe source files without a selected
build are compiled on their own to JavaScript. nmml builds are packaged with
'haxelib run nme' for the chosen target.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().Int("variant", -1, "NME target index for nmml builds (see 'hxproject select')")

	return cobraCmd
}

// Run executes the run command
func (c *RunCommand) Run(cmd *cobra.Command, args []string) error {
	variant, _ := cmd.Flags().GetInt("variant")
	ctx := cmd.Context()

	env, err := newEnvironment(cmd, c.fs, c.runner, c.opts)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	p, err := env.project(ctx)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("variant") && !p.Builds().SetVariant(variant) {
		return fmt.Errorf("--variant must be between 0 and %d", len(models.PackageVariants)-1)
	}

	result, err := p.RunBuild(ctx, env.view)
	if result.Stdout != "" {
		fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}
