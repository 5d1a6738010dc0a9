package cli

import (
	"fmt"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/jakoblorz/go-hxproject/internal/tui"
	"github.com/spf13/cobra"
)

// InfoCommand handles the info command
type InfoCommand struct {
	fs     filesystem.FileSystem
	runner process.Runner
	opts   *globalOptions
}

// NewInfoCommand creates a new info command
func NewInfoCommand(fs filesystem.FileSystem, runner process.Runner, opts *globalOptions) *cobra.Command {
	cmd := &InfoCommand{
		fs:     fs,
		runner: runner,
		opts:   opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "info",
		Short: "Show what the compiler knows about a project",
		Long: `Probes the compiler of the project and prints its version, classpaths and
the classes and packages found on them.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().String("complete", "", "Print the known types starting with this prefix instead")

	return cobraCmd
}

// Run executes the info command
func (c *InfoCommand) Run(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	if cmd.Flags().Changed("complete") {
		prefix, _ := cmd.Flags().GetString("complete")
		for _, name := range p.CompleteTypes(prefix) {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	fmt.Fprint(out, tui.RenderInfo(p.Identity(), p.Port(), p.IsServerMode(), p.CompilerInfo()))
	return nil
}
