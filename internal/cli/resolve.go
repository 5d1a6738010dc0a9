package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/spf13/cobra"
)

// ResolveCommand handles the resolve command
type ResolveCommand struct {
	fs     filesystem.FileSystem
	runner process.Runner
	opts   *globalOptions
}

// ResolveOutput is the JSON form of the resolve command.
type ResolveOutput struct {
	Window     int      `json:"window"`
	Identity   string   `json:"identity"`
	Descriptor string   `json:"descriptor,omitempty"`
	Global     bool     `json:"global"`
	Port       int      `json:"port"`
	ProjectDir string   `json:"projectDir"`
	Folders    []string `json:"folders"`
}

// NewResolveCommand creates a new resolve command
func NewResolveCommand(fs filesystem.FileSystem, runner process.Runner, opts *globalOptions) *cobra.Command {
	cmd := &ResolveCommand{
		fs:     fs,
		runner: runner,
		opts:   opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the project of a window",
		Long: `Looks up the window in the editor session and prints its project identity:
the .sublime-project file, or a global identity for windows without one.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().Bool("json", false, "Output as JSON")

	return cobraCmd
}

// Run executes the resolve command
func (c *ResolveCommand) Run(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
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

	output := ResolveOutput{
		Window:     p.WindowID(),
		Identity:   p.Identity().String(),
		Descriptor: p.Descriptor(),
		Global:     p.Identity().IsGlobal(),
		Port:       p.Port(),
		ProjectDir: p.ProjectDir(env.cwd),
		Folders:    env.window.Folders(),
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "window:   %d\n", output.Window)
	fmt.Fprintf(out, "identity: %s\n", output.Identity)
	fmt.Fprintf(out, "port:     %d\n", output.Port)
	fmt.Fprintf(out, "dir:      %s\n", output.ProjectDir)
	for _, folder := range output.Folders {
		fmt.Fprintf(out, "folder:   %s\n", folder)
	}
	return nil
}
