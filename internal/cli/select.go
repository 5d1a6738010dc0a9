package cli

import (
	"fmt"

	"github.com/jakoblorz/go-hxproject/internal/buildreg"
	"github.com/jakoblorz/go-hxproject/internal/editor"
	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/logging"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/jakoblorz/go-hxproject/internal/project"
	"github.com/jakoblorz/go-hxproject/internal/tui"
	"github.com/spf13/cobra"
)

// SelectCommand handles the select command
type SelectCommand struct {
	fs     filesystem.FileSystem
	runner process.Runner
	opts   *globalOptions
}

// NewSelectCommand creates a new select command
func NewSelectCommand(fs filesystem.FileSystem, runner process.Runner, opts *globalOptions) *cobra.Command {
	cmd := &SelectCommand{
		fs:     fs,
		runner: runner,
		opts:   opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "select",
		Short: "Choose the current build",
		Long: `Discovers the builds of the window and asks which one to use. The choice is
remembered for the file. Without any build a build.hxml next to the file is
created from the file's package and class.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().IntP("index", "i", -1, "Choose the build at this index instead of asking")
	cobraCmd.Flags().Int("variant", -1, "Choose the NME target at this index instead of asking")

	return cobraCmd
}

// Run executes the select command
func (c *SelectCommand) Run(cmd *cobra.Command, args []string) error {
	index, _ := cmd.Flags().GetInt("index")
	variant, _ := cmd.Flags().GetInt("variant")
	ctx := cmd.Context()

	answers := make(map[string]int)
	if cmd.Flags().Changed("index") {
		answers[buildreg.BuildPromptTitle] = index
	}
	if cmd.Flags().Changed("variant") {
		answers[buildreg.VariantPromptTitle] = variant
	}

	env, err := newEnvironment(cmd, c.fs, c.runner, c.opts,
		withoutCompilerProbe(),
		withChooser(func(logger *logging.Logger) editor.Chooser {
			return &promptAnswers{answers: answers, fallback: tui.NewHuhChooser(logger)}
		}),
	)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	p, err := env.project(ctx)
	if err != nil {
		return err
	}

	if err := p.SelectBuild(ctx, env.view); err != nil {
		return fmt.Errorf("failed to select build: %w", err)
	}

	builds := p.Builds()
	if builds.State() == buildreg.StateCancelled {
		fmt.Fprintln(cmd.ErrOrStderr(), "Selection cancelled")
		return nil
	}

	if err := fillBuildFile(env, p); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), tui.RenderBuilds(builds.Builds(), builds.Current(), builds.Variant()))
	return nil
}

// fillBuildFile writes the hxml text of the current build into its
// descriptor while that file is still empty.
func fillBuildFile(env *environment, p *project.Project) error {
	current := p.Builds().Current()
	if current == nil || current.Descriptor == "" {
		return nil
	}

	content, ok := p.GenerateBuildFileContent(env.viewOf(current.Descriptor))
	if !ok {
		return nil
	}

	if err := env.fs.WriteFile(current.Descriptor, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", current.Descriptor, err)
	}
	env.notifier.StatusMessage("Created " + current.Descriptor)
	return nil
}
