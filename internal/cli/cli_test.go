package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	configPath  = "/config.yaml"
	sessionPath = "/session/Session.sublime_session"
	descriptor  = "/ws/game/game.sublime-project"
	probe       = "haxe -main Nothing -v --no-output"
)

const sessionTwoWindows = `{
	"windows": [
		{"window_id": 1, "workspace_name": "/ws/game/game.sublime-project"},
		{"window_id": 2}
	]
}`

func setupFS(t *testing.T, serverMode bool) *filesystem.MockFileSystem {
	t.Helper()

	fs := filesystem.NewMockFileSystem()
	cfg := "session:\n  dir: /session\nsettings:\n  path: /settings.json\nhaxe:\n  use_server_mode: false\n"
	if serverMode {
		cfg = strings.Replace(cfg, "use_server_mode: false", "use_server_mode: true", 1)
	}
	fs.AddFile(configPath, []byte(cfg))
	fs.AddFile(sessionPath, []byte(sessionTwoWindows))
	fs.AddFile(descriptor, []byte(`{"folders": [{"path": "."}]}`))
	return fs
}

func runCLI(t *testing.T, fs filesystem.FileSystem, runner process.Runner, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand(fs, runner)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func lineContaining(t *testing.T, output, substr string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	t.Fatalf("no line containing %q in:\n%s", substr, output)
	return ""
}

func TestResolve_ProjectWindow(t *testing.T) {
	fs := setupFS(t, false)

	stdout, _, err := runCLI(t, fs, process.NewMockRunner(), "resolve", "--window", "1")
	require.NoError(t, err)

	require.Contains(t, stdout, "identity: "+descriptor)
	require.Contains(t, stdout, "port:     6000")
	require.Contains(t, stdout, "dir:      /ws/game")
	require.Contains(t, stdout, "folder:   /ws/game")
}

func TestResolve_GlobalWindowJSON(t *testing.T) {
	fs := setupFS(t, false)

	stdout, _, err := runCLI(t, fs, process.NewMockRunner(), "resolve", "--window", "2", "--json")
	require.NoError(t, err)

	var output ResolveOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))
	require.Equal(t, ResolveOutput{
		Window:     2,
		Identity:   "global2",
		Global:     true,
		Port:       6000,
		ProjectDir: "/workspace",
		Folders:    []string{"/workspace"},
	}, output)
}

func TestResolve_DefaultsToFirstWindow(t *testing.T) {
	fs := setupFS(t, false)

	stdout, _, err := runCLI(t, fs, process.NewMockRunner(), "resolve")
	require.NoError(t, err)
	require.Contains(t, stdout, "window:   1\n")
}

func TestResolve_WithoutSession(t *testing.T) {
	fs := setupFS(t, false)
	require.NoError(t, fs.Remove(sessionPath))

	stdout, _, err := runCLI(t, fs, process.NewMockRunner(), "resolve")
	require.NoError(t, err)
	require.Contains(t, stdout, "identity: global0")
	require.Contains(t, stdout, "folder:   /workspace")
}

func TestResolve_UnknownWindow(t *testing.T) {
	fs := setupFS(t, false)

	_, _, err := runCLI(t, fs, process.NewMockRunner(), "resolve", "--window", "9")
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Contains(t, err.Error(), "window 9")
}

func TestResolve_DoesNotProbeCompiler(t *testing.T) {
	fs := setupFS(t, false)
	runner := process.NewMockRunner()

	_, _, err := runCLI(t, fs, runner, "resolve")
	require.NoError(t, err)
	require.Empty(t, runner.Calls())
}

func addGameBuilds(fs *filesystem.MockFileSystem) {
	fs.AddFile("/ws/game/a.hxml", []byte("-main A\n-js bin/a.js\n"))
	fs.AddFile("/ws/game/b.hxml", []byte("-main B\n-js bin/b.js\n"))
}

func TestBuilds(t *testing.T) {
	fs := setupFS(t, false)
	addGameBuilds(fs)

	previous := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(previous) })

	stdout, _, err := runCLI(t, fs, process.NewMockRunner(), "builds", "-w", "1")
	require.NoError(t, err)

	require.Equal(t, "Builds\n"+
		"→ 0  A (js: bin/a.js)  a.hxml\n"+
		"  1  B (js: bin/b.js)  b.hxml\n", stdout)
	require.True(t, strings.HasPrefix(lineContaining(t, stdout, "a.hxml"), "→"))
	snaps.MatchSnapshot(t, stdout)
}

func TestBuilds_None(t *testing.T) {
	fs := setupFS(t, false)

	stdout, _, err := runCLI(t, fs, process.NewMockRunner(), "builds", "-w", "1")
	require.NoError(t, err)
	require.Contains(t, stdout, "No hxml or nmml file found")
	require.False(t, fs.Exists("/ws/game/build.hxml"))
}

func TestSelect_IndexIsRemembered(t *testing.T) {
	fs := setupFS(t, false)
	addGameBuilds(fs)

	stdout, stderr, err := runCLI(t, fs, process.NewMockRunner(), "select", "-w", "1", "--index", "1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(lineContaining(t, stdout, "b.hxml"), "→"))
	require.Contains(t, stderr, "Please select your build")
	require.Contains(t, stderr, "haxe-build: B (js: bin/b.js)")

	stdout, _, err = runCLI(t, fs, process.NewMockRunner(), "builds", "-w", "1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(lineContaining(t, stdout, "b.hxml"), "→"))
	require.False(t, strings.HasPrefix(lineContaining(t, stdout, "a.hxml"), "→"))
}

func TestSelect_OutOfRangeCancels(t *testing.T) {
	fs := setupFS(t, false)
	addGameBuilds(fs)

	stdout, stderr, err := runCLI(t, fs, process.NewMockRunner(), "select", "-w", "1", "--index", "5")
	require.NoError(t, err)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "Selection cancelled")
	require.False(t, fs.Exists("/settings.json"))
}

func TestSelect_SingleBuild(t *testing.T) {
	fs := setupFS(t, false)
	fs.AddFile("/ws/game/build.hxml", []byte("-main Game\n-js bin/game.js\n"))

	stdout, stderr, err := runCLI(t, fs, process.NewMockRunner(), "select", "-w", "1")
	require.NoError(t, err)
	require.Contains(t, stderr, "There is only one build")
	require.Contains(t, stdout, "Game (js: bin/game.js)")
}

func TestSelect_PackagedBuildVariant(t *testing.T) {
	fs := setupFS(t, false)
	fs.AddFile("/ws/game/game.nmml", []byte(`<project><app main="Game" file="game" path="bin"/></project>`))

	stdout, stderr, err := runCLI(t, fs, process.NewMockRunner(), "select", "-w", "1", "--variant", "2")
	require.NoError(t, err)
	require.Contains(t, stderr, "Please select a NME target")
	require.Contains(t, stdout, "[HTML5 - test]")
}

func TestSelect_CreatesBuildFileForSource(t *testing.T) {
	fs := setupFS(t, false)
	require.NoError(t, fs.Remove(sessionPath))
	fs.AddFile("/workspace/src/app/Main.hx", []byte("package app;\n\nclass Main {}\n"))

	stdout, stderr, err := runCLI(t, fs, process.NewMockRunner(), "select", "--file", "src/app/Main.hx")
	require.NoError(t, err)
	require.Contains(t, stderr, "No hxml or nmml file found")
	require.Contains(t, stderr, "Created /workspace/src/app/build.hxml")
	require.Contains(t, stdout, "app.Main")

	content, err := fs.ReadFile("/workspace/src/app/build.hxml")
	require.NoError(t, err)
	require.Contains(t, string(content), "-main app.Main\n")
	require.Contains(t, string(content), "-js ")
}

func TestGenerate_Stdout(t *testing.T) {
	fs := setupFS(t, false)
	require.NoError(t, fs.Remove(sessionPath))
	fs.AddFile("/workspace/src/app/Main.hx", []byte("package app;\n\nclass Main {}\n"))

	stdout, _, err := runCLI(t, fs, process.NewMockRunner(), "generate", "--file", "/workspace/src/app/Main.hx", "--stdout")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "# Autogenerated build.hxml\n"))
	require.Contains(t, stdout, "-main app.Main\n")
	require.False(t, fs.Exists("/workspace/src/build.hxml"))
}

func TestGenerate_WritesFile(t *testing.T) {
	fs := setupFS(t, false)
	require.NoError(t, fs.Remove(sessionPath))
	fs.AddFile("/workspace/src/app/Main.hx", []byte("package app;\n\nclass Main {}\n"))

	stdout, _, err := runCLI(t, fs, process.NewMockRunner(), "generate", "--file", "/workspace/src/app/Main.hx")
	require.NoError(t, err)
	require.Equal(t, "✓ Wrote /workspace/src/build.hxml\n", stdout)
	require.True(t, fs.Exists("/workspace/src/build.hxml"))
}

func TestGenerate_ExistingBuildFile(t *testing.T) {
	fs := setupFS(t, false)
	fs.AddFile("/ws/game/build.hxml", []byte("-main Game\n-js bin/game.js\n"))

	_, _, err := runCLI(t, fs, process.NewMockRunner(), "generate", "-w", "1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "/ws/game/build.hxml is not empty")
}

func TestGenerate_NoBuild(t *testing.T) {
	fs := setupFS(t, false)

	_, _, err := runCLI(t, fs, process.NewMockRunner(), "generate", "-w", "1")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestRun(t *testing.T) {
	fs := setupFS(t, false)
	fs.AddFile("/ws/game/build.hxml", []byte("-main Game\n-js bin/game.js\n"))
	runner := process.NewMockRunner()
	runner.On("haxe -main Game -js bin/game.js", process.Result{Stdout: "compiled\n", Stderr: "Warning: deprecated\n"})

	stdout, stderr, err := runCLI(t, fs, runner, "run", "-w", "1")
	require.NoError(t, err)
	require.Equal(t, "compiled\n", stdout)
	require.Contains(t, stderr, "Warning: deprecated")
	require.Contains(t, stderr, "haxe-status: build finished")

	calls := runner.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, probe, calls[0].String())
	require.Equal(t, "/ws/game", calls[1].Dir)
	require.Empty(t, runner.Started())
}

func TestRun_ServerMode(t *testing.T) {
	fs := setupFS(t, true)
	fs.AddFile("/ws/game/build.hxml", []byte("-main Game\n-js bin/game.js\n"))
	runner := process.NewMockRunner()
	runner.On(probe, process.Result{Stdout: "Classpath : /std;.\nhaxe_209\n"})

	_, _, err := runCLI(t, fs, runner, "run", "-w", "1")
	require.NoError(t, err)

	started := runner.Started()
	require.Len(t, started, 1)
	require.Equal(t, []string{"--wait", "6000"}, started[0].Command.Args)
	require.Equal(t, "/ws/game", started[0].Command.Dir)
	require.Equal(t, 1, started[0].Stops(), "server stopped when the command exits")

	calls := runner.Calls()
	require.Equal(t, "haxe -main Game -js bin/game.js --connect 6000", calls[len(calls)-1].String())
}

func TestRun_Failure(t *testing.T) {
	fs := setupFS(t, false)
	fs.AddFile("/ws/game/build.hxml", []byte("-main Game\n-js bin/game.js\n"))
	runner := process.NewMockRunner()
	runner.Fail("haxe -main Game -js bin/game.js",
		process.Result{Stderr: "src/Game.hx:3: characters 1-4 : Unexpected foo\n", ExitCode: 1},
		io.ErrUnexpectedEOF)

	_, stderr, err := runCLI(t, fs, runner, "run", "-w", "1")
	require.ErrorIs(t, err, models.ErrProcess)
	require.Contains(t, stderr, "Unexpected foo")
	require.Contains(t, stderr, "Build failed")
}

func TestRun_NoBuild(t *testing.T) {
	fs := setupFS(t, false)

	_, stderr, err := runCLI(t, fs, process.NewMockRunner(), "run", "-w", "1")
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Contains(t, stderr, "No build")
}

func TestRun_PackagedVariant(t *testing.T) {
	fs := setupFS(t, false)
	fs.AddFile("/ws/game/game.nmml", []byte(`<project><app main="Game" file="game" path="bin"/></project>`))
	runner := process.NewMockRunner()

	_, _, err := runCLI(t, fs, runner, "run", "-w", "1", "--variant", "2")
	require.NoError(t, err)

	calls := runner.Calls()
	last := calls[len(calls)-1]
	require.Equal(t, "haxelib run nme test game.nmml html5 -debug", last.String())
	require.Equal(t, "/ws/game", last.Dir)
}

func TestRun_InvalidVariant(t *testing.T) {
	fs := setupFS(t, false)

	_, _, err := runCLI(t, fs, process.NewMockRunner(), "run", "-w", "1", "--variant", "99")
	require.Error(t, err)
	require.Contains(t, err.Error(), "--variant must be between 0 and")
}

func setupCompiler(fs *filesystem.MockFileSystem, runner *process.MockRunner) {
	fs.AddFile("/std/Std.hx", []byte("class Std {}\n"))
	fs.AddFile("/std/haxe/Timer.hx", []byte("package haxe;\n\nclass Timer {}\n"))
	runner.On(probe, process.Result{Stdout: "Classpath : /std;.\nhaxe_209\n"})
}

func TestInfo(t *testing.T) {
	fs := setupFS(t, true)
	runner := process.NewMockRunner()
	setupCompiler(fs, runner)

	stdout, _, err := runCLI(t, fs, runner, "info", "-w", "1")
	require.NoError(t, err)
	require.Contains(t, stdout, descriptor)
	require.Contains(t, stdout, "209")
	require.Contains(t, stdout, "port 6000, server mode true")
	require.Contains(t, stdout, "/std")
	require.Contains(t, stdout, "haxe")
}

func TestInfo_Complete(t *testing.T) {
	fs := setupFS(t, false)
	runner := process.NewMockRunner()
	setupCompiler(fs, runner)

	stdout, _, err := runCLI(t, fs, runner, "info", "-w", "1", "--complete", "i")
	require.NoError(t, err)
	require.Equal(t, "Int\nIterable\nIterator\n", stdout)

	stdout, _, err = runCLI(t, fs, runner, "info", "-w", "1", "--complete", "haxe.")
	require.NoError(t, err)
	require.Equal(t, "haxe.Timer\n", stdout)
}

func TestInfo_ProbeFailure(t *testing.T) {
	fs := setupFS(t, false)
	runner := process.NewMockRunner()
	runner.Fail(probe, process.Result{ExitCode: 127}, io.EOF)

	stdout, _, err := runCLI(t, fs, runner, "info", "-w", "1")
	require.NoError(t, err)
	require.Contains(t, stdout, "unknown")
	require.Contains(t, stdout, "process error")
}

func TestInvalidLogLevel(t *testing.T) {
	fs := setupFS(t, false)

	_, _, err := runCLI(t, fs, process.NewMockRunner(), "--log-level", "loud", "resolve")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid --log-level")
}

func TestRefreshProjects(t *testing.T) {
	fs := setupFS(t, false)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetErr(io.Discard)

	env, err := newEnvironment(cmd, fs, process.NewMockRunner(), &globalOptions{configPath: configPath, windowID: -1}, withoutCompilerProbe())
	require.NoError(t, err)
	defer env.close(context.Background())

	var out bytes.Buffer
	known := make(map[models.ProjectIdentity]int)

	refreshProjects(context.Background(), env, &out, known)
	require.Equal(t, "+ window 1  "+descriptor+"  port 6000\n+ window 2  global2  port 6001\n", out.String())

	out.Reset()
	refreshProjects(context.Background(), env, &out, known)
	require.Empty(t, out.String())

	fs.AddFile(sessionPath, []byte(`{"windows": [{"window_id": 1, "workspace_name": "/ws/game/game.sublime-project"}]}`))
	fs.SetModTime(sessionPath, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	out.Reset()
	refreshProjects(context.Background(), env, &out, known)
	require.Equal(t, "- global2  port 6001\n", out.String())
	require.Len(t, env.registry.Projects(), 1)
}
