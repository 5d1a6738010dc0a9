// Package project ties a window's project identity to its builds, its
// compiler info and its compiler server.
package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/jakoblorz/go-hxproject/internal/buildfile"
	"github.com/jakoblorz/go-hxproject/internal/buildreg"
	"github.com/jakoblorz/go-hxproject/internal/compiler"
	"github.com/jakoblorz/go-hxproject/internal/completion"
	"github.com/jakoblorz/go-hxproject/internal/config"
	"github.com/jakoblorz/go-hxproject/internal/editor"
	"github.com/jakoblorz/go-hxproject/internal/logging"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/jakoblorz/go-hxproject/internal/server"
	"go.uber.org/zap"
)

// Deps are the collaborators shared by every project of a Registry.
type Deps struct {
	Config     *config.Config
	Host       editor.Host
	Runner     process.Runner
	Collector  *compiler.Collector
	Discoverer buildreg.Discoverer
	Chooser    editor.Chooser
	Notifier   editor.Notifier
	Logger     *logging.Logger
}

// Project is the per-identity state: builds, compiler info, completion
// cache and the compiler server.
type Project struct {
	identity    models.ProjectIdentity
	descriptor  string
	projectPath string
	windowID    int
	token       string

	deps       Deps
	logger     *logging.Logger
	server     *server.Server
	builds     *buildreg.Registry
	completion *completion.Context

	// live reports whether the project is still registered; nil means
	// always.
	live func(*Project) bool

	mu         sync.Mutex
	info       models.CompilerInfo
	generation string
	disposed   bool
}

// New creates a project. descriptor is "" for global projects. Compiler
// info is not collected until UpdateCompilerInfo.
func New(identity models.ProjectIdentity, descriptor string, windowID, port int, deps Deps) (*Project, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(
		zap.String("project", identity.String()),
		zap.String("instance", token),
		zap.Int("port", port),
	)

	p := &Project{
		identity:   identity,
		descriptor: descriptor,
		windowID:   windowID,
		token:      token,
		deps:       deps,
		logger:     logger,
		server:     server.New(port, deps.Runner, logger),
		completion: completion.NewContext(),
	}
	if descriptor != "" {
		p.projectPath = filepath.Clean(filepath.Dir(descriptor))
	}

	p.builds = buildreg.New(deps.Discoverer, deps.Chooser, deps.Notifier,
		buildreg.WithLogger(logger),
		buildreg.WithDefaultBuild(p.defaultBuild),
	)
	return p, nil
}

func (p *Project) Identity() models.ProjectIdentity { return p.identity }

// Descriptor is the project file, "" for global projects.
func (p *Project) Descriptor() string { return p.descriptor }

// WindowID is the window the project was created for.
func (p *Project) WindowID() int { return p.windowID }

// Port is the compiler server port.
func (p *Project) Port() int { return p.server.Port() }

// Token identifies this instance in logs.
func (p *Project) Token() string { return p.token }

// Builds exposes the build registry.
func (p *Project) Builds() *buildreg.Registry { return p.builds }

// ProjectDir is the directory of the project file, or def for global
// projects.
func (p *Project) ProjectDir(def string) string {
	if p.projectPath != "" {
		return p.projectPath
	}
	return def
}

// CompilerInfo returns the most recently collected compiler info.
func (p *Project) CompilerInfo() models.CompilerInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.info
}

// StdClasses are the builtin types followed by the discovered classes.
func (p *Project) StdClasses() []string {
	return p.CompilerInfo().StdClasses()
}

// CompleteTypes lists the known type names starting with prefix.
func (p *Project) CompleteTypes(prefix string) []string {
	return p.completion.Types(prefix, p.StdClasses)
}

// IsServerMode reports whether builds go through the compiler server.
func (p *Project) IsServerMode() bool {
	return p.CompilerInfo().SupportsServer() && p.deps.Config.Haxe.UseServerMode
}

// UpdateCompilerInfo probes the compiler and replaces the cached info.
func (p *Project) UpdateCompilerInfo(ctx context.Context) {
	generation, err := newToken()
	if err != nil {
		p.logger.Warn(ctx, "compiler info update skipped", zap.Error(err))
		return
	}
	p.mu.Lock()
	p.generation = generation
	p.mu.Unlock()

	p.applyInfo(ctx, generation, p.collect(ctx))
}

// UpdateCompilerInfoAsync probes the compiler in the background. The
// result is dropped when the project was disposed or replaced, or when a
// newer update started meanwhile. The returned channel is closed once the
// probe finished.
func (p *Project) UpdateCompilerInfoAsync(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	generation, err := newToken()
	if err != nil {
		p.logger.Warn(ctx, "compiler info update skipped", zap.Error(err))
		close(done)
		return done
	}
	p.mu.Lock()
	p.generation = generation
	p.mu.Unlock()

	go func() {
		defer close(done)
		p.applyInfo(ctx, generation, p.collect(ctx))
	}()
	return done
}

func (p *Project) collect(ctx context.Context) models.CompilerInfo {
	if p.deps.Collector == nil {
		return models.CompilerInfo{}
	}
	return p.deps.Collector.Collect(ctx, p.projectPath)
}

func (p *Project) applyInfo(ctx context.Context, generation string, info models.CompilerInfo) {
	if p.live != nil && !p.live(p) {
		p.logger.Debug(ctx, "dropping compiler info of released project")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed || p.generation != generation {
		p.logger.Debug(ctx, "dropping stale compiler info")
		return
	}
	p.info = info
	p.completion.Clear()
	p.logger.Debug(ctx, "compiler info updated",
		zap.Int("version", info.Version),
		zap.Bool("server_mode", info.SupportsServer() && p.deps.Config.Haxe.UseServerMode),
	)
}

// StartServer starts the compiler server for this project. It does
// nothing while the server is running.
func (p *Project) StartServer(ctx context.Context, view editor.View) error {
	exec := p.haxeExec(view)
	cwd := p.ProjectDir(".")
	env := p.env(view)

	p.logger.Debug(ctx, "starting compiler server", zap.String("cwd", cwd))
	if err := p.server.Start(ctx, exec, cwd, env); err != nil {
		p.deps.Notifier.StatusMessage("Failed to start the compiler server")
		return err
	}
	return nil
}

// ClearBuild forgets the current build and the completion cache.
func (p *Project) ClearBuild() {
	p.builds.Clear()
	p.completion.Clear()
}

// GetBuild returns the current build. Without one, a Haxe source view
// gets an ad hoc build for its file, which becomes current.
func (p *Project) GetBuild(view editor.View) *models.BuildConfig {
	if current := p.builds.Current(); current != nil {
		return current
	}
	if view == nil || !view.IsHaxeSource() {
		return nil
	}

	build := AdHocBuild(view.Text(), view.FileName(), p.folders(view))
	p.builds.SetCurrentBuild(build)
	return build
}

// SelectBuild saves a build file view and lets the user pick the current
// build.
func (p *Project) SelectBuild(ctx context.Context, view editor.View) error {
	if view.IsBuildFile() {
		if err := view.Save(); err != nil {
			p.logger.Warn(ctx, "failed to save build file", zap.String("path", view.FileName()), zap.Error(err))
		}
	}
	return p.builds.DiscoverAndSelect(ctx, p.window(view), view, true)
}

// GenerateBuildFileContent returns the hxml text of the current build when
// view is its still empty descriptor.
func (p *Project) GenerateBuildFileContent(view editor.View) (string, bool) {
	current := p.builds.Current()
	if current == nil || view.FileName() != current.Descriptor || view.Size() != 0 {
		return "", false
	}

	content, err := buildfile.Render(current)
	if err != nil {
		p.logger.Warn(context.Background(), "failed to render build file", zap.Error(err))
		return "", false
	}
	return content, true
}

// RunBuild rediscovers the builds and runs the current one. Failures are
// reported through the notifier; the returned error lets callers choose an
// exit status.
func (p *Project) RunBuild(ctx context.Context, view editor.View) (process.Result, error) {
	if err := p.builds.DiscoverAndSelect(ctx, p.window(view), view, false); err != nil {
		if errors.Is(err, buildreg.ErrSelectionPending) {
			p.deps.Notifier.StatusMessage("Please select your build first")
		}
		return process.Result{}, err
	}

	build := p.GetBuild(view)
	if build == nil {
		p.deps.Notifier.StatusMessage("No build")
		return process.Result{}, fmt.Errorf("%w: no build for %s", models.ErrNotFound, view.FileName())
	}

	var cmd process.Command
	if build.IsPackaged() {
		cmd = p.packageCommand(build)
	} else {
		cmd = p.compileCommand(ctx, view, build)
	}

	p.logger.Info(ctx, "running build", zap.String("build", build.String()), zap.String("cmd", cmd.String()))
	result, err := p.deps.Runner.Run(ctx, cmd)
	p.logger.Debug(ctx, "build output", zap.String("stdout", result.Stdout), zap.String("stderr", result.Stderr))

	if result.Stderr != "" {
		p.deps.Notifier.Writeln(result.Stderr)
	}
	p.deps.Notifier.SetStatus(editor.StatusResult, "build finished")

	if err != nil {
		p.deps.Notifier.StatusMessage("Build failed")
		p.logger.Warn(ctx, "build failed", zap.Error(err))
		return result, err
	}
	return result, nil
}

func (p *Project) compileCommand(ctx context.Context, view editor.View, build *models.BuildConfig) process.Command {
	args := build.CommandLine()
	if p.IsServerMode() {
		if err := p.StartServer(ctx, view); err == nil {
			args = append(args, "--connect", strconv.Itoa(p.Port()))
		}
	}

	dir := filepath.Dir(build.Descriptor)
	if build.Descriptor == "" {
		dir = p.ProjectDir("")
	}
	return process.Command{
		Path: p.haxeExec(view),
		Args: args,
		Dir:  dir,
		Env:  p.env(view),
	}
}

func (p *Project) packageCommand(build *models.BuildConfig) process.Command {
	variant := p.builds.Variant()
	args := []string{"run", "nme", variant.Command, filepath.Base(build.PackageDescriptor)}
	args = append(args, variant.PlatformArgs()...)
	if !slices.Contains(args, "-debug") {
		args = append(args, "-debug")
	}

	return process.Command{
		Path: p.deps.Config.Haxe.HaxelibExec,
		Args: args,
		Dir:  filepath.Dir(build.PackageDescriptor),
		Env:  p.env(nil),
	}
}

// Dispose stops the compiler server. Only the first call has an effect.
func (p *Project) Dispose(ctx context.Context) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	p.mu.Unlock()

	p.logger.Debug(ctx, "disposing project")
	if err := p.server.Stop(ctx); err != nil {
		p.logger.Warn(ctx, "failed to stop compiler server", zap.Error(err))
	}
}

// Disposed reports whether Dispose was called.
func (p *Project) Disposed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disposed
}

func (p *Project) defaultBuild(view editor.View) *models.BuildConfig {
	if !view.IsHaxeSource() {
		return nil
	}
	return AdHocBuild(view.Text(), view.FileName(), p.folders(view))
}

func (p *Project) window(view editor.View) editor.Window {
	if p.deps.Host == nil {
		if view == nil {
			return nil
		}
		return view.Window()
	}
	return editor.WindowOf(p.deps.Host, view)
}

func (p *Project) folders(view editor.View) []string {
	if w := p.window(view); w != nil {
		return w.Folders()
	}
	return nil
}

// haxeExec is the view's haxe_path override or the configured compiler.
func (p *Project) haxeExec(view editor.View) string {
	if view != nil {
		if exec, ok := view.Settings().String(editor.SettingHaxePath); ok && exec != "" {
			return exec
		}
	}
	return p.deps.Config.Haxe.Exec
}

// env merges the configured build env with the view's build_env.
func (p *Project) env(view editor.View) []string {
	overrides := make(map[string]string)
	for k, v := range p.deps.Config.Build.Env {
		overrides[k] = v
	}
	if view != nil {
		for k, v := range view.Settings().StringMap(editor.SettingBuildEnv) {
			overrides[k] = v
		}
	}
	if p.deps.Collector != nil {
		return p.deps.Collector.Env(p.projectPath, overrides)
	}
	return process.MergeEnv(os.Environ(), overrides)
}
