package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/go-hxproject/internal/compiler"
	"github.com/jakoblorz/go-hxproject/internal/config"
	"github.com/jakoblorz/go-hxproject/internal/discovery"
	"github.com/jakoblorz/go-hxproject/internal/editor"
	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/logging"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"github.com/jakoblorz/go-hxproject/internal/project"
	"github.com/jakoblorz/go-hxproject/internal/session"
	"github.com/jakoblorz/go-hxproject/internal/settings"
	"github.com/jakoblorz/go-hxproject/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// standaloneWindowID is the window of the working directory when the
// session lists no windows.
const standaloneWindowID = 0

type globalOptions struct {
	configPath string
	windowID   int
	file       string
	logLevel   string
}

// environment is everything a command needs to act on one view.
type environment struct {
	fs       filesystem.FileSystem
	cfg      *config.Config
	logger   *logging.Logger
	cwd      string
	resolver *session.Resolver
	host     editor.Host
	window   editor.Window
	settings *settings.Store
	view     *fileView
	notifier *consoleNotifier
	registry *project.Registry
}

type environmentOptions struct {
	chooser  func(logger *logging.Logger) editor.Chooser
	registry []project.RegistryOption
	noProbe  bool
}

type environmentOption func(*environmentOptions)

// withChooser replaces the interactive chooser.
func withChooser(chooser func(logger *logging.Logger) editor.Chooser) environmentOption {
	return func(o *environmentOptions) {
		o.chooser = chooser
	}
}

// withoutCompilerProbe skips running the compiler for commands that do not
// need compiler info.
func withoutCompilerProbe() environmentOption {
	return func(o *environmentOptions) {
		o.noProbe = true
	}
}

// withRegistryOptions configures the project registry.
func withRegistryOptions(options ...project.RegistryOption) environmentOption {
	return func(o *environmentOptions) {
		o.registry = append(o.registry, options...)
	}
}

func newEnvironment(cmd *cobra.Command, fs filesystem.FileSystem, runner process.Runner, opts *globalOptions, options ...environmentOption) (*environment, error) {
	ctx := cmd.Context()

	envOpts := &environmentOptions{
		chooser: func(logger *logging.Logger) editor.Chooser {
			return tui.NewHuhChooser(logger)
		},
	}
	for _, option := range options {
		option(envOpts)
	}

	cfg, err := config.Load(fs, opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
		if err := cfg.Log.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	logger, err := logging.NewLogger(&cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cwd, err := fs.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	resolver := session.NewResolver(fs, cfg.Session.Dir, session.WithLogger(logger.Named("session")))
	sessionHost := session.NewHost(fs, resolver,
		session.WithFallbackFolders(cwd),
		session.WithActiveWindow(opts.windowID),
	)

	var host editor.Host = sessionHost
	if len(sessionHost.WindowIDs()) == 0 {
		logger.Debug(ctx, "no session windows, using the working directory",
			zap.String("session_dir", cfg.Session.Dir),
			zap.String("cwd", cwd),
		)
		host = &standaloneHost{window: session.NewWindow(fs, standaloneWindowID, cwd)}
	}

	window, err := findWindow(host, opts.windowID)
	if err != nil {
		return nil, err
	}

	file := opts.file
	switch {
	case file == "":
		if descriptor, ok := resolver.Resolve(ctx, window.ID()); ok {
			file = descriptor
		} else {
			file = filepath.Join(cwd, "build.hxml")
		}
	case !filepath.IsAbs(file):
		file = filepath.Join(cwd, file)
	}

	store := settings.NewStore(fs, cfg.Settings.Path)
	notifier := newConsoleNotifier(cmd.ErrOrStderr())

	deps := project.Deps{
		Config:     cfg,
		Host:       host,
		Runner:     runner,
		Collector:  compiler.NewCollector(runner, fs, cfg.Haxe, compiler.WithLogger(logger.Named("compiler"))),
		Discoverer: discovery.NewFinder(fs, logger.Named("discovery")),
		Chooser:    envOpts.chooser(logger),
		Notifier:   notifier,
		Logger:     logger,
	}
	if envOpts.noProbe {
		deps.Collector = nil
	}

	return &environment{
		fs:       fs,
		cfg:      cfg,
		logger:   logger,
		cwd:      cwd,
		resolver: resolver,
		host:     host,
		window:   window,
		settings: store,
		view:     newFileView(fs, file, window, store),
		notifier: notifier,
		registry: project.NewRegistry(resolver, deps, envOpts.registry...),
	}, nil
}

// project resolves the project of the environment's view.
func (e *environment) project(ctx context.Context) (*project.Project, error) {
	p, err := e.registry.Resolve(ctx, e.view)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project: %w", err)
	}
	return p, nil
}

// viewOf opens another file in the environment's window.
func (e *environment) viewOf(path string) *fileView {
	return newFileView(e.fs, path, e.window, e.settings)
}

// close disposes every project, stopping their compiler servers.
func (e *environment) close(ctx context.Context) {
	e.registry.Close(ctx)
	_ = e.logger.Sync()
}

func findWindow(host editor.Host, id int) (editor.Window, error) {
	if id < 0 {
		if w := host.ActiveWindow(); w != nil {
			return w, nil
		}
		return nil, fmt.Errorf("%w: no open window", models.ErrNotFound)
	}
	for _, w := range host.Windows() {
		if w.ID() == id {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: window %d is not in the session", models.ErrNotFound, id)
}

// standaloneHost has a single window rooted at the working directory.
type standaloneHost struct {
	window editor.Window
}

func (h *standaloneHost) Windows() []editor.Window    { return []editor.Window{h.window} }
func (h *standaloneHost) ActiveWindow() editor.Window { return h.window }
