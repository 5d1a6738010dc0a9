// Package buildreg keeps the builds discovered for a project and which one
// of them is current.
package buildreg

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jakoblorz/go-hxproject/internal/editor"
	"github.com/jakoblorz/go-hxproject/internal/logging"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"go.uber.org/zap"
)

// Chooser titles.
const (
	BuildPromptTitle   = "Select build"
	VariantPromptTitle = "Select NME target"
)

// Discoverer lists the builds below one folder, hxml builds first.
type Discoverer interface {
	Discover(ctx context.Context, folder string) []*models.BuildConfig
}

// DefaultBuildFunc synthesizes a build for a view when no descriptor
// exists. It may return nil.
type DefaultBuildFunc func(view editor.View) *models.BuildConfig

// Registry holds the discovered builds of one project and the current one.
//
// Selection from several builds is asynchronous: the registry moves to
// StateAwaitingSelection until the chooser reports back and rejects
// discovery in the meantime.
type Registry struct {
	mu           sync.Mutex
	discoverer   Discoverer
	chooser      editor.Chooser
	notifier     editor.Notifier
	defaultBuild DefaultBuildFunc
	logger       *logging.Logger

	builds  []*models.BuildConfig
	current *models.BuildConfig
	variant models.PackageVariant
	state   State
}

// Option configures a Registry.
type Option func(*Registry)

// WithDefaultBuild sets the fallback used when a forced selection finds
// no builds.
func WithDefaultBuild(fn DefaultBuildFunc) Option {
	return func(r *Registry) {
		r.defaultBuild = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty Registry.
func New(discoverer Discoverer, chooser editor.Chooser, notifier editor.Notifier, options ...Option) *Registry {
	r := &Registry{
		discoverer: discoverer,
		chooser:    chooser,
		notifier:   notifier,
		logger:     logging.NewNop(),
		variant:    models.DefaultPackageVariant,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// DiscoverAndSelect rediscovers the builds of window's folders and picks
// the current one. With forcePrompt the user chooses among several builds
// and a default build is synthesized when there is none.
func (r *Registry) DiscoverAndSelect(ctx context.Context, window editor.Window, view editor.View, forcePrompt bool) error {
	if r.State() == StateAwaitingSelection {
		return ErrSelectionPending
	}
	if window == nil {
		return fmt.Errorf("%w: view has no window", models.ErrNotFound)
	}

	var builds []*models.BuildConfig
	for _, folder := range window.Folders() {
		builds = append(builds, r.discoverer.Discover(ctx, folder)...)
	}
	r.logger.Debug(ctx, "builds discovered", zap.Int("count", len(builds)))

	r.mu.Lock()
	if r.state == StateAwaitingSelection {
		r.mu.Unlock()
		return ErrSelectionPending
	}
	r.builds = builds

	switch {
	case len(builds) == 1:
		if forcePrompt {
			r.notifier.StatusMessage("There is only one build")
		}
		r.mu.Unlock()
		r.SetCurrent(ctx, view, 0, forcePrompt)

	case len(builds) == 0 && forcePrompt:
		r.notifier.StatusMessage("No hxml or nmml file found")
		build := r.synthesize(view)
		r.builds = []*models.BuildConfig{build}
		r.current = nil
		r.mu.Unlock()

		if err := window.OpenTransient(build.Descriptor); err != nil {
			r.logger.Warn(ctx, "failed to open build file", zap.String("path", build.Descriptor), zap.Error(err))
		}
		r.SetCurrent(ctx, view, 0, forcePrompt)

	case len(builds) == 0:
		r.mu.Unlock()

	case forcePrompt:
		r.state = StateAwaitingSelection
		rows := make([][]string, len(builds))
		for i, b := range builds {
			rows[i] = b.Summary()
		}
		r.notifier.StatusMessage("Please select your build")
		r.mu.Unlock()

		r.chooser.Choose(ctx, BuildPromptTitle, rows, func(index int, ok bool) {
			r.onBuildChosen(ctx, view, index, ok, forcePrompt)
		})

	default:
		index := 0
		if persisted, ok := view.Settings().Int(editor.SettingBuildID); ok {
			index = persisted
		}
		r.mu.Unlock()
		r.SetCurrent(ctx, view, index, forcePrompt)
	}

	return nil
}

func (r *Registry) synthesize(view editor.View) *models.BuildConfig {
	var build *models.BuildConfig
	if r.defaultBuild != nil {
		build = r.defaultBuild(view)
	}
	if build == nil {
		build = models.NewBuildConfig("")
		build.Target = models.DefaultTarget
	}
	build.Descriptor = filepath.Join(filepath.Dir(view.FileName()), "build.hxml")
	return build
}

func (r *Registry) onBuildChosen(ctx context.Context, view editor.View, index int, ok, forcePrompt bool) {
	r.mu.Lock()
	if r.state != StateAwaitingSelection {
		r.mu.Unlock()
		return
	}
	if !ok {
		r.state = StateCancelled
		r.mu.Unlock()
		r.logger.Debug(ctx, "build selection cancelled")
		return
	}
	r.state = StateApplying
	r.mu.Unlock()

	r.SetCurrent(ctx, view, index, forcePrompt)
}

// SetCurrent makes the build at index current, clamping out-of-range
// indexes to 0, and persists the index in the view's settings. With
// forcePrompt a packaged build also asks for its target variant.
func (r *Registry) SetCurrent(ctx context.Context, view editor.View, index int, forcePrompt bool) {
	r.mu.Lock()
	if index < 0 || index >= len(r.builds) {
		index = 0
	}

	if err := view.Settings().SetInt(editor.SettingBuildID, index); err != nil {
		r.logger.Warn(ctx, "failed to persist build id", zap.Error(err))
	}

	if len(r.builds) > 0 {
		r.current = r.builds[index]
		r.notifier.SetStatus(editor.StatusBuild, r.statusLocked())
	} else {
		r.current = nil
		r.notifier.SetStatus(editor.StatusBuild, "No build")
	}
	r.state = StateIdle
	current := r.current
	r.mu.Unlock()

	if !forcePrompt || current == nil || !current.IsPackaged() {
		return
	}

	r.notifier.StatusMessage("Please select a NME target")
	labels := models.PackageVariantLabels()
	rows := make([][]string, len(labels))
	for i, label := range labels {
		rows[i] = []string{label}
	}
	r.chooser.Choose(ctx, VariantPromptTitle, rows, func(i int, ok bool) {
		r.onVariantChosen(current, i, ok)
	})
}

func (r *Registry) onVariantChosen(build *models.BuildConfig, index int, ok bool) {
	if !ok || index < 0 || index >= len(models.PackageVariants) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.variant = models.PackageVariants[index]
	if r.current == build {
		r.notifier.SetStatus(editor.StatusBuild, r.statusLocked())
	}
}

func (r *Registry) statusLocked() string {
	if r.current.IsPackaged() {
		return fmt.Sprintf("%s [%s]", r.current, r.variant.Label)
	}
	return r.current.String()
}

// Current returns the current build, or nil.
func (r *Registry) Current() *models.BuildConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// SetCurrentBuild installs a build that was not discovered, e.g. an ad hoc
// build for a single source file.
func (r *Registry) SetCurrentBuild(build *models.BuildConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = build
}

// Clear unsets the current build.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
}

// Builds returns the most recently discovered builds.
func (r *Registry) Builds() []*models.BuildConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.BuildConfig(nil), r.builds...)
}

// Variant is the target variant used for packaged builds.
func (r *Registry) Variant() models.PackageVariant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.variant
}

// SetVariant selects the target variant at index of
// models.PackageVariants. It reports false for an out-of-range index.
func (r *Registry) SetVariant(index int) bool {
	if index < 0 || index >= len(models.PackageVariants) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.variant = models.PackageVariants[index]
	if r.current != nil {
		r.notifier.SetStatus(editor.StatusBuild, r.statusLocked())
	}
	return true
}

// State returns the selection state.
func (r *Registry) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
