package project

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jakoblorz/go-hxproject/internal/config"
	"github.com/jakoblorz/go-hxproject/internal/editor"
	"github.com/jakoblorz/go-hxproject/internal/logging"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"go.uber.org/zap"
)

// IdentityResolver maps a window to its project file.
type IdentityResolver interface {
	Resolve(ctx context.Context, windowID int) (string, bool)
}

// Registry owns the live projects, at most one per identity, and the
// compiler server port counter.
type Registry struct {
	mu       sync.Mutex
	resolver IdentityResolver
	deps     Deps
	logger   *logging.Logger
	projects map[models.ProjectIdentity]*Project
	nextPort int
	async    bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithAsyncProbe collects compiler info of new projects in the background.
func WithAsyncProbe() RegistryOption {
	return func(r *Registry) {
		r.async = true
	}
}

// NewRegistry creates an empty registry. Ports start at
// deps.Config.Server.PortBase.
func NewRegistry(resolver IdentityResolver, deps Deps, options ...RegistryOption) *Registry {
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}

	portBase := deps.Config.Server.PortBase
	if portBase <= 0 {
		portBase = config.DefaultPortBase
	}

	r := &Registry{
		resolver: resolver,
		deps:     deps,
		logger:   deps.Logger.Named("projects"),
		projects: make(map[models.ProjectIdentity]*Project),
		nextPort: portBase,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// Resolve returns the project of view's window (the active window when the
// view has none), creating it on first use. Projects whose window was
// closed are disposed first.
func (r *Registry) Resolve(ctx context.Context, view editor.View) (*Project, error) {
	window := editor.WindowOf(r.deps.Host, view)
	if window == nil {
		return nil, fmt.Errorf("%w: no window", models.ErrNotFound)
	}

	descriptor, _ := r.resolver.Resolve(ctx, window.ID())
	identity := models.IdentityFor(descriptor, window.ID())
	ctx = logging.WithWindow(ctx, window.ID())

	r.sweep(ctx, window.ID())

	r.mu.Lock()
	if p, ok := r.projects[identity]; ok {
		r.mu.Unlock()
		return p, nil
	}

	p, err := New(identity, descriptor, window.ID(), r.nextPort, r.deps)
	if err != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("failed to create project %s: %w", identity, err)
	}
	p.live = r.IsLive
	r.projects[identity] = p
	r.nextPort++
	r.mu.Unlock()

	r.logger.Info(ctx, "project created",
		zap.String("project", identity.String()),
		zap.Int("port", p.Port()),
		zap.String("instance", p.Token()),
	)

	if r.async {
		p.UpdateCompilerInfoAsync(ctx)
	} else {
		p.UpdateCompilerInfo(ctx)
	}
	return p, nil
}

// windowForgetter is implemented by resolvers that cache per window.
type windowForgetter interface {
	Forget(windowID int)
}

// sweep disposes every project whose window is gone. A window list that
// lacks the resolving window is unreliable and leaves every project alone.
func (r *Registry) sweep(ctx context.Context, resolving int) {
	open := editor.WindowIDs(r.deps.Host)
	if _, ok := open[resolving]; !ok {
		r.logger.Debug(ctx, "window list unavailable, skipping sweep", zap.Int("windows", len(open)))
		return
	}

	r.mu.Lock()
	var closed []*Project
	for identity, p := range r.projects {
		if _, ok := open[p.windowID]; !ok {
			delete(r.projects, identity)
			closed = append(closed, p)
		}
	}
	r.mu.Unlock()

	for _, p := range closed {
		r.logger.Info(ctx, "releasing project of closed window",
			zap.String("project", p.Identity().String()),
			zap.Int("window", p.WindowID()),
		)
		if f, ok := r.resolver.(windowForgetter); ok {
			f.Forget(p.WindowID())
		}
		p.Dispose(ctx)
	}
}

// IsLive reports whether p is still the registered project of its
// identity.
func (r *Registry) IsLive(p *Project) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.projects[p.identity] == p
}

// Projects lists the live projects ordered by port.
func (r *Registry) Projects() []*Project {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Port() < out[j].Port() })
	return out
}

// NextPort is the port the next project will get.
func (r *Registry) NextPort() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextPort
}

// Close disposes every project.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	projects := make([]*Project, 0, len(r.projects))
	for identity, p := range r.projects {
		projects = append(projects, p)
		delete(r.projects, identity)
	}
	r.mu.Unlock()

	for _, p := range projects {
		p.Dispose(ctx)
	}
}
