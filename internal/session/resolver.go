package session

import (
	"context"
	"path"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/logging"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var descriptorPattern = regexp.MustCompile(`\.sublime-project`)

// cacheEntry remembers the last parse for one window.
type cacheEntry struct {
	mtime    time.Time
	identity string
}

// Resolver maps a window id to the project descriptor recorded for it in
// the session file.
//
// Each window has its own cache entry, invalidated when the session file's
// modification time changes, so the potentially large session file is only
// parsed again after the editor rewrote it.
type Resolver struct {
	mu     sync.Mutex
	fs     filesystem.FileSystem
	store  Store
	dir    string
	goos   string
	logger *logging.Logger
	cache  map[int]cacheEntry
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStore replaces the session store.
func WithStore(store Store) Option {
	return func(r *Resolver) {
		r.store = store
	}
}

// WithGOOS overrides the host platform used for path normalization.
func WithGOOS(goos string) Option {
	return func(r *Resolver) {
		r.goos = goos
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver for the session files in dir.
func NewResolver(fs filesystem.FileSystem, dir string, options ...Option) *Resolver {
	r := &Resolver{
		fs:     fs,
		store:  NewFileStore(fs),
		dir:    dir,
		goos:   runtime.GOOS,
		logger: logging.NewNop(),
		cache:  make(map[int]cacheEntry),
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// Resolve returns the project descriptor path of the window. ok is false
// when the window has no (valid) project file; failures are never
// reported beyond that.
func (r *Resolver) Resolve(ctx context.Context, windowID int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionPath, ok := Locate(r.fs, r.dir)
	if !ok {
		r.logger.Debug(ctx, "no session file", zap.String("dir", r.dir))
		return "", false
	}

	mtime, err := r.store.ModTime(sessionPath)
	if err != nil {
		r.logger.Debug(ctx, "session stat failed", zap.Error(err))
		return "", false
	}

	if entry, ok := r.cache[windowID]; ok && entry.mtime.Equal(mtime) && entry.identity != "" {
		r.logger.Trace(ctx, "cached project id", zap.String("identity", entry.identity))
		return entry.identity, true
	}

	identity := r.parse(ctx, sessionPath, windowID)
	if !r.valid(identity) {
		identity = ""
	}

	r.cache[windowID] = cacheEntry{mtime: mtime, identity: identity}
	return identity, identity != ""
}

// Forget drops the cache entry of a closed window.
func (r *Resolver) Forget(windowID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, windowID)
}

func (r *Resolver) parse(ctx context.Context, sessionPath string, windowID int) string {
	data, _, err := r.store.Read(sessionPath)
	if err != nil {
		r.logger.Debug(ctx, "session read failed", zap.Error(err))
		return ""
	}

	// gjson does not reject raw control characters inside strings, which
	// the editor writes unescaped.
	window, ok := FindWindow(data, windowID)
	if !ok {
		return ""
	}

	name := window.Get("workspace_name")
	if !name.Exists() {
		return ""
	}
	return r.normalize(name.String())
}

// normalize converts the editor's portable path notation to a host path.
// On Windows "/C/Users/x" becomes "C:\Users\x".
func (r *Resolver) normalize(p string) string {
	if r.goos != "windows" {
		return p
	}
	p = strings.TrimLeft(p, "/")
	p = strings.Replace(p, "/", ":/", 1)
	return strings.ReplaceAll(path.Clean(p), "/", `\`)
}

func (r *Resolver) valid(identity string) bool {
	return identity != "" && descriptorPattern.MatchString(identity) && r.fs.Exists(identity)
}

// FindWindow returns the session entry whose window_id matches.
func FindWindow(data []byte, windowID int) (gjson.Result, bool) {
	var found gjson.Result
	gjson.GetBytes(data, "windows").ForEach(func(_, w gjson.Result) bool {
		if id := w.Get("window_id"); id.Type == gjson.Number && id.Int() == int64(windowID) {
			found = w
			return false
		}
		return true
	})
	return found, found.Exists()
}
