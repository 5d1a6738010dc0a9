// Package compiler probes the Haxe compiler for its version, standard
// classpaths and the types available on them.
package compiler

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jakoblorz/go-hxproject/internal/config"
	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/logging"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"go.uber.org/zap"
)

// LibraryPathEnv is the variable pointing the compiler at its std library.
const LibraryPathEnv = "HAXE_LIBRARY_PATH"

var (
	classpathPattern = regexp.MustCompile(`(?m)^Classpath : (.*?)\r?$`)
	versionPattern   = regexp.MustCompile(`haxe_([0-9]{3})`)
)

// probeArgs make the compiler print its configuration without compiling.
var probeArgs = []string{"-main", "Nothing", "-v", "--no-output"}

// Collector gathers CompilerInfo for a project directory.
type Collector struct {
	runner    process.Runner
	fs        filesystem.FileSystem
	cfg       config.HaxeConfig
	extractor TypeExtractor
	environ   func() []string
	logger    *logging.Logger
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithTypeExtractor replaces the classpath scanner.
func WithTypeExtractor(extractor TypeExtractor) CollectorOption {
	return func(c *Collector) {
		c.extractor = extractor
	}
}

// WithEnviron replaces the base process environment.
func WithEnviron(environ func() []string) CollectorOption {
	return func(c *Collector) {
		c.environ = environ
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) CollectorOption {
	return func(c *Collector) {
		c.logger = logger
	}
}

// NewCollector creates a Collector.
func NewCollector(runner process.Runner, fs filesystem.FileSystem, cfg config.HaxeConfig, options ...CollectorOption) *Collector {
	c := &Collector{
		runner:    runner,
		fs:        fs,
		cfg:       cfg,
		extractor: NewSourceTypeExtractor(fs),
		environ:   os.Environ,
		logger:    logging.NewNop(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Collect probes the compiler from projectDir ("" when the window has no
// project). It never fails: problems leave the defaults in place and are
// recorded in ProbeErr.
func (c *Collector) Collect(ctx context.Context, projectDir string) models.CompilerInfo {
	cmd := process.Command{
		Path: ExecPath(c.cfg.Exec, projectDir),
		Args: probeArgs,
		Dir:  projectDir,
		Env:  c.Env(projectDir, nil),
	}

	c.logger.Debug(ctx, "collecting compiler info", zap.String("cmd", cmd.String()))

	// The probe names a class that does not exist, so a non-zero exit is
	// expected; only missing output makes it a failure.
	result, err := c.runner.Run(ctx, cmd)
	output := result.Stdout + "\n" + result.Stderr

	info := models.CompilerInfo{}
	classpaths, found := parseClasspaths(output)
	if err != nil && !found {
		c.logger.Debug(ctx, "compiler probe failed", zap.Error(err))
		info.ProbeErr = err
	}

	if m := versionPattern.FindStringSubmatch(output); m != nil {
		info.Version, _ = strconv.Atoi(m[1])
		info.VersionDetected = true
	}

	info.Classpaths = classpaths
	for _, cp := range classpaths {
		if len(cp) <= 1 || !c.fs.IsDir(cp) {
			continue
		}
		classes, packages := c.extractor.Extract(cp)
		info.Classes = appendUnique(info.Classes, classes...)
		info.Packages = appendUnique(info.Packages, packages...)
	}

	c.logger.Debug(ctx, "collected compiler info",
		zap.Int("version", info.Version),
		zap.Int("classpaths", len(info.Classpaths)),
		zap.Int("classes", len(info.Classes)),
	)
	return info
}

// Env is the environment of compiler runs: the process environment, then
// overrides, then the configured library path.
func (c *Collector) Env(projectDir string, overrides map[string]string) []string {
	merged := make(map[string]string, len(overrides)+1)
	for k, v := range overrides {
		merged[k] = v
	}
	if c.cfg.LibraryPath != "" {
		merged[LibraryPathEnv] = joinNorm(projectDir, c.cfg.LibraryPath)
	}
	return process.MergeEnv(c.environ(), merged)
}

// ExecPath resolves the compiler executable. Anything but the bare "haxe"
// is relative to the project directory.
func ExecPath(exec, projectDir string) string {
	if exec == "" {
		return "haxe"
	}
	if exec == "haxe" || projectDir == "" {
		return exec
	}
	return joinNorm(projectDir, exec)
}

func joinNorm(base, p string) string {
	if base == "" || filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// parseClasspaths reads the first "Classpath : a;b;c" line. "." and "./"
// entries are dropped, duplicates keep their first position.
func parseClasspaths(output string) ([]string, bool) {
	m := classpathPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, false
	}

	var paths []string
	for _, p := range strings.Split(m[1], ";") {
		if p == "" || p == "." || p == "./" {
			continue
		}
		paths = appendUnique(paths, p)
	}
	return paths, true
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
