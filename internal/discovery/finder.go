// Package discovery finds the build descriptors (hxml and nmml files) under
// a window's folders.
package discovery

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/logging"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"go.uber.org/zap"
)

// Finder walks folders for build descriptors, honoring the folder's
// .gitignore.
type Finder struct {
	fs     filesystem.FileSystem
	logger *logging.Logger
}

// NewFinder creates a Finder.
func NewFinder(fs filesystem.FileSystem, logger *logging.Logger) *Finder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Finder{fs: fs, logger: logger}
}

// Discover returns the hxml builds of folder followed by its nmml builds.
// Unreadable or malformed descriptors are skipped.
func (f *Finder) Discover(ctx context.Context, folder string) []*models.BuildConfig {
	hxmls, nmmls, err := f.descriptors(folder)
	if err != nil {
		f.logger.Debug(ctx, "build discovery failed", zap.String("folder", folder), zap.Error(err))
	}

	var builds []*models.BuildConfig
	for _, path := range hxmls {
		data, err := f.fs.ReadFile(path)
		if err != nil {
			f.logger.Debug(ctx, "skipping hxml", zap.String("path", path), zap.Error(err))
			continue
		}
		builds = append(builds, ParseHXML(path, data)...)
	}

	for _, path := range nmmls {
		data, err := f.fs.ReadFile(path)
		if err != nil {
			f.logger.Debug(ctx, "skipping nmml", zap.String("path", path), zap.Error(err))
			continue
		}
		build, err := ParseNMML(path, data)
		if err != nil {
			f.logger.Debug(ctx, "skipping nmml", zap.String("path", path), zap.Error(err))
			continue
		}
		builds = append(builds, build)
	}

	f.logger.Debug(ctx, "discovered builds", zap.String("folder", folder), zap.Int("count", len(builds)))
	return builds
}

func (f *Finder) descriptors(root string) (hxmls, nmmls []string, err error) {
	ignore, err := f.loadGitIgnore(root)
	if err != nil {
		return nil, nil, err
	}

	err = f.fs.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		if entry.IsDir() && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}

		if ignore != nil {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			if match := ignore.Relative(filepath.ToSlash(rel), entry.IsDir()); match != nil && match.Ignore() {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if entry.IsDir() {
			return nil
		}

		switch {
		case models.HasSuffixFold(path, ".hxml"):
			hxmls = append(hxmls, path)
		case models.HasSuffixFold(path, ".nmml"):
			nmmls = append(nmmls, path)
		}
		return nil
	})
	return hxmls, nmmls, err
}

func (f *Finder) loadGitIgnore(root string) (gitignore.GitIgnore, error) {
	ignorePath := filepath.Join(root, ".gitignore")
	if !f.fs.Exists(ignorePath) {
		return nil, nil
	}

	data, err := f.fs.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	return gitignore.New(bytes.NewReader(data), root, nil), nil
}
