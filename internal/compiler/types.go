package compiler

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/hxsource"
)

// TypeExtractor lists the types and top-level packages found on a
// classpath.
type TypeExtractor interface {
	Extract(classpath string) (classes, packages []string)
}

// SourceTypeExtractor scans .hx modules below a classpath. A module
// contributes its types only when its package matches its directory.
// Subdirectories are entered only below directories that contributed
// types, the root excepted.
type SourceTypeExtractor struct {
	fs filesystem.FileSystem
}

// NewSourceTypeExtractor creates a SourceTypeExtractor.
func NewSourceTypeExtractor(fs filesystem.FileSystem) *SourceTypeExtractor {
	return &SourceTypeExtractor{fs: fs}
}

func (e *SourceTypeExtractor) Extract(classpath string) ([]string, []string) {
	var classes, packages []string
	e.extract(classpath, nil, &classes, &packages)
	return classes, packages
}

func (e *SourceTypeExtractor) extract(dir string, pkg []string, classes, packages *[]string) bool {
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return false
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	found := false
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".hx") {
			continue
		}

		data, err := e.fs.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		src := string(data)
		if strings.Join(hxsource.PackagePath(hxsource.Package(src)), ".") != strings.Join(pkg, ".") {
			continue
		}

		module := strings.TrimSuffix(name, ".hx")
		for _, decl := range hxsource.Types(src) {
			if decl.Private {
				continue
			}
			typeName := decl.Name
			if typeName != module && module != "StdTypes" {
				typeName = module + "." + typeName
			}
			*classes = append(*classes, qualify(pkg, typeName))
			found = true
		}
	}

	if !found && len(pkg) > 0 {
		return false
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == "_std" || strings.HasPrefix(name, ".") {
			continue
		}
		sub := append(append([]string(nil), pkg...), name)
		if e.extract(filepath.Join(dir, name), sub, classes, packages) && len(pkg) == 0 {
			*packages = append(*packages, name)
		}
	}

	return found
}

func qualify(pkg []string, name string) string {
	if len(pkg) == 0 {
		return name
	}
	return strings.Join(pkg, ".") + "." + name
}
