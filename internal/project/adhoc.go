package project

import (
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-hxproject/internal/hxsource"
	"github.com/jakoblorz/go-hxproject/internal/models"
)

// AdHocBuild derives a JavaScript build for a single source file.
//
// The classpath is the file's directory minus one trailing directory per
// package segment that matches it. The output is written to the window
// folder containing the file (else the file's directory) as the lowercased
// main class name plus ".js". The descriptor is build.hxml in the
// classpath.
func AdHocBuild(text, filePath string, folders []string) *models.BuildConfig {
	srcDir := filepath.Dir(filePath)

	folder := srcDir
	for _, f := range folders {
		if within(filePath, f) {
			folder = f
		}
	}

	pkg := hxsource.PackagePath(hxsource.Package(text))
	for i := len(pkg) - 1; i >= 0; i-- {
		if filepath.Base(srcDir) == pkg[i] {
			srcDir = filepath.Dir(srcDir)
		}
	}

	class := asciiOnly(strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath)))
	main := strings.Join(append(append([]string(nil), pkg...), class), ".")

	build := models.NewBuildConfig(filepath.Join(srcDir, "build.hxml"))
	build.Target = models.DefaultTarget
	build.Main = main
	build.Output = filepath.Join(folder, strings.ToLower(main)+".js")
	build.AddArg("-cp", srcDir)
	build.AddArg("-js", build.Output)
	return build
}

func within(path, folder string) bool {
	rel, err := filepath.Rel(folder, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, s)
}
