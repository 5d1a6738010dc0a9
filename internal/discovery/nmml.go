package discovery

import (
	"encoding/xml"
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/go-hxproject/internal/models"
)

type nmmlProject struct {
	App struct {
		Main string `xml:"main,attr"`
		File string `xml:"file,attr"`
		Path string `xml:"path,attr"`
	} `xml:"app"`
	Classpaths []struct {
		Name string `xml:"name,attr"`
	} `xml:"classpath"`
	Sources []struct {
		Path string `xml:"path,attr"`
	} `xml:"source"`
	Haxelibs []struct {
		Name string `xml:"name,attr"`
	} `xml:"haxelib"`
}

// ParseNMML reads the packaged build described by an nmml file.
func ParseNMML(path string, data []byte) (*models.BuildConfig, error) {
	var project nmmlProject
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrParse, path, err)
	}

	b := models.NewBuildConfig(path)
	b.PackageDescriptor = path
	b.Target = models.PackageTarget
	b.Main = project.App.Main
	if project.App.File != "" {
		b.Output = filepath.Join(project.App.Path, project.App.File)
	}

	for _, cp := range project.Classpaths {
		if cp.Name != "" {
			b.AddArg("-cp", cp.Name)
		}
	}
	for _, src := range project.Sources {
		if src.Path != "" {
			b.AddArg("-cp", src.Path)
		}
	}
	for _, lib := range project.Haxelibs {
		if lib.Name != "" {
			b.AddArg("-lib", lib.Name)
		}
	}
	if b.Main != "" {
		b.AddArg("-main", b.Main)
	}

	return b, nil
}
