package discovery

import (
	"context"
	"testing"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"github.com/stretchr/testify/require"
)

func TestParseHXML_SingleBuild(t *testing.T) {
	builds := ParseHXML("/p/build.hxml", []byte(`
# comment
-cp src
-main com.example.Main
-js bin/main.js
-debug
`))

	require.Len(t, builds, 1)
	b := builds[0]
	require.Equal(t, "/p/build.hxml", b.Descriptor)
	require.Equal(t, "com.example.Main", b.Main)
	require.Equal(t, "js", b.Target)
	require.Equal(t, "bin/main.js", b.Output)
	require.Equal(t, []models.BuildArg{
		{Flag: "-cp", Value: "src"},
		{Flag: "-main", Value: "com.example.Main"},
		{Flag: "-js", Value: "bin/main.js"},
		{Flag: "-debug"},
	}, b.Args)
	require.False(t, b.IsPackaged())
}

func TestParseHXML_NextAndEach(t *testing.T) {
	builds := ParseHXML("/p/all.hxml", []byte(`-cp src
-main Main
--each
-swf out.swf
--next
--js out.js
--next
`))

	require.Len(t, builds, 2)
	require.Equal(t, "swf", builds[0].Target)
	require.Equal(t, "out.swf", builds[0].Output)
	require.Equal(t, "Main", builds[0].Main)
	require.Equal(t, "js", builds[1].Target)
	require.Equal(t, "Main", builds[1].Main)
	require.Equal(t, []string{"-cp", "src", "-main", "Main", "--js", "out.js"}, builds[1].CommandLine())
}

func TestParseHXML_Empty(t *testing.T) {
	require.Empty(t, ParseHXML("/p/empty.hxml", []byte("\n# nothing\n")))
}

func TestParseNMML(t *testing.T) {
	b, err := ParseNMML("/p/game.nmml", []byte(`<?xml version="1.0" encoding="utf-8"?>
<project>
	<app title="Game" main="game.Main" file="Game" path="Export" />
	<source path="src" />
	<classpath name="lib" />
	<haxelib name="nme" />
</project>`))
	require.NoError(t, err)

	require.True(t, b.IsPackaged())
	require.Equal(t, models.PackageTarget, b.Target)
	require.Equal(t, "game.Main", b.Main)
	require.Equal(t, "Export/Game", b.Output)
	require.Equal(t, "game.Main (NME / game.nmml)", b.String())
	require.Equal(t, []string{"-cp", "lib", "-cp", "src", "-lib", "nme", "-main", "game.Main"}, b.CommandLine())
}

func TestParseNMML_Malformed(t *testing.T) {
	_, err := ParseNMML("/p/bad.nmml", []byte("<project><app"))
	require.ErrorIs(t, err, models.ErrParse)
}

func TestFinder_DiscoverOrdersHXMLBeforeNMML(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/ws/a.nmml", []byte(`<project><app main="A" file="a" path="bin"/></project>`))
	fs.AddFile("/ws/build.hxml", []byte("-main Main\n-js main.js\n"))
	fs.AddFile("/ws/sub/other.hxml", []byte("-main Other\n-neko other.n\n--next\n-main Third\n-php www\n"))
	fs.AddFile("/ws/src/Main.hx", []byte("class Main {}"))

	builds := NewFinder(fs, nil).Discover(context.Background(), "/ws")

	var names []string
	for _, b := range builds {
		names = append(names, b.String())
	}
	require.Equal(t, []string{
		"Main (js: main.js)",
		"Other (neko: other.n)",
		"Third (php: www)",
		"A (NME / a.nmml)",
	}, names)
}

func TestFinder_HonorsGitIgnoreAndHiddenDirs(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/ws/.gitignore", []byte("export\nscratch.hxml\n"))
	fs.AddFile("/ws/build.hxml", []byte("-main Main\n-js main.js\n"))
	fs.AddFile("/ws/scratch.hxml", []byte("-main Scratch\n-js s.js\n"))
	fs.AddFile("/ws/export/gen.hxml", []byte("-main Gen\n-js g.js\n"))
	fs.AddFile("/ws/.git/hooks.hxml", []byte("-main Hidden\n-js h.js\n"))

	builds := NewFinder(fs, nil).Discover(context.Background(), "/ws")

	require.Len(t, builds, 1)
	require.Equal(t, "Main", builds[0].Main)
}

func TestFinder_MissingFolder(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	require.Empty(t, NewFinder(fs, nil).Discover(context.Background(), "/nowhere"))
}
