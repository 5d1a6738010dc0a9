package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProjectIdentity(t *testing.T) {
	require.Equal(t, ProjectIdentity("global7"), GlobalIdentity(7))
	require.True(t, GlobalIdentity(7).IsGlobal())
	require.False(t, ProjectIdentity("/home/me/game.sublime-project").IsGlobal())
	require.False(t, ProjectIdentity("global").IsGlobal())
	require.Equal(t, ProjectIdentity("/p/x.sublime-project"), IdentityFor("/p/x.sublime-project", 3))
	require.Equal(t, GlobalIdentity(3), IdentityFor("", 3))
}

func TestBuildConfig_String(t *testing.T) {
	b := NewBuildConfig("/ws/build.hxml")
	b.Target = "js"
	b.Main = "app.Main"
	b.Output = "/ws/bin/app.js"
	require.Equal(t, "app.Main (js: /ws/bin/app.js)", b.String())
	require.Equal(t, []string{"app.Main (js: /ws/bin/app.js)", "build.hxml"}, b.Summary())

	packaged := NewBuildConfig("/ws/app.nmml")
	packaged.PackageDescriptor = "/ws/app.nmml"
	packaged.Main = "Main"
	require.True(t, packaged.IsPackaged())
	require.Equal(t, "Main (NME / app.nmml)", packaged.String())
}

func TestBuildConfig_CommandLine(t *testing.T) {
	b := NewBuildConfig("/ws/build.hxml")
	b.Main = "Main"
	b.AddArg("-cp", "src")
	b.AddArg("-js", "out.js")
	b.AddArg("-debug", "")
	require.Equal(t, []string{"-cp", "src", "-js", "out.js", "-debug", "-main", "Main"}, b.CommandLine())

	b.AddArg("-main", "Other")
	require.Equal(t, []string{"-cp", "src", "-js", "out.js", "-debug", "-main", "Other"}, b.CommandLine())
}

func TestCompilerInfo(t *testing.T) {
	require.False(t, CompilerInfo{Version: 208}.SupportsServer())
	require.True(t, CompilerInfo{Version: 209}.SupportsServer())
	require.False(t, CompilerInfo{}.SupportsServer())

	info := CompilerInfo{Classes: []string{"haxe.io.Bytes"}}
	classes := info.StdClasses()
	require.Equal(t, "Void", classes[0])
	require.Equal(t, "haxe.io.Bytes", classes[len(classes)-1])
	require.Len(t, classes, len(BuiltinTypes)+1)
}

func TestPackageVariants(t *testing.T) {
	require.Equal(t, "Flash - test", DefaultPackageVariant.Label)
	require.Equal(t, []string{"linux", "-64", "-debug"}, PackageVariants[8].PlatformArgs())
	require.Len(t, PackageVariantLabels(), len(PackageVariants))
}
