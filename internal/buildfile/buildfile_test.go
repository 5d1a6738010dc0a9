package buildfile

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jakoblorz/go-hxproject/internal/models"
	"github.com/stretchr/testify/require"
)

func TestRender_AdHocBuild(t *testing.T) {
	b := models.NewBuildConfig("/ws/src/build.hxml")
	b.Target = "js"
	b.Main = "game.Main"
	b.Output = "/ws/game.main.js"
	b.AddArg("-cp", "/ws/src")
	b.AddArg("-js", "/ws/game.main.js")

	got, err := Render(b)
	require.NoError(t, err)
	require.Equal(t, `# Autogenerated build.hxml

# game.Main (js: /ws/game.main.js)
-main game.Main
-cp .
-js /ws/game.main.js
`, got)
}

func TestRender_KeepsFlagsAndMainOnce(t *testing.T) {
	b := models.NewBuildConfig("/ws/build.hxml")
	b.Target = "swf"
	b.Main = "Main"
	b.Output = "bin/main.swf"
	b.AddArg("-cp", "src")
	b.AddArg("-main", "Main")
	b.AddArg("-swf", "bin/main.swf")
	b.AddArg("-debug", "")
	b.AddArg("-lib", "/opt/libs/actuate")

	got, err := Render(b)
	require.NoError(t, err)
	require.Equal(t, "# Autogenerated build.hxml\n"+
		"\n"+
		"# Main (swf: bin/main.swf)\n"+
		"-main Main\n"+
		"-cp src\n"+
		"-swf bin/main.swf\n"+
		"-debug\n"+
		"-lib /opt/libs/actuate\n", got)
	require.Equal(t, 1, strings.Count(got, "-main "))
	snaps.MatchSnapshot(t, got)
}

func TestRender_DefaultsMain(t *testing.T) {
	got, err := Render(models.NewBuildConfig("/ws/build.hxml"))
	require.NoError(t, err)
	require.Contains(t, got, "-main Main\n")
}

func TestRender_NilBuild(t *testing.T) {
	_, err := Render(nil)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestRelativeTo(t *testing.T) {
	require.Equal(t, "src", relativeTo("/ws", "/ws/src"))
	require.Equal(t, ".", relativeTo("/ws", "/ws"))
	require.Equal(t, "/other/src", relativeTo("/ws", "/other/src"))
	require.Equal(t, "src", relativeTo("/ws", "src"))
}
