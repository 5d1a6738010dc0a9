package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jakoblorz/go-hxproject/internal/models"
)

// RenderBuilds lists builds, marking current with an arrow.
func RenderBuilds(builds []*models.BuildConfig, current *models.BuildConfig, variant models.PackageVariant) string {
	if len(builds) == 0 {
		return SubtleStyle.Render("No hxml or nmml file found") + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Builds") + "\n")
	for i, build := range builds {
		marker := "  "
		label := build.String()
		if build == current {
			marker = CurrentStyle.Render("→ ")
			label = CurrentStyle.Render(label)
		}
		line := fmt.Sprintf("%s%d  %s  %s", marker, i, label, DescStyle.Render(build.DescriptorName()))
		if build.IsPackaged() {
			line += "  " + SubtleStyle.Render("["+variant.Label+"]")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderInfo summarizes compiler info and the server settings of a
// project.
func RenderInfo(identity models.ProjectIdentity, port int, serverMode bool, info models.CompilerInfo) string {
	version := "unknown"
	if info.VersionDetected {
		version = fmt.Sprintf("%d", info.Version)
	}

	rows := [][2]string{
		{"Project", identity.String()},
		{"Compiler", version},
		{"Server", fmt.Sprintf("port %d, server mode %t", port, serverMode)},
		{"Classpaths", strings.Join(info.Classpaths, "\n")},
		{"Classes", fmt.Sprintf("%d", len(info.Classes))},
		{"Packages", strings.Join(info.Packages, ", ")},
	}
	if info.ProbeErr != nil {
		rows = append(rows, [2]string{"Error", ErrorStyle.Render(info.ProbeErr.Error())})
	}

	keyStyle := HeaderStyle.Width(12)
	var lines []string
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(row[0]), row[1]))
	}
	return strings.Join(lines, "\n") + "\n"
}
