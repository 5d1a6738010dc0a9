// Package tui implements the terminal chooser and styled listings.
package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/jakoblorz/go-hxproject/internal/logging"
	"go.uber.org/zap"
)

// HuhChooser asks the user with a huh select form. It answers before
// Choose returns.
type HuhChooser struct {
	theme  *huh.Theme
	logger *logging.Logger
	run    func(ctx context.Context, form *huh.Form) error
}

// NewHuhChooser constructs a chooser with the default theme.
func NewHuhChooser(logger *logging.Logger) *HuhChooser {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &HuhChooser{
		theme:  NewHuhTheme(),
		logger: logger,
		run: func(ctx context.Context, form *huh.Form) error {
			return form.RunWithContext(ctx)
		},
	}
}

func (c *HuhChooser) Choose(ctx context.Context, title string, rows [][]string, done func(index int, ok bool)) {
	if len(rows) == 0 {
		done(-1, false)
		return
	}

	selected := 0
	opts := make([]huh.Option[int], len(rows))
	for i, row := range rows {
		opts[i] = huh.NewOption(RowLabel(row), i)
	}

	keyMap := huh.NewDefaultKeyMap()
	keyMap.Select.Submit.SetKeys("enter", " ")
	keyMap.Select.Submit.SetHelp("space/enter", "choose")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Options(opts...).
				Height(min(len(rows)+2, 16)).
				Value(&selected),
		).
			Title(title),
	).
		WithTheme(c.theme).
		WithShowHelp(true).
		WithProgramOptions(tea.WithAltScreen()).
		WithKeyMap(keyMap)

	if err := c.run(ctx, form); err != nil {
		if !errors.Is(err, huh.ErrUserAborted) {
			c.logger.Warn(ctx, "chooser failed", zap.String("title", title), zap.Error(err))
		}
		done(-1, false)
		return
	}

	done(selected, true)
}

// RowLabel joins a chooser row: the first column plain, the rest dimmed.
func RowLabel(row []string) string {
	if len(row) == 0 {
		return ""
	}
	if len(row) == 1 {
		return row[0]
	}
	return row[0] + "  " + DescStyle.Render(strings.Join(row[1:], "  "))
}

// IndexChooser answers every prompt with a fixed index, for scripted use.
// A negative or out-of-range index cancels.
type IndexChooser struct {
	Index int
}

func (c IndexChooser) Choose(_ context.Context, _ string, rows [][]string, done func(index int, ok bool)) {
	if c.Index < 0 || c.Index >= len(rows) {
		done(-1, false)
		return
	}
	done(c.Index, true)
}
