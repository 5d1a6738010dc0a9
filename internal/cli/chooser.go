package cli

import (
	"context"

	"github.com/jakoblorz/go-hxproject/internal/editor"
	"github.com/jakoblorz/go-hxproject/internal/tui"
)

// promptAnswers answers prompts by title from flags and defers the rest to
// the interactive chooser.
type promptAnswers struct {
	answers  map[string]int
	fallback editor.Chooser
}

func (c *promptAnswers) Choose(ctx context.Context, title string, rows [][]string, done func(index int, ok bool)) {
	if index, ok := c.answers[title]; ok {
		tui.IndexChooser{Index: index}.Choose(ctx, title, rows, done)
		return
	}
	c.fallback.Choose(ctx, title, rows, done)
}
