package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jakoblorz/go-hxproject/internal/tui"
)

// consoleNotifier prints status messages and the output panel to w.
type consoleNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	status map[string]string
}

func newConsoleNotifier(w io.Writer) *consoleNotifier {
	return &consoleNotifier{w: w, status: make(map[string]string)}
}

func (n *consoleNotifier) StatusMessage(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s %s\n", tui.SubtleStyle.Render("»"), msg)
}

func (n *consoleNotifier) SetStatus(key, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status[key] = value
	fmt.Fprintf(n.w, "%s %s\n", tui.HeaderStyle.Render(key+":"), value)
}

func (n *consoleNotifier) Writeln(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, strings.TrimRight(msg, "\n"))
}

// Status returns the last value set for key.
func (n *consoleNotifier) Status(key string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status[key]
}
