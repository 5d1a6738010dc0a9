package editor

import (
	"context"
	"sync"
)

// MemoryHost is an in-memory Host for tests and headless use.
type MemoryHost struct {
	mu      sync.Mutex
	windows []*MemoryWindow
	active  int
}

// NewMemoryHost creates a host with the given windows; the first is active.
func NewMemoryHost(windows ...*MemoryWindow) *MemoryHost {
	return &MemoryHost{windows: windows}
}

func (h *MemoryHost) Windows() []Window {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Window, len(h.windows))
	for i, w := range h.windows {
		out[i] = w
	}
	return out
}

func (h *MemoryHost) ActiveWindow() Window {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active < 0 || h.active >= len(h.windows) {
		return nil
	}
	return h.windows[h.active]
}

// Open adds a window and makes it active.
func (h *MemoryHost) Open(w *MemoryWindow) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.windows = append(h.windows, w)
	h.active = len(h.windows) - 1
}

// Close removes the window with id.
func (h *MemoryHost) Close(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, w := range h.windows {
		if w.id == id {
			h.windows = append(h.windows[:i], h.windows[i+1:]...)
			break
		}
	}
	if h.active >= len(h.windows) {
		h.active = len(h.windows) - 1
	}
}

// MemoryWindow is an in-memory Window.
type MemoryWindow struct {
	id      int
	folders []string
	Opened  []string
}

// NewMemoryWindow creates a window with the given root folders.
func NewMemoryWindow(id int, folders ...string) *MemoryWindow {
	return &MemoryWindow{id: id, folders: folders}
}

func (w *MemoryWindow) ID() int           { return w.id }
func (w *MemoryWindow) Folders() []string { return w.folders }

func (w *MemoryWindow) OpenTransient(path string) error {
	w.Opened = append(w.Opened, path)
	return nil
}

// MemoryView is an in-memory View.
type MemoryView struct {
	fileName string
	window   Window
	text     string
	settings *MemorySettings
	Saves    int
}

// NewMemoryView creates a view of fileName in window with text as content.
func NewMemoryView(window Window, fileName, text string) *MemoryView {
	return &MemoryView{
		fileName: fileName,
		window:   window,
		text:     text,
		settings: NewMemorySettings(),
	}
}

func (v *MemoryView) FileName() string   { return v.fileName }
func (v *MemoryView) Window() Window     { return v.window }
func (v *MemoryView) Text() string       { return v.text }
func (v *MemoryView) Size() int          { return len(v.text) }
func (v *MemoryView) IsHaxeSource() bool { return IsHaxeSourceFile(v.fileName) }
func (v *MemoryView) IsBuildFile() bool  { return IsBuildFile(v.fileName) }
func (v *MemoryView) Settings() Settings { return v.settings }

func (v *MemoryView) Save() error {
	v.Saves++
	return nil
}

// SetText replaces the buffer content.
func (v *MemoryView) SetText(text string) {
	v.text = text
}

// MemorySettings is an in-memory Settings.
type MemorySettings struct {
	mu     sync.Mutex
	values map[string]any
}

// NewMemorySettings creates empty settings.
func NewMemorySettings() *MemorySettings {
	return &MemorySettings{values: make(map[string]any)}
}

// Set stores an arbitrary value.
func (s *MemorySettings) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemorySettings) Int(key string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key].(int)
	return v, ok
}

func (s *MemorySettings) String(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key].(string)
	return v, ok
}

func (s *MemorySettings) StringMap(key string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, _ := s.values[key].(map[string]string)
	return v
}

func (s *MemorySettings) SetInt(key string, value int) error {
	s.Set(key, value)
	return nil
}

// RecordingNotifier keeps every notification for assertions.
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []string
	Status   map[string]string
	Panel    []string
}

// NewRecordingNotifier creates an empty RecordingNotifier.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{Status: make(map[string]string)}
}

func (n *RecordingNotifier) StatusMessage(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, msg)
}

func (n *RecordingNotifier) SetStatus(key, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Status[key] = value
}

func (n *RecordingNotifier) Writeln(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Panel = append(n.Panel, msg)
}

// PendingChoice is a chooser prompt that has not been answered yet.
type PendingChoice struct {
	Title string
	Rows  [][]string
	done  func(int, bool)
}

// Select answers the prompt with index.
func (p *PendingChoice) Select(index int) { p.done(index, true) }

// Cancel dismisses the prompt.
func (p *PendingChoice) Cancel() { p.done(-1, false) }

// ScriptedChooser records prompts and leaves them pending until a test
// answers them.
type ScriptedChooser struct {
	mu      sync.Mutex
	Prompts []*PendingChoice
}

func (c *ScriptedChooser) Choose(_ context.Context, title string, rows [][]string, done func(int, bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Prompts = append(c.Prompts, &PendingChoice{Title: title, Rows: rows, done: done})
}

// Last returns the most recent prompt, or nil.
func (c *ScriptedChooser) Last() *PendingChoice {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Prompts) == 0 {
		return nil
	}
	return c.Prompts[len(c.Prompts)-1]
}
