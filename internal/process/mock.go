package process

import (
	"context"
	"fmt"
	"sync"

	"github.com/jakoblorz/go-hxproject/internal/models"
)

// MockRunner implements Runner for testing. Responses are looked up by the
// full command line, falling back to Default.
type MockRunner struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	calls     []Command
	started   []*MockProcess
	nextPid   int

	// Default answers commands without a registered response.
	Default Result

	// StartError makes every Start fail.
	StartError error
}

type mockResponse struct {
	result Result
	err    error
}

// NewMockRunner creates a new MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{
		responses: make(map[string]mockResponse),
		nextPid:   1000,
	}
}

// On registers the result of the command line path + args.
func (m *MockRunner) On(commandLine string, result Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[commandLine] = mockResponse{result: result}
}

// Fail makes the command line fail with err.
func (m *MockRunner) Fail(commandLine string, result Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[commandLine] = mockResponse{result: result, err: fmt.Errorf("%w: %v", models.ErrProcess, err)}
}

// Calls returns every command passed to Run.
func (m *MockRunner) Calls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Command(nil), m.calls...)
}

// Started returns every process launched with Start.
func (m *MockRunner) Started() []*MockProcess {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockProcess(nil), m.started...)
}

func (m *MockRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, cmd)
	if err := ctx.Err(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("%w: %v", models.ErrProcess, err)
	}
	if response, ok := m.responses[cmd.String()]; ok {
		return response.result, response.err
	}
	return m.Default, nil
}

func (m *MockRunner) Start(_ context.Context, cmd Command) (Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StartError != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrProcess, m.StartError)
	}

	m.nextPid++
	p := &MockProcess{Command: cmd, pid: m.nextPid, done: make(chan struct{})}
	m.started = append(m.started, p)
	return p, nil
}

// MockProcess is a fake background process.
type MockProcess struct {
	Command Command

	mu     sync.Mutex
	pid    int
	stops  int
	exited bool
	done   chan struct{}
}

func (p *MockProcess) Pid() int { return p.pid }

func (p *MockProcess) Done() <-chan struct{} { return p.done }

func (p *MockProcess) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
	p.exit()
	return nil
}

// Stops reports how often Stop was called.
func (p *MockProcess) Stops() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stops
}

// Exit simulates the process ending on its own.
func (p *MockProcess) Exit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exit()
}

func (p *MockProcess) exit() {
	if !p.exited {
		p.exited = true
		close(p.done)
	}
}
