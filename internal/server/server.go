// Package server manages the background compiler server ("haxe --wait")
// owned by one project.
package server

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/jakoblorz/go-hxproject/internal/logging"
	"github.com/jakoblorz/go-hxproject/internal/process"
	"go.uber.org/zap"
)

// Server is the compiler server bound to one port.
type Server struct {
	mu      sync.Mutex
	port    int
	runner  process.Runner
	logger  *logging.Logger
	proc    process.Process
	stopped bool
}

// New creates a stopped server for port.
func New(port int, runner process.Runner, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{port: port, runner: runner, logger: logger}
}

// Port is the port the server listens on.
func (s *Server) Port() int {
	return s.port
}

// Running reports whether a started server has not exited yet.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningLocked()
}

func (s *Server) runningLocked() bool {
	if s.proc == nil {
		return false
	}
	select {
	case <-s.proc.Done():
		return false
	default:
		return true
	}
}

// Start launches "<exec> --wait <port>" in dir. It is a no-op while the
// server is running; a server that exited is started again. A stopped
// server cannot be restarted.
func (s *Server) Start(ctx context.Context, exec, dir string, env []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return fmt.Errorf("server on port %d was stopped", s.port)
	}
	if s.runningLocked() {
		s.logger.Debug(ctx, "compiler server already running", zap.Int("port", s.port))
		return nil
	}

	cmd := process.Command{
		Path: exec,
		Args: []string{"--wait", strconv.Itoa(s.port)},
		Dir:  dir,
		Env:  env,
	}
	proc, err := s.runner.Start(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to start compiler server: %w", err)
	}

	s.proc = proc
	s.logger.Info(ctx, "compiler server started",
		zap.Int("port", s.port),
		zap.Int("pid", proc.Pid()),
		zap.String("cwd", dir),
	)
	return nil
}

// Stop terminates the server. Only the first call has an effect.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	s.stopped = true

	if s.proc == nil {
		return nil
	}
	if err := s.proc.Stop(); err != nil {
		return fmt.Errorf("failed to stop compiler server on port %d: %w", s.port, err)
	}
	s.logger.Info(ctx, "compiler server stopped", zap.Int("port", s.port))
	return nil
}
