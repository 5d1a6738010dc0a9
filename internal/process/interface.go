package process

import (
	"context"
	"sort"
	"strings"
)

// Command is one external program invocation.
type Command struct {
	Path string
	Args []string

	// Dir is the working directory; empty means the current one.
	Dir string

	// Env is the complete environment; nil inherits the current one.
	Env []string
}

// String renders the command line for logs and mock lookups.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Result is the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner provides an abstraction over external processes for testability
//
// Run waits for the command and captures its output. A non-zero exit is
// reported as an error wrapping models.ErrProcess together with the
// captured Result, so callers that show compiler diagnostics still get
// them.
//
// Start launches a long-running command (the compiler server) that
// outlives ctx; it is ended with Process.Stop.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	Start(ctx context.Context, cmd Command) (Process, error)
}

// Process is a started background command.
type Process interface {
	Pid() int

	// Stop terminates the process. Calling it more than once is a no-op.
	Stop() error

	// Done is closed once the process exited.
	Done() <-chan struct{}
}

// MergeEnv returns base with every key of overrides set, replacing existing
// entries. Added keys are appended in sorted order.
func MergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return append([]string(nil), base...)
	}

	out := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]struct{}, len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if value, ok := overrides[key]; ok {
			out = append(out, key+"="+value)
			seen[key] = struct{}{}
			continue
		}
		out = append(out, kv)
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		if _, ok := seen[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		out = append(out, key+"="+overrides[key])
	}
	return out
}
