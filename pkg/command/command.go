// Package command runs an external compiler as a subprocess with a hard
// timeout and captured output.
package command

import (
	"context"
	"strings"
	"time"
)

// Command is one invocation of an external tool
type Command struct {
	// Path is the executable, already quoted if it needs to be
	Path string

	// Args are appended to Path, separated by single spaces
	Args []string

	// Dir is the working directory; empty means the current one
	Dir string

	// Timeout kills the process when exceeded; zero means no timeout
	Timeout time.Duration
}

// Line renders the command line handed to the shell
func (c Command) Line() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Result is what a finished (or killed) process left behind
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Runner executes commands
type Runner interface {
	// Run blocks until the process exits, is killed on timeout or ctx is
	// done. A non-nil error means the command did not succeed; the Result is
	// still populated with whatever output was captured.
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Quote wraps s in double quotes
func Quote(s string) string {
	return `"` + s + `"`
}

// QuoteIfSpaced quotes s when it contains a space
func QuoteIfSpaced(s string) string {
	if strings.Contains(s, " ") {
		return Quote(s)
	}
	return s
}
