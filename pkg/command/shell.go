package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dustup/pkg/errors"
	"github.com/arthur-debert/dustup/pkg/logging"
)

// waitDelay bounds how long Run waits for output pipes after the process
// was killed; grandchildren may hold them open.
const waitDelay = time.Second

// ShellRunner runs Command.Line through the platform shell, so quoted
// arguments reach the tool exactly as written.
type ShellRunner struct {
	logger zerolog.Logger
}

// NewShellRunner creates a ShellRunner
func NewShellRunner() *ShellRunner {
	return &ShellRunner{logger: logging.GetLogger("command.shell")}
}

// Run implements Runner
func (r *ShellRunner) Run(ctx context.Context, c Command) (Result, error) {
	if c.Path == "" {
		return Result{}, errors.New(errors.ErrInvalidInput, "command requires an executable")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	line := c.Line()
	shell, flag := shellFor()
	logging.LogCommand(r.logger, shell, []string{flag, line})

	cmd := exec.CommandContext(ctx, shell, flag, line)
	cmd.Env = os.Environ()
	cmd.WaitDelay = waitDelay
	if c.Dir != "" {
		if _, err := os.Stat(c.Dir); err != nil {
			return Result{}, errors.Wrapf(err, errors.ErrCommandExec, "working directory does not exist: %s", c.Dir)
		}
		cmd.Dir = c.Dir
	}
	configurePlatform(cmd, line)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(cmd, err),
		Duration: time.Since(start),
	}

	if err == nil {
		r.logger.Debug().
			Str("command", line).
			Dur("duration", result.Duration).
			Msg("Command completed")
		return result, nil
	}

	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		r.logger.Warn().
			Str("command", line).
			Dur("timeout", c.Timeout).
			Msg("Command timed out and was killed")
		return result, errors.Wrapf(err, errors.ErrCommandTimeout, "command timed out after %s", c.Timeout).
			WithDetail("command", line)
	}

	r.logger.Debug().
		Err(err).
		Str("command", line).
		Int("exitCode", result.ExitCode).
		Str("stderr", result.Stderr).
		Msg("Command failed")
	return result, errors.Wrap(err, errors.ErrCommandExec, "command failed").
		WithDetail("command", line).
		WithDetail("exitCode", result.ExitCode)
}

func shellFor() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "/bin/sh", "-c"
}

func exitCode(cmd *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}
