//go:build !windows

package command

import (
	"os/exec"
	"syscall"
)

// configurePlatform starts the shell in its own process group and makes
// cancellation kill the whole group, not only the shell.
func configurePlatform(cmd *exec.Cmd, line string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
