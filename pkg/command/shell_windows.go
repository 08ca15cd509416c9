//go:build windows

package command

import (
	"os/exec"
	"syscall"
)

// configurePlatform passes the command line to cmd.exe verbatim; the default
// argument escaping would mangle the embedded quotes. With /S cmd.exe strips
// only the outer pair of quotes.
func configurePlatform(cmd *exec.Cmd, line string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: `cmd /S /C "` + line + `"`}
}
