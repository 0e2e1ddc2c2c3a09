//go:build windows

package converter

import (
	"os/exec"
	"syscall"
)

// hideWindow keeps the generator from flashing a console window.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
