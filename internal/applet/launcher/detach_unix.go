//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own process group so that signals aimed at
// the applet do not reach the dialog.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
