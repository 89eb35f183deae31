//go:build unix

package supervise

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts the child in its own process group so the whole
// tree, including filter-graph helpers the encoder may spawn, can be
// signaled at once.
func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// terminateGroup sends SIGTERM to the process group. The negative pid
// targets the group leader and all children; this requires Setpgid at
// spawn time.
func terminateGroup(pid int) {
	if err := syscall.Kill(-pid, syscall.SIGTERM); err == syscall.ESRCH {
		return
	} else if err != nil {
		// PGID signal restricted; fall back to the single process.
		_ = syscall.Kill(pid, syscall.SIGTERM)
	}
}

// killGroup sends SIGKILL to the process group.
func killGroup(pid int) {
	if err := syscall.Kill(-pid, syscall.SIGKILL); err == syscall.ESRCH {
		return
	} else if err != nil {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
}
