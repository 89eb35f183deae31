//go:build windows

package supervise

import (
	"os"
	"os/exec"
)

// Windows has no POSIX process groups; termination degrades to killing the
// direct child only.

func setProcessGroup(cmd *exec.Cmd) {}

func terminateGroup(pid int) {
	killGroup(pid)
}

func killGroup(pid int) {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return
	}
	_ = proc.Kill()
}
