//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills a browser and its process tree with taskkill.
// /F forces termination, /T includes child processes.
func KillProcessGroup(pid int) {
	// Error ignored: launcher.Kill() runs next and covers an exited tree.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
