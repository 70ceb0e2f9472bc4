//go:build !windows

package process

import "syscall"

// KillProcessGroup kills a browser and every renderer it spawned by sending
// SIGKILL to its process group (negative PID).
func KillProcessGroup(pid int) {
	// Error ignored: launcher.Kill() runs next and covers a missing group.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
