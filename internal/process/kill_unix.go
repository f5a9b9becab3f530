//go:build !windows

// Package process tears down browser process trees.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking the
// browser's renderer and GPU helpers down with it. Errors are ignored: the
// caller still runs launcher.Kill as a fallback.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
