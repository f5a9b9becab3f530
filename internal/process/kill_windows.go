//go:build windows

// Package process tears down browser process trees.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its children with taskkill /F /T.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
