//go:build !windows

package process

import (
	"errors"
	"fmt"
	"syscall"
)

// KillTree sends SIGKILL to the browser's process group. Chrome starts its
// renderers in the group led by the browser, so the negative PID reaches
// them too. A group that already exited is not an error.
func KillTree(pid int) error {
	if err := checkPID(pid); err != nil {
		return fmt.Errorf("%w: %d", err, pid)
	}
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if err == nil || errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return fmt.Errorf("killing browser group %d: %w", pid, err)
}
