//go:build windows

package process

import (
	"fmt"
	"os/exec"
	"strconv"
)

// KillTree force-kills the browser and its child renderers with taskkill.
// taskkill fails for a PID that already exited, so callers treat the error
// as informational.
func KillTree(pid int) error {
	if err := checkPID(pid); err != nil {
		return fmt.Errorf("%w: %d", err, pid)
	}
	if err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run(); err != nil {
		return fmt.Errorf("killing browser tree %d: %w", pid, err)
	}
	return nil
}
