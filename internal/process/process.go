// Package process terminates the headless browser and the renderer
// processes it spawned, so a closed converter leaves nothing running.
package process

import "errors"

// ErrInvalidPID is returned for PIDs that would target the caller's own
// process group or init.
var ErrInvalidPID = errors.New("invalid browser pid")

func checkPID(pid int) error {
	if pid <= 1 {
		return ErrInvalidPID
	}
	return nil
}
