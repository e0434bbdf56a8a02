//go:build !unix

package usb

import (
	"errors"
	"os"
)

// Without flock the lock file's presence is the lock.
func lockHeld(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
