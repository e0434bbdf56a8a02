//go:build unix

package usb

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// lockHeld tests the lock file without keeping it.
func lockHeld(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return true, nil
		}
		return false, err
	}
	_ = unix.Flock(fd, unix.LOCK_UN)
	return false, nil
}
