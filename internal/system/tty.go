//go:build linux

package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

var consolePaths = []string{"/dev/tty", "/dev/tty0"}

// Console switches the active virtual terminal between text and graphics
// mode so the blinking cursor does not draw over the framebuffer.
type Console struct {
	Logger logger
}

// Acquire enters graphics mode and hides the cursor. The returned func undoes
// both and is safe to call when Acquire failed.
func (c Console) Acquire() func() {
	if err := setKDMode(kdGraphics); err != nil {
		c.errorf("KD_GRAPHICS failed: %v", err)
	} else {
		c.infof("KD_GRAPHICS set")
	}
	if err := writeVT("\x1b[?25l"); err != nil {
		c.errorf("hide cursor failed: %v", err)
	}
	return func() {
		if err := writeVT("\x1b[?25h"); err != nil {
			c.errorf("show cursor failed: %v", err)
		}
		if err := setKDMode(kdText); err != nil {
			c.errorf("KD_TEXT failed: %v", err)
		} else {
			c.infof("KD_TEXT set")
		}
	}
}

func (c Console) infof(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Infof("tty", format, args...)
	}
}

func (c Console) errorf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Errorf("tty", format, args...)
	}
}

func setKDMode(mode int) error {
	var lastErr error
	for _, p := range consolePaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		_ = unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("KDSETMODE %d on %s: %w", mode, p, err)
			continue
		}
		return nil
	}
	return lastErr
}

func writeVT(s string) error {
	var lastErr error
	for _, p := range consolePaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		_ = f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("write VT failed: %w", lastErr)
}
