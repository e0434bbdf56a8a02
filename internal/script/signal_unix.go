//go:build unix

package script

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func signalToggle(p *os.Process) error {
	return p.Signal(unix.SIGUSR1)
}

// ownGroup starts the player in a process group of its own so terminate
// reaches every process sudo forks.
func ownGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate sends sig to the player's process group. sudo relays it to the
// command it runs as root.
func terminate(p *os.Process, kill bool) error {
	sig := unix.SIGTERM
	if kill {
		sig = unix.SIGKILL
	}
	err := unix.Kill(-p.Pid, sig)
	if errors.Is(err, unix.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}
