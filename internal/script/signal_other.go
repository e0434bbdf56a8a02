//go:build !unix

package script

import (
	"errors"
	"os"
	"os/exec"
)

func signalToggle(*os.Process) error {
	return errors.New("pause not supported on this platform")
}

func ownGroup(*exec.Cmd) {}

func terminate(p *os.Process, _ bool) error {
	return p.Kill()
}
