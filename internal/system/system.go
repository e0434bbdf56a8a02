package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

type Runner interface {
	Run(ctx context.Context, cmd string, args ...string) (stdout, stderr string, err error)
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

type NoopRunner struct{}

func (NoopRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	return "", "", nil
}

// ShellRunner executes commands via sudo and uses PATH to resolve scripts.
// It returns stdout, stderr, and an error if the command exits non-zero.
type ShellRunner struct {
	Logger logger
	// NoSudo runs cmd directly; used when the player already runs as root.
	NoSudo bool
}

func (s ShellRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	name, fullArgs := "sudo", append([]string{cmd}, args...)
	if s.NoSudo {
		name, fullArgs = cmd, args
	}
	c := exec.CommandContext(ctx, name, fullArgs...)
	var outBuf, errBuf bytes.Buffer
	c.Stdout = &outBuf
	c.Stderr = &errBuf
	err := c.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("exit %d: %w", exitErr.ExitCode(), err)
		}
		if s.Logger != nil {
			s.Logger.Errorf("system", "%s %v failed: %v", cmd, args, err)
		}
		return outBuf.String(), errBuf.String(), err
	}
	return outBuf.String(), errBuf.String(), nil
}
