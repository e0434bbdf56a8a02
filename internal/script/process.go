package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// stopGrace is how long Close waits after SIGTERM before SIGKILL.
	stopGrace = 2 * time.Second
	// pipeGrace bounds the wait for output pipes still held by children.
	pipeGrace = time.Second
)

// ProcessEngine plays scripts through an external player run via sudo:
//
//	sudo <Command> --layout <table> --interface <usb|ble> <script>
//
// The player reports "progress <n>/<total>" lines on stdout and toggles
// pause when it receives SIGUSR1.
type ProcessEngine struct {
	Command string
	Logger  Logger
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

func NewProcessEngine(command string, logger Logger) *ProcessEngine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &ProcessEngine{Command: command, Logger: logger}
}

func (e *ProcessEngine) Open(path string, opts Options) (Handle, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, ErrNotFound)
	}
	total, err := countLines(path)
	if err != nil {
		return nil, err
	}
	args := []string{
		e.Command,
		"--layout", opts.LayoutPath,
		"--interface", strings.ToLower(opts.Interface.String()),
		path,
	}
	return &processHandle{
		args:   args,
		logger: e.Logger,
		status: Status{State: Idle, Total: total},
	}, nil
}

type processHandle struct {
	args   []string
	logger Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	done   chan struct{}
	status Status
	closed bool
}

func (h *processHandle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

func (h *processHandle) Toggle() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	switch h.status.State {
	case Idle:
		return h.startLocked()
	case Running, Paused:
		if err := signalToggle(h.cmd.Process); err != nil {
			return fmt.Errorf("toggle player: %w", err)
		}
		if h.status.State == Running {
			h.status.State = Paused
		} else {
			h.status.State = Running
		}
		return nil
	default:
		return nil
	}
}

func (h *processHandle) startLocked() error {
	cmd := exec.Command("sudo", h.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr := &ringBuffer{max: 4096}
	cmd.Stderr = stderr
	cmd.WaitDelay = pipeGrace
	ownGroup(cmd)

	if err := cmd.Start(); err != nil {
		h.status.State = Failed
		h.status.Err = err.Error()
		return err
	}
	h.cmd = cmd
	h.done = make(chan struct{})
	h.status.State = Running
	h.logger.Infof("script", "player started: %s", strings.Join(h.args, " "))

	go h.readProgress(stdout)
	go h.wait(cmd, stderr)
	return nil
}

func (h *processHandle) readProgress(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line, total, ok := parseProgress(scanner.Text())
		if !ok {
			continue
		}
		h.mu.Lock()
		h.status.Line = line
		if total > 0 {
			h.status.Total = total
		}
		h.mu.Unlock()
	}
}

func (h *processHandle) wait(cmd *exec.Cmd, stderr *ringBuffer) {
	err := cmd.Wait()

	h.mu.Lock()
	if err != nil {
		msg := err.Error()
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg = msg + ": " + s
		}
		h.status.State = Failed
		h.status.Err = msg
		h.logger.Errorf("script", "player failed: %s", msg)
	} else {
		h.status.State = Done
		h.status.Line = h.status.Total
	}
	done := h.done
	h.mu.Unlock()
	close(done)
}

func (h *processHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	h.closed = true
	cmd, done := h.cmd, h.done
	running := cmd != nil && !h.status.Finished()
	h.mu.Unlock()

	if !running {
		return nil
	}
	if err := terminate(cmd.Process, false); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stop player: %w", err)
	}
	timer := time.NewTimer(stopGrace)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
	}
	h.logger.Errorf("script", "player ignored SIGTERM, killing")
	if err := terminate(cmd.Process, true); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill player: %w", err)
	}
	<-done
	return nil
}

// parseProgress reads "progress <n>/<total>".
func parseProgress(line string) (int, int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "progress ")
	if !ok {
		return 0, 0, false
	}
	a, b, ok := strings.Cut(strings.TrimSpace(rest), "/")
	if !ok {
		return 0, 0, false
	}
	n, err := strconv.Atoi(a)
	if err != nil || n < 0 {
		return 0, 0, false
	}
	total, err := strconv.Atoi(b)
	if err != nil || total < 0 {
		return 0, 0, false
	}
	return n, total, true
}

// countLines counts playable script lines: non-empty and not REM comments.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	total := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "REM" || strings.HasPrefix(line, "REM ") {
			continue
		}
		total++
	}
	return total, scanner.Err()
}

type ringBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (r *ringBuffer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.max <= 0 {
		return len(p), nil
	}
	r.buf = append(r.buf, p...)
	if over := len(r.buf) - r.max; over > 0 {
		r.buf = append(r.buf[:0], r.buf[over:]...)
	}
	return len(p), nil
}

func (r *ringBuffer) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.buf)
}
