//go:build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

var evdevKeys = map[evdev.EvCode]Key{
	evdev.KEY_UP:        KeyUp,
	evdev.KEY_DOWN:      KeyDown,
	evdev.KEY_LEFT:      KeyLeft,
	evdev.KEY_RIGHT:     KeyRight,
	evdev.KEY_ENTER:     KeyOK,
	evdev.KEY_KPENTER:   KeyOK,
	evdev.KEY_SPACE:     KeyOK,
	evdev.KEY_ESC:       KeyBack,
	evdev.KEY_BACKSPACE: KeyBack,
}

// EvdevSource reads navigation keys from Linux input devices. With an empty
// DevicePath every device exposing the arrow keys is used.
type EvdevSource struct {
	DevicePath string
	Logger     Logger

	devices []*evdev.InputDevice
	ch      chan Key
	stopCh  chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func NewEvdevSource(devicePath string, logger Logger) *EvdevSource {
	if logger == nil {
		logger = noopLogger{}
	}
	return &EvdevSource{
		DevicePath: devicePath,
		Logger:     logger,
		ch:         make(chan Key, 16),
		stopCh:     make(chan struct{}),
	}
}

func (s *EvdevSource) Start(ctx context.Context) error {
	devices, err := s.open()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return errors.New("no input device exposes navigation keys")
	}
	for _, dev := range devices {
		if err := dev.NonBlock(); err != nil {
			closeAll(devices)
			return fmt.Errorf("failed to set nonblocking mode for %s: %w", dev.Path(), err)
		}
	}
	s.devices = devices
	for _, dev := range devices {
		name, _ := dev.Name()
		s.Logger.Infof("input", "reading keys from %s (%s)", dev.Path(), name)
		s.wg.Add(1)
		go s.readLoop(ctx, dev)
	}
	go func() {
		s.wg.Wait()
		close(s.ch)
	}()
	return nil
}

func (s *EvdevSource) open() ([]*evdev.InputDevice, error) {
	if s.DevicePath != "" {
		dev, err := evdev.OpenWithFlags(s.DevicePath, os.O_RDONLY)
		if err != nil {
			return nil, err
		}
		return []*evdev.InputDevice{dev}, nil
	}

	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	var devices []*evdev.InputDevice
	for _, p := range paths {
		dev, err := evdev.OpenWithFlags(p.Path, os.O_RDONLY)
		if err != nil {
			continue
		}
		if !hasNavigationKeys(dev) {
			_ = dev.Close()
			continue
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

func hasNavigationKeys(dev *evdev.InputDevice) bool {
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		if code == evdev.KEY_UP || code == evdev.KEY_ENTER {
			return true
		}
	}
	return false
}

func (s *EvdevSource) Stop() error {
	s.once.Do(func() {
		close(s.stopCh)
		closeAll(s.devices)
	})
	return nil
}

func (s *EvdevSource) Keys() <-chan Key { return s.ch }

func (s *EvdevSource) readLoop(ctx context.Context, dev *evdev.InputDevice) {
	defer s.wg.Done()
	for {
		events, err := dev.ReadSlice(64)
		if err != nil {
			if s.stopped(ctx) || isDeviceClosedError(err) {
				return
			}
			if isWouldBlockError(err) {
				if !s.sleepWithStop(ctx, 10*time.Millisecond) {
					return
				}
				continue
			}
			s.Logger.Errorf("input", "read %s failed: %v", dev.Path(), err)
			if !s.sleepWithStop(ctx, 100*time.Millisecond) {
				return
			}
			continue
		}
		for _, event := range events {
			key, ok := translate(event)
			if !ok {
				continue
			}
			select {
			case s.ch <- key:
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// translate maps a key press to a navigation key. Auto-repeat is honoured
// for Up and Down only so that holding OK or Back does not fire twice.
func translate(event evdev.InputEvent) (Key, bool) {
	if event.Type != evdev.EV_KEY {
		return KeyNone, false
	}
	key, ok := evdevKeys[event.Code]
	if !ok {
		return KeyNone, false
	}
	switch event.Value {
	case 1:
		return key, true
	case 2:
		return key, key == KeyUp || key == KeyDown
	default:
		return KeyNone, false
	}
}

func (s *EvdevSource) stopped(ctx context.Context) bool {
	select {
	case <-s.stopCh:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (s *EvdevSource) sleepWithStop(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-s.stopCh:
		return false
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func closeAll(devices []*evdev.InputDevice) {
	for _, dev := range devices {
		_ = dev.Close()
	}
}

func isDeviceClosedError(err error) bool {
	return errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENODEV) || errors.Is(err, os.ErrClosed)
}

func isWouldBlockError(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}
