//go:build !linux

package input

import (
	"context"
	"errors"
)

// EvdevSource is only available on Linux.
type EvdevSource struct {
	DevicePath string
	Logger     Logger
	ch         chan Key
}

func NewEvdevSource(devicePath string, logger Logger) *EvdevSource {
	return &EvdevSource{DevicePath: devicePath, Logger: logger, ch: make(chan Key)}
}

func (s *EvdevSource) Start(ctx context.Context) error {
	return errors.New("evdev input is only supported on linux")
}

func (s *EvdevSource) Stop() error      { return nil }
func (s *EvdevSource) Keys() <-chan Key { return s.ch }
