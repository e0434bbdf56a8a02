// Package settings persists the user preferences of the keystroke player.
//
// Loading is a total function: a missing, corrupted or foreign settings
// file yields the built-in defaults, never an error and never a partially
// populated value.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	FileType = "Flipper BadUSB Settings File"
	Version  = 1

	// LayoutSize is the exact size of a keyboard layout table.
	LayoutSize = 256

	fieldLayout    = "layout"
	fieldInterface = "interface"
)

// Interface selects the HID transport used for playback.
type Interface uint32

const (
	InterfaceUSB Interface = iota
	InterfaceBLE
)

func (i Interface) Valid() bool { return i <= InterfaceBLE }

func (i Interface) String() string {
	switch i {
	case InterfaceUSB:
		return "USB"
	case InterfaceBLE:
		return "BLE"
	default:
		return fmt.Sprintf("Interface(%d)", uint32(i))
	}
}

// Next cycles through the known interfaces.
func (i Interface) Next() Interface {
	if i >= InterfaceBLE {
		return InterfaceUSB
	}
	return i + 1
}

type Preferences struct {
	LayoutPath string
	Interface  Interface
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// Store reads and writes Preferences at Path.
type Store struct {
	Path          string
	DefaultLayout string
	Logger        Logger
}

func NewStore(path, defaultLayout string) *Store {
	return &Store{Path: path, DefaultLayout: defaultLayout, Logger: noopLogger{}}
}

func (s *Store) Defaults() Preferences {
	return Preferences{LayoutPath: s.DefaultLayout, Interface: InterfaceUSB}
}

// Load returns the stored preferences or the defaults.
// A record that validates but names an unusable layout file keeps its
// interface and gets the default layout path.
func (s *Store) Load() Preferences {
	prefs, err := s.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger().Errorf("settings", "ignoring %s: %v", s.Path, err)
		}
		return s.Defaults()
	}
	if !ValidLayout(prefs.LayoutPath) {
		s.logger().Infof("settings", "layout %q unusable, using %s", prefs.LayoutPath, s.DefaultLayout)
		prefs.LayoutPath = s.DefaultLayout
	}
	return prefs
}

func (s *Store) read() (Preferences, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Preferences{}, err
	}
	rec, err := ReadRecord(bytes.NewReader(data))
	if err != nil {
		return Preferences{}, err
	}
	if rec.Filetype != FileType {
		return Preferences{}, fmt.Errorf("unexpected file type %q", rec.Filetype)
	}
	if rec.Version != Version {
		return Preferences{}, fmt.Errorf("unsupported version %d", rec.Version)
	}
	layout, err := rec.String(fieldLayout)
	if err != nil {
		return Preferences{}, err
	}
	if layout == "" {
		return Preferences{}, errors.New("empty layout")
	}
	raw, err := rec.Uint32(fieldInterface)
	if err != nil {
		return Preferences{}, err
	}
	iface := Interface(raw)
	if !iface.Valid() {
		return Preferences{}, fmt.Errorf("interface %d out of range", raw)
	}
	return Preferences{LayoutPath: layout, Interface: iface}, nil
}

// Save overwrites the settings file atomically.
func (s *Store) Save(prefs Preferences) error {
	rec := NewRecord(FileType, Version)
	if err := rec.SetString(fieldLayout, prefs.LayoutPath); err != nil {
		return err
	}
	rec.SetUint32(fieldInterface, uint32(prefs.Interface))

	var buf bytes.Buffer
	if _, err := rec.WriteTo(&buf); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

func (s *Store) logger() Logger {
	if s.Logger == nil {
		return noopLogger{}
	}
	return s.Logger
}

// ValidLayout reports whether path names a regular file of exactly LayoutSize bytes.
func ValidLayout(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() == LayoutSize
}
