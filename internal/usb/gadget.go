package usb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const udcClassDir = "/sys/class/udc"

// GadgetPort drives a Linux configfs USB gadget tree.
//
// The active configuration is the gadget whose UDC attribute names the
// controller; Neutral means no gadget is bound. Another consumer owns the
// interface while it holds an exclusive flock on LockFile.
type GadgetPort struct {
	GadgetDir string
	UDC       string
	LockFile  string
}

func NewGadgetPort(gadgetDir, udc, lockFile string) (*GadgetPort, error) {
	if udc == "" {
		detected, err := detectUDC(udcClassDir)
		if err != nil {
			return nil, err
		}
		udc = detected
	}
	return &GadgetPort{GadgetDir: gadgetDir, UDC: udc, LockFile: lockFile}, nil
}

func detectUDC(classDir string) (string, error) {
	entries, err := os.ReadDir(classDir)
	if err != nil {
		return "", fmt.Errorf("list udc controllers: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return "", errors.New("no udc controller found")
	}
	sort.Strings(names)
	return names[0], nil
}

func (p *GadgetPort) Locked() (bool, error) {
	if p.LockFile == "" {
		return false, nil
	}
	return lockHeld(p.LockFile)
}

func (p *GadgetPort) Config() (Config, error) {
	entries, err := os.ReadDir(p.GadgetDir)
	if err != nil {
		return Neutral, fmt.Errorf("list gadgets: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		bound, err := os.ReadFile(filepath.Join(p.GadgetDir, entry.Name(), "UDC"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(bound)) == p.UDC {
			return Config(entry.Name()), nil
		}
	}
	return Neutral, nil
}

func (p *GadgetPort) SetConfig(cfg Config) error {
	current, err := p.Config()
	if err != nil {
		return err
	}
	if current == cfg {
		return nil
	}
	if current != Neutral {
		if err := p.writeUDC(current, "\n"); err != nil {
			return fmt.Errorf("unbind %s: %w", current, err)
		}
	}
	if cfg != Neutral {
		if err := p.writeUDC(cfg, p.UDC+"\n"); err != nil {
			return fmt.Errorf("bind %s: %w", cfg, err)
		}
	}
	return nil
}

func (p *GadgetPort) writeUDC(cfg Config, value string) error {
	path := filepath.Join(p.GadgetDir, string(cfg), "UDC")
	return os.WriteFile(path, []byte(value), 0o644)
}
