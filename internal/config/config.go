package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const defaultLayoutName = "en-US.kl"

type Config struct {
	BaseDir      string `env:"KEYPLAYER_BASE_DIR" default:"/data/badusb"`
	LayoutDir    string `env:"KEYPLAYER_LAYOUT_DIR" default:"/data/badusb/assets/layouts"`
	SettingsFile string `env:"KEYPLAYER_SETTINGS_FILE"`

	GadgetDir string `env:"KEYPLAYER_GADGET_DIR" default:"/sys/kernel/config/usb_gadget"`
	UDC       string `env:"KEYPLAYER_UDC"`
	LockFile  string `env:"KEYPLAYER_LOCK_FILE" default:"/run/keyplayer/usb.lock"`

	Player       string        `env:"KEYPLAYER_PLAYER" default:"hid-play.sh"`
	Notifier     string        `env:"KEYPLAYER_NOTIFIER" default:"notify.sh"`
	HelpURL      string        `env:"KEYPLAYER_HELP_URL" default:"https://docs.flipper.net/bad-usb"`
	TickInterval time.Duration `env:"KEYPLAYER_TICK" default:"500ms"`

	Framebuffer string `env:"KEYPLAYER_FRAMEBUFFER" default:"/dev/fb0"`
	InputDevice string `env:"KEYPLAYER_INPUT_DEVICE"`

	LogLevel  string `env:"KEYPLAYER_LOG_LEVEL" default:"info"`
	LogFormat string `env:"KEYPLAYER_LOG_FORMAT" default:"text"`
	StdioLog  string `env:"KEYPLAYER_STDIO_LOG"`
}

// Load reads envFile (if non-empty) into the process environment and then
// populates Config from it. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.BaseDir == "" {
		return errors.New("KEYPLAYER_BASE_DIR is required")
	}
	if cfg.LayoutDir == "" {
		return errors.New("KEYPLAYER_LAYOUT_DIR is required")
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("KEYPLAYER_TICK must be positive, got %s", cfg.TickInterval)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("KEYPLAYER_LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	return nil
}

// SettingsPath is the preferences file, next to the scripts unless overridden.
func (cfg *Config) SettingsPath() string {
	if cfg.SettingsFile != "" {
		return cfg.SettingsFile
	}
	return filepath.Join(cfg.BaseDir, ".badusb.settings")
}

func (cfg *Config) DefaultLayoutPath() string {
	return filepath.Join(cfg.LayoutDir, defaultLayoutName)
}
