package web

import "go-simpler.org/env"

// ServerConfig contains settings for running the remote-control server.
// An empty ListenAddr disables it.
type ServerConfig struct {
	ListenAddr string `env:"KEYPLAYER_LISTEN"`
	DevMode    bool   `env:"KEYPLAYER_DEV"`
}

// DefaultServerConfigFromEnv reads KEYPLAYER_LISTEN and KEYPLAYER_DEV, using
// defaultListenAddr when the former is unset.
func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Load(&cfg, nil); err != nil {
		return ServerConfig{}, err
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	return cfg, nil
}
