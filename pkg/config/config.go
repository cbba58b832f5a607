// Package config loads optional project configuration from a liftplan.toml
// file. Config values sit between built-in defaults and CLI flags: flags
// override config, config overrides defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/weftworks/liftplan/pkg/errors"
)

// DefaultFileName is looked up in the working directory when no explicit
// --config path is given.
const DefaultFileName = "liftplan.toml"

// Config holds the file-configurable defaults.
//
//	shafts = 8
//	formats = ["pdf", "csv"]
//	bottom-up = true
//
//	[server]
//	addr = ":8080"
//	cache = "redis"
//	redis-addr = "localhost:6379"
type Config struct {
	Shafts   int      `toml:"shafts"`
	Formats  []string `toml:"formats"`
	BottomUp bool     `toml:"bottom-up"`

	Server ServerConfig `toml:"server"`
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	Cache     string `toml:"cache"` // "none", "file", or "redis"
	RedisAddr string `toml:"redis-addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Shafts:  8,
		Formats: []string{"pdf"},
		Server: ServerConfig{
			Addr:      ":8080",
			Cache:     "file",
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads configuration from path, layered over [Default]. An empty path
// tries DefaultFileName in the working directory and silently falls back to
// defaults when it does not exist; an explicit path that cannot be read is
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", filepath.Clean(path))
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", filepath.Clean(path))
	}
	if cfg.Shafts < 1 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: shafts must be at least 1", filepath.Clean(path))
	}
	return cfg, nil
}
