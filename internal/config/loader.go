package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the YAML file at path on top of Default(), applies environment
// overrides and validates the result. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field rules plus the cross-field ones the tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if !c.Providers.LyricsPlus.Enabled && !c.Providers.LRCLib.Enabled {
		return errors.New("config validation failed: at least one provider must be enabled")
	}
	return nil
}

func applyEnv(cfg *Config) {
	setenv(&cfg.Server.Port, "PORT")
	setenv(&cfg.Logger.Env, "ENV")
	setenv(&cfg.Logger.Level, "LOG_LEVEL")
	setenv(&cfg.Cache.Backend, "CACHE_BACKEND")
	setenv(&cfg.Cache.RedisAddr, "REDIS_ADDR")
	setenv(&cfg.Cache.SQLitePath, "SQLITE_PATH")
	setenv(&cfg.Providers.Preferred, "PREFERRED_PROVIDER")
	setenv(&cfg.Providers.LyricsPlus.BaseURL, "LYRICSPLUS_BASE_URL")
	setenv(&cfg.Providers.LRCLib.BaseURL, "LRCLIB_BASE_URL")
}

// setenv overwrites *dst when the environment variable key is set.
func setenv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
