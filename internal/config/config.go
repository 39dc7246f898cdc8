// Package config loads gateway settings from YAML with environment overrides.
package config

import (
	"time"

	"lyricsync-gateway/internal/normalize"
	"lyricsync-gateway/internal/providers"
)

type Config struct {
	Server    Server    `yaml:"server"`
	Logger    Logger    `yaml:"logger"`
	Cache     Cache     `yaml:"cache"`
	Providers Providers `yaml:"providers"`
}

type Server struct {
	Port            string        `yaml:"port" validate:"required,numeric"`
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type Logger struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

type Cache struct {
	Backend      string        `yaml:"backend" validate:"required,oneof=memory redis sqlite"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" validate:"gt=0"`
	Prefix       string        `yaml:"prefix"`
	// TTL applies to the redis backend; 0 keeps entries forever.
	TTL time.Duration `yaml:"ttl" validate:"gte=0"`

	RedisAddr     string `yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db" validate:"gte=0"`

	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
}

type Providers struct {
	// Preferred is tried first; empty keeps lyricsplus first.
	Preferred  string   `yaml:"preferred" validate:"omitempty,oneof=lyricsplus lrclib"`
	LyricsPlus Provider `yaml:"lyricsplus"`
	LRCLib     Provider `yaml:"lrclib"`
}

type Provider struct {
	Enabled     bool          `yaml:"enabled"`
	BaseURL     string        `yaml:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxRetries  int           `yaml:"max_retries" validate:"gte=0,lte=10"`
	BaseBackoff time.Duration `yaml:"base_backoff" validate:"gte=0"`
	RateLimit   float64       `yaml:"rate_limit" validate:"gte=0"`
	// SourceTag is appended to metadata.source (lyricsplus only).
	SourceTag string `yaml:"source_tag"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{
			Port:            "8080",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logger: Logger{
			Env:   "production",
			Level: "info",
		},
		Cache: Cache{
			Backend:      "memory",
			FetchTimeout: 30 * time.Second,
			Prefix:       "lyricsync",
			RedisAddr:    "127.0.0.1:6379",
			SQLitePath:   "./data/lyrics.db",
		},
		Providers: Providers{
			LyricsPlus: Provider{
				Enabled:     true,
				BaseURL:     providers.DefaultLyricsPlusURL,
				Timeout:     10 * time.Second,
				MaxRetries:  1,
				BaseBackoff: 200 * time.Millisecond,
				SourceTag:   normalize.DefaultSourceTag,
			},
			LRCLib: Provider{
				Enabled:     true,
				BaseURL:     providers.DefaultLRCLibURL,
				Timeout:     10 * time.Second,
				MaxRetries:  1,
				BaseBackoff: 200 * time.Millisecond,
			},
		},
	}
}
