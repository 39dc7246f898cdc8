package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"PORT", "ENV", "LOG_LEVEL", "CACHE_BACKEND", "REDIS_ADDR", "SQLITE_PATH",
	"PREFERRED_PROVIDER", "LYRICSPLUS_BASE_URL", "LRCLIB_BASE_URL",
}

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port: got %q", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.FetchTimeout != 30*time.Second {
		t.Errorf("cache defaults: %+v", cfg.Cache)
	}
	if !cfg.Providers.LyricsPlus.Enabled || !cfg.Providers.LRCLib.Enabled {
		t.Errorf("both providers should be enabled by default")
	}
	if cfg.Providers.LRCLib.BaseURL != "https://lrclib.net" {
		t.Errorf("lrclib base url: got %q", cfg.Providers.LRCLib.BaseURL)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
server:
  port: "9090"
  request_timeout: 5s
cache:
  backend: sqlite
  sqlite_path: /tmp/lyrics.db
  fetch_timeout: 12s
providers:
  preferred: lrclib
  lyricsplus:
    rate_limit: 2.5
    max_retries: 3
  lrclib:
    base_url: http://localhost:3000
    timeout: 2s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "9090" || cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("server: %+v", cfg.Server)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("unset fields keep defaults, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.SQLitePath != "/tmp/lyrics.db" || cfg.Cache.FetchTimeout != 12*time.Second {
		t.Errorf("cache: %+v", cfg.Cache)
	}
	if cfg.Providers.Preferred != "lrclib" {
		t.Errorf("preferred: got %q", cfg.Providers.Preferred)
	}
	lp := cfg.Providers.LyricsPlus
	if lp.RateLimit != 2.5 || lp.MaxRetries != 3 || lp.BaseURL != "https://lyricsplus.prjktla.workers.dev" {
		t.Errorf("lyricsplus: %+v", lp)
	}
	if cfg.Providers.LRCLib.BaseURL != "http://localhost:3000" || cfg.Providers.LRCLib.Timeout != 2*time.Second {
		t.Errorf("lrclib: %+v", cfg.Providers.LRCLib)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("PREFERRED_PROVIDER", "lyricsplus")
	t.Setenv("LRCLIB_BASE_URL", "http://mirror.local")

	path := writeConfig(t, `
server:
  port: "9090"
providers:
  preferred: lrclib
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("port: got %q", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("cache: %+v", cfg.Cache)
	}
	if cfg.Providers.Preferred != "lyricsplus" {
		t.Errorf("preferred: got %q", cfg.Providers.Preferred)
	}
	if cfg.Providers.LRCLib.BaseURL != "http://mirror.local" {
		t.Errorf("lrclib base url: got %q", cfg.Providers.LRCLib.BaseURL)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	cases := map[string]string{
		"unknown backend": `
cache:
  backend: memcached
`,
		"redis without addr": `
cache:
  backend: redis
  redis_addr: ""
`,
		"unknown preferred provider": `
providers:
  preferred: spotify
`,
		"bad base url": `
providers:
  lrclib:
    base_url: "not a url"
`,
		"all providers disabled": `
providers:
  lyricsplus:
    enabled: false
  lrclib:
    enabled: false
`,
		"bad log level": `
logger:
  level: loud
`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, body))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), "config validation failed") {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, "server: [unterminated"))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestDisabledProviderNeedsNoURL(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, `
providers:
  lyricsplus:
    enabled: false
    base_url: ""
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers.LyricsPlus.Enabled {
		t.Fatalf("lyricsplus should be disabled")
	}
}
