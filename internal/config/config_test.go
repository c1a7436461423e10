package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Env != "local" {
		t.Fatalf("env = %q, want local", cfg.Env)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("http.addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ReadHeaderTimeout != 5*time.Second || cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected http timeouts: %+v", cfg.HTTP)
	}
	if cfg.Session.TTL != 30*time.Minute || cfg.Session.SweepInterval != time.Minute {
		t.Fatalf("unexpected session settings: %+v", cfg.Session)
	}
	if cfg.Session.CookieName != "quiz_session" {
		t.Fatalf("cookie name = %q", cfg.Session.CookieName)
	}
	if cfg.Store.Driver != StoreMemory || cfg.Store.SQLitePath != ":memory:" {
		t.Fatalf("unexpected store settings: %+v", cfg.Store)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("QUIZ_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("QUIZ_SESSION_TTL", "5m")
	t.Setenv("QUIZ_STORE_DRIVER", "SQLite")
	t.Setenv("QUIZ_ENV", "production")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9090" {
		t.Fatalf("http.addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Session.TTL != 5*time.Minute {
		t.Fatalf("session.ttl = %v", cfg.Session.TTL)
	}
	if cfg.Store.Driver != StoreSQLite {
		t.Fatalf("store.driver = %q, want normalized sqlite", cfg.Store.Driver)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env")
	}
}

func TestLoadLegacyAddrEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ADDR", ":7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("http.addr = %q, want :7070", cfg.HTTP.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "quiz.yaml")
	content := []byte("env: development\nsession:\n  ttl: 2h\n  cookie_name: qs\nstore:\n  driver: sqlite\n  sqlite_path: sessions.db\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Env != "development" || cfg.Session.TTL != 2*time.Hour || cfg.Session.CookieName != "qs" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Store.Driver != StoreSQLite || cfg.Store.SQLitePath != "sessions.db" {
		t.Fatalf("store values not applied: %+v", cfg.Store)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			HTTP:    HTTP{Addr: ":8080"},
			Session: Session{TTL: time.Minute, SweepInterval: time.Second, CookieName: "c"},
			Store:   Store{Driver: StoreMemory},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "postgres" }},
		{name: "redis without addr", mutate: func(c *Config) { c.Store.Driver = StoreRedis }},
		{name: "empty addr", mutate: func(c *Config) { c.HTTP.Addr = "" }},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }},
		{name: "zero sweep", mutate: func(c *Config) { c.Session.SweepInterval = 0 }},
		{name: "empty cookie", mutate: func(c *Config) { c.Session.CookieName = " " }},
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
