package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{
		"STOCKLENS_ADDR", "STOCKLENS_DATA_SOURCE", "STOCKLENS_BASE_URL", "STOCKLENS_API_KEY",
		"HTTPS_PROXY", "DIRECTORY_URL", "DIRECTORY_SERVE_STALE", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolateEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.DataSource.Kind != SourceNaver {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.Directory.ServeStale || cfg.Directory.TTL != 12*time.Hour {
		t.Errorf("directory defaults = %+v", cfg.Directory)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "config.yaml", `
server:
  addr: ":9000"
directory:
  ttl: 6h
  serve_stale: false
data_source:
  kind: yahoo
  cache_ttl: 5m
log:
  level: debug
`)
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("STOCKLENS_ADDR", ":9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9100" {
		t.Errorf("env should override addr, got %q", cfg.Server.Addr)
	}
	if cfg.Directory.TTL != 6*time.Hour || cfg.Directory.ServeStale {
		t.Errorf("directory = %+v", cfg.Directory)
	}
	if cfg.DataSource.Kind != SourceYahoo || cfg.DataSource.CacheTTL != 5*time.Minute {
		t.Errorf("data source = %+v", cfg.DataSource)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unset keys keep defaults, got %v", cfg.Server.ReadTimeout)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	isolateEnv(t)
	os.Unsetenv("STOCKLENS_API_KEY")
	os.Unsetenv("STOCKLENS_DATA_SOURCE")
	env := writeFile(t, ".env", "STOCKLENS_API_KEY=secret\nSTOCKLENS_DATA_SOURCE=history_api\n")
	t.Setenv("ENV_FILE", env)
	t.Setenv("STOCKLENS_BASE_URL", "http://localhost:8000")
	t.Cleanup(func() {
		os.Unsetenv("STOCKLENS_API_KEY")
		os.Unsetenv("STOCKLENS_DATA_SOURCE")
	})

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataSource.APIKey != "secret" || cfg.DataSource.Kind != SourceHistoryAPI {
		t.Errorf("data source = %+v", cfg.DataSource)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "config.yaml", "server: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown source", func(c *Config) { c.DataSource.Kind = "bloomberg" }, true},
		{"history api without url", func(c *Config) { c.DataSource.Kind = SourceHistoryAPI }, true},
		{"max symbols", func(c *Config) { c.Compare.MaxSymbols = 5 }, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"bad cron", func(c *Config) { c.Directory.RefreshCron = "every morning" }, true},
		{"cron disabled", func(c *Config) { c.Directory.RefreshCron = "" }, false},
		{"weekday prewarm", func(c *Config) { c.Directory.RefreshCron = "0 30 7 * * 1-5" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
