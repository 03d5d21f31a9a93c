package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

// CronParser is the six-field (seconds first) schedule syntax used by the scheduler.
var CronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`
	Directory struct {
		URL         string        `yaml:"url"`
		TTL         time.Duration `yaml:"ttl"`
		ServeStale  bool          `yaml:"serve_stale"`
		RefreshCron string        `yaml:"refresh_cron"`
	} `yaml:"directory"`
	DataSource struct {
		Kind     string        `yaml:"kind"`
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"data_source"`
	Compare struct {
		MinSymbols int `yaml:"min_symbols"`
		MaxSymbols int `yaml:"max_symbols"`
	} `yaml:"compare"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Data source kinds.
const (
	SourceNaver      = "naver"
	SourceYahoo      = "yahoo"
	SourceHistoryAPI = "history_api"
	SourceStatic     = "static"
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 60 * time.Second
	cfg.Directory.URL = "http://kind.krx.co.kr/corpgeneral/corpList.do?method=download&searchType=13"
	cfg.Directory.TTL = 12 * time.Hour
	cfg.Directory.ServeStale = true
	cfg.DataSource.Kind = SourceNaver
	cfg.DataSource.CacheTTL = 10 * time.Minute
	cfg.Compare.MinSymbols = 2
	cfg.Compare.MaxSymbols = 3
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	return cfg
}

// Path returns $CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	envFile := ".env"
	if v := os.Getenv("ENV_FILE"); v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STOCKLENS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STOCKLENS_DATA_SOURCE"); v != "" {
		cfg.DataSource.Kind = v
	}
	if v := os.Getenv("STOCKLENS_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("STOCKLENS_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("DIRECTORY_URL"); v != "" {
		cfg.Directory.URL = v
	}
	if v, ok := os.LookupEnv("DIRECTORY_REFRESH_CRON"); ok {
		cfg.Directory.RefreshCron = v
	}
	if v := os.Getenv("DIRECTORY_SERVE_STALE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("DIRECTORY_SERVE_STALE: %w", err)
		}
		cfg.Directory.ServeStale = b
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	// Defaults for values blanked out by the file
	def := Default()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Directory.URL == "" {
		cfg.Directory.URL = def.Directory.URL
	}
	if cfg.Directory.TTL <= 0 {
		cfg.Directory.TTL = def.Directory.TTL
	}
	if cfg.DataSource.Kind == "" {
		cfg.DataSource.Kind = def.DataSource.Kind
	}
	if cfg.DataSource.CacheTTL <= 0 {
		cfg.DataSource.CacheTTL = def.DataSource.CacheTTL
	}
	if cfg.Compare.MinSymbols == 0 {
		cfg.Compare.MinSymbols = def.Compare.MinSymbols
	}
	if cfg.Compare.MaxSymbols == 0 {
		cfg.Compare.MaxSymbols = def.Compare.MaxSymbols
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.DataSource.Kind {
	case SourceNaver, SourceYahoo, SourceStatic:
	case SourceHistoryAPI:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for %s", SourceHistoryAPI)
		}
	default:
		return fmt.Errorf("data_source.kind %q is not one of naver, yahoo, history_api, static", c.DataSource.Kind)
	}
	if c.Compare.MinSymbols != 2 || c.Compare.MaxSymbols != 3 {
		return fmt.Errorf("compare accepts 2 to 3 symbols, got min=%d max=%d", c.Compare.MinSymbols, c.Compare.MaxSymbols)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.Directory.RefreshCron != "" {
		if _, err := CronParser.Parse(c.Directory.RefreshCron); err != nil {
			return fmt.Errorf("directory.refresh_cron: %w", err)
		}
	}
	return nil
}
