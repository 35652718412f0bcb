// Package config loads brewjournal settings from defaults, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends
const (
	BackendBolt     = "bolt"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// ErrUnknownBackend is returned when storage.backend names no known backend
var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrDSNRequired is returned when the postgres backend has no DSN
var ErrDSNRequired = errors.New("storage.dsn is required for the postgres backend")

// Config holds every setting the server reads at startup
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Autofill AutofillConfig `mapstructure:"autofill"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	PublicURL      string   `mapstructure:"public_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr is the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return "0.0.0.0:" + s.Port
}

// Origins returns the allowed origins with the public URL included.
func (s ServerConfig) Origins() []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range append([]string{s.PublicURL}, s.AllowedOrigins...) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
}

type AutofillConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Enabled reports whether an API key is configured
func (a AutofillConfig) Enabled() bool {
	return a.APIKey != ""
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

type MetricsConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults
const (
	DefaultPort            = "18910"
	DefaultModel           = "gemini-3-flash-preview"
	DefaultCacheTTL        = 24 * time.Hour
	DefaultMetricsInterval = time.Minute
	DefaultTracingEndpoint = "localhost:4318"
	DefaultLogLevel        = "info"
	defaultBoltFile        = "brewjournal.db"
	defaultSQLiteFile      = "brewjournal.sqlite"
	configName             = "brewjournal"
	envPrefix              = "BREWJOURNAL"
)

// plainEnv maps keys onto the unprefixed variable names older deployments use
var plainEnv = map[string]string{
	"server.port":       "PORT",
	"server.public_url": "SERVER_PUBLIC_URL",
	"log.level":         "LOG_LEVEL",
	"log.format":        "LOG_FORMAT",
	"autofill.api_key":  "GEMINI_API_KEY",
	"tracing.endpoint":  "OTEL_EXPORTER_OTLP_ENDPOINT",
}

// Options control where Load looks for its inputs
type Options struct {
	// ConfigFile is an explicit file path. When empty, brewjournal.yaml is looked
	// up in the working directory and $XDG_CONFIG_HOME/brewjournal.
	ConfigFile string
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range plainEnv {
		if val := os.Getenv(name); val != "" {
			v.SetDefault(key, val)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configHome(); dir != "" {
			v.AddConfigPath(filepath.Join(dir, configName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("storage.backend", BackendBolt)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("autofill.api_key", "")
	v.SetDefault("autofill.model", DefaultModel)
	v.SetDefault("autofill.cache_ttl", DefaultCacheTTL)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", DefaultTracingEndpoint)
	v.SetDefault("metrics.interval", DefaultMetricsInterval)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", "console")
}

func (c *Config) finish() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendBolt:
		if c.Storage.Path == "" {
			c.Storage.Path = filepath.Join(DataDir(), defaultBoltFile)
		}
	case BackendSQLite:
		if c.Storage.Path == "" {
			c.Storage.Path = filepath.Join(DataDir(), defaultSQLiteFile)
		}
	case BackendPostgres:
		if c.Storage.DSN == "" {
			return ErrDSNRequired
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}

	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://localhost:" + c.Server.Port
	}
	if c.Autofill.CacheTTL <= 0 {
		c.Autofill.CacheTTL = DefaultCacheTTL
	}
	if c.Metrics.Interval <= 0 {
		c.Metrics.Interval = DefaultMetricsInterval
	}
	return nil
}

// DataDir returns the directory the local databases live in, following the XDG
// base directory layout.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, configName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", configName)
	}
	return "."
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return ""
}
