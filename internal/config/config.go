package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Transport TransportConfig `yaml:"transport"`
	View      ViewConfig      `yaml:"view"`
	Source    SourceConfig    `yaml:"source"`
}

type ServerConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// AuthConfig controls bearer authentication on the REST API and MCP endpoint.
type AuthConfig struct {
	Enabled       bool   `yaml:"enabled"`
	JWTSecret     string `yaml:"-"` // env-only
	DefaultTenant string `yaml:"default_tenant"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// ViewConfig holds the board pagination settings.
type ViewConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
	WindowSiblings  int `yaml:"window_siblings"`
}

// SourceConfig points at the remote ERP backend used by import and list --remote.
type SourceConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Token      string   `yaml:"-"` // env-only
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "15s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
		},
		DB: DBConfig{
			Path: "sealboard.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Auth: AuthConfig{
			DefaultTenant: "default",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		View: ViewConfig{
			DefaultPageSize: 8,
			MaxPageSize:     100,
			WindowSiblings:  1,
		},
		Source: SourceConfig{
			Timeout:    Duration(10 * time.Second),
			MaxRetries: 3,
		},
	}
}

// Load reads configuration from an optional .env file, an optional YAML file
// and environment variables, in that order of increasing precedence.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()

	if path := os.Getenv("SEALBOARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("SEALBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if err := envInt("SEALBOARD_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if dbPath := os.Getenv("SEALBOARD_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("SEALBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("SEALBOARD_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}
	if logPath := os.Getenv("SEALBOARD_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if enabled := os.Getenv("SEALBOARD_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid SEALBOARD_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if secret := os.Getenv("SEALBOARD_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if tenant := os.Getenv("SEALBOARD_DEFAULT_TENANT"); tenant != "" {
		cfg.Auth.DefaultTenant = tenant
	}
	if mode := os.Getenv("SEALBOARD_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if err := envInt("SEALBOARD_VIEW_DEFAULT_PAGE_SIZE", &cfg.View.DefaultPageSize); err != nil {
		return err
	}
	if err := envInt("SEALBOARD_VIEW_MAX_PAGE_SIZE", &cfg.View.MaxPageSize); err != nil {
		return err
	}
	if url := os.Getenv("SEALBOARD_SOURCE_URL"); url != "" {
		cfg.Source.BaseURL = url
	}
	if token := os.Getenv("SEALBOARD_SOURCE_TOKEN"); token != "" {
		cfg.Source.Token = token
	}
	if timeout := os.Getenv("SEALBOARD_SOURCE_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid SEALBOARD_SOURCE_TIMEOUT: %w", err)
		}
		cfg.Source.Timeout = Duration(d)
	}
	return envInt("SEALBOARD_SOURCE_MAX_RETRIES", &cfg.Source.MaxRetries)
}

func envInt(name string, dst *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	var problems []string
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, "server.port must be between 0 and 65535")
	}
	if c.DB.Path == "" {
		problems = append(problems, "db.path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not one of text, json", c.Log.Format))
	}
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		problems = append(problems, fmt.Sprintf("transport.mode %q is not one of http, stdio", c.Transport.Mode))
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		problems = append(problems, "SEALBOARD_JWT_SECRET is required when auth is enabled")
	}
	if c.Auth.DefaultTenant == "" {
		problems = append(problems, "auth.default_tenant is required")
	}
	if c.View.DefaultPageSize < 1 {
		problems = append(problems, "view.default_page_size must be positive")
	}
	if c.View.MaxPageSize < c.View.DefaultPageSize {
		problems = append(problems, "view.max_page_size must be at least view.default_page_size")
	}
	if c.View.WindowSiblings < 1 {
		problems = append(problems, "view.window_siblings must be positive")
	}
	if c.Source.MaxRetries < 0 {
		problems = append(problems, "source.max_retries must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
