package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Registry RegistryConfig `yaml:"registry"`
	Database DatabaseConfig `yaml:"database"`
	Probe    ProbeConfig    `yaml:"probe"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type RegistryConfig struct {
	PrintersPath string `yaml:"printers_path"`
	ClientsPath  string `yaml:"clients_path"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ProbeConfig carries the two reachability windows: a short one used when
// listing printers and a longer one used right before a job transmits.
type ProbeConfig struct {
	ListTimeout  time.Duration `yaml:"list_timeout"`
	PrintTimeout time.Duration `yaml:"print_timeout"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Registry: RegistryConfig{
			PrintersPath: "./data/printers.json",
			ClientsPath:  "./data/clients.json",
		},
		Database: DatabaseConfig{
			Path: "./data/printd.db",
		},
		Probe: ProbeConfig{
			ListTimeout:  1500 * time.Millisecond,
			PrintTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(configPath string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

func (c *Config) ApplyEnv() {
	if v := os.Getenv("PRINTD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	if v := os.Getenv("PRINTD_PRINTERS_PATH"); v != "" {
		c.Registry.PrintersPath = v
	}

	if v := os.Getenv("PRINTD_CLIENTS_PATH"); v != "" {
		c.Registry.ClientsPath = v
	}

	if v := os.Getenv("PRINTD_DB_PATH"); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv("PRINTD_AUTH_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Auth.Enabled = enabled
		}
	}

	if v := os.Getenv("PRINTD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server read timeout must be non-negative")
	}

	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server write timeout must be non-negative")
	}

	if c.Registry.PrintersPath == "" {
		return fmt.Errorf("printers registry path is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Probe.ListTimeout <= 0 {
		return fmt.Errorf("probe list timeout must be positive")
	}

	if c.Probe.PrintTimeout <= 0 {
		return fmt.Errorf("probe print timeout must be positive")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}

	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", c.Logging.Format)
	}

	return nil
}
