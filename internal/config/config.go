package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the aggregator server.
type Config struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	DBPath         string        `mapstructure:"db_path"`
	LogFile        string        `mapstructure:"log_file"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	SessionCleanup time.Duration `mapstructure:"session_cleanup"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	PageSize       int           `mapstructure:"page_size"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from defaults, an optional YAML file, a .env
// file and AGGREGATOR_* environment variables.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AGGREGATOR")
	v.AutomaticEnv()

	v.SetDefault("port", "8050")
	v.SetDefault("environment", "development")
	v.SetDefault("db_path", "aggregator.db")
	v.SetDefault("log_file", "logs/aggregator.log")
	v.SetDefault("session_ttl", "1h")
	v.SetDefault("session_cleanup", "10m")
	v.SetDefault("max_upload_bytes", 32<<20)
	v.SetDefault("page_size", 10)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("aggregator")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("config: port is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session_ttl must be positive, got %s", c.SessionTTL)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("config: page_size must be positive, got %d", c.PageSize)
	}
	return nil
}

// fileConfig is the on-disk layout. Durations are written as "1h0m0s" so
// Load can read them back.
type fileConfig struct {
	Port           string `yaml:"port"`
	Environment    string `yaml:"environment"`
	DBPath         string `yaml:"db_path"`
	LogFile        string `yaml:"log_file"`
	SessionTTL     string `yaml:"session_ttl"`
	SessionCleanup string `yaml:"session_cleanup"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	PageSize       int    `yaml:"page_size"`
}

// MarshalYAML implements yaml.Marshaler.
func (c *Config) MarshalYAML() (interface{}, error) {
	return fileConfig{
		Port:           c.Port,
		Environment:    c.Environment,
		DBPath:         c.DBPath,
		LogFile:        c.LogFile,
		SessionTTL:     c.SessionTTL.String(),
		SessionCleanup: c.SessionCleanup.String(),
		MaxUploadBytes: c.MaxUploadBytes,
		PageSize:       c.PageSize,
	}, nil
}

// Save writes c as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
