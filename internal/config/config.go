package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"doucetentation/internal/classify"
	"doucetentation/internal/gloria"
	"doucetentation/internal/models"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
}

// DatabaseConfig selects the gorm dialect and its DSN.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite3" or "postgres"
	DSN    string `yaml:"dsn"`
}

// GloriaConfig holds the upstream platform credentials.
type GloriaConfig struct {
	APIKey     string `yaml:"api_key"`
	APIURL     string `yaml:"api_url"`
	APIVersion string `yaml:"api_version"`
	// Channel is the storefront behind the API key: "cake" or "snack".
	Channel string `yaml:"channel"`
}

// PollingConfig controls the sync scheduler.
type PollingConfig struct {
	IntervalSeconds     int `yaml:"interval_seconds"`
	InitialDelaySeconds int `yaml:"initial_delay_seconds"`
	TimeoutSeconds      int `yaml:"timeout_seconds"`
}

// Config is the application configuration, loaded from YAML with env
// overrides for secrets.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Database   DatabaseConfig  `yaml:"database"`
	Gloria     GloriaConfig    `yaml:"gloriafood"`
	Polling    PollingConfig   `yaml:"polling"`
	Classifier classify.Config `yaml:"classifier"`
	LogLevel   string          `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080, MetricsPort: 9090},
		Database: DatabaseConfig{Driver: "sqlite3", DSN: "orders.db"},
		Gloria: GloriaConfig{
			APIURL:     gloria.DefaultAPIURL,
			APIVersion: gloria.DefaultAPIVersion,
			Channel:    "cake",
		},
		Polling: PollingConfig{
			IntervalSeconds:     60,
			InitialDelaySeconds: 5,
			TimeoutSeconds:      15,
		},
		Classifier: classify.DefaultConfig(),
		LogLevel:   "info",
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file
// is not an error, since the defaults plus env variables are a valid setup.
// GLORIAFOOD_API_KEY and DATABASE_DSN override their file counterparts.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if key := os.Getenv("GLORIAFOOD_API_KEY"); key != "" {
		cfg.Gloria.APIKey = key
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	return cfg, nil
}

// Interval is the poll period.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Polling.IntervalSeconds) * time.Second
}

// InitialDelay is the delay before the first poll after startup.
func (c *Config) InitialDelay() time.Duration {
	return time.Duration(c.Polling.InitialDelaySeconds) * time.Second
}

// RequestTimeout bounds one upstream request.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Polling.TimeoutSeconds) * time.Second
}

// Source maps the configured channel to the order source tag.
func (c *Config) Source() models.OrderSource {
	if c.Gloria.Channel == "snack" {
		return models.SourceGloriaSnack
	}
	return models.SourceGloriaCake
}
