package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Reminder struct {
		PollIntervalSeconds int `yaml:"poll_interval_seconds"`
		WindowMinutes       int `yaml:"window_minutes"`
	} `yaml:"reminder"`

	Salon struct {
		InactiveAfterDays int `yaml:"inactive_after_days"`
	} `yaml:"salon"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Load reads YAML config from path. An empty path tries
// configs/config.yaml and falls back to built-in defaults when the file
// is absent; an explicitly given path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = "configs/config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Support ${ENV_VAR} placeholders in YAML config.
		data = []byte(os.ExpandEnv(string(data)))
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case !explicit && os.IsNotExist(err):
		// Run on defaults alone.
	default:
		return nil, err
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/salonslotbook.db"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

func (c *Config) ReminderPollInterval() time.Duration {
	if c.Reminder.PollIntervalSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Reminder.PollIntervalSeconds) * time.Second
}

func (c *Config) ReminderWindow() time.Duration {
	if c.Reminder.WindowMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Reminder.WindowMinutes) * time.Minute
}

func (c *Config) SalonInactiveAfter() time.Duration {
	days := c.Salon.InactiveAfterDays
	if days <= 0 {
		days = 5
	}
	return time.Duration(days) * 24 * time.Hour
}

func (c *Config) RateLimitRPS() float64 {
	if c.RateLimit.RPS <= 0 {
		return 20
	}
	return c.RateLimit.RPS
}

func (c *Config) RateLimitBurst() int {
	if c.RateLimit.Burst <= 0 {
		return 40
	}
	return c.RateLimit.Burst
}
