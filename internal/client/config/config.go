package config

import "time"

// Config holds runtime settings for the Acadex CLI.
type Config struct {
	BaseURL           string
	RequestTimeout    time.Duration
	RequestsPerSecond float64

	OnlineCheckInterval time.Duration
	DatabasePath        string

	VersionCheck         bool
	CurrentVersion       string
	MinimumVersion       string
	LatestVersionURL     string
	VersionCheckInterval time.Duration

	ReadinessTimeout time.Duration
	LogLevel         string
	MetricsAddr      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://apiv2.binaryexpertsystems.com/api/v1/"
	c.RequestTimeout = 10 * time.Second
	c.RequestsPerSecond = 5
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "acadex.db"
	c.VersionCheck = false
	c.CurrentVersion = "1.0.0"
	c.MinimumVersion = "1.0.0"
	c.LatestVersionURL = ""
	c.VersionCheckInterval = 24 * time.Hour
	c.ReadinessTimeout = time.Second
	c.LogLevel = "info"
	c.MetricsAddr = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
