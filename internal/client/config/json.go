package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/acadex/internal/flagx"
	"github.com/dmitrijs2005/acadex/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Only keys present in the file
// overwrite the runtime Config.
type JsonConfig struct {
	BaseURL              string          `json:"base_url"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	RequestsPerSecond    *float64        `json:"requests_per_second"`
	OnlineCheckInterval  *timex.Duration `json:"online_check_interval"`
	DatabasePath         string          `json:"database_path"`
	VersionCheck         *bool           `json:"version_check"`
	CurrentVersion       string          `json:"current_version"`
	MinimumVersion       string          `json:"minimum_version"`
	LatestVersionURL     string          `json:"latest_version_url"`
	VersionCheckInterval *timex.Duration `json:"version_check_interval"`
	ReadinessTimeout     *timex.Duration `json:"readiness_timeout"`
	LogLevel             string          `json:"log_level"`
	MetricsAddr          string          `json:"metrics_addr"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing is loaded.
func parseJson(cfg *Config) error {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.CurrentVersion, jc.CurrentVersion)
	setString(&cfg.MinimumVersion, jc.MinimumVersion)
	setString(&cfg.LatestVersionURL, jc.LatestVersionURL)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)

	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.VersionCheckInterval, jc.VersionCheckInterval)
	setDuration(&cfg.ReadinessTimeout, jc.ReadinessTimeout)

	if jc.VersionCheck != nil {
		cfg.VersionCheck = *jc.VersionCheck
	}
	if jc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *jc.RequestsPerSecond
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
