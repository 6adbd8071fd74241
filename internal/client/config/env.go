package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "ACADEX_"

// parseEnv loads an optional dotenv file (ACADEX_ENV_FILE, default ".env")
// and overlays every ACADEX_* variable that is set. Variables already in the
// environment win over the file.
func parseEnv(cfg *Config) error {
	path := os.Getenv(envPrefix + "ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}

	envString(&cfg.BaseURL, "BASE_URL")
	envString(&cfg.DatabasePath, "DB_PATH")
	envString(&cfg.CurrentVersion, "CURRENT_VERSION")
	envString(&cfg.MinimumVersion, "MINIMUM_VERSION")
	envString(&cfg.LatestVersionURL, "LATEST_VERSION_URL")
	envString(&cfg.LogLevel, "LOG_LEVEL")
	envString(&cfg.MetricsAddr, "METRICS_ADDR")

	return errors.Join(
		envDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT"),
		envDuration(&cfg.OnlineCheckInterval, "ONLINE_CHECK_INTERVAL"),
		envDuration(&cfg.VersionCheckInterval, "VERSION_CHECK_INTERVAL"),
		envDuration(&cfg.ReadinessTimeout, "READINESS_TIMEOUT"),
		envBool(&cfg.VersionCheck, "VERSION_CHECK"),
		envFloat(&cfg.RequestsPerSecond, "REQUESTS_PER_SECOND"),
	)
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) error {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	*dst = d
	return nil
}

func envBool(dst *bool, name string) error {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	*dst = b
	return nil
}

func envFloat(dst *float64, name string) error {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	*dst = f
	return nil
}
