// Package config loads runtime configuration for the Acadex CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: an optional dotenv file (ACADEX_ENV_FILE, default .env)
//     and ACADEX_* variables, see parseEnv.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-i int      online status check interval (seconds)
//	-d string   local database path
//	-v          enable the version check
//	-m string   metrics listen address
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "base_url": "http://apiv2.binaryexpertsystems.com/api/v1/",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "database_path": "acadex.db",
//	  "version_check": true,
//	  "minimum_version": "1.0.0"
//	}
package config
