package models

import "time"

// VersionInfo is the outcome of the last version check, stored under
// app_version_info.
type VersionInfo struct {
	CurrentVersion string    `json:"currentVersion"`
	LatestVersion  string    `json:"latestVersion,omitempty"`
	LastChecked    time.Time `json:"lastChecked"`
	NeedsUpdate    bool      `json:"needsUpdate"`
}
