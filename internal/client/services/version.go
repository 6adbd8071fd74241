package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/acadex/internal/client/models"
	"github.com/dmitrijs2005/acadex/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/acadex/internal/logging"
)

// CompareVersions compares dot-separated numeric versions and returns -1, 0
// or 1. Missing or non-numeric parts count as zero.
func CompareVersions(a, b string) int {
	pa := strings.Split(strings.TrimSpace(a), ".")
	pb := strings.Split(strings.TrimSpace(b), ".")
	for i := 0; i < max(len(pa), len(pb)); i++ {
		x, y := versionPart(pa, i), versionPart(pb, i)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

func versionPart(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return n
}

// LatestVersionSource reports the newest published version, or "" when it
// is unknown.
type LatestVersionSource interface {
	LatestVersion(ctx context.Context) (string, error)
}

// HTTPVersionSource reads the latest version from a JSON document that has
// either a top-level "version" or a store-lookup style "results[0].version".
type HTTPVersionSource struct {
	URL    string
	Client *http.Client
}

type versionDocument struct {
	Version string `json:"version"`
	Results []struct {
		Version string `json:"version"`
	} `json:"results"`
}

func (s *HTTPVersionSource) LatestVersion(ctx context.Context) (string, error) {
	if s.URL == "" {
		return "", nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", err
	}
	hc := s.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch latest version: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch latest version: status %d", resp.StatusCode)
	}
	var doc versionDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode latest version: %w", err)
	}
	if doc.Version != "" {
		return doc.Version, nil
	}
	if len(doc.Results) > 0 {
		return doc.Results[0].Version, nil
	}
	return "", nil
}

type VersionConfig struct {
	Current  string
	Minimum  string
	Interval time.Duration
}

type VersionResult struct {
	Current string
	Latest  string
	// NeedsUpdate is set when a newer version exists or Current is below
	// the minimum.
	NeedsUpdate bool
	// Forced is set when Current is below the minimum supported version.
	Forced bool
	// Skipped is set when the last check is recent enough to be reused.
	Skipped bool
}

type VersionChecker struct {
	cfg    VersionConfig
	source LatestVersionSource
	prefs  *prefs.Store
	log    logging.Logger
	now    func() time.Time
}

func NewVersionChecker(cfg VersionConfig, source LatestVersionSource, p *prefs.Store, log logging.Logger) *VersionChecker {
	return &VersionChecker{cfg: cfg, source: source, prefs: p, log: log, now: time.Now}
}

// Check compares the running version with the minimum and the latest
// published one. The latest version is fetched at most once per interval;
// the minimum is always enforced.
func (c *VersionChecker) Check(ctx context.Context) (VersionResult, error) {
	res := VersionResult{
		Current: c.cfg.Current,
		Forced:  c.cfg.Minimum != "" && CompareVersions(c.cfg.Current, c.cfg.Minimum) < 0,
	}
	res.NeedsUpdate = res.Forced
	now := c.now()

	if last, ok, err := c.prefs.LastVersionCheck(ctx); err != nil {
		c.log.Warn(ctx, "reading last version check failed", "error", err)
	} else if ok && now.Sub(last) < c.cfg.Interval {
		res.Skipped = true
		if info, err := c.prefs.VersionInfo(ctx); err == nil && info != nil {
			res.Latest = info.LatestVersion
			res.NeedsUpdate = res.NeedsUpdate || c.behind(res.Latest)
		}
		return res, nil
	}

	latest, err := c.source.LatestVersion(ctx)
	if err != nil {
		return res, err
	}
	res.Latest = latest
	res.NeedsUpdate = res.NeedsUpdate || c.behind(latest)

	info := models.VersionInfo{
		CurrentVersion: c.cfg.Current,
		LatestVersion:  latest,
		LastChecked:    now.UTC(),
		NeedsUpdate:    res.NeedsUpdate,
	}
	if err := c.prefs.SetVersionInfo(ctx, info); err != nil {
		c.log.Warn(ctx, "saving version info failed", "error", err)
	} else if err := c.prefs.SetLastVersionCheck(ctx, now); err != nil {
		c.log.Warn(ctx, "saving version check time failed", "error", err)
	}

	c.log.Info(ctx, "version checked", "current", res.Current, "latest", latest, "needs_update", res.NeedsUpdate, "forced", res.Forced)
	return res, nil
}

func (c *VersionChecker) behind(latest string) bool {
	return latest != "" && CompareVersions(c.cfg.Current, latest) < 0
}
