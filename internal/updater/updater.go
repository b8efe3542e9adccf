// Package updater checks GitHub releases for newer kpm2keepass builds and
// replaces the running binary on request.
package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const (
	repoSlug         = "CaptShanks/kpm2keepass"
	installScriptURL = "https://raw.githubusercontent.com/CaptShanks/kpm2keepass/main/install.sh"
	stateDir         = ".kpm2keepass"
)

// CheckLatest fetches the latest release from GitHub and compares with currentVersion.
// Returns (latestVersion, hasUpdate, err).
func CheckLatest(currentVersion string) (latestVersion string, hasUpdate bool, err error) {
	latest, found, err := selfupdate.DetectLatest(repoSlug)
	if err != nil || !found {
		return "", false, err
	}
	latestVersion = strings.TrimPrefix(latest.Version.String(), "v")
	hasUpdate, err = isNewer(latestVersion, currentVersion)
	return latestVersion, hasUpdate, err
}

// isNewer reports whether latest is a higher semantic version than current
func isNewer(latest, current string) (bool, error) {
	l, err := semver.Parse(normalizeVersion(latest))
	if err != nil {
		return false, err
	}
	c, err := semver.Parse(normalizeVersion(current))
	if err != nil {
		return false, err
	}
	return l.GT(c), nil
}

// Upgrade replaces the current binary with the latest release and returns the
// new version.
func Upgrade(currentVersion string) (newVersion string, err error) {
	v, err := semver.Parse(normalizeVersion(currentVersion))
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", currentVersion, err)
	}

	latest, err := selfupdate.UpdateSelf(v, repoSlug)
	if err != nil {
		return "", err
	}
	return latest.Version.String(), nil
}

// CurlFallbackMessage returns the message to display when self-update fails.
func CurlFallbackMessage(reason error) string {
	return fmt.Sprintf(`Self-update failed: %v
To upgrade manually, run:
  curl -sSfL %s | sh`, reason, installScriptURL)
}

func normalizeVersion(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "v")
}

type updateCache struct {
	LastCheckEpoch int64  `json:"last_check_epoch"`
	LatestVersion  string `json:"latest_version,omitempty"`
	HasUpdate      bool   `json:"has_update"`
}

func cachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, stateDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "update-check"), nil
}

// CheckLatestWithCache checks for updates at most once every intervalDays,
// answering from the cache in between.
func CheckLatestWithCache(currentVersion string, intervalDays int) (latestVersion string, hasUpdate bool, err error) {
	if intervalDays <= 0 {
		intervalDays = 7
	}
	interval := time.Duration(intervalDays) * 24 * time.Hour

	path, err := cachePath()
	if err != nil {
		return CheckLatest(currentVersion)
	}

	if cache, ok := readCache(path); ok && time.Since(time.Unix(cache.LastCheckEpoch, 0)) < interval {
		return cache.LatestVersion, cache.HasUpdate, nil
	}

	latest, hasUpdate, err := CheckLatest(currentVersion)
	if err != nil {
		return "", false, err
	}

	writeCache(path, updateCache{
		LastCheckEpoch: time.Now().Unix(),
		LatestVersion:  latest,
		HasUpdate:      hasUpdate,
	})
	return latest, hasUpdate, nil
}

func readCache(path string) (updateCache, bool) {
	var cache updateCache
	data, err := os.ReadFile(path)
	if err != nil {
		return cache, false
	}
	if json.Unmarshal(data, &cache) != nil {
		return cache, false
	}
	return cache, true
}

func writeCache(path string, cache updateCache) {
	if data, err := json.Marshal(cache); err == nil {
		_ = os.WriteFile(path, data, 0644)
	}
}
