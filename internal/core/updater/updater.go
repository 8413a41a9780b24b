package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	version "github.com/hashicorp/go-version"

	"flacsort/internal/config"
	"flacsort/internal/shared"
)

const (
	defaultRepo        = "flacsort/flacsort"
	updateCheckTimeout = 5 * time.Second
)

// GitHubRelease is the slice of the release API response we need
type GitHubRelease struct {
	TagName string `json:"tag_name"`
}

// CheckForUpdates prints a notice when a newer release is available on
// GitHub. Check failures never affect the run; they are only visible in
// debug mode.
func CheckForUpdates(cfg *config.Config, currentVersion string) {
	if cfg.DisableUpdateCheck {
		return
	}

	repo := defaultRepo
	if cfg.UpdateRepo != "" {
		repo = cfg.UpdateRepo
	}

	client := &http.Client{Timeout: updateCheckTimeout}
	resp, err := client.Get(fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", repo))
	if err != nil {
		shared.DebugPrint(cfg.Debug, "Update check failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		shared.DebugPrint(cfg.Debug, "Update check failed: GitHub API returned status %d", resp.StatusCode)
		return
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		shared.DebugPrint(cfg.Debug, "Update check failed: %v", err)
		return
	}

	if isNewerVersion(release.TagName, currentVersion) {
		shared.ColorWarning.Printf("A new version (%s) of flacsort is available! You are running %s.\n",
			release.TagName, currentVersion)
	}
}

// isNewerVersion compares two versions using semantic versioning. A leading
// "v" on release tags is tolerated; unparseable versions count as not newer.
func isNewerVersion(latest, current string) bool {
	vLatest, err := version.NewVersion(latest)
	if err != nil {
		return false
	}

	vCurrent, err := version.NewVersion(current)
	if err != nil {
		return false
	}

	return vLatest.GreaterThan(vCurrent)
}
