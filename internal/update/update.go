// Package update checks GitHub for a newer sm8 release.
package update

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// DefaultGitHubReleasesURL is the default URL for checking releases.
	DefaultGitHubReleasesURL = "https://api.github.com/repos/servicem8/sm8-cli/releases/latest"
	CheckTimeout             = 5 * time.Second
)

// GitHubReleasesURL is the URL to check for releases. Can be overridden in tests.
var GitHubReleasesURL = DefaultGitHubReleasesURL

// Release is the subset of the GitHub release payload the check reads.
type Release struct {
	TagName    string  `json:"tag_name"`
	HTMLURL    string  `json:"html_url"`
	Draft      bool    `json:"draft"`
	Prerelease bool    `json:"prerelease"`
	Assets     []Asset `json:"assets"`
}

// Asset is one downloadable artifact attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateURL       string
	AssetURL        string
	UpdateAvailable bool
}

// CheckForUpdate checks if a newer version is available.
// Returns nil if the check fails - never blocks the CLI. Drafts and
// prereleases are ignored; only stable releases prompt an update.
func CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, GitHubReleasesURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "sm8-cli/"+currentVersion)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil
	}
	if release.Draft || release.Prerelease {
		return nil
	}

	current := normalizeVersion(currentVersion)
	latest := normalizeVersion(release.TagName)

	result := &CheckResult{
		CurrentVersion: currentVersion,
		LatestVersion:  strings.TrimPrefix(release.TagName, "v"),
		UpdateURL:      release.HTMLURL,
		AssetURL:       release.assetFor(runtime.GOOS, runtime.GOARCH),
	}

	if semver.IsValid(current) && semver.IsValid(latest) {
		result.UpdateAvailable = semver.Compare(latest, current) > 0
	}

	return result
}

// assetFor picks the artifact built for the given platform. Release
// artifacts are named sm8_<version>_<os>_<arch>.<ext>.
func (r Release) assetFor(goos, goarch string) string {
	needle := goos + "_" + goarch
	for _, a := range r.Assets {
		if strings.Contains(strings.ToLower(a.Name), needle) {
			return a.BrowserDownloadURL
		}
	}
	return ""
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
