package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.github.com"

type githubRelease struct {
	TagName string `json:"tag_name"`
}

// ResolveRelease determines the version and download URL for one install
// attempt. The remote lookup is best-effort: any failure (transport, status,
// malformed body) falls back to the definition's hardcoded version, never to
// an empty one.
func (ins *Installer) ResolveRelease(ctx context.Context, def ToolDefinition, arch string) (Release, []string) {
	var notes []string
	version := def.FallbackVersion

	if def.Strategy == StrategyLatest {
		latest, err := ins.fetchLatestVersion(ctx, def.Repo)
		if err != nil {
			notes = append(notes, fmt.Sprintf("release lookup failed, using fallback %s: %v", def.FallbackVersion, err))
		} else {
			version = latest
		}
	}

	url := strings.NewReplacer(
		"{version}", version,
		"{arch}", arch,
	).Replace(def.URLTemplate)

	return Release{Version: version, DownloadURL: url}, notes
}

func (ins *Installer) fetchLatestVersion(ctx context.Context, repo string) (string, error) {
	base := ins.APIBase
	if base == "" {
		base = defaultAPIBase
	}
	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", base, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "ezrta/1.0")

	client := ins.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("release query failed: %s", resp.Status)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("decode release: %w", err)
	}
	if strings.TrimSpace(release.TagName) == "" {
		return "", fmt.Errorf("release metadata missing tag name")
	}
	return release.TagName, nil
}
