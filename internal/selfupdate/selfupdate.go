// Package selfupdate replaces the running cortex binary with the latest
// GitHub release after verifying its published checksum.
package selfupdate

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

const (
	defaultOwner       = "cortexdiag"
	defaultRepo        = "cortex"
	defaultAPIBase     = "https://api.github.com"
	defaultReleaseBase = "https://github.com"
)

// Updater resolves and applies releases for one GitHub repository.
type Updater struct {
	owner       string
	repo        string
	apiBase     string
	releaseBase string
	client      *http.Client
	execPath    func() (string, error)
}

type Option func(*Updater)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(u *Updater) { u.client.Timeout = d }
}

// WithAPIBase overrides the GitHub API base URL.
func WithAPIBase(url string) Option {
	return func(u *Updater) { u.apiBase = url }
}

// WithReleaseBase overrides the release asset download base URL.
func WithReleaseBase(url string) Option {
	return func(u *Updater) { u.releaseBase = url }
}

// withExecPath overrides executable path resolution. Test hook.
func withExecPath(fn func() (string, error)) Option {
	return func(u *Updater) { u.execPath = fn }
}

func New(opts ...Option) *Updater {
	u := &Updater{
		owner:       defaultOwner,
		repo:        defaultRepo,
		apiBase:     defaultAPIBase,
		releaseBase: defaultReleaseBase,
		client:      &http.Client{Timeout: 30 * time.Second},
		execPath:    os.Executable,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Release is the resolved latest release compared against a running version.
type Release struct {
	Tag        string
	URL        string
	IsNewer    bool
	ComparedTo string
}

// Latest fetches the newest release tag and orders it against version with
// semver comparison.
func (u *Updater) Latest(ctx context.Context, version string) (*Release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases/latest",
		strings.TrimRight(u.apiBase, "/"), u.owner, u.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from releases API", resp.StatusCode)
	}

	var payload struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode release response: %w", err)
	}

	return &Release{
		Tag:        payload.TagName,
		URL:        payload.HTMLURL,
		IsNewer:    semver.Compare(comparable(payload.TagName), comparable(version)) > 0,
		ComparedTo: version,
	}, nil
}

// comparable normalizes a tag for semver.Compare, which requires a leading v.
func comparable(tag string) string {
	if tag == "" {
		return tag
	}
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	return semver.Canonical(tag)
}

// Progress reports one step of an update run.
type Progress struct {
	Step    string
	Message string
}

// Apply downloads, verifies and installs a release over the running binary.
// With an empty tag it resolves the latest release first and stops with
// ErrAlreadyLatest when nothing newer exists. Development builds refuse to
// update.
func (u *Updater) Apply(ctx context.Context, currentVersion, tag string, report func(Progress)) error {
	if currentVersion == "(devel)" {
		return ErrDevBuild
	}

	if tag == "" {
		report(Progress{Step: "check", Message: "Checking for latest version..."})
		release, err := u.Latest(ctx, currentVersion)
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !release.IsNewer {
			return ErrAlreadyLatest
		}
		tag = release.Tag
	}

	asset, err := releaseAssetName(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}
	base := fmt.Sprintf("%s/%s/%s/releases/download/%s",
		strings.TrimRight(u.releaseBase, "/"), u.owner, u.repo, tag)

	report(Progress{Step: "download", Message: fmt.Sprintf("Downloading %s...", tag)})
	archive, err := u.fetch(ctx, base+"/"+asset)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	report(Progress{Step: "verify", Message: "Verifying checksum..."})
	manifest, err := u.fetch(ctx, base+"/checksums.txt")
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	if err := verifyAgainstManifest(archive, manifest, asset); err != nil {
		return err
	}

	report(Progress{Step: "extract", Message: "Extracting binary..."})
	binary, err := unpackBinary(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	report(Progress{Step: "apply", Message: "Applying update..."})
	target, err := u.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	digest := sha256.Sum256(binary)
	if err := swapExecutable(binary, target, digest[:]); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	report(Progress{Step: "done", Message: fmt.Sprintf("Updated to %s", tag)})
	return nil
}
