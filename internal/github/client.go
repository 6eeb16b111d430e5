// Package github is the rate-limit-aware REST client. Each request consults
// the disk cache first (when asked to), writes successful responses back with
// a TTL, and on a 403 degrades through stale cache and then the public Atom
// feed before failing. Only rate limiting triggers the degraded path; all
// other errors surface immediately.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"time"

	"github.com/sandkit/sandkit/internal/cache"
	"github.com/sandkit/sandkit/internal/feed"
	"github.com/sandkit/sandkit/internal/logger"
	"github.com/sandkit/sandkit/internal/models"
	"github.com/sandkit/sandkit/internal/service"
	"github.com/sandkit/sandkit/internal/utils"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultWebBase = "https://github.com"
	userAgent      = "sandkit"

	// TokenEnvVar optionally raises the unauthenticated rate ceiling.
	// Its absence is never an error: the tool is designed to run anonymous.
	TokenEnvVar = "SANDKIT_GITHUB_TOKEN"
)

// releasesURI matches the REST releases endpoints eligible for feed fallback
// and captures owner/repo for the feed URL rewrite.
var releasesURI = regexp.MustCompile(`/repos/([^/]+)/([^/]+)/releases(?:/latest)?(?:\?.*)?$`)

type Client struct {
	http    service.HTTPClient
	cache   *cache.Store
	feed    *feed.Adapter
	token   string
	apiBase string
	webBase string
}

// RequestOptions steer a single request through the cache and fallback chain.
// ForceRefresh skips the fresh-cache consult but keeps the write-through and
// the stale-cache rung of the 403 chain.
type RequestOptions struct {
	UseCache          bool
	TTL               time.Duration
	ForceRefresh      bool
	AllowFeedFallback bool
}

func New(httpClient service.HTTPClient, store *cache.Store) *Client {
	if httpClient == nil {
		httpClient = service.NewHTTPClient(service.DefaultTimeout)
	}

	token := os.Getenv(TokenEnvVar)
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	return &Client{
		http:    httpClient,
		cache:   store,
		feed:    feed.New(httpClient),
		token:   token,
		apiBase: defaultAPIBase,
		webBase: defaultWebBase,
	}
}

// SetBaseURLs points the client at alternate hosts. Used by tests.
func (c *Client) SetBaseURLs(apiBase, webBase string) {
	c.apiBase = apiBase
	c.webBase = webBase
}

// Releases lists releases for a repository, newest first, at most perPage.
func (c *Client) Releases(ctx context.Context, owner, repo string, perPage int, opts RequestOptions) ([]models.Release, error) {
	if perPage <= 0 {
		perPage = 30
	}
	uri := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d", c.apiBase, owner, repo, perPage)

	opts.AllowFeedFallback = true
	payload, err := c.request(ctx, uri, opts)
	if err != nil {
		return nil, err
	}

	var releases []models.Release
	if err := json.Unmarshal(payload, &releases); err != nil {
		return nil, fmt.Errorf("failed to decode releases: %w", err)
	}
	for i := range releases {
		if releases[i].Source == "" {
			releases[i].Source = models.SourceAPI
		}
	}
	return releases, nil
}

// LatestRelease returns the repository's latest stable release. When the
// payload came through the feed fallback it is a list; the first stable entry
// wins, falling back to the first entry of any kind.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string, opts RequestOptions) (models.Release, error) {
	uri := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.apiBase, owner, repo)

	opts.AllowFeedFallback = true
	payload, err := c.request(ctx, uri, opts)
	if err != nil {
		return models.Release{}, err
	}
	return decodeLatest(payload)
}

// Contents lists a repository folder at ref. There is no feed equivalent for
// contents, so a rate-limited call with no cache entry fails hard.
func (c *Client) Contents(ctx context.Context, owner, repo, path, ref string, opts RequestOptions) ([]models.FileEntry, error) {
	uri := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", c.apiBase, owner, repo, path, ref)

	opts.AllowFeedFallback = false
	payload, err := c.request(ctx, uri, opts)
	if err != nil {
		return nil, err
	}

	var entries []models.FileEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode contents listing: %w", err)
	}
	return entries, nil
}

// RateLimit reports the core API quota. Never cached: the numbers are only
// useful live.
func (c *Client) RateLimit(ctx context.Context) (models.RateLimit, error) {
	payload, err := c.request(ctx, c.apiBase+"/rate_limit", RequestOptions{})
	if err != nil {
		return models.RateLimit{}, err
	}

	var body struct {
		Resources struct {
			Core models.RateLimit `json:"core"`
		} `json:"resources"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return models.RateLimit{}, fmt.Errorf("failed to decode rate limit: %w", err)
	}
	return body.Resources.Core, nil
}

// Download fetches a raw download_url as bytes.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	return service.FetchBytes(ctx, c.http, url)
}

// DownloadToFile streams a release asset to dst. Assets can be large
// installers, so they never go through the in-memory path or the cache.
func (c *Client) DownloadToFile(ctx context.Context, url, dst string) error {
	return service.DownloadToFile(ctx, c.http, url, dst, 0)
}

// request implements the cache/fallback algorithm:
//
//  1. fresh cache hit wins, no network call
//  2. network GET with descriptive UA and optional bearer token
//  3. success: write-through (non-fatal on failure), return body
//  4. 403: stale cache first (previously-valid API data beats the feed,
//     which has no asset metadata), then Atom fallback on releases URIs
//  5. anything else raises immediately
func (c *Client) request(ctx context.Context, uri string, opts RequestOptions) (json.RawMessage, error) {
	key := cache.Key(uri)

	if opts.UseCache && !opts.ForceRefresh && c.cache != nil {
		if payload, err := c.cache.Get(key, false); err == nil {
			logger.Debug("cache hit for %s", key)
			return payload, nil
		}
	}

	payload, err := c.get(ctx, uri)
	if err == nil {
		if opts.UseCache && c.cache != nil {
			if putErr := c.cache.Put(key, payload, opts.TTL, models.SourceAPI); putErr != nil {
				logger.Warn("cache write failed (continuing): %v", putErr)
			}
		}
		return payload, nil
	}

	if !IsRateLimited(err) {
		return nil, err
	}

	logger.Warn("GitHub API rate limit reached for %s", uri)

	if opts.UseCache && c.cache != nil {
		if payload, cacheErr := c.cache.Get(key, true); cacheErr == nil {
			logger.Warn("serving stale cached data for %s", key)
			return payload, nil
		}
	}

	if opts.AllowFeedFallback {
		if feedURL, ok := c.feedURLFor(uri); ok {
			releases := c.feed.Releases(ctx, feedURL)
			payload, marshalErr := json.Marshal(releases)
			if marshalErr != nil {
				return nil, err
			}
			if opts.UseCache && c.cache != nil {
				if putErr := c.cache.Put(key, payload, opts.TTL, models.SourceAtom); putErr != nil {
					logger.Warn("cache write failed (continuing): %v", putErr)
				}
			}
			return payload, nil
		}
	}

	return nil, err
}

func (c *Client) get(ctx context.Context, uri string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer utils.Try(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: uri}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// feedURLFor rewrites a REST releases URI to the public Atom feed URL.
func (c *Client) feedURLFor(uri string) (string, bool) {
	matches := releasesURI.FindStringSubmatch(uri)
	if matches == nil {
		return "", false
	}
	return fmt.Sprintf("%s/%s/%s/releases.atom", c.webBase, matches[1], matches[2]), true
}

func decodeLatest(payload json.RawMessage) (models.Release, error) {
	var release models.Release
	if err := json.Unmarshal(payload, &release); err == nil && release.TagName != "" {
		if release.Source == "" {
			release.Source = models.SourceAPI
		}
		return release, nil
	}

	var releases []models.Release
	if err := json.Unmarshal(payload, &releases); err != nil {
		return models.Release{}, fmt.Errorf("failed to decode latest release: %w", err)
	}
	if len(releases) == 0 {
		return models.Release{}, fmt.Errorf("no releases available")
	}
	for _, r := range releases {
		if !r.Prerelease {
			return r, nil
		}
	}
	return releases[0], nil
}
