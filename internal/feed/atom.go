// Package feed degrades GitHub release listings to the public releases.atom
// feed when the REST API is rate-limited. It is a fallback path: any fetch or
// parse failure yields an empty list, never an error, so the outer fallback
// chain can keep its own error semantics.
package feed

import (
	"context"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/sandkit/sandkit/internal/logger"
	"github.com/sandkit/sandkit/internal/models"
	"github.com/sandkit/sandkit/internal/service"
)

// tagPattern finds the first vN.N(.N...) shaped substring of an entry title.
// Feed titles are free text, so entries without a recognizable version are
// skipped rather than failing the whole parse.
var tagPattern = regexp.MustCompile(`[vV]\d+(?:\.\d+)+`)

var prereleaseMarkers = []string{"pre-release", "prerelease", "preview", "beta", "alpha"}

type Adapter struct {
	client service.HTTPClient
}

func New(client service.HTTPClient) *Adapter {
	if client == nil {
		client = service.NewHTTPClient(service.DefaultTimeout)
	}
	return &Adapter{client: client}
}

// Releases fetches and parses feedURL. Atom-derived releases carry no asset
// metadata; Assets is always empty and Source is always atom.
func (a *Adapter) Releases(ctx context.Context, feedURL string) []models.Release {
	body, err := service.FetchBytes(ctx, a.client, feedURL)
	if err != nil {
		logger.Debug("atom feed fetch failed: %v", err)
		return []models.Release{}
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		logger.Debug("atom feed parse failed: %v", err)
		return []models.Release{}
	}

	releases := make([]models.Release, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		tag := tagPattern.FindString(item.Title)
		if tag == "" {
			continue
		}

		published := item.Published
		if published == "" {
			published = item.Updated
		}

		releases = append(releases, models.Release{
			TagName:     tag,
			Name:        item.Title,
			PublishedAt: published,
			Prerelease:  isPrerelease(item.Title),
			Assets:      []models.Asset{},
			Source:      models.SourceAtom,
		})
	}
	return releases
}

func isPrerelease(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range prereleaseMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
