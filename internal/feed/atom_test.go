package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandkit/sandkit/internal/models"
)

const sampleAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Release notes from repo</title>
  <entry>
    <id>tag:github.com,2008:Repository/1/v1.7.10514</id>
    <title>WAU v1.7.10514</title>
    <updated>2024-05-01T10:00:00Z</updated>
  </entry>
  <entry>
    <id>tag:github.com,2008:Repository/1/v1.8.0-beta</id>
    <title>v1.8.0 Pre-release preview</title>
    <updated>2024-06-01T10:00:00Z</updated>
  </entry>
  <entry>
    <id>tag:github.com,2008:Repository/1/misc</id>
    <title>Some announcement without a version</title>
    <updated>2024-06-02T10:00:00Z</updated>
  </entry>
</feed>`

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReleases_ParsesEntries(t *testing.T) {
	srv := serveBody(t, http.StatusOK, sampleAtom)

	releases := New(nil).Releases(context.Background(), srv.URL)
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(releases))
	}

	first := releases[0]
	if first.TagName != "v1.7.10514" {
		t.Errorf("wrong tag: %s", first.TagName)
	}
	if first.Prerelease {
		t.Errorf("stable release flagged as prerelease")
	}
	if len(first.Assets) != 0 {
		t.Errorf("atom releases must carry no assets")
	}
	if first.Source != models.SourceAtom {
		t.Errorf("wrong source: %s", first.Source)
	}
	if first.PublishedAt == "" {
		t.Errorf("expected a published timestamp")
	}

	if !releases[1].Prerelease {
		t.Errorf("pre-release keyword not detected")
	}
}

func TestReleases_PrereleaseMarkers(t *testing.T) {
	for _, title := range []string{
		"v1.0.0 beta build",
		"v1.0.0 ALPHA",
		"v1.0.0 (preview)",
		"v1.0.0 prerelease",
		"v1.0.0 Pre-Release",
	} {
		if !isPrerelease(title) {
			t.Errorf("expected %q to be flagged prerelease", title)
		}
	}
	if isPrerelease("v1.0.0 stable") {
		t.Errorf("stable title flagged prerelease")
	}
}

// The adapter is itself a fallback path and must degrade to "no data" on any
// failure rather than surface an error.
func TestReleases_NeverFails(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"empty body":   {http.StatusOK, ""},
		"not xml":      {http.StatusOK, "{\"releases\": []}"},
		"no entries":   {http.StatusOK, `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>x</title></feed>`},
		"server error": {http.StatusInternalServerError, "boom"},
	}

	for name, tc := range cases {
		srv := serveBody(t, tc.status, tc.body)
		releases := New(nil).Releases(context.Background(), srv.URL)
		if len(releases) != 0 {
			t.Errorf("%s: expected empty result, got %d entries", name, len(releases))
		}
	}
}

func TestReleases_UnreachableHost(t *testing.T) {
	releases := New(nil).Releases(context.Background(), "http://127.0.0.1:1/releases.atom")
	if len(releases) != 0 {
		t.Errorf("expected empty result for unreachable host")
	}
}
