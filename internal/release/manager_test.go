package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandkit/sandkit/internal/config"
	"github.com/sandkit/sandkit/internal/github"
	"github.com/sandkit/sandkit/internal/logger"
	"github.com/sandkit/sandkit/internal/models"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func TestDownloadAssets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("installer bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	m := New(config.Default(), github.New(nil, nil))

	r := models.Release{
		TagName: "v1.7.0",
		Source:  models.SourceAPI,
		Assets: []models.Asset{
			{Name: "WAU.zip", Size: 15, DownloadURL: srv.URL + "/WAU.zip"},
		},
	}
	if err := m.downloadAssets(context.Background(), r, dir); err != nil {
		t.Fatalf("downloadAssets: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "WAU.zip"))
	if err != nil {
		t.Fatalf("asset not written: %v", err)
	}
	if string(data) != "installer bytes" {
		t.Fatalf("unexpected asset content: %q", data)
	}
}

func TestDownloadAssetsAtomReleaseIsNoop(t *testing.T) {
	dir := t.TempDir()
	m := New(config.Default(), github.New(nil, nil))

	r := models.Release{TagName: "v2.0.0", Source: models.SourceAtom}
	if err := m.downloadAssets(context.Background(), r, dir); err != nil {
		t.Fatalf("downloadAssets: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files, found %d", len(entries))
	}
}
