package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withIsolatedHome(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("USERPROFILE", tmp)
	return tmp
}

func TestLoad_MissingFilePointsAtInit(t *testing.T) {
	withIsolatedHome(t)

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for missing config")
	}
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	withIsolatedHome(t)

	settings := Default()
	settings.Owner = "someorg"
	settings.Repo = "sandbox-scripts"
	settings.AlwaysSyncPatterns = []string{"Std-*.ps1"}
	settings.ReleaseCacheMinutes = 120

	if err := settings.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Owner != "someorg" || loaded.Repo != "sandbox-scripts" {
		t.Errorf("repo settings lost: %+v", loaded)
	}
	if len(loaded.AlwaysSyncPatterns) != 1 || loaded.AlwaysSyncPatterns[0] != "Std-*.ps1" {
		t.Errorf("patterns lost: %v", loaded.AlwaysSyncPatterns)
	}
	if loaded.ReleaseTTL().Minutes() != 120 {
		t.Errorf("ttl lost: %v", loaded.ReleaseTTL())
	}
}

// Fields absent from the file fall back to defaults instead of zeroing out.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	withIsolatedHome(t)

	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("owner: onlyowner\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Owner != "onlyowner" {
		t.Errorf("explicit value lost: %s", loaded.Owner)
	}
	if loaded.Branch == "" || loaded.ContentCacheMinutes == 0 {
		t.Errorf("defaults not applied: %+v", loaded)
	}
}
