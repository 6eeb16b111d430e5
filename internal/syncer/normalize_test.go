package syncer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeLineEndings_MixedInput(t *testing.T) {
	got := NormalizeLineEndings([]byte("a\r\nb\n c\r\n"))
	want := []byte("a\r\nb\r\n c\r\n")
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Running the two-step normalization on its own output must yield the same
// bytes; this is the property the LF-first pass exists for.
func TestNormalizeLineEndings_Idempotent(t *testing.T) {
	inputs := [][]byte{
		[]byte("a\r\nb\n c\r\n"),
		[]byte("\n\n\n"),
		[]byte("\r\r\n\r"),
		[]byte("no newline at all"),
		{},
	}
	for _, in := range inputs {
		once := NormalizeLineEndings(in)
		twice := NormalizeLineEndings(once)
		if !bytes.Equal(once, twice) {
			t.Errorf("not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestIsTextFile(t *testing.T) {
	if !IsTextFile("Std-Prep.ps1", nil) {
		t.Errorf(".ps1 must classify as text")
	}
	if !IsTextFile("Apps.TXT", nil) {
		t.Errorf("extension match must be case-insensitive")
	}
	if IsTextFile("installer.msi", []byte{'M', 'Z', 0, 0, 1}) {
		t.Errorf("NUL bytes must classify as binary")
	}
	if !IsTextFile("notes.unknown", []byte("plain text")) {
		t.Errorf("unknown extension without NUL bytes should pass as text")
	}
}

func TestHasOverrideMarker(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return path
	}

	marked := []string{
		"# CUSTOM OVERRIDE\nrest of file\n",
		"# custom override\n",
		"  #   Custom   Override  \ncontent",
	}
	for _, content := range marked {
		if !HasOverrideMarker(write("marked.ps1", content)) {
			t.Errorf("marker not detected in %q", content)
		}
	}

	unmarked := []string{
		"plain file\n# CUSTOM OVERRIDE\n", // not the first line
		"# CUSTOM OVERRIDES\n",
		"CUSTOM OVERRIDE\n",
		"",
	}
	for _, content := range unmarked {
		if HasOverrideMarker(write("plain.ps1", content)) {
			t.Errorf("false positive for %q", content)
		}
	}

	if HasOverrideMarker(filepath.Join(dir, "missing.ps1")) {
		t.Errorf("missing file must have no marker")
	}
}
