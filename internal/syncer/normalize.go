package syncer

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// overrideMarker is the user-facing opt-out contract: a file whose literal
// first line is "# CUSTOM OVERRIDE" (case-insensitive, flexible whitespace)
// is never modified or deleted by the sync, for any reason.
var overrideMarker = regexp.MustCompile(`(?i)^\s*#\s*custom\s+override\s*$`)

// textExtensions are the script/list formats line-ending normalization
// applies to. Anything else goes through the binary path untouched.
var textExtensions = map[string]bool{
	".ps1":  true,
	".psm1": true,
	".txt":  true,
	".cmd":  true,
	".bat":  true,
	".md":   true,
	".json": true,
	".xml":  true,
	".csv":  true,
	".ini":  true,
	".cfg":  true,
	".wsb":  true,
}

// NormalizeLineEndings canonicalizes to CRLF in two steps: every line break
// becomes LF first, then LF becomes CRLF. The intermediate LF pass is what
// makes the function idempotent on already-mixed input; a naive CRLF
// substitution is not.
func NormalizeLineEndings(data []byte) []byte {
	out := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	out = bytes.ReplaceAll(out, []byte("\r"), []byte("\n"))
	return bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
}

// IsTextFile classifies by extension first, then sniffs for NUL bytes on
// unknown extensions.
func IsTextFile(name string, data []byte) bool {
	if textExtensions[strings.ToLower(filepath.Ext(name))] {
		return true
	}
	sample := data
	if len(sample) > 8000 {
		sample = sample[:8000]
	}
	return !bytes.ContainsRune(sample, 0)
}

// HasOverrideMarker reports whether the file at path starts with the
// override marker line. A missing or unreadable file has no marker.
func HasOverrideMarker(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false
	}
	return overrideMarker.MatchString(scanner.Text())
}
