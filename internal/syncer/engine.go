// Package syncer reconciles a remote repository listing against a local
// directory of sandbox scripts and package lists.
//
// Two policies apply per file: names matching an always-sync pattern are kept
// in lockstep with the remote (unless the user opted out with the override
// marker), everything else is download-if-missing and never touched again
// once present. Sync never returns an error: each per-file failure is logged
// and counted, and the loop moves on, failing safe toward keeping local
// state.
package syncer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sandkit/sandkit/internal/logger"
	"github.com/sandkit/sandkit/internal/models"
)

// StateFileName is the policy/bookkeeping sidecar inside the sync directory.
const StateFileName = "sync-state.conf"

// Downloader fetches a remote file body. *github.Client satisfies it.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Counts summarizes one sync run for diagnostics.
type Counts struct {
	Downloaded int // fetched because no local copy existed
	Updated    int // always-sync file rewritten with new content
	Unchanged  int // always-sync file identical after normalization
	Skipped    int // preserved local file or override/disabled veto
	Deleted    int // obsolete managed file removed
	Failed     int // per-file errors, logged and carried on
}

type Engine struct {
	downloader Downloader
	dir        string
	patterns   []string
	state      *PolicyState

	// renamePrefix is the upstream naming-scheme change marker: a legacy
	// list "X" is superseded once "Std-X" appears in the remote listing.
	renamePrefix string
}

func New(downloader Downloader, dir string, alwaysSyncPatterns []string) *Engine {
	return &Engine{
		downloader:   downloader,
		dir:          dir,
		patterns:     alwaysSyncPatterns,
		state:        LoadPolicyState(filepath.Join(dir, StateFileName)),
		renamePrefix: "Std-",
	}
}

// Sync reconciles remote against the local directory. It only ever returns
// counts; errors along the way are logged and absorbed.
func (e *Engine) Sync(ctx context.Context, remote []models.FileEntry) Counts {
	var counts Counts

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		logger.LogError("cannot create sync directory %s: %v", e.dir, err)
		counts.Failed++
		return counts
	}

	e.recordOriginals()

	for _, entry := range remote {
		if !entry.IsFile() || entry.Name == StateFileName {
			continue
		}
		if e.matchesAlwaysSync(entry.Name) {
			e.syncManaged(ctx, entry, &counts)
		} else {
			e.syncIfMissing(ctx, entry, &counts)
		}
	}

	e.cleanupObsolete(remote, &counts)
	e.retireRenamed(remote, &counts)

	if err := e.state.Save(); err != nil {
		logger.Warn("failed to save sync state (continuing): %v", err)
	}

	return counts
}

func (e *Engine) matchesAlwaysSync(name string) bool {
	for _, pattern := range e.patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// syncManaged applies the always-overwrite policy: fetch, normalize, compare,
// write only when different. The override marker is an absolute veto.
func (e *Engine) syncManaged(ctx context.Context, entry models.FileEntry, counts *Counts) {
	localPath := filepath.Join(e.dir, entry.Name)

	exists, err := fileExists(localPath)
	if err != nil {
		logger.Warn("cannot stat %s, skipping: %v", entry.Name, err)
		counts.Failed++
		return
	}

	if exists && HasOverrideMarker(localPath) {
		logger.Debug("%s carries the override marker, leaving untouched", entry.Name)
		counts.Skipped++
		return
	}

	remote, err := e.downloader.Download(ctx, entry.DownloadURL)
	if err != nil {
		logger.Warn("failed to download %s, keeping local copy: %v", entry.Name, err)
		counts.Failed++
		return
	}

	isText := IsTextFile(entry.Name, remote)
	if isText {
		remote = NormalizeLineEndings(remote)
	}

	if !exists {
		if e.writeLocal(localPath, entry.Name, remote, counts) {
			counts.Downloaded++
		}
		return
	}

	local, err := os.ReadFile(localPath)
	if err != nil {
		logger.Warn("cannot read %s, skipping: %v", entry.Name, err)
		counts.Failed++
		return
	}
	if isText {
		local = NormalizeLineEndings(local)
	}

	if bytes.Equal(local, remote) {
		counts.Unchanged++
		e.state.MarkEnabled(entry.Name)
		return
	}

	if e.writeLocal(localPath, entry.Name, remote, counts) {
		counts.Updated++
	}
}

// syncIfMissing applies the preserve-local policy: an existing file is never
// touched, and a file the user deleted on purpose is not resurrected.
func (e *Engine) syncIfMissing(ctx context.Context, entry models.FileEntry, counts *Counts) {
	localPath := filepath.Join(e.dir, entry.Name)

	exists, err := fileExists(localPath)
	if err != nil {
		logger.Warn("cannot stat %s, skipping: %v", entry.Name, err)
		counts.Failed++
		return
	}
	if exists {
		counts.Skipped++
		return
	}

	if !e.state.ListEnabled(entry.Name) {
		logger.Debug("%s was removed by the user, not re-downloading", entry.Name)
		counts.Skipped++
		return
	}

	data, err := e.downloader.Download(ctx, entry.DownloadURL)
	if err != nil {
		logger.Warn("failed to download %s: %v", entry.Name, err)
		counts.Failed++
		return
	}

	if e.writeLocal(localPath, entry.Name, data, counts) {
		counts.Downloaded++
	}
}

func (e *Engine) writeLocal(path, name string, data []byte, counts *Counts) bool {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("failed to write %s: %v", name, err)
		counts.Failed++
		return false
	}
	e.state.MarkEnabled(name)
	return true
}

// cleanupObsolete removes managed files that vanished upstream, recording
// the deletion so a later sync leaves the gap alone. The override marker
// vetoes deletion like everything else.
func (e *Engine) cleanupObsolete(remote []models.FileEntry, counts *Counts) {
	remoteNames := make(map[string]bool, len(remote))
	for _, entry := range remote {
		remoteNames[entry.Name] = true
	}

	locals, err := os.ReadDir(e.dir)
	if err != nil {
		logger.Warn("cannot list sync directory: %v", err)
		return
	}

	for _, local := range locals {
		name := local.Name()
		if local.IsDir() || name == StateFileName || !e.matchesAlwaysSync(name) || remoteNames[name] {
			continue
		}

		localPath := filepath.Join(e.dir, name)
		if HasOverrideMarker(localPath) {
			logger.Debug("%s is obsolete upstream but carries the override marker", name)
			counts.Skipped++
			continue
		}

		if err := os.Remove(localPath); err != nil {
			logger.Warn("failed to delete obsolete file %s: %v", name, err)
			counts.Failed++
			continue
		}
		e.state.MarkDisabled(name)
		counts.Deleted++
		logger.Info("removed obsolete file %s", name)
	}
}

// recordOriginals takes the one-time snapshot of legacy (unprefixed) list
// files present before the upstream naming change.
func (e *Engine) recordOriginals() {
	if e.state.OriginalsRecorded() {
		return
	}

	locals, err := os.ReadDir(e.dir)
	if err != nil {
		// No directory yet means nothing to record; the snapshot still
		// happens so it runs exactly once.
		locals = nil
	}

	var names []string
	for _, local := range locals {
		name := local.Name()
		if local.IsDir() || name == StateFileName {
			continue
		}
		// Legacy means: not managed under its own name, but its renamed
		// counterpart would be.
		if !e.matchesAlwaysSync(name) && e.matchesAlwaysSync(e.renamePrefix+name) {
			names = append(names, name)
		}
	}
	e.state.RecordOriginals(names)
}

// retireRenamed deletes a recorded legacy file once its renamed replacement
// shows up upstream. Each legacy file is retired at most once; the override
// marker is an absolute veto here too.
func (e *Engine) retireRenamed(remote []models.FileEntry, counts *Counts) {
	remoteNames := make(map[string]bool, len(remote))
	for _, entry := range remote {
		remoteNames[entry.Name] = true
	}

	for _, name := range e.state.Originals() {
		if !remoteNames[e.renamePrefix+name] {
			continue
		}

		localPath := filepath.Join(e.dir, name)
		exists, err := fileExists(localPath)
		if err != nil || !exists {
			e.state.RetireOriginal(name)
			continue
		}

		if HasOverrideMarker(localPath) {
			logger.Debug("legacy file %s kept: override marker present", name)
			e.state.RetireOriginal(name)
			counts.Skipped++
			continue
		}

		if err := os.Remove(localPath); err != nil {
			logger.Warn("failed to retire legacy file %s: %v", name, err)
			counts.Failed++
			continue
		}
		e.state.MarkDisabled(name)
		e.state.RetireOriginal(name)
		counts.Deleted++
		logger.Info("retired legacy file %s (replaced by %s%s)", name, e.renamePrefix, name)
	}
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	return true, nil
}
