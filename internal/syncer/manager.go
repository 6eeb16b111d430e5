package syncer

import (
	"context"
	"fmt"

	"github.com/sandkit/sandkit/internal/config"
	"github.com/sandkit/sandkit/internal/github"
	"github.com/sandkit/sandkit/internal/logger"
)

// Manager wires the rate-limit-aware client to the sync engine for the
// `sandkit sync` command.
type Manager struct {
	settings *config.Settings
	client   *github.Client
}

func NewManager(settings *config.Settings, client *github.Client) *Manager {
	return &Manager{settings: settings, client: client}
}

// Execute fetches the remote folder listing and reconciles it against the
// local scripts directory. Listing failures surface to the caller (hard
// network errors are user-visible); per-file sync failures are absorbed by
// the engine.
func (m *Manager) Execute(ctx context.Context, force bool) error {
	entries, err := m.client.Contents(ctx, m.settings.Owner, m.settings.Repo, m.settings.ScriptsPath, m.settings.Branch, github.RequestOptions{
		UseCache:     true,
		TTL:          m.settings.ContentTTL(),
		ForceRefresh: force,
	})
	if err != nil {
		return fmt.Errorf("failed to list remote scripts: %w", err)
	}

	engine := New(m.client, m.settings.ScriptsDir, m.settings.AlwaysSyncPatterns)
	counts := engine.Sync(ctx, entries)

	logger.Success("sync finished: %d downloaded, %d updated, %d unchanged, %d skipped, %d deleted, %d failed",
		counts.Downloaded, counts.Updated, counts.Unchanged, counts.Skipped, counts.Deleted, counts.Failed)

	if counts.Failed > 0 {
		logger.Warn("%d file(s) failed to sync, local copies were kept", counts.Failed)
	}
	return nil
}
