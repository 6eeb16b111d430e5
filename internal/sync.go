package internal

import (
	"github.com/sandkit/sandkit/internal/cache"
	"github.com/sandkit/sandkit/internal/config"
	"github.com/sandkit/sandkit/internal/github"
	"github.com/sandkit/sandkit/internal/middleware"
	"github.com/sandkit/sandkit/internal/syncer"

	"github.com/spf13/cobra"
)

func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync sandbox scripts and package lists from the remote repository",
		Long: `Reconcile the local scripts directory against the configured repository.

Files matching an always-sync pattern are kept identical to the remote;
other files are only downloaded when missing locally. A file whose first
line is '# CUSTOM OVERRIDE' is never touched.

Examples:
  sandkit sync                  # regular sync, uses the cached folder listing
  sandkit sync --force          # refetch the folder listing
  sandkit sync --dir ./scripts  # sync into another directory`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := middleware.Get[*config.Settings](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
				settings.ScriptsDir = dir
			}

			client := github.New(nil, cache.NewStore(settings.CacheDir))
			return syncer.NewManager(settings, client).Execute(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Refetch the remote listing even if cached")
	cmd.Flags().StringP("dir", "d", "", "Sync into this directory instead of the configured one")
	return cmd
}
