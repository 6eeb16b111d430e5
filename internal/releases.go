package internal

import (
	"github.com/sandkit/sandkit/internal/cache"
	"github.com/sandkit/sandkit/internal/config"
	"github.com/sandkit/sandkit/internal/github"
	"github.com/sandkit/sandkit/internal/middleware"
	"github.com/sandkit/sandkit/internal/release"

	"github.com/spf13/cobra"
)

func NewReleasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "releases",
		Short: "List releases of the configured repository",
		Long: `List releases via the GitHub API, degrading to cached data or the public
releases feed when rate-limited.

Examples:
  sandkit releases                        # recent releases (cached)
  sandkit releases --latest               # only the latest stable release
  sandkit releases --no-cache             # bypass the disk cache
  sandkit releases --latest --download .  # fetch the latest release's assets`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := middleware.Get[*config.Settings](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			latest, _ := cmd.Flags().GetBool("latest")
			limit, _ := cmd.Flags().GetInt("limit")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			downloadDir, _ := cmd.Flags().GetString("download")

			client := github.New(nil, cache.NewStore(settings.CacheDir))
			m := release.New(settings, client)
			return m.Execute(cmd.Context(), release.Options{
				Latest:      latest,
				Limit:       limit,
				NoCache:     noCache,
				DownloadDir: downloadDir,
			})
		},
	}

	cmd.Flags().Bool("latest", false, "Show only the latest stable release")
	cmd.Flags().IntP("limit", "n", 10, "Maximum number of releases to list")
	cmd.Flags().Bool("no-cache", false, "Bypass the disk cache")
	cmd.Flags().StringP("download", "d", "", "Download the first listed release's assets into this directory")
	return cmd
}
