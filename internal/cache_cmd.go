package internal

import (
	"sort"
	"strconv"
	"time"

	"github.com/sandkit/sandkit/internal/cache"
	"github.com/sandkit/sandkit/internal/config"
	"github.com/sandkit/sandkit/internal/logger"

	"github.com/spf13/cobra"
)

// The cache subcommands load the config themselves: PreRunE middleware on
// the parent command would not run for them.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response cache",
	}

	cmd.AddCommand(newCacheInfoCmd(), newCacheClearCmd())
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cached entries and their expiry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}

			store := cache.NewStore(settings.CacheDir)
			index := store.Index()
			if len(index) == 0 {
				logger.Info("cache is empty (%s)", store.Dir())
				return nil
			}

			keys := make([]string, 0, len(index))
			for k := range index {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			now := time.Now()
			table := logger.CreateTable([]string{"Key", "Age", "TTL (min)", "Source", "Stale"})
			for _, k := range keys {
				meta := index[k]
				if err := table.Append([]string{
					k,
					now.Sub(meta.Timestamp).Truncate(time.Second).String(),
					strconv.Itoa(meta.TTLMinutes),
					string(meta.Source),
					strconv.FormatBool(meta.Expired(now)),
				}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole cache directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}

			store := cache.NewStore(settings.CacheDir)
			if err := store.Clear(); err != nil {
				return err
			}
			logger.Success("cache cleared (%s)", store.Dir())
			return nil
		},
	}
}
