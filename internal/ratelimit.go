package internal

import (
	"time"

	"github.com/sandkit/sandkit/internal/github"
	"github.com/sandkit/sandkit/internal/logger"

	"github.com/spf13/cobra"
)

func NewRateLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "Show the current GitHub API quota",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// No cache: quota numbers are only useful live, and no config is
			// needed to ask for them.
			client := github.New(nil, nil)

			rl, err := client.RateLimit(cmd.Context())
			if err != nil {
				return err
			}

			reset := time.Unix(rl.Reset, 0)
			logger.Info("core API quota: %d/%d remaining, resets at %s",
				rl.Remaining, rl.Limit, reset.Format(time.Kitchen))

			if rl.Remaining == 0 {
				logger.Warn("rate limit exhausted; commands will fall back to cached data or the releases feed")
			}
			return nil
		},
	}
}
