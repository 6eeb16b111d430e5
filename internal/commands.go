package internal

import (
	"github.com/sandkit/sandkit/internal/middleware"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	NewInitCmd,
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewSyncCmd),
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewReleasesCmd),
	NewCacheCmd,
	NewRateLimitCmd,
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
