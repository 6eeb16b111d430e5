package middleware

import (
	"context"
	"fmt"

	"github.com/sandkit/sandkit/internal/config"
	"github.com/spf13/cobra"
)

// RequireConfig loads the persistent settings and stashes them in the
// command context for the handler to pick up with Get.
func RequireConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("missing config: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), CtxKeyConfig, settings)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
