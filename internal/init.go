package internal

import (
	"github.com/sandkit/sandkit/internal/config"
	"github.com/sandkit/sandkit/internal/logger"
	"github.com/sandkit/sandkit/internal/utils"

	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: `Create the sandkit configuration file with defaults.

Examples:
  sandkit init                  # write ~/.config/sandkit/config.yml
  sandkit init --force          # overwrite an existing configuration`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")

			path, err := config.Path()
			if err != nil {
				return err
			}

			exists, err := utils.FileExists(path)
			if err != nil {
				return err
			}
			if exists && !force {
				logger.Warn("configuration already exists at %s (use --force to overwrite)", path)
				return nil
			}

			settings := config.Default()
			if err := settings.Save(); err != nil {
				return err
			}

			logger.Success("configuration written to %s", path)
			logger.Info("edit it to point at your scripts repository, then run 'sandkit sync'")
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration")
	return cmd
}
