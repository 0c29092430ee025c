package commands

import (
	"fmt"

	"github.com/ncobase/staffing/app"
	"github.com/ncobase/staffing/config"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the staffing HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			a, cleanup, err := app.NewApp(cfg)
			if err != nil {
				return fmt.Errorf("failed to create app: %w", err)
			}
			defer cleanup()

			return a.Run(cmd.Context())
		},
	}

	// Empty means search ., $HOME/.staffing and /etc/staffing for config.yaml.
	cmd.Flags().StringVarP(&configFile, "conf", "c", "", "config file path")
	return cmd
}
