package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/carouselaudit/internal/adapters/outbound/config"
	"github.com/abdidvp/carouselaudit/internal/domain"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Generate a .carouselaudit.yaml configuration file",
		Long:  "Write a .carouselaudit.yaml holding the default registry, timeouts and checks.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			dest := filepath.Join(absPath, config.FileName)

			if _, err := os.Stat(dest); err == nil {
				if !force {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
				if err := os.Remove(dest); err != nil {
					return fmt.Errorf("removing old config: %w", err)
				}
			}

			if err := config.Write(dest, domain.DefaultConfig()); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .carouselaudit.yaml")

	return cmd
}
