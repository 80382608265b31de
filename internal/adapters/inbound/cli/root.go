package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// ErrBelowBar is returned when the audit completed but at least one target
// missed its pass bar.
var ErrBelowBar = errors.New("targets below their pass bar")

func newRootCmd() *cobra.Command {
	opts := auditOptions{}

	cmd := &cobra.Command{
		Use:   "carouselaudit",
		Short: "Audit carousel implementations for WCAG 2.1 AA",
		Long: "carouselaudit loads every registered carousel implementation in a headless browser, " +
			"detects its accessibility structure, scores it against the carousel rubric and runs axe-core. " +
			"It exits non-zero when any target misses its pass bar.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", ".", "Config file or directory containing .carouselaudit.yaml")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().StringSliceVar(&opts.targets, "target", nil, "Only audit these implementation ids (repeatable)")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "text", "Log format on stderr (text, json)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "carouselaudit:", err)
	}
	return err
}
