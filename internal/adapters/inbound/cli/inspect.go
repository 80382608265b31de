package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/carouselaudit/internal/adapters/outbound/tui"
	"github.com/abdidvp/carouselaudit/internal/application"
)

func newInspectCmd() *cobra.Command {
	var (
		section    string
		jsonOutput bool
		minScore   int
	)

	cmd := &cobra.Command{
		Use:   "inspect <file.html>",
		Short: "Score a saved page snapshot without a browser",
		Long:  "Run structure detection, rubric scoring and the manual markup checks on an HTML file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading snapshot: %w", err)
			}

			report, err := application.InspectMarkup(string(data), section)
			if err != nil {
				return fmt.Errorf("inspecting %s: %w", args[0], err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderInspection(filepath.Base(args[0]), report.Check, report.Score, report.ManualIssues))
			}

			if report.Score.Percentage < minScore {
				return fmt.Errorf("%w: scored %d%%, minimum is %d%%", ErrBelowBar, report.Score.Percentage, minScore)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", ".carousel-section", "Selector of the section to inspect (empty inspects the whole file)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")
	cmd.Flags().IntVar(&minScore, "min", 0, "Fail when the score is below this percentage")

	return cmd
}
