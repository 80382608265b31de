package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abdidvp/carouselaudit/internal/adapters/outbound/axe"
	"github.com/abdidvp/carouselaudit/internal/adapters/outbound/browser"
	"github.com/abdidvp/carouselaudit/internal/adapters/outbound/config"
	"github.com/abdidvp/carouselaudit/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/carouselaudit/internal/adapters/outbound/metrics"
	"github.com/abdidvp/carouselaudit/internal/adapters/outbound/tui"
	"github.com/abdidvp/carouselaudit/internal/application"
	"github.com/abdidvp/carouselaudit/internal/domain"
	applog "github.com/abdidvp/carouselaudit/internal/log"
)

type auditOptions struct {
	configPath string
	jsonOutput bool
	targets    []string
	logFormat  string
}

// launchBrowser starts the shared browser process. Tests swap it for a fake.
var launchBrowser = func(ctx context.Context, cfg domain.BrowserConfig) (domain.Browser, error) {
	return browser.Launch(ctx, cfg)
}

func runAudit(cmd *cobra.Command, opts auditOptions) error {
	format, err := parseLogFormat(opts.logFormat)
	if err != nil {
		return err
	}

	report, err := audit(cmd.Context(), opts.configPath, opts.targets, cmd.ErrOrStderr(), format)
	if report == nil {
		return err
	}

	if opts.jsonOutput {
		if jerr := renderJSON(cmd, report); jerr != nil {
			return jerr
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
	}

	if err != nil {
		return err
	}
	if !report.Passed() {
		return fmt.Errorf("%w: %d of %d", ErrBelowBar, report.Summary.Total-report.Summary.Passing, report.Summary.Total)
	}
	return nil
}

// audit loads the config, runs the selected targets and writes the metrics
// textfile when one is configured. A non-nil report is returned whenever the
// run started, even if it was interrupted.
func audit(ctx context.Context, configPath string, ids []string, logw io.Writer, format applog.Format) (*domain.AuditReport, error) {
	cfg, err := config.New().Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Targets, err = domain.SelectTargets(cfg.Targets, ids); err != nil {
		return nil, err
	}
	logger := applog.New(logw, cfg.LogLevel, format)

	var ruleset domain.RulesetEngine
	if cfg.Checks.Ruleset {
		engine, err := axe.Load(cfg.Ruleset.Script)
		if err != nil {
			return nil, err
		}
		ruleset = engine
	}

	b, err := launchBrowser(ctx, cfg.Browser)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Debug("closing browser", "error", err)
		}
	}()

	rec := metrics.NewRecorder()
	svc := application.NewAuditService(b, ruleset, gitinfo.New(), rec, logger)
	report, err := svc.Run(ctx, cfg)

	if cfg.MetricsTextfile != "" {
		if werr := rec.WriteTextfile(cfg.MetricsTextfile, report.FinishedAt); werr != nil {
			logger.Warn("writing metrics textfile", "path", cfg.MetricsTextfile, "error", werr)
		}
	}
	return report, err
}

func parseLogFormat(s string) (applog.Format, error) {
	switch s {
	case "", "text":
		return applog.FormatText, nil
	case "json":
		return applog.FormatJSON, nil
	default:
		return 0, fmt.Errorf("unknown log format %q (valid: text, json)", s)
	}
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
