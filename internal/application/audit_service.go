package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abdidvp/carouselaudit/internal/domain"
	"github.com/abdidvp/carouselaudit/internal/domain/detect"
	"github.com/abdidvp/carouselaudit/internal/domain/manual"
	"github.com/abdidvp/carouselaudit/internal/domain/scoring"
)

// AuditService orchestrates the audit pipeline per target:
// navigate → settle → activate → snapshot → detect → score → manual → ruleset → keyboard.
type AuditService struct {
	browser  domain.Browser
	ruleset  domain.RulesetEngine
	git      domain.GitInfo
	recorder domain.ResultRecorder
	logger   *slog.Logger
}

// NewAuditService wires the pipeline. ruleset, git and recorder may be nil.
func NewAuditService(
	browser domain.Browser,
	ruleset domain.RulesetEngine,
	git domain.GitInfo,
	recorder domain.ResultRecorder,
	logger *slog.Logger,
) *AuditService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuditService{
		browser:  browser,
		ruleset:  ruleset,
		git:      git,
		recorder: recorder,
		logger:   logger,
	}
}

// Run audits every registered target and aggregates the report. Targets are
// processed with at most cfg.Concurrency sessions open; a failing target never
// stops the others. Results keep registration order.
func (s *AuditService) Run(ctx context.Context, cfg domain.AuditConfig) (*domain.AuditReport, error) {
	targets := domain.EnumerateTargets(cfg.Targets)
	report := &domain.AuditReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make([]domain.TargetResult, len(targets)),
	}
	s.logger.Info("audit started", "run_id", report.RunID, "targets", len(targets), "concurrency", cfg.Concurrency)

	if s.git != nil && cfg.SiteDir != "" {
		hash, err := s.git.CommitHash(cfg.SiteDir)
		if err != nil {
			s.logger.Debug("site commit unavailable", "dir", cfg.SiteDir, "error", err)
		}
		report.SiteCommit = hash
	}

	var g errgroup.Group
	g.SetLimit(max(cfg.Concurrency, 1))
	for i, t := range targets {
		g.Go(func() error {
			report.Results[i] = s.AuditTarget(ctx, cfg, t)
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = time.Now()
	report.Summary = domain.Aggregate(report.Results)
	s.logger.Info("audit finished",
		"run_id", report.RunID,
		"passing", report.Summary.Passing,
		"total", report.Summary.Total,
		"failed", report.Summary.Failed,
		"duration", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
	)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("audit interrupted: %w", err)
	}
	return report, nil
}

// AuditTarget runs the full pipeline for one target within the per-target
// timeout. It always returns a result: failures yield a 0% result with
// Failure set.
func (s *AuditService) AuditTarget(ctx context.Context, cfg domain.AuditConfig, t domain.Target) domain.TargetResult {
	start := time.Now()
	log := s.logger.With("target", t.ImplementationID, "variant", string(t.Variant))

	res := domain.TargetResult{
		Target:   t,
		URL:      domain.TargetURL(cfg, t),
		MinScore: cfg.MinScoreFor(t.ImplementationID),
	}

	tctx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Target)
	defer cancel()

	if err := s.inspectSafely(tctx, cfg, log, &res); err != nil {
		res = failedResult(res, err)
		log.Warn("target failed", "url", res.URL, "error", err)
	}
	res.Duration = time.Since(start)

	if s.recorder != nil {
		s.recorder.RecordTarget(res, res.Duration)
	}
	log.Info("target audited",
		"score", res.Score.Percentage,
		"issues", res.IssueCount(),
		"duration", res.Duration.Round(time.Millisecond),
	)
	return res
}

// failedResult keeps only the identity of res and scores an empty check.
func failedResult(res domain.TargetResult, err error) domain.TargetResult {
	return domain.TargetResult{
		Target:      res.Target,
		URL:         res.URL,
		MinScore:    res.MinScore,
		Score:       scoring.Score(domain.CheckResult{}),
		Failure:     err.Error(),
		FailureKind: domain.FailureNavigation,
	}
}

func navErr(t domain.Target, stage string, err error) error {
	if errors.Is(err, domain.ErrNavigation) {
		return &domain.TargetError{Target: t, Stage: stage, Err: err}
	}
	return &domain.TargetError{Target: t, Stage: stage, Err: fmt.Errorf("%w: %w", domain.ErrNavigation, err)}
}

// inspectSafely confines a panic in one target's pipeline to that target.
func (s *AuditService) inspectSafely(ctx context.Context, cfg domain.AuditConfig, log *slog.Logger, res *domain.TargetResult) (err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("target pipeline panicked", "panic", p, "stack", string(debug.Stack()))
			err = &domain.TargetError{Target: res.Target, Stage: "panic", Err: fmt.Errorf("%w: panic: %v", domain.ErrNavigation, p)}
		}
	}()
	return s.inspect(ctx, cfg, log, res)
}

func (s *AuditService) inspect(ctx context.Context, cfg domain.AuditConfig, log *slog.Logger, res *domain.TargetResult) error {
	t := res.Target

	session, err := s.browser.NewSession(ctx)
	if err != nil {
		return navErr(t, "session", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Debug("closing session", "error", err)
		}
	}()

	// 1. Navigate and wait for the slides to settle
	if err := session.Navigate(ctx, res.URL); err != nil {
		return navErr(t, "navigate", err)
	}
	slides, err := WaitStable(ctx, session, cfg.SectionSelector, cfg.Settle)
	if err != nil {
		return navErr(t, "settle", err)
	}
	log.Debug("page settled", "slides", slides)

	// 2. Switch to the alternate rendering when it sits behind a toggle
	if t.Activate && cfg.ActivationSelector != "" {
		if err := s.activate(ctx, cfg, log, session); err != nil {
			return navErr(t, "activate", err)
		}
	}

	// 3. Snapshot the audit section
	html, found, err := session.OuterHTML(ctx, cfg.SectionSelector)
	if err != nil {
		return navErr(t, "snapshot", err)
	}
	snap := domain.Snapshot{Selector: cfg.SectionSelector, HTML: html, Found: found}
	res.Load.SectionFound = found
	if !found {
		log.Warn("audit section missing", "selector", cfg.SectionSelector, "error", domain.ErrSectionMissing)
	}
	if container := cfg.VariantContainers[t.Variant]; container != "" {
		missingVisible := t.Variant == domain.VariantBaseline || !cfg.Offers(t.ImplementationID, domain.VariantBaseline)
		res.Load.ContainerVisible = containerVisible(ctx, session, container, missingVisible)
	}

	// 4. Detect and score
	check, err := detect.Detect(snap)
	if err != nil {
		return &domain.TargetError{Target: t, Stage: "detect", Err: err}
	}
	res.Check = check
	res.Score = scoring.Score(check)

	// 5. Manual checks
	if cfg.Checks.Manual {
		issues, err := manual.Run(snap)
		if err != nil {
			log.Warn("manual checks skipped", "error", err)
		}
		res.ManualIssues = issues
	}

	// 6. Ruleset engine
	if cfg.Checks.Ruleset && found {
		s.runRuleset(ctx, cfg, log, session, res)
	}

	// 7. Keyboard probe
	if cfg.Checks.Keyboard && found {
		kb, err := ProbeKeyboard(ctx, session, cfg.SectionSelector, cfg.Timeouts.KeySettle)
		if err != nil {
			log.Debug("keyboard probe incomplete", "confirmed", kb.Confirmed(), "error", err)
		}
		res.Keyboard = &kb
	}

	res.Load.ConsoleErrors, res.Load.ConsoleWarnings = session.Console()
	return nil
}

func (s *AuditService) activate(ctx context.Context, cfg domain.AuditConfig, log *slog.Logger, session domain.Session) error {
	ok, err := session.Exists(ctx, cfg.ActivationSelector)
	if err != nil {
		return err
	}
	if !ok {
		log.Debug("activation control absent", "selector", cfg.ActivationSelector)
		return nil
	}
	if err := session.Click(ctx, cfg.ActivationSelector); err != nil {
		log.Warn("activation click failed", "selector", cfg.ActivationSelector, "error", err)
		return nil
	}
	if err := sleep(ctx, cfg.Timeouts.ActivationSettle); err != nil {
		return err
	}
	_, err = WaitStable(ctx, session, cfg.SectionSelector, cfg.Settle)
	return err
}

func (s *AuditService) runRuleset(ctx context.Context, cfg domain.AuditConfig, log *slog.Logger, session domain.Session, res *domain.TargetResult) {
	if s.ruleset == nil {
		res.RulesetNote = domain.ErrRulesetUnavailable.Error() + ": no engine configured"
		return
	}
	rr, err := s.ruleset.Analyze(ctx, session, cfg.SectionSelector, cfg.Ruleset.Tags)
	if err != nil {
		res.RulesetNote = err.Error()
		log.Warn("ruleset skipped", "error", err)
		return
	}
	res.Violations = rr.Violations
	res.RulesetPasses = rr.Passes
}

const containerVisibleScript = `(() => {
  const el = document.querySelector(%s);
  return el ? !el.classList.contains('hidden') : null;
})()`

// containerVisible reports whether the variant container is shown. Pages
// that render a single variant may omit the container; missingVisible is
// the answer for that case.
func containerVisible(ctx context.Context, session domain.Session, selector string, missingVisible bool) bool {
	quoted, _ := json.Marshal(selector)
	var visible *bool
	if err := session.Evaluate(ctx, fmt.Sprintf(containerVisibleScript, quoted), &visible); err != nil {
		return false
	}
	if visible == nil {
		return missingVisible
	}
	return *visible
}
