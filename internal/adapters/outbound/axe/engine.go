// Package axe runs the axe-core rule engine inside the audited page.
package axe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

// Engine injects an axe-core bundle read from disk and runs it scoped to a
// selector.
type Engine struct {
	script string
}

// Load reads the axe-core bundle from path. An empty path yields an engine
// that reports domain.ErrRulesetUnavailable on every call.
func Load(path string) (*Engine, error) {
	if path == "" {
		return &Engine{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset script: %w", err)
	}
	return &Engine{script: string(data)}, nil
}

// New returns an engine for an in-memory bundle.
func New(script string) *Engine {
	return &Engine{script: script}
}

const runScript = `(async () => {
  const r = await axe.run(document.querySelector(%s) || document, {runOnly: {type: 'tag', values: %s}});
  return {
    violations: r.violations.map(v => ({
      id: v.id,
      impact: v.impact || '',
      help: v.help,
      tags: v.tags,
      nodes: v.nodes.map(n => ({target: n.target.map(String), html: n.html}))
    })),
    passes: r.passes.length
  };
})()`

type rawResult struct {
	Violations []domain.RuleViolation `json:"violations"`
	Passes     int                    `json:"passes"`
}

// Analyze injects the bundle when needed and returns the violations found in
// scope. Any failure is reported as domain.ErrRulesetUnavailable.
func (e *Engine) Analyze(ctx context.Context, page domain.PageEvaluator, scope string, tags []string) (*domain.RulesetResult, error) {
	if e.script == "" {
		return nil, fmt.Errorf("%w: no axe-core script configured", domain.ErrRulesetUnavailable)
	}

	var loaded bool
	if err := page.Evaluate(ctx, `typeof window.axe !== 'undefined'`, &loaded); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRulesetUnavailable, err)
	}
	if !loaded {
		if err := page.Evaluate(ctx, e.script, nil); err != nil {
			return nil, fmt.Errorf("%w: injecting axe-core: %v", domain.ErrRulesetUnavailable, err)
		}
		if err := page.Evaluate(ctx, `typeof window.axe !== 'undefined'`, &loaded); err != nil || !loaded {
			return nil, fmt.Errorf("%w: axe-core did not register", domain.ErrRulesetUnavailable)
		}
	}

	scopeJSON, _ := json.Marshal(scope)
	if len(tags) == 0 {
		tags = domain.WCAGAATags
	}
	tagsJSON, _ := json.Marshal(tags)

	var raw rawResult
	if err := page.Evaluate(ctx, fmt.Sprintf(runScript, scopeJSON, tagsJSON), &raw); err != nil {
		return nil, fmt.Errorf("%w: running axe-core: %v", domain.ErrRulesetUnavailable, err)
	}
	if raw.Violations == nil {
		raw.Violations = []domain.RuleViolation{}
	}
	return &domain.RulesetResult{Violations: raw.Violations, Passes: raw.Passes}, nil
}
