package domain

import (
	"context"
	"time"
)

// Browser hands out isolated sessions against one shared browser process.
type Browser interface {
	NewSession(ctx context.Context) (Session, error)
	Close() error
}

// Session is a single isolated browsing context. It is the only channel
// through which the auditor observes or acts on rendered state.
type Session interface {
	PageEvaluator
	Navigate(ctx context.Context, url string) error
	// Exists reports whether selector matches at least one element.
	Exists(ctx context.Context, selector string) (bool, error)
	// Count returns the number of elements matching selector.
	Count(ctx context.Context, selector string) (int, error)
	// OuterHTML returns the markup of the first match, or found=false.
	OuterHTML(ctx context.Context, selector string) (html string, found bool, err error)
	Click(ctx context.Context, selector string) error
	Focus(ctx context.Context, selector string) error
	PressKey(ctx context.Context, key string) error
	// Console returns error and warning messages logged by the page so far.
	Console() (errs, warnings []string)
	Close() error
}

// PageEvaluator runs a script in the page and decodes its JSON result into out.
// A nil out discards the result.
type PageEvaluator interface {
	Evaluate(ctx context.Context, script string, out any) error
}

// RulesetEngine runs the automated WCAG rule checker against a scope.
type RulesetEngine interface {
	Analyze(ctx context.Context, page PageEvaluator, scope string, tags []string) (*RulesetResult, error)
}

// ConfigLoader loads the audit configuration.
type ConfigLoader interface {
	Load(path string) (AuditConfig, error)
}

// ResultRecorder observes finished targets, e.g. for metrics.
type ResultRecorder interface {
	RecordTarget(result TargetResult, elapsed time.Duration)
}

// GitInfo reads commit metadata of the rendering site checkout.
type GitInfo interface {
	CommitHash(path string) (string, error)
}
