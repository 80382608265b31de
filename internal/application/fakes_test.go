package application_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

const fixtureDir = "../../testdata/carousels"

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixtureDir, name))
	require.NoError(t, err)
	return string(data)
}

// fakePage describes what a URL renders.
type fakePage struct {
	section     string // empty means the section is missing
	counts      []int  // successive slide counts; the last one repeats
	hang        bool   // navigation blocks until the context ends
	activation  bool   // the activation control exists
	visible     bool   // result of every boolean evaluation
	noContainer bool   // the variant container element is absent
	panics      string // snapshotting the section panics with this value
	focusErr    error
	consoleErrs []string
}

type fakeBrowser struct {
	pages map[string]fakePage

	mu      sync.Mutex
	opened  int
	closed  int
	open    int
	maxOpen int
	clicks  []string
	keys    []string
}

func newFakeBrowser(pages map[string]fakePage) *fakeBrowser {
	return &fakeBrowser{pages: pages}
}

func (b *fakeBrowser) NewSession(ctx context.Context) (domain.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened++
	b.open++
	b.maxOpen = max(b.maxOpen, b.open)
	return &fakeSession{browser: b}, nil
}

func (b *fakeBrowser) Close() error { return nil }

func (b *fakeBrowser) stats() (opened, closed, maxOpen int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opened, b.closed, b.maxOpen
}

type fakeSession struct {
	browser *fakeBrowser
	page    fakePage
	samples int
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	page, ok := s.browser.pages[url]
	if !ok {
		return errors.New("net::ERR_CONNECTION_REFUSED")
	}
	s.page = page
	if page.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (s *fakeSession) Exists(ctx context.Context, selector string) (bool, error) {
	if selector == "#react-btn" {
		return s.page.activation, nil
	}
	return s.page.section != "", nil
}

func (s *fakeSession) Count(ctx context.Context, selector string) (int, error) {
	if len(s.page.counts) == 0 {
		return 0, nil
	}
	i := min(s.samples, len(s.page.counts)-1)
	s.samples++
	return s.page.counts[i], nil
}

func (s *fakeSession) OuterHTML(ctx context.Context, selector string) (string, bool, error) {
	if s.page.panics != "" {
		panic(s.page.panics)
	}
	return s.page.section, s.page.section != "", nil
}

func (s *fakeSession) Click(ctx context.Context, selector string) error {
	s.browser.mu.Lock()
	defer s.browser.mu.Unlock()
	s.browser.clicks = append(s.browser.clicks, selector)
	return nil
}

func (s *fakeSession) Focus(ctx context.Context, selector string) error {
	return s.page.focusErr
}

func (s *fakeSession) PressKey(ctx context.Context, key string) error {
	s.browser.mu.Lock()
	defer s.browser.mu.Unlock()
	s.browser.keys = append(s.browser.keys, key)
	return nil
}

func (s *fakeSession) Evaluate(ctx context.Context, script string, out any) error {
	switch b := out.(type) {
	case *bool:
		*b = s.page.visible
	case **bool:
		if s.page.noContainer {
			*b = nil
			return nil
		}
		v := s.page.visible
		*b = &v
	}
	return nil
}

func (s *fakeSession) Console() ([]string, []string) {
	return s.page.consoleErrs, nil
}

func (s *fakeSession) Close() error {
	s.browser.mu.Lock()
	defer s.browser.mu.Unlock()
	s.browser.closed++
	s.browser.open--
	return nil
}

type fakeRuleset struct {
	result *domain.RulesetResult
	err    error
}

func (f fakeRuleset) Analyze(ctx context.Context, page domain.PageEvaluator, scope string, tags []string) (*domain.RulesetResult, error) {
	return f.result, f.err
}

type fakeRecorder struct {
	mu      sync.Mutex
	targets []domain.Target
}

func (r *fakeRecorder) RecordTarget(result domain.TargetResult, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, result.Target)
}

type fakeGit struct{ hash string }

func (g fakeGit) CommitHash(path string) (string, error) { return g.hash, nil }

// testConfig returns a fast configuration auditing the given specs.
func testConfig(specs ...domain.TargetSpec) domain.AuditConfig {
	cfg := domain.DefaultConfig()
	cfg.BaseURL = "http://site.test"
	cfg.Targets = specs
	cfg.Timeouts.Target = 2 * time.Second
	cfg.Timeouts.ActivationSettle = 0
	cfg.Timeouts.KeySettle = 0
	cfg.Settle.Interval = time.Millisecond
	cfg.Settle.MaxWait = 20 * time.Millisecond
	return cfg
}

func baseline(id string) domain.TargetSpec {
	return domain.TargetSpec{ID: id, Variants: []domain.Variant{domain.VariantBaseline}}
}
