package cli_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abdidvp/carouselaudit/internal/adapters/inbound/cli"
	"github.com/abdidvp/carouselaudit/internal/domain"
)

const fixtureDir = "../../../../testdata/carousels"

// fakeBrowser renders the same section markup for every URL.
type fakeBrowser struct {
	section    string
	sessionErr error
	visited    []string
}

func (b *fakeBrowser) NewSession(context.Context) (domain.Session, error) {
	if b.sessionErr != nil {
		return nil, b.sessionErr
	}
	return &fakeSession{browser: b}, nil
}

func (b *fakeBrowser) Close() error { return nil }

type fakeSession struct {
	browser *fakeBrowser
}

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	s.browser.visited = append(s.browser.visited, url)
	return nil
}
func (s *fakeSession) Evaluate(context.Context, string, any) error { return nil }
func (s *fakeSession) Exists(context.Context, string) (bool, error) { return false, nil }
func (s *fakeSession) Count(context.Context, string) (int, error) { return 3, nil }
func (s *fakeSession) OuterHTML(context.Context, string) (string, bool, error) {
	return s.browser.section, s.browser.section != "", nil
}
func (s *fakeSession) Click(context.Context, string) error { return nil }
func (s *fakeSession) Focus(context.Context, string) error { return nil }
func (s *fakeSession) PressKey(context.Context, string) error { return nil }
func (s *fakeSession) Console() ([]string, []string) { return nil, nil }
func (s *fakeSession) Close() error { return nil }

// useBrowser installs b as the launcher for the duration of the test.
func useBrowser(t *testing.T, b domain.Browser, launchErr error) {
	t.Helper()
	prev := *cli.LaunchBrowser
	*cli.LaunchBrowser = func(context.Context, domain.BrowserConfig) (domain.Browser, error) {
		if launchErr != nil {
			return nil, launchErr
		}
		return b, nil
	}
	t.Cleanup(func() { *cli.LaunchBrowser = prev })
}

var errNoChrome = errors.New("chrome not found")

// writeConfig stores a fast single-target config in a temp dir.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	body := `base_url: http://site.test
site_dir: ""
log_level: error
settle:
  interval: 1ms
  max_wait: 50ms
checks:
  ruleset: false
  manual: true
  keyboard: false
targets:
  - id: embla
    variants: [baseline]
` + extra
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".carouselaudit.yaml"), []byte(body), 0o644))
	return dir
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixtureDir, name))
	require.NoError(t, err)
	return string(data)
}
