// Package browser drives a shared headless Chrome through chromedp. Every
// session runs in its own browser context, so cookies and storage never leak
// between targets.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

// Chrome is a running browser process shared by all sessions.
type Chrome struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	remote      bool
}

// Launch starts the browser, or connects to cfg.RemoteURL when set. The
// browser lives until Close.
func Launch(ctx context.Context, cfg domain.BrowserConfig) (*Chrome, error) {
	allocCtx, allocCancel := allocator(context.WithoutCancel(ctx), cfg)
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	return &Chrome{ctx: browserCtx, cancel: cancel, allocCancel: allocCancel, remote: cfg.RemoteURL != ""}, nil
}

func allocator(ctx context.Context, cfg domain.BrowserConfig) (context.Context, context.CancelFunc) {
	if cfg.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(ctx, cfg.RemoteURL, chromedp.NoModifyURL)
	}
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", cfg.Headless))
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return chromedp.NewExecAllocator(ctx, opts...)
}

// NewSession opens a tab in a fresh browser context.
//
// The first Run on a tab attaches it, and chromedp keeps the tab's event loop
// alive for as long as the context given to that Run. So the attach runs on
// tabCtx itself; ctx only bounds it by closing the tab.
func (c *Chrome) NewSession(ctx context.Context) (domain.Session, error) {
	tabCtx, cancel := chromedp.NewContext(c.ctx, chromedp.WithNewBrowserContext())
	s := &session{ctx: tabCtx, cancel: cancel}
	chromedp.ListenTarget(tabCtx, s.onEvent)

	stop := context.AfterFunc(ctx, cancel)
	err := chromedp.Run(tabCtx)
	if !stop() {
		// ctx ended first and the tab is already being closed.
		return nil, ctx.Err()
	}
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	return s, nil
}

// Close terminates the browser process, or drops the connection to a remote
// browser.
func (c *Chrome) Close() error {
	if c.remote {
		// The remote allocator runs chromedp.Cancel itself once c.ctx ends.
		c.cancel()
		c.allocCancel()
		return nil
	}
	err := chromedp.Cancel(c.ctx)
	c.cancel()
	c.allocCancel()
	return err
}

type session struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	errs     []string
	warnings []string
}

// run executes actions on an attached tab while honouring the caller's
// deadline. runCtx only scopes the call; the tab itself lives on s.ctx.
func (s *session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (s *session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *session) Evaluate(ctx context.Context, script string, out any) error {
	return s.run(ctx, chromedp.Evaluate(script, out, awaitPromise))
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func (s *session) Exists(ctx context.Context, selector string) (bool, error) {
	var ok bool
	err := s.Evaluate(ctx, fmt.Sprintf(`document.querySelector(%s) !== null`, quote(selector)), &ok)
	return ok, err
}

func (s *session) Count(ctx context.Context, selector string) (int, error) {
	var n int
	err := s.Evaluate(ctx, fmt.Sprintf(`document.querySelectorAll(%s).length`, quote(selector)), &n)
	return n, err
}

const outerHTMLScript = `(() => {
  const el = document.querySelector(%s);
  return el ? {found: true, html: el.outerHTML} : {found: false, html: ""};
})()`

func (s *session) OuterHTML(ctx context.Context, selector string) (string, bool, error) {
	var res struct {
		Found bool   `json:"found"`
		HTML  string `json:"html"`
	}
	if err := s.Evaluate(ctx, fmt.Sprintf(outerHTMLScript, quote(selector)), &res); err != nil {
		return "", false, err
	}
	return res.HTML, res.Found, nil
}

// Click and Focus check for the element first because chromedp queries block
// until a match appears.
func (s *session) Click(ctx context.Context, selector string) error {
	if err := s.require(ctx, selector); err != nil {
		return err
	}
	return s.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

func (s *session) Focus(ctx context.Context, selector string) error {
	if err := s.require(ctx, selector); err != nil {
		return err
	}
	return s.run(ctx, chromedp.Focus(selector, chromedp.ByQuery))
}

func (s *session) require(ctx context.Context, selector string) error {
	ok, err := s.Exists(ctx, selector)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}

func (s *session) PressKey(ctx context.Context, key string) error {
	return s.run(ctx, chromedp.KeyEvent(keyFor(key)))
}

// keyFor maps key names to the sequences chromedp.KeyEvent understands.
func keyFor(key string) string {
	switch key {
	case "Enter":
		return kb.Enter
	case "Space":
		return " "
	case "Tab":
		return kb.Tab
	case "Escape":
		return kb.Escape
	default:
		return key
	}
}

func (s *session) Console() ([]string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errs...), append([]string(nil), s.warnings...)
}

func (s *session) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	return err
}

func (s *session) onEvent(ev any) {
	switch e := ev.(type) {
	case *runtime.EventConsoleAPICalled:
		msg := consoleText(e.Args)
		s.mu.Lock()
		switch e.Type {
		case runtime.APITypeError:
			s.errs = append(s.errs, msg)
		case runtime.APITypeWarning:
			s.warnings = append(s.warnings, msg)
		}
		s.mu.Unlock()
	case *runtime.EventExceptionThrown:
		if e.ExceptionDetails == nil {
			return
		}
		msg := e.ExceptionDetails.Text
		if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
			msg = e.ExceptionDetails.Exception.Description
		}
		s.mu.Lock()
		s.errs = append(s.errs, msg)
		s.mu.Unlock()
	}
}

func consoleText(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a == nil {
			continue
		}
		if len(a.Value) > 0 {
			raw := string(a.Value)
			if unq, err := strconv.Unquote(raw); err == nil {
				raw = unq
			}
			parts = append(parts, raw)
			continue
		}
		parts = append(parts, a.Description)
	}
	return strings.Join(parts, " ")
}

// quote renders s as a JavaScript string literal.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
