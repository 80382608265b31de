package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

// focusVisibleScript reports whether the focused control shows a focus
// indicator: a non-zero outline, a ring utility or :focus-visible.
const focusVisibleScript = `(() => {
  const el = document.querySelector(%s);
  if (!el) return false;
  const st = window.getComputedStyle(el);
  const outline = st.outlineStyle !== 'none' && st.outlineWidth !== '0px';
  const ring = el.classList.contains('focus:ring-2') || st.boxShadow.includes('ring');
  return outline || ring || el.matches(':focus-visible');
})()`

// probeSelector matches the first control in the section.
func probeSelector(section string) string {
	return fmt.Sprintf(`%[1]s button, %[1]s [role="button"]`, section)
}

// ProbeKeyboard focuses the first control of the section and presses Enter and
// Space on it. Every sub-result stays false unless confirmed; the first failing
// step ends the probe and is returned wrapped in domain.ErrProbe.
func ProbeKeyboard(ctx context.Context, s domain.Session, section string, keySettle time.Duration) (domain.KeyboardProbeResult, error) {
	var res domain.KeyboardProbeResult
	sel := probeSelector(section)

	ok, err := s.Exists(ctx, sel)
	if err != nil {
		return res, fmt.Errorf("%w: locating control: %v", domain.ErrProbe, err)
	}
	if !ok {
		return res, nil
	}

	// 1. Focus
	if err := s.Focus(ctx, sel); err != nil {
		return res, fmt.Errorf("%w: focus: %v", domain.ErrProbe, err)
	}
	res.CanFocus = true

	// 2. Focus indicator
	quoted, _ := json.Marshal(sel)
	var visible bool
	if err := s.Evaluate(ctx, fmt.Sprintf(focusVisibleScript, quoted), &visible); err != nil {
		return res, fmt.Errorf("%w: focus style: %v", domain.ErrProbe, err)
	}
	res.FocusVisible = visible

	// 3. Enter
	if err := s.PressKey(ctx, "Enter"); err != nil {
		return res, fmt.Errorf("%w: enter: %v", domain.ErrProbe, err)
	}
	if err := sleep(ctx, keySettle); err != nil {
		return res, fmt.Errorf("%w: %v", domain.ErrProbe, err)
	}
	res.ActivatesWithEnter = true

	// 4. Space, after restoring focus
	if err := s.Focus(ctx, sel); err != nil {
		return res, fmt.Errorf("%w: refocus: %v", domain.ErrProbe, err)
	}
	if err := s.PressKey(ctx, "Space"); err != nil {
		return res, fmt.Errorf("%w: space: %v", domain.ErrProbe, err)
	}
	if err := sleep(ctx, keySettle); err != nil {
		return res, fmt.Errorf("%w: %v", domain.ErrProbe, err)
	}
	res.ActivatesWithSpace = true
	return res, nil
}
