package application

import (
	"context"
	"strings"
	"time"

	"github.com/abdidvp/carouselaudit/internal/domain"
	"github.com/abdidvp/carouselaudit/internal/domain/detect"
)

// slideProbeSelector scopes every known slide selector under the section.
func slideProbeSelector(section string) string {
	sels := detect.SlideSelectors()
	scoped := make([]string, len(sels))
	for i, s := range sels {
		scoped[i] = section + " " + s
	}
	return strings.Join(scoped, ", ")
}

// WaitStable polls the slide count under section until it reaches MinSlides
// and stays unchanged for StableSamples consecutive samples. When MaxWait
// elapses first it returns the last count without error, since some targets
// legitimately render no slides. It only fails when ctx is done.
func WaitStable(ctx context.Context, s domain.Session, section string, cfg domain.SettleConfig) (int, error) {
	sel := slideProbeSelector(section)
	deadline := time.Now().Add(cfg.MaxWait)

	last, stable := -1, 0
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		n, err := s.Count(ctx, sel)
		if err != nil {
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			// A page mid-render can reject queries; treat it as an unstable sample.
			n = -1
		}
		if n == last && n >= cfg.MinSlides {
			stable++
		} else {
			stable = 1
		}
		last = n
		if n >= cfg.MinSlides && stable >= cfg.StableSamples {
			return n, nil
		}
		if !time.Now().Before(deadline) {
			return last, nil
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
