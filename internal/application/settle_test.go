package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/carouselaudit/internal/application"
	"github.com/abdidvp/carouselaudit/internal/domain"
)

func settleConfig() domain.SettleConfig {
	return domain.SettleConfig{
		Interval:      time.Millisecond,
		MaxWait:       time.Second,
		MinSlides:     1,
		StableSamples: 2,
	}
}

func TestWaitStable_WaitsForStableCount(t *testing.T) {
	_, s := sessionFor(t, fakePage{counts: []int{0, 2, 5, 5, 7}})

	n, err := application.WaitStable(context.Background(), s, ".carousel-section", settleConfig())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestWaitStable_SingleSample(t *testing.T) {
	_, s := sessionFor(t, fakePage{counts: []int{4}})
	cfg := settleConfig()
	cfg.StableSamples = 1

	n, err := application.WaitStable(context.Background(), s, ".carousel-section", cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestWaitStable_MaxWaitIsTolerated(t *testing.T) {
	_, s := sessionFor(t, fakePage{counts: []int{0}})
	cfg := settleConfig()
	cfg.MaxWait = 10 * time.Millisecond

	start := time.Now()
	n, err := application.WaitStable(context.Background(), s, ".carousel-section", cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitStable_ContextDone(t *testing.T) {
	_, s := sessionFor(t, fakePage{counts: []int{0}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	cfg := settleConfig()
	cfg.MaxWait = time.Minute

	_, err := application.WaitStable(ctx, s, ".carousel-section", cfg)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
