package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, 100, domain.Percent(9, 9))
	assert.Equal(t, 89, domain.Percent(8, 9))
	assert.Equal(t, 63, domain.Percent(5, 8))
	assert.Equal(t, 0, domain.Percent(0, 8))
	assert.Equal(t, 0, domain.Percent(0, 0))
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, domain.TierExcellent, domain.TierFor(100))
	assert.Equal(t, domain.TierExcellent, domain.TierFor(80))
	assert.Equal(t, domain.TierGood, domain.TierFor(79))
	assert.Equal(t, domain.TierGood, domain.TierFor(60))
	assert.Equal(t, domain.TierNeedsWork, domain.TierFor(59))
	assert.Equal(t, domain.TierNeedsWork, domain.TierFor(0))
}

func TestCurrentMethod(t *testing.T) {
	assert.True(t, domain.CurrentAriaCurrent.Accessible())
	assert.True(t, domain.CurrentAriaSelected.Accessible())
	assert.False(t, domain.CurrentClassOnly.Accessible())
	assert.False(t, domain.CurrentNone.Accessible())
	assert.Equal(t, "none", domain.CurrentMethod("").String())
}

func TestKeyboardProbeResult_Confirmed(t *testing.T) {
	assert.Equal(t, 0, domain.KeyboardProbeResult{}.Confirmed())
	assert.Equal(t, 2, domain.KeyboardProbeResult{CanFocus: true, ActivatesWithSpace: true}.Confirmed())
	assert.Equal(t, 4, domain.KeyboardProbeResult{
		CanFocus: true, FocusVisible: true, ActivatesWithEnter: true, ActivatesWithSpace: true,
	}.Confirmed())
}

func TestTargetResult_Passes(t *testing.T) {
	ok := domain.TargetResult{
		Score:    domain.Score{Percentage: 60},
		Load:     domain.LoadStatus{SectionFound: true},
		MinScore: 60,
	}
	assert.True(t, ok.Passes())

	low := ok
	low.Score.Percentage = 59
	assert.False(t, low.Passes())

	missing := ok
	missing.Load.SectionFound = false
	assert.False(t, missing.Passes())

	failed := ok
	failed.Failure = "navigation timed out"
	assert.True(t, failed.Failed())
	assert.False(t, failed.Passes())
}

func TestTarget_String(t *testing.T) {
	tg := domain.Target{ImplementationID: "embla", Variant: domain.VariantAlternate}
	assert.Equal(t, "embla (alternate)", tg.String())
}

func TestTargetError(t *testing.T) {
	err := &domain.TargetError{
		Target: domain.Target{ImplementationID: "swiper", Variant: domain.VariantBaseline},
		Stage:  "navigate",
		Err:    domain.ErrNavigation,
	}
	assert.Equal(t, "swiper (baseline): navigate: navigation failure", err.Error())
	assert.True(t, errors.Is(err, domain.ErrNavigation))
}

func TestMarksCurrent(t *testing.T) {
	assert.True(t, domain.MarksCurrent("page"))
	assert.True(t, domain.MarksCurrent(" True "))
	assert.False(t, domain.MarksCurrent("false"))
	assert.False(t, domain.MarksCurrent(""))
}
