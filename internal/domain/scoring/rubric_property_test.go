package scoring_test

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/abdidvp/carouselaudit/internal/domain"
	"github.com/abdidvp/carouselaudit/internal/domain/scoring"
)

// genCheckResult generates arbitrary detector output
func genCheckResult() *rapid.Generator[domain.CheckResult] {
	return rapid.Custom(func(t *rapid.T) domain.CheckResult {
		var c domain.CheckResult
		c.Structure.HasContainer = rapid.Bool().Draw(t, "has_container")
		if rapid.Bool().Draw(t, "labelled") {
			c.Structure.ContainerLabel = rapid.StringMatching(`[A-Za-z ]{1,20}`).Draw(t, "label")
		}
		c.Slides.Count = rapid.IntRange(0, 12).Draw(t, "slides")
		risks := rapid.IntRange(0, 4).Draw(t, "risks")
		for i := 0; i < risks; i++ {
			c.Slides.FocusableInHidden = append(c.Slides.FocusableInHidden, domain.FocusTrapRisk{SlideIndex: i, Tag: "A"})
		}
		c.Navigation.HasPrev = rapid.Bool().Draw(t, "prev")
		c.Navigation.HasNext = rapid.Bool().Draw(t, "next")
		c.Navigation.KeyboardAccessible = rapid.Bool().Draw(t, "nav_keyboard")
		c.Pagination.HasDots = rapid.Bool().Draw(t, "dots")
		if c.Pagination.HasDots {
			c.Pagination.DotCount = rapid.IntRange(2, 10).Draw(t, "dot_count")
			c.Pagination.DotsHaveLabels = rapid.Bool().Draw(t, "dot_labels")
			c.Pagination.CurrentMethod = rapid.SampledFrom([]domain.CurrentMethod{
				domain.CurrentNone, domain.CurrentAriaCurrent, domain.CurrentAriaSelected, domain.CurrentClassOnly,
			}).Draw(t, "method")
		}
		return c
	})
}

// TestScore_PercentageFormula checks percentage = round(100 * passed / total)
func TestScore_PercentageFormula(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := genCheckResult().Draw(t, "check")
		s := scoring.Score(c)

		want := int(math.Round(100 * float64(s.Passed) / float64(s.Total)))
		if s.Percentage != want {
			t.Fatalf("percentage %d, want %d (passed %d, total %d)", s.Percentage, want, s.Passed, s.Total)
		}
		if s.Percentage < 0 || s.Percentage > 100 {
			t.Fatalf("percentage %d out of range", s.Percentage)
		}
	})
}

// TestScore_TotalDependsOnlyOnDots checks the rubric size and issue accounting
func TestScore_TotalDependsOnlyOnDots(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := genCheckResult().Draw(t, "check")
		s := scoring.Score(c)

		wantTotal := 8
		if c.Pagination.HasDots {
			wantTotal = 9
		}
		if s.Total != wantTotal {
			t.Fatalf("total %d, want %d", s.Total, wantTotal)
		}
		if s.Passed+len(s.Issues) != s.Total {
			t.Fatalf("passed %d + issues %d != total %d", s.Passed, len(s.Issues), s.Total)
		}
	})
}

// TestScore_FixingCriterionNeverLowersScore checks monotonicity for a fixed total
func TestScore_FixingCriterionNeverLowersScore(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := genCheckResult().Draw(t, "check")
		c.Pagination.HasDots = true
		before := scoring.Score(c)

		fixedCheck := c
		switch rapid.IntRange(0, 4).Draw(t, "fix") {
		case 0:
			fixedCheck.Structure.HasContainer = true
		case 1:
			fixedCheck.Navigation.KeyboardAccessible = true
		case 2:
			fixedCheck.Pagination.DotsHaveLabels = true
		case 3:
			fixedCheck.Pagination.CurrentMethod = domain.CurrentAriaCurrent
		case 4:
			fixedCheck.Slides.FocusableInHidden = nil
		}
		after := scoring.Score(fixedCheck)

		if after.Total != 9 || before.Total != 9 {
			t.Fatalf("total changed: %d -> %d", before.Total, after.Total)
		}
		if after.Passed < before.Passed {
			t.Fatalf("passed dropped from %d to %d", before.Passed, after.Passed)
		}
	})
}
