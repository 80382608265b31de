// Package scoring turns a CheckResult into a pass/total score with issue text.
package scoring

import (
	"fmt"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

// Criterion is one binary rubric item.
type Criterion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Conditional criteria are only scored when applies returns true.
	Conditional bool `json:"conditional,omitempty"`

	applies func(domain.CheckResult) bool
	pass    func(domain.CheckResult) bool
	issue   func(domain.CheckResult) string
}

func fixed(msg string) func(domain.CheckResult) string {
	return func(domain.CheckResult) string { return msg }
}

var rubric = []Criterion{
	{
		Name:        "container",
		Description: "An identifiable carousel container exists",
		pass:        func(c domain.CheckResult) bool { return c.Structure.HasContainer },
		issue:       fixed("Missing identifiable carousel container"),
	},
	{
		Name:        "container_label",
		Description: "The container has an accessible label",
		pass:        func(c domain.CheckResult) bool { return c.Structure.ContainerLabel != "" },
		issue:       fixed("Missing aria-label on carousel container"),
	},
	{
		Name:        "slides",
		Description: "At least one slide is detected",
		pass:        func(c domain.CheckResult) bool { return c.Slides.Count > 0 },
		issue:       fixed("No slides detected"),
	},
	{
		Name:        "navigation",
		Description: "Both previous and next controls exist",
		pass:        func(c domain.CheckResult) bool { return c.Navigation.HasPrev && c.Navigation.HasNext },
		issue:       fixed("Missing prev/next navigation buttons"),
	},
	{
		Name:        "navigation_keyboard",
		Description: "Navigation controls are reachable by keyboard",
		pass:        func(c domain.CheckResult) bool { return c.Navigation.KeyboardAccessible },
		issue:       fixed("Navigation buttons not keyboard accessible (tabindex=-1)"),
	},
	{
		Name:        "pagination",
		Description: "Pagination dots exist",
		pass:        func(c domain.CheckResult) bool { return c.Pagination.HasDots },
		issue:       fixed("No pagination dots"),
	},
	{
		Name:        "pagination_labels",
		Description: "Every pagination dot has an accessible label",
		Conditional: true,
		applies:     func(c domain.CheckResult) bool { return c.Pagination.HasDots },
		pass:        func(c domain.CheckResult) bool { return c.Pagination.DotsHaveLabels },
		issue:       fixed("Pagination dots missing aria-labels"),
	},
	{
		Name:        "current_indicator",
		Description: "The current slide is exposed through aria-current or aria-selected",
		pass:        func(c domain.CheckResult) bool { return c.Pagination.CurrentMethod.Accessible() },
		issue: func(c domain.CheckResult) string {
			method := c.Pagination.CurrentMethod.String()
			if c.Pagination.CurrentMethod == domain.CurrentNone || c.Pagination.CurrentMethod == "" {
				method = "nothing"
			}
			return fmt.Sprintf("Current slide indicated by %s (should use aria-current)", method)
		},
	},
	{
		Name:        "hidden_focus",
		Description: "Hidden slides contain no keyboard-focusable elements",
		pass: func(c domain.CheckResult) bool {
			return c.Slides.Count > 0 && len(c.Slides.FocusableInHidden) == 0
		},
		issue: func(c domain.CheckResult) string {
			if c.Slides.Count == 0 {
				return "Hidden slide focus management unverifiable (no slides detected)"
			}
			return fmt.Sprintf("%d focusable elements in hidden slides (focus trap risk)", len(c.Slides.FocusableInHidden))
		},
	},
}

// Criteria returns the rubric in scoring order.
func Criteria() []Criterion {
	out := make([]Criterion, len(rubric))
	copy(out, rubric)
	return out
}

// Score evaluates the rubric. Total is 9 when pagination dots were detected
// and 8 otherwise. Issues lists one message per failed criterion, in rubric
// order, and is never nil.
func Score(c domain.CheckResult) domain.Score {
	s := domain.Score{Issues: []string{}}
	for _, cr := range rubric {
		if cr.applies != nil && !cr.applies(c) {
			continue
		}
		s.Total++
		if cr.pass(c) {
			s.Passed++
			continue
		}
		s.Issues = append(s.Issues, cr.issue(c))
	}
	s.Percentage = domain.Percent(s.Passed, s.Total)
	return s
}
