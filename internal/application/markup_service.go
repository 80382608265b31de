package application

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/abdidvp/carouselaudit/internal/domain"
	"github.com/abdidvp/carouselaudit/internal/domain/detect"
	"github.com/abdidvp/carouselaudit/internal/domain/manual"
	"github.com/abdidvp/carouselaudit/internal/domain/scoring"
)

// MarkupReport is the offline result of auditing saved markup.
type MarkupReport struct {
	Snapshot     domain.Snapshot      `json:"-"`
	Check        domain.CheckResult   `json:"check"`
	Score        domain.Score         `json:"score"`
	ManualIssues []domain.ManualIssue `json:"manual_issues,omitempty"`
}

// InspectMarkup runs detection, scoring and manual checks on raw HTML
// without a browser. When section is non-empty only its first match is
// inspected; a missing section scores as an empty carousel.
func InspectMarkup(markup, section string) (*MarkupReport, error) {
	snap, err := sectionSnapshot(markup, section)
	if err != nil {
		return nil, err
	}
	check, err := detect.Detect(snap)
	if err != nil {
		return nil, err
	}
	issues, err := manual.Run(snap)
	if err != nil {
		return nil, err
	}
	return &MarkupReport{
		Snapshot:     snap,
		Check:        check,
		Score:        scoring.Score(check),
		ManualIssues: issues,
	}, nil
}

func sectionSnapshot(markup, section string) (domain.Snapshot, error) {
	if section == "" {
		return domain.Snapshot{HTML: markup, Found: strings.TrimSpace(markup) != ""}, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("parsing markup: %w", err)
	}
	sel, err := findFirst(doc.Selection, section)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if sel.Length() == 0 {
		return domain.Snapshot{Selector: section}, nil
	}
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("rendering %s: %w", section, err)
	}
	return domain.Snapshot{Selector: section, HTML: html, Found: true}, nil
}

// findFirst returns the first match of a user supplied selector. goquery
// silently matches nothing on selectors it cannot compile.
func findFirst(root *goquery.Selection, selector string) (*goquery.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return root.FindMatcher(m).First(), nil
}
