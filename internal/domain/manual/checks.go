// Package manual runs supplementary markup checks that the automated
// ruleset engine does not cover.
package manual

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

// SnippetLimit bounds the element markup attached to an issue, in runes.
const SnippetLimit = 100

type check func(root *goquery.Selection) []domain.ManualIssue

var checks = []check{
	buttonNames,
	imageAlts,
	hiddenFocusables,
	paginationLabels,
	currentIndicator,
	linkNames,
}

// Run parses the section snapshot and returns every manual issue in check order.
// A missing snapshot yields no issues.
func Run(snap domain.Snapshot) ([]domain.ManualIssue, error) {
	if !snap.Found || strings.TrimSpace(snap.HTML) == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot of %s: %w", snap.Selector, err)
	}
	var issues []domain.ManualIssue
	for _, c := range checks {
		issues = append(issues, c(doc.Selection)...)
	}
	return issues, nil
}

func buttonNames(root *goquery.Selection) []domain.ManualIssue {
	var issues []domain.ManualIssue
	root.Find("button").Each(func(i int, s *goquery.Selection) {
		if nonEmpty(s, "aria-label") || strings.TrimSpace(s.Text()) != "" {
			return
		}
		issues = append(issues, domain.ManualIssue{
			Rule:     "button-name",
			Severity: domain.SeveritySerious,
			Message:  fmt.Sprintf("Button %d has no accessible name", i+1),
			Element:  snippet(s),
		})
	})
	return issues
}

func imageAlts(root *goquery.Selection) []domain.ManualIssue {
	var issues []domain.ManualIssue
	root.Find("img").Each(func(i int, s *goquery.Selection) {
		if _, ok := s.Attr("alt"); ok {
			return
		}
		issues = append(issues, domain.ManualIssue{
			Rule:     "image-alt",
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("Image %d missing alt attribute", i+1),
			Element:  snippet(s),
		})
	})
	return issues
}

func hiddenFocusables(root *goquery.Selection) []domain.ManualIssue {
	var issues []domain.ManualIssue
	root.Find(`a, button, [role="button"]`).Each(func(i int, s *goquery.Selection) {
		if s.Closest(`[aria-hidden="true"]`).Length() == 0 {
			return
		}
		if tabindex, _ := s.Attr("tabindex"); tabindex == "-1" {
			return
		}
		issues = append(issues, domain.ManualIssue{
			Rule:     "focus-trap",
			Severity: domain.SeveritySerious,
			Message:  fmt.Sprintf("Interactive element %d is focusable but inside aria-hidden", i+1),
			Element:  snippet(s),
		})
	})
	return issues
}

func labelledDots(root *goquery.Selection) *goquery.Selection {
	return root.Find(`[aria-label*="slide"], [aria-label*="Go to"]`)
}

func paginationLabels(root *goquery.Selection) []domain.ManualIssue {
	if labelledDots(root).Length() > 0 {
		return nil
	}
	unlabelled := root.Find("button").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return utf8.RuneCountInString(strings.TrimSpace(s.Text())) < 3
	})
	if unlabelled.Length() <= 2 {
		return nil
	}
	return []domain.ManualIssue{{
		Rule:     "pagination-aria",
		Severity: domain.SeverityModerate,
		Message:  "Pagination dots may lack aria-label attributes",
		Element:  "Multiple dot buttons found without slide labels",
	}}
}

func currentIndicator(root *goquery.Selection) []domain.ManualIssue {
	if labelledDots(root).Length() == 0 {
		return nil
	}
	marked := root.Find("[aria-current]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return domain.MarksCurrent(s.AttrOr("aria-current", ""))
	})
	if marked.Length() > 0 {
		return nil
	}
	return []domain.ManualIssue{{
		Rule:     "current-indicator",
		Severity: domain.SeverityModerate,
		Message:  "No aria-current attribute found on active pagination dot",
		Element:  "Pagination dots present but no aria-current",
	}}
}

func linkNames(root *goquery.Selection) []domain.ManualIssue {
	var issues []domain.ManualIssue
	root.Find("a").Each(func(i int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) != "" || nonEmpty(s, "aria-label") {
			return
		}
		issues = append(issues, domain.ManualIssue{
			Rule:     "link-name",
			Severity: domain.SeveritySerious,
			Message:  fmt.Sprintf("Link %d has no discernible text", i+1),
			Element:  snippet(s),
		})
	})
	return issues
}

func nonEmpty(s *goquery.Selection, name string) bool {
	v, ok := s.Attr(name)
	return ok && v != ""
}

// snippet renders the element's outer markup truncated to SnippetLimit runes.
func snippet(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, s.Nodes[0]); err != nil {
		return ""
	}
	return Truncate(buf.String(), SnippetLimit)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
