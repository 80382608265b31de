package detect

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// pattern is one heuristic: a CSS selector plus an optional predicate that
// each candidate must satisfy. Patterns are tried in order and the first one
// that yields enough matches wins; matches of different patterns are never merged.
type pattern struct {
	name   string
	sel    string
	filter func(*goquery.Selection) bool
}

func (p pattern) find(root *goquery.Selection) *goquery.Selection {
	found := root.Find(p.sel)
	if p.filter == nil {
		return found
	}
	return found.FilterFunction(func(_ int, s *goquery.Selection) bool { return p.filter(s) })
}

// firstMatch returns the first pattern whose matches, after keep, number at
// least min. keep may be nil.
func firstMatch(root *goquery.Selection, patterns []pattern, min int, keep func(*goquery.Selection) bool) (pattern, *goquery.Selection, bool) {
	for _, p := range patterns {
		found := p.find(root)
		if keep != nil {
			found = found.FilterFunction(func(_ int, s *goquery.Selection) bool { return keep(s) })
		}
		if found.Length() >= min {
			return p, found, true
		}
	}
	return pattern{}, nil, false
}

// ControlSelector matches every button-like element.
const ControlSelector = `button, [role="button"]`

const (
	focusableSelector  = `a, button, input, select, textarea, [tabindex]`
	liveRegionSelector = `[aria-live="polite"], [aria-live="assertive"], [role="status"], [role="log"]`
)

var containerPatterns = []pattern{
	{name: "aria-roledescription=carousel", sel: `[aria-roledescription="carousel"]`},
	{name: "role=region", sel: `[role="region"]`},
	{name: "role=group", sel: `[role="group"]`, filter: func(s *goquery.Selection) bool {
		return attr(s, "aria-roledescription") != "slide"
	}},
	{name: ".carousel", sel: ".carousel"},
	{name: ".swiper", sel: ".swiper"},
	{name: ".splide", sel: ".splide"},
	{name: ".glide", sel: ".glide"},
	{name: ".keen-slider", sel: ".keen-slider"},
	{name: ".flickity-enabled", sel: ".flickity-enabled"},
	{name: ".flickity-carousel", sel: ".flickity-carousel"},
	{name: ".siema", sel: ".siema"},
	{name: "#tiny-slider", sel: "#tiny-slider"},
	{name: ".tns-outer", sel: ".tns-outer"},
	{name: ".embla", sel: ".embla"},
	{name: ".flicking-viewport", sel: ".flicking-viewport"},
	{name: ".slick-slider", sel: ".slick-slider"},
	{name: ".carousel-root", sel: ".carousel-root"},
}

var slidePatterns = []pattern{
	{name: "group+slide", sel: `[role="group"][aria-roledescription="slide"]`},
	{name: "tabpanel", sel: `[role="tabpanel"]`},
	{name: ".embla__slide", sel: ".embla__slide"},
	{name: ".swiper-slide", sel: ".swiper-slide"},
	{name: ".splide__slide", sel: ".splide__slide"},
	{name: ".glide__slide", sel: ".glide__slide"},
	{name: ".keen-slider__slide", sel: ".keen-slider__slide"},
	{name: ".flickity-slide", sel: ".flickity-slide"},
	{name: ".flicking-panel", sel: ".flicking-panel"},
	{name: ".siema-slide", sel: ".siema-slide"},
	{name: ".tiny-slide", sel: ".tiny-slide"},
	{name: ".tns-item", sel: ".tns-item:not(.tns-slide-cloned)"},
	{name: ".slick-slide", sel: ".slick-slide:not(.slick-cloned)"},
	{name: ".slide", sel: ".slide"},
}

var dotPatterns = []pattern{
	{name: "label~slide", sel: "[aria-label]", filter: labelContains("slide")},
	{name: "label~go to", sel: "[aria-label]", filter: labelContains("go to")},
	{name: ".splide__pagination__page", sel: ".splide__pagination__page"},
	{name: ".swiper-pagination-bullet", sel: ".swiper-pagination-bullet"},
	{name: ".glide__bullet", sel: ".glide__bullet"},
	{name: ".flickity-page-dot", sel: ".flickity-page-dot"},
	{name: ".dot", sel: ".dot"},
}

var (
	prevTokens = []string{"previous", "prev", "left"}
	nextTokens = []string{"next", "right"}

	activeClasses = []string{
		"active", "is-active", "current", "is-selected",
		"swiper-pagination-bullet-active", "glide__bullet--active", "slick-active",
	}
)

// SlideSelectors returns the slide selectors in priority order.
func SlideSelectors() []string {
	sels := make([]string, len(slidePatterns))
	for i, p := range slidePatterns {
		sels[i] = p.sel
	}
	return sels
}

func labelContains(token string) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(attr(s, "aria-label")), token)
	}
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return v
}

func hasAnyClass(s *goquery.Selection, classes []string) bool {
	for _, c := range classes {
		if s.HasClass(c) {
			return true
		}
	}
	return false
}

func containsAny(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

// visibleText returns the element text with whitespace runs collapsed.
func visibleText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func isShortText(s *goquery.Selection) bool {
	return utf8.RuneCountInString(visibleText(s)) < 3
}

func sameNode(a, b *goquery.Selection) bool {
	if a == nil || b == nil || len(a.Nodes) == 0 || len(b.Nodes) == 0 {
		return false
	}
	return a.Nodes[0] == b.Nodes[0]
}

// accessibleLabel resolves aria-label, then aria-labelledby within the snapshot.
func accessibleLabel(root, s *goquery.Selection) string {
	if l := strings.TrimSpace(attr(s, "aria-label")); l != "" {
		return l
	}
	ids := strings.Fields(attr(s, "aria-labelledby"))
	var parts []string
	for _, id := range ids {
		root.Find("[id]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if attr(el, "id") != id {
				return true
			}
			if t := visibleText(el); t != "" {
				parts = append(parts, t)
			}
			return false
		})
	}
	return strings.Join(parts, " ")
}
