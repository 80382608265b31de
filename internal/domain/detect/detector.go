// Package detect extracts carousel accessibility facts from a section snapshot.
//
// Every fact family is resolved by an ordered list of patterns. ARIA-based
// patterns come first, followed by library-specific class names. The first
// pattern that matches wins, so a carousel that exposes both ARIA slides and
// library classes is always described by its ARIA structure.
package detect

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

// Detect returns the CheckResult for a snapshot. A missing or empty snapshot
// yields the zero CheckResult. Detect only reads the snapshot and is
// deterministic for equal input.
func Detect(snap domain.Snapshot) (domain.CheckResult, error) {
	if !snap.Found || strings.TrimSpace(snap.HTML) == "" {
		return domain.CheckResult{}, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		return domain.CheckResult{}, fmt.Errorf("parsing snapshot of %s: %w", snap.Selector, err)
	}
	return DetectSelection(doc.Selection), nil
}

// DetectSelection runs every detector against an already parsed root.
func DetectSelection(root *goquery.Selection) domain.CheckResult {
	var res domain.CheckResult
	res.Structure = detectStructure(root)
	res.Slides = detectSlides(root)

	prev, next := findNavigation(root)
	res.Navigation = navigationCheck(prev, next)
	res.Pagination = detectPagination(root, prev, next)
	res.LiveRegion = detectLiveRegion(root)
	res.Keyboard = detectKeyboard(root)
	return res
}

func detectStructure(root *goquery.Selection) domain.StructureCheck {
	p, found, ok := firstMatch(root, containerPatterns, 1, nil)
	if !ok {
		return domain.StructureCheck{}
	}
	c := found.First()
	return domain.StructureCheck{
		HasContainer:             true,
		ContainerRole:            attr(c, "role"),
		ContainerLabel:           accessibleLabel(root, c),
		ContainerRoleDescription: attr(c, "aria-roledescription"),
		Pattern:                  p.name,
	}
}

func detectSlides(root *goquery.Selection) domain.SlideCheck {
	p, slides, ok := firstMatch(root, slidePatterns, 1, nil)
	if !ok {
		return domain.SlideCheck{}
	}

	// Role facts are sampled from the first slide only.
	first := slides.First()
	role := attr(first, "role")
	sc := domain.SlideCheck{
		Count:                   slides.Length(),
		HasGroupRole:            role == "group" || role == "tabpanel",
		HasSlideRoleDescription: attr(first, "aria-roledescription") == "slide",
		Pattern:                 p.name,
	}

	slides.Each(func(i int, s *goquery.Selection) {
		if label := accessibleLabel(root, s); label != "" {
			sc.Labels = append(sc.Labels, label)
		}
		if !isHiddenSlide(s) {
			return
		}
		sc.HiddenCount++
		if attr(s, "aria-hidden") == "true" || hasAttr(s, "inert") {
			sc.HiddenAriaHidden = true
		}
		s.Find(focusableSelector).Each(func(_ int, el *goquery.Selection) {
			tabindex, _ := el.Attr("tabindex")
			if tabindex == "-1" {
				return
			}
			sc.FocusableInHidden = append(sc.FocusableInHidden, domain.FocusTrapRisk{
				SlideIndex: i,
				Tag:        strings.ToUpper(goquery.NodeName(el)),
				TabIndex:   tabindex,
			})
		})
	})
	sc.LabelPattern = labelPattern(sc.Labels)
	return sc
}

// isHiddenSlide treats a slide as hidden when it is explicitly hidden or not
// marked active. Libraries that never set is-active therefore report all
// their slides as hidden.
func isHiddenSlide(s *goquery.Selection) bool {
	return attr(s, "aria-hidden") == "true" ||
		hasAttr(s, "inert") ||
		s.HasClass("is-hidden") ||
		!s.HasClass("is-active")
}

// labelPattern summarises slide labels as the first label plus a count.
func labelPattern(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return fmt.Sprintf("%s (+%d more)", labels[0], len(labels)-1)
	}
}

// findNavigation returns the first prev and next controls in document order.
func findNavigation(root *goquery.Selection) (prev, next *goquery.Selection) {
	root.Find(ControlSelector).Each(func(_ int, s *goquery.Selection) {
		hay := strings.ToLower(visibleText(s) + " " + attr(s, "aria-label") + " " + attr(s, "class"))
		if prev == nil && containsAny(hay, prevTokens) {
			prev = s
		}
		if next == nil && containsAny(hay, nextTokens) {
			next = s
		}
	})
	return prev, next
}

func navigationCheck(prev, next *goquery.Selection) domain.NavigationCheck {
	nc := domain.NavigationCheck{HasPrev: prev != nil, HasNext: next != nil}
	if prev != nil {
		nc.PrevLabel = controlName(prev)
	}
	if next != nil {
		nc.NextLabel = controlName(next)
	}
	nc.KeyboardAccessible = nc.HasPrev && nc.HasNext &&
		attr(prev, "tabindex") != "-1" && attr(next, "tabindex") != "-1"
	return nc
}

func controlName(s *goquery.Selection) string {
	if l := strings.TrimSpace(attr(s, "aria-label")); l != "" {
		return l
	}
	return visibleText(s)
}

func detectPagination(root, prev, next *goquery.Selection) domain.PaginationCheck {
	keep := func(s *goquery.Selection) bool {
		if sameNode(s, prev) || sameNode(s, next) || isStructural(s) {
			return false
		}
		return isShortText(s) || s.HasClass("dot") || s.HasClass("bullet")
	}
	p, dots, ok := firstMatch(root, dotPatterns, 2, keep)
	if !ok {
		return domain.PaginationCheck{}
	}

	pc := domain.PaginationCheck{
		HasDots:        true,
		DotCount:       dots.Length(),
		DotsHaveLabels: true,
		Pattern:        p.name,
	}
	var ariaCurrent, ariaSelected, classOnly bool
	dots.Each(func(_ int, s *goquery.Selection) {
		if accessibleLabel(root, s) == "" {
			pc.DotsHaveLabels = false
		}
		if domain.MarksCurrent(attr(s, "aria-current")) {
			ariaCurrent = true
		}
		if attr(s, "aria-selected") == "true" {
			ariaSelected = true
		}
		if hasAnyClass(s, activeClasses) {
			classOnly = true
		}
	})

	switch {
	case ariaCurrent:
		pc.CurrentMethod = domain.CurrentAriaCurrent
	case ariaSelected:
		pc.CurrentMethod = domain.CurrentAriaSelected
	case classOnly:
		pc.CurrentMethod = domain.CurrentClassOnly
	default:
		pc.CurrentMethod = domain.CurrentNone
	}
	pc.HasCurrentState = pc.CurrentMethod != domain.CurrentNone
	return pc
}

func detectLiveRegion(root *goquery.Selection) domain.LiveRegionCheck {
	lr := root.Find(liveRegionSelector).First()
	if lr.Length() == 0 {
		return domain.LiveRegionCheck{}
	}
	return domain.LiveRegionCheck{
		HasLiveRegion: true,
		Role:          attr(lr, "role"),
		AriaLive:      attr(lr, "aria-live"),
		AriaAtomic:    attr(lr, "aria-atomic"),
	}
}

func detectKeyboard(root *goquery.Selection) domain.KeyboardCheck {
	controls := root.Find(ControlSelector)
	if controls.Length() == 0 {
		return domain.KeyboardCheck{}
	}
	removed := controls.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return attr(s, "tabindex") == "-1"
	})
	return domain.KeyboardCheck{ControlsInTabOrder: removed.Length() == 0}
}

// isStructural matches slides and containers, which may carry labels such as
// "Slide 1 of 3" but are never pagination controls.
func isStructural(s *goquery.Selection) bool {
	switch attr(s, "role") {
	case "group", "tabpanel", "region":
		return true
	}
	return hasAttr(s, "aria-roledescription")
}

func hasAttr(s *goquery.Selection, name string) bool {
	_, ok := s.Attr(name)
	return ok
}
