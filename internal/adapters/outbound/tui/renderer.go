package tui

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/camelcase"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	lime    = lipgloss.Color("#A3E635")
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	criticalStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	seriousStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	moderateStyle = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a full audit run: per-target narrative, comparison
// table, legend and tier summary.
func RenderReport(report *domain.AuditReport) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("carouselaudit")
	subtitle := dimStyle.Render("WCAG 2.1 AA Carousel Audit")
	passing := fmt.Sprintf("%d / %d targets passing", report.Summary.Passing, report.Summary.Total)
	passStyled := lipgloss.NewStyle().Bold(true).Foreground(passingColor(report)).Render(passing)
	meta := faintStyle.Render("run " + shortID(report.RunID))
	if report.SiteCommit != "" {
		meta += faintStyle.Render("  ·  site " + shortHash(report.SiteCommit))
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + passStyled + "\n" + meta))
	b.WriteString("\n\n")

	// ── Targets ──
	for _, r := range report.Results {
		renderTarget(&b, r)
		b.WriteString("\n")
	}

	b.WriteString("  " + separatorLine + "\n\n")
	b.WriteString(RenderComparison(report.Results))
	b.WriteString("\n")
	b.WriteString(renderLegend())
	b.WriteString("\n")
	b.WriteString(renderSummary(report.Summary))
	return b.String()
}

// RenderInspection formats an offline markup inspection.
func RenderInspection(source string, check domain.CheckResult, score domain.Score, issues []domain.ManualIssue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s  %s\n\n", titleStyle.Render(source), coloredBar(score.Percentage, 20), scoreText(score))
	renderIssues(&b, score.Issues)
	renderFacts(&b, check)
	renderManual(&b, issues)
	return b.String()
}

func renderTarget(b *strings.Builder, r domain.TargetResult) {
	name := titleStyle.Render(padRight(r.Target.String(), 30))
	fmt.Fprintf(b, "  %s %s  %s  %s\n", name, coloredBar(r.Score.Percentage, 20), scoreText(r.Score), tierText(r.Score.Percentage))
	fmt.Fprintf(b, "    %s\n", faintStyle.Render(r.URL))

	if r.Failed() {
		fmt.Fprintf(b, "    %s %s\n", failStyle.Render("✗"), failStyle.Render(r.Failure))
		return
	}

	// Load
	fmt.Fprintf(b, "    %s section found   %s container visible\n", mark(r.Load.SectionFound), mark(r.Load.ContainerVisible))
	if n := len(r.Load.ConsoleErrors); n > 0 {
		fmt.Fprintf(b, "    %s\n", warnStyle.Render(fmt.Sprintf("%d console errors", n)))
	}

	renderIssues(b, r.Score.Issues)
	renderFacts(b, r.Check)

	// Ruleset
	switch {
	case r.RulesetNote != "":
		fmt.Fprintf(b, "    %s %s\n", dimStyle.Render("ruleset:"), warnStyle.Render(r.RulesetNote))
	case len(r.Violations) == 0:
		fmt.Fprintf(b, "    %s %s\n", dimStyle.Render("ruleset:"), passStyle.Render(fmt.Sprintf("no violations (%d rules passed)", r.RulesetPasses)))
	default:
		fmt.Fprintf(b, "    %s\n", dimStyle.Render(fmt.Sprintf("ruleset: %d violations", len(r.Violations))))
		for _, v := range r.Violations {
			fmt.Fprintf(b, "      %s %s %s\n", impactTag(v.Impact), v.ID, dimStyle.Render(fmt.Sprintf("%s (%d nodes)", v.Help, len(v.Nodes))))
		}
	}

	renderManual(b, r.ManualIssues)

	if k := r.Keyboard; k != nil {
		fmt.Fprintf(b, "    %s %s focus  %s visible  %s enter  %s space\n",
			dimStyle.Render("keyboard:"),
			mark(k.CanFocus), mark(k.FocusVisible), mark(k.ActivatesWithEnter), mark(k.ActivatesWithSpace))
	}
}

func renderIssues(b *strings.Builder, issues []string) {
	for _, is := range issues {
		fmt.Fprintf(b, "    %s %s\n", failStyle.Render("●"), dimStyle.Render(is))
	}
}

func renderManual(b *strings.Builder, issues []domain.ManualIssue) {
	for _, is := range issues {
		fmt.Fprintf(b, "    %s %s %s\n", impactTag(is.Severity), is.Rule, dimStyle.Render(is.Message))
	}
}

// renderFacts dumps every detected fact group on one line each.
func renderFacts(b *strings.Builder, c domain.CheckResult) {
	rv := reflect.ValueOf(c)
	for i := 0; i < rv.NumField(); i++ {
		group := rv.Type().Field(i).Name
		facts := describeFields(rv.Field(i))
		if len(facts) == 0 {
			continue
		}
		fmt.Fprintf(b, "    %s %s\n", dimStyle.Render(padRight(humanize(group)+":", 13)), faintStyle.Render(strings.Join(facts, " · ")))
	}
}

func describeFields(v reflect.Value) []string {
	var out []string
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		var s string
		switch f.Kind() {
		case reflect.Bool:
			if !f.Bool() {
				continue
			}
			s = "yes"
		case reflect.Int:
			s = strconv.Itoa(int(f.Int()))
		case reflect.String:
			if f.String() == "" {
				continue
			}
			s = f.String()
		case reflect.Slice:
			if f.Len() == 0 {
				continue
			}
			s = strconv.Itoa(f.Len())
		default:
			continue
		}
		out = append(out, humanize(v.Type().Field(i).Name)+" "+s)
	}
	return out
}

// humanize splits a Go identifier into lower-case words.
func humanize(name string) string {
	return strings.ToLower(strings.Join(camelcase.Split(name), " "))
}

// RenderComparison renders one table row per target.
func RenderComparison(results []domain.TargetResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(faintStyle).
		Headers("Carousel", "Variant", "Score", "Container", "Slides", "Nav", "Dots", "Live", "Issues", "axe", "Manual", "Keyboard", "Status").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, r := range results {
		c := r.Check
		kb := "-"
		if r.Keyboard != nil {
			kb = fmt.Sprintf("%d/4", r.Keyboard.Confirmed())
		}
		t.Row(
			r.Target.ImplementationID,
			string(r.Target.Variant),
			fmt.Sprintf("%d%% %s", r.Score.Percentage, domain.TierFor(r.Score.Percentage)),
			yesNo(c.Structure.HasContainer),
			strconv.Itoa(c.Slides.Count),
			yesNo(c.Navigation.HasPrev && c.Navigation.HasNext),
			strconv.Itoa(c.Pagination.DotCount),
			yesNo(c.LiveRegion.HasLiveRegion),
			strconv.Itoa(len(r.Score.Issues)),
			strconv.Itoa(len(r.Violations)),
			strconv.Itoa(len(r.ManualIssues)),
			kb,
			status(r),
		)
	}
	return t.String() + "\n"
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

func status(r domain.TargetResult) string {
	switch {
	case r.Failed():
		return "FAILED"
	case !r.Load.SectionFound:
		return "NO SECTION"
	case r.Passes():
		return "PASS"
	default:
		return fmt.Sprintf("BELOW %d%%", r.MinScore)
	}
}

func renderLegend() string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Legend") + "\n")
	b.WriteString("  " + dimStyle.Render("Score       rubric criteria passed (8 or 9, pagination labels only count when dots exist)") + "\n")
	b.WriteString("  " + dimStyle.Render("Tier        excellent ≥ 80%  ·  good ≥ 60%  ·  needs work < 60%") + "\n")
	b.WriteString("  " + dimStyle.Render("Issues      failed rubric criteria") + "\n")
	b.WriteString("  " + dimStyle.Render("axe         axe-core WCAG 2.1 A/AA rule violations") + "\n")
	b.WriteString("  " + dimStyle.Render("Manual      supplementary markup checks") + "\n")
	b.WriteString("  " + dimStyle.Render("Keyboard    focus, focus indicator, Enter and Space confirmed out of 4") + "\n")
	return b.String()
}

func renderSummary(s domain.Summary) string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Summary") + "\n")
	fmt.Fprintf(&b, "  %s  %s  %s\n",
		passStyle.Render(fmt.Sprintf("%d excellent", s.Excellent)),
		lipgloss.NewStyle().Foreground(lime).Render(fmt.Sprintf("%d good", s.Good)),
		failStyle.Render(fmt.Sprintf("%d needs work", s.NeedsWork)),
	)
	fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf(
		"loaded %d/%d  ·  a11y clean %d/%d  ·  keyboard %d/%d  ·  failed %d",
		s.Loaded, s.Total, s.A11yClean, s.Total, s.KeyboardOK, s.Total, s.Failed)))
	return b.String()
}

func impactTag(impact string) string {
	switch impact {
	case domain.SeverityCritical:
		return criticalStyle.Render("critical")
	case domain.SeveritySerious:
		return seriousStyle.Render("serious ")
	case domain.SeverityModerate:
		return moderateStyle.Render("moderate")
	default:
		return moderateStyle.Render(padRight(impact, 8))
	}
}

func mark(ok bool) string {
	if ok {
		return passStyle.Render("✓")
	}
	return failStyle.Render("✗")
}

func scoreText(s domain.Score) string {
	return lipgloss.NewStyle().Bold(true).Foreground(scoreColor(s.Percentage)).
		Render(fmt.Sprintf("%d%% (%d/%d)", s.Percentage, s.Passed, s.Total))
}

func tierText(pct int) string {
	return lipgloss.NewStyle().Foreground(scoreColor(pct)).Render(string(domain.TierFor(pct)))
}

func passingColor(r *domain.AuditReport) lipgloss.Color {
	if r.Passed() {
		return success
	}
	return danger
}

func coloredBar(score, width int) string {
	filled := max(0, min(score*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score int) lipgloss.Color {
	switch domain.TierFor(score) {
	case domain.TierExcellent:
		return success
	case domain.TierGood:
		return lime
	default:
		if score >= 40 {
			return warning
		}
		return danger
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shortHash(hash string) string {
	h, dirty := strings.CutSuffix(hash, "-dirty")
	if len(h) > 7 {
		h = h[:7]
	}
	if dirty {
		h += "-dirty"
	}
	return h
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
