package domain

import (
	"math"
	"strings"
	"time"
)

// Variant identifies the rendering mode of a carousel implementation.
type Variant string

const (
	VariantBaseline  Variant = "baseline"
	VariantAlternate Variant = "alternate"
)

// Target is one audited (implementation, variant) pair.
type Target struct {
	ImplementationID string  `json:"implementation_id"`
	Variant          Variant `json:"variant"`
	Activate         bool    `json:"activate,omitempty"`
}

func (t Target) String() string {
	return t.ImplementationID + " (" + string(t.Variant) + ")"
}

// Snapshot is the rendered markup of one audit section.
type Snapshot struct {
	Selector string `json:"selector"`
	HTML     string `json:"html"`
	Found    bool   `json:"found"`
}

// CheckResult holds the heuristic facts extracted for one target.
// Every zero value means "not detected".
type CheckResult struct {
	Structure  StructureCheck  `json:"structure"`
	Slides     SlideCheck      `json:"slides"`
	Navigation NavigationCheck `json:"navigation"`
	Pagination PaginationCheck `json:"pagination"`
	LiveRegion LiveRegionCheck `json:"live_region"`
	Keyboard   KeyboardCheck   `json:"keyboard"`
}

type StructureCheck struct {
	HasContainer             bool   `json:"has_container"`
	ContainerRole            string `json:"container_role,omitempty"`
	ContainerLabel           string `json:"container_label,omitempty"`
	ContainerRoleDescription string `json:"container_role_description,omitempty"`
	Pattern                  string `json:"pattern,omitempty"`
}

type SlideCheck struct {
	Count                   int             `json:"count"`
	HasGroupRole            bool            `json:"has_group_role"`
	HasSlideRoleDescription bool            `json:"has_slide_role_description"`
	Labels                  []string        `json:"labels,omitempty"`
	LabelPattern            string          `json:"label_pattern,omitempty"`
	HiddenCount             int             `json:"hidden_count"`
	HiddenAriaHidden        bool            `json:"hidden_aria_hidden"`
	FocusableInHidden       []FocusTrapRisk `json:"focusable_in_hidden,omitempty"`
	Pattern                 string          `json:"pattern,omitempty"`
}

// HasLabels reports whether at least one slide carries an accessible label.
func (s SlideCheck) HasLabels() bool { return len(s.Labels) > 0 }

// FocusTrapRisk is an interactive element reachable inside a hidden slide.
type FocusTrapRisk struct {
	SlideIndex int    `json:"slide_index"`
	Tag        string `json:"tag"`
	TabIndex   string `json:"tabindex,omitempty"`
}

type NavigationCheck struct {
	HasPrev            bool   `json:"has_prev"`
	HasNext            bool   `json:"has_next"`
	PrevLabel          string `json:"prev_label,omitempty"`
	NextLabel          string `json:"next_label,omitempty"`
	KeyboardAccessible bool   `json:"keyboard_accessible"`
}

// CurrentMethod names how the active pagination indicator is communicated.
type CurrentMethod string

// The zero value means pagination was not detected at all.
const (
	CurrentNone         CurrentMethod = "none"
	CurrentAriaCurrent  CurrentMethod = "aria-current"
	CurrentAriaSelected CurrentMethod = "aria-selected"
	CurrentClassOnly    CurrentMethod = "class-only (not accessible)"
)

// MarksCurrent reports whether an aria-current value flags the current item.
// Every token except "false" does, including "page" and "step".
func MarksCurrent(ariaCurrent string) bool {
	v := strings.ToLower(strings.TrimSpace(ariaCurrent))
	return v != "" && v != "false"
}

// Accessible reports whether the method is exposed to assistive technology.
func (m CurrentMethod) Accessible() bool {
	return m == CurrentAriaCurrent || m == CurrentAriaSelected
}

func (m CurrentMethod) String() string {
	if m == "" {
		return string(CurrentNone)
	}
	return string(m)
}

type PaginationCheck struct {
	HasDots         bool          `json:"has_dots"`
	DotCount        int           `json:"dot_count"`
	DotsHaveLabels  bool          `json:"dots_have_labels"`
	HasCurrentState bool          `json:"has_current_state"`
	CurrentMethod   CurrentMethod `json:"current_method,omitempty"`
	Pattern         string        `json:"pattern,omitempty"`
}

type LiveRegionCheck struct {
	HasLiveRegion bool   `json:"has_live_region"`
	Role          string `json:"role,omitempty"`
	AriaLive      string `json:"aria_live,omitempty"`
	AriaAtomic    string `json:"aria_atomic,omitempty"`
}

type KeyboardCheck struct {
	ControlsInTabOrder bool `json:"controls_in_tab_order"`
}

// Score is derived from a CheckResult and never stored on its own.
type Score struct {
	Passed     int      `json:"passed"`
	Total      int      `json:"total"`
	Percentage int      `json:"percentage"`
	Issues     []string `json:"issues"`
}

// Percent returns round(100 * passed / total), or 0 for an empty rubric.
func Percent(passed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(passed) / float64(total) * 100))
}

// Tier buckets a percentage into the report's three bands.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierNeedsWork Tier = "needs work"
)

func TierFor(percentage int) Tier {
	switch {
	case percentage >= 80:
		return TierExcellent
	case percentage >= 60:
		return TierGood
	default:
		return TierNeedsWork
	}
}

// LoadStatus records how the target page came up.
type LoadStatus struct {
	SectionFound     bool     `json:"section_found"`
	ContainerVisible bool     `json:"container_visible"`
	ConsoleErrors    []string `json:"console_errors,omitempty"`
	ConsoleWarnings  []string `json:"console_warnings,omitempty"`
}

// RuleViolation is passed through from the ruleset engine unchanged.
type RuleViolation struct {
	ID     string          `json:"id"`
	Impact string          `json:"impact"`
	Help   string          `json:"help"`
	Tags   []string        `json:"tags"`
	Nodes  []ViolationNode `json:"nodes"`
}

type ViolationNode struct {
	Target []string `json:"target"`
	HTML   string   `json:"html,omitempty"`
}

// RulesetResult is the engine output for one scope.
type RulesetResult struct {
	Violations []RuleViolation `json:"violations"`
	Passes     int             `json:"passes"`
}

const (
	SeverityCritical = "critical"
	SeveritySerious  = "serious"
	SeverityModerate = "moderate"
)

// ManualIssue is a supplementary check the ruleset engine does not cover.
type ManualIssue struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Element  string `json:"element"`
}

// KeyboardProbeResult fields stay false unless the probe confirmed them.
type KeyboardProbeResult struct {
	CanFocus           bool `json:"can_focus"`
	FocusVisible       bool `json:"focus_visible"`
	ActivatesWithEnter bool `json:"activates_with_enter"`
	ActivatesWithSpace bool `json:"activates_with_space"`
}

// Confirmed returns how many of the four sub-results passed.
func (k KeyboardProbeResult) Confirmed() int {
	n := 0
	for _, ok := range []bool{k.CanFocus, k.FocusVisible, k.ActivatesWithEnter, k.ActivatesWithSpace} {
		if ok {
			n++
		}
	}
	return n
}

// TargetResult is created once per target per run.
type TargetResult struct {
	Target        Target               `json:"target"`
	URL           string               `json:"url"`
	Check         CheckResult          `json:"check"`
	Score         Score                `json:"score"`
	Load          LoadStatus           `json:"load"`
	Violations    []RuleViolation      `json:"violations,omitempty"`
	RulesetPasses int                  `json:"ruleset_passes,omitempty"`
	RulesetNote   string               `json:"ruleset_note,omitempty"`
	ManualIssues  []ManualIssue        `json:"manual_issues,omitempty"`
	Keyboard      *KeyboardProbeResult `json:"keyboard,omitempty"`
	Failure       string               `json:"failure,omitempty"`
	FailureKind   string               `json:"failure_kind,omitempty"`
	MinScore      int                  `json:"min_score"`
	Duration      time.Duration        `json:"duration"`
}

// Failed reports whether the target never produced a usable snapshot.
func (r TargetResult) Failed() bool { return r.Failure != "" }

// Passes reports whether the target meets its pass bar.
func (r TargetResult) Passes() bool {
	return !r.Failed() && r.Load.SectionFound && r.Score.Percentage >= r.MinScore
}

// IssueCount is the number of ruleset violations plus manual issues.
func (r TargetResult) IssueCount() int {
	return len(r.Violations) + len(r.ManualIssues)
}

// AuditReport is the run-level result. It lives only as long as the process.
type AuditReport struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	SiteCommit string         `json:"site_commit,omitempty"`
	Results    []TargetResult `json:"results"`
	Summary    Summary        `json:"summary"`
}

// Passed reports whether every target met its pass bar.
func (r *AuditReport) Passed() bool {
	return r.Summary.Passing == r.Summary.Total
}

// Summary holds the run-level aggregates.
type Summary struct {
	Total      int `json:"total"`
	Excellent  int `json:"excellent"`
	Good       int `json:"good"`
	NeedsWork  int `json:"needs_work"`
	Failed     int `json:"failed"`
	Loaded     int `json:"loaded"`
	A11yClean  int `json:"a11y_clean"`
	KeyboardOK int `json:"keyboard_ok"`
	Passing    int `json:"passing"`
}
