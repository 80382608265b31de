package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// AuditConfig holds run configuration loaded from .carouselaudit.yaml.
type AuditConfig struct {
	BaseURL            string             `yaml:"base_url"            json:"base_url"`
	PathTemplate       string             `yaml:"path_template"       json:"path_template"`
	AlternateFragment  string             `yaml:"alternate_fragment"  json:"alternate_fragment"`
	SectionSelector    string             `yaml:"section_selector"    json:"section_selector"`
	ActivationSelector string             `yaml:"activation_selector" json:"activation_selector"`
	VariantContainers  map[Variant]string `yaml:"variant_containers"  json:"variant_containers,omitempty"`
	MinScore           int                `yaml:"min_score"           json:"min_score"`
	Concurrency        int                `yaml:"concurrency"         json:"concurrency"`
	Browser            BrowserConfig      `yaml:"browser"             json:"browser"`
	Timeouts           TimeoutConfig      `yaml:"timeouts"            json:"timeouts"`
	Settle             SettleConfig       `yaml:"settle"              json:"settle"`
	Checks             ChecksConfig       `yaml:"checks"              json:"checks"`
	Ruleset            RulesetConfig      `yaml:"ruleset"             json:"ruleset"`
	LogLevel           string             `yaml:"log_level"           json:"log_level"`
	MetricsTextfile    string             `yaml:"metrics_textfile"    json:"metrics_textfile,omitempty"`
	SiteDir            string             `yaml:"site_dir"            json:"site_dir,omitempty"`
	Targets            []TargetSpec       `yaml:"targets"             json:"targets"`
}

// BrowserConfig picks the Chrome to drive. RemoteURL attaches to an already
// running browser's DevTools websocket instead of starting one.
type BrowserConfig struct {
	ExecPath  string `yaml:"exec_path"  json:"exec_path,omitempty"`
	RemoteURL string `yaml:"remote_url" json:"remote_url,omitempty"`
	Headless  bool   `yaml:"headless"   json:"headless"`
}

type TimeoutConfig struct {
	Target           time.Duration `yaml:"target"            json:"target"`
	ActivationSettle time.Duration `yaml:"activation_settle" json:"activation_settle"`
	KeySettle        time.Duration `yaml:"key_settle"        json:"key_settle"`
}

// SettleConfig drives the poll-until-stable wait after navigation and activation.
type SettleConfig struct {
	Interval      time.Duration `yaml:"interval"       json:"interval"`
	MaxWait       time.Duration `yaml:"max_wait"       json:"max_wait"`
	MinSlides     int           `yaml:"min_slides"     json:"min_slides"`
	StableSamples int           `yaml:"stable_samples" json:"stable_samples"`
}

type ChecksConfig struct {
	Ruleset  bool `yaml:"ruleset"  json:"ruleset"`
	Manual   bool `yaml:"manual"   json:"manual"`
	Keyboard bool `yaml:"keyboard" json:"keyboard"`
}

type RulesetConfig struct {
	Script string   `yaml:"script" json:"script,omitempty"`
	Tags   []string `yaml:"tags"   json:"tags"`
}

// TargetSpec is one registry entry: an implementation and the variants it renders.
type TargetSpec struct {
	ID       string    `yaml:"id"                  json:"id"`
	Variants []Variant `yaml:"variants"            json:"variants"`
	// Toggle marks implementations whose alternate variant must be switched
	// into view after the page loads.
	Toggle   bool `yaml:"toggle,omitempty"    json:"toggle,omitempty"`
	MinScore *int `yaml:"min_score,omitempty" json:"min_score,omitempty"`
}

// WCAGAATags is the rule tag filter for WCAG 2.1 A/AA.
var WCAGAATags = []string{"wcag2a", "wcag2aa", "wcag21a", "wcag21aa"}

// ValidLogLevels enumerates accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// DefaultRegistry lists the carousel implementations served by the demo site.
func DefaultRegistry() []TargetSpec {
	both := func() []Variant { return []Variant{VariantBaseline, VariantAlternate} }
	baseline := func() []Variant { return []Variant{VariantBaseline} }
	alternate := func() []Variant { return []Variant{VariantAlternate} }
	return []TargetSpec{
		{ID: "embla", Variants: both(), Toggle: true},
		{ID: "flicking", Variants: both(), Toggle: true},
		{ID: "siema", Variants: baseline()},
		{ID: "swiper", Variants: both(), Toggle: true},
		{ID: "flickity", Variants: baseline()},
		{ID: "keen", Variants: both(), Toggle: true},
		{ID: "tiny", Variants: baseline()},
		{ID: "splide", Variants: both(), Toggle: true},
		{ID: "glide", Variants: baseline()},
		{ID: "react-slick", Variants: alternate()},
		{ID: "react-responsive", Variants: alternate()},
	}
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() AuditConfig {
	return AuditConfig{
		BaseURL:            "http://localhost:4321",
		PathTemplate:       "/carousel/{id}",
		AlternateFragment:  "#react",
		SectionSelector:    ".carousel-section",
		ActivationSelector: "#react-btn",
		VariantContainers: map[Variant]string{
			VariantBaseline:  "#vanilla-container",
			VariantAlternate: "#react-container",
		},
		MinScore:    60,
		Concurrency: 1,
		Browser:     BrowserConfig{Headless: true},
		Timeouts: TimeoutConfig{
			Target:           45 * time.Second,
			ActivationSettle: 1500 * time.Millisecond,
			KeySettle:        300 * time.Millisecond,
		},
		Settle: SettleConfig{
			Interval:      250 * time.Millisecond,
			MaxWait:       5 * time.Second,
			MinSlides:     1,
			StableSamples: 2,
		},
		Checks:   ChecksConfig{Ruleset: true, Manual: true, Keyboard: true},
		Ruleset:  RulesetConfig{Tags: append([]string(nil), WCAGAATags...)},
		LogLevel: "info",
		SiteDir:  ".",
		Targets:  DefaultRegistry(),
	}
}

// ParseVariant accepts canonical names and the demo site's aliases.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "baseline", "vanilla":
		return VariantBaseline, nil
	case "alternate", "react":
		return VariantAlternate, nil
	default:
		return "", fmt.Errorf("unknown variant %q (valid: baseline, alternate, vanilla, react)", s)
	}
}

// Normalize rewrites variant aliases to canonical names.
func (c *AuditConfig) Normalize() error {
	for i := range c.Targets {
		for j, v := range c.Targets[i].Variants {
			canon, err := ParseVariant(string(v))
			if err != nil {
				return fmt.Errorf("targets[%d] (%s): %w", i, c.Targets[i].ID, err)
			}
			c.Targets[i].Variants[j] = canon
		}
	}
	return nil
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c AuditConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if !strings.Contains(c.PathTemplate, "{id}") {
		return fmt.Errorf("path_template %q must contain {id}", c.PathTemplate)
	}
	if c.SectionSelector == "" {
		return fmt.Errorf("section_selector must not be empty")
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("min_score = %d (must be between 0 and 100)", c.MinScore)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1 (got %d)", c.Concurrency)
	}
	if c.Timeouts.Target <= 0 {
		return fmt.Errorf("timeouts.target must be > 0")
	}
	if c.Settle.Interval <= 0 {
		return fmt.Errorf("settle.interval must be > 0")
	}
	if c.Settle.StableSamples < 1 {
		return fmt.Errorf("settle.stable_samples must be >= 1 (got %d)", c.Settle.StableSamples)
	}
	if !contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("unknown log_level %q (valid: %s)", c.LogLevel, strings.Join(ValidLogLevels, ", "))
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("targets must list at least one implementation")
	}

	seen := make(map[string]bool)
	for i, t := range c.Targets {
		if t.ID == "" {
			return fmt.Errorf("targets[%d].id must not be empty", i)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate target id %q", t.ID)
		}
		seen[t.ID] = true
		if len(t.Variants) == 0 {
			return fmt.Errorf("targets[%d] (%s) must list at least one variant", i, t.ID)
		}
		for _, v := range t.Variants {
			if v != VariantBaseline && v != VariantAlternate {
				return fmt.Errorf("targets[%d] (%s): unknown variant %q", i, t.ID, v)
			}
		}
		if t.MinScore != nil && (*t.MinScore < 0 || *t.MinScore > 100) {
			return fmt.Errorf("targets[%d] (%s): min_score = %d (must be between 0 and 100)", i, t.ID, *t.MinScore)
		}
	}
	return nil
}

// MinScoreFor returns the pass bar of an implementation.
func (c AuditConfig) MinScoreFor(id string) int {
	for _, t := range c.Targets {
		if t.ID == id && t.MinScore != nil {
			return *t.MinScore
		}
	}
	return c.MinScore
}

// Offers reports whether implementation id is registered with variant v.
func (c AuditConfig) Offers(id string, v Variant) bool {
	for _, t := range c.Targets {
		if t.ID == id {
			return slices.Contains(t.Variants, v)
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
