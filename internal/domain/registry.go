package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EnumerateTargets produces one Target per (id, variant) pair in registration order.
// Alternate variants of toggled implementations are marked for activation.
func EnumerateTargets(specs []TargetSpec) []Target {
	var targets []Target
	for _, spec := range specs {
		for _, v := range spec.Variants {
			targets = append(targets, Target{
				ImplementationID: spec.ID,
				Variant:          v,
				Activate:         spec.Toggle && v == VariantAlternate,
			})
		}
	}
	return targets
}

// TargetURL returns the canonical, variant-qualified address of a target.
func TargetURL(cfg AuditConfig, t Target) string {
	url := strings.TrimRight(cfg.BaseURL, "/") + strings.ReplaceAll(cfg.PathTemplate, "{id}", t.ImplementationID)
	if t.Variant == VariantAlternate {
		url += cfg.AlternateFragment
	}
	return url
}

// SelectTargets keeps the specs whose id is listed, preserving registry
// order. An empty ids list selects everything. Unknown ids are reported in
// the order they were given.
func SelectTargets(specs []TargetSpec, ids []string) ([]TargetSpec, error) {
	want := make(map[string]bool, len(ids))
	var order []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" && !want[id] {
			want[id] = true
			order = append(order, id)
		}
	}
	if len(want) == 0 {
		return specs, nil
	}
	var out []TargetSpec
	for _, s := range specs {
		if want[s.ID] {
			out = append(out, s)
			delete(want, s.ID)
		}
	}
	var unknown []string
	for _, id := range order {
		if want[id] {
			unknown = append(unknown, strconv.Quote(id))
		}
	}
	switch len(unknown) {
	case 0:
		return out, nil
	case 1:
		return nil, fmt.Errorf("unknown target %s", unknown[0])
	default:
		return nil, fmt.Errorf("unknown targets %s", strings.Join(unknown, ", "))
	}
}
