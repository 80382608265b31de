package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNavigation means the target page could not be reached or did not settle in time.
	ErrNavigation = errors.New("navigation failure")
	// ErrSectionMissing means the page loaded but the audit section marker was absent.
	ErrSectionMissing = errors.New("audit section not found")
	// ErrRulesetUnavailable means the external rule engine could not be run.
	ErrRulesetUnavailable = errors.New("ruleset unavailable")
	// ErrProbe means a keyboard or focus simulation step failed.
	ErrProbe = errors.New("keyboard probe failure")
)

const FailureNavigation = "navigation"

// TargetError attributes a failure to one target and pipeline stage.
type TargetError struct {
	Target Target
	Stage  string
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Target, e.Stage, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }
