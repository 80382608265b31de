package domain

// Aggregate folds per-target results into run-level counts. It only reads
// the results and keeps no reference to them.
func Aggregate(results []TargetResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch TierFor(r.Score.Percentage) {
		case TierExcellent:
			s.Excellent++
		case TierGood:
			s.Good++
		default:
			s.NeedsWork++
		}
		if r.Failed() {
			s.Failed++
		}
		if !r.Failed() && r.Load.SectionFound {
			s.Loaded++
		}
		if !r.Failed() && r.IssueCount() == 0 {
			s.A11yClean++
		}
		if r.Keyboard != nil && r.Keyboard.Confirmed() == 4 {
			s.KeyboardOK++
		}
		if r.Passes() {
			s.Passing++
		}
	}
	return s
}
