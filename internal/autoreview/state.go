package autoreview

// State is a step of a single review run. Runs only move forward.
type State int

const (
	StateIdle State = iota
	StateCredentialChecked
	StateDiffObtained
	StateReviewObtained
	StateReportSaved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCredentialChecked:
		return "credential_checked"
	case StateDiffObtained:
		return "diff_obtained"
	case StateReviewObtained:
		return "review_obtained"
	case StateReportSaved:
		return "report_saved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateReportSaved || s == StateFailed
}
