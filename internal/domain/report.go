package domain

import "time"

// Report is the full result of one pipeline run.
type Report struct {
	RunID          string           `json:"run_id"`
	Timestamp      time.Time        `json:"timestamp"`
	CommitHash     string           `json:"commit_hash,omitempty"`
	Files          int              `json:"files"`
	Stack          StackAnalysis    `json:"stack"`
	Generated      GeneratedFiles   `json:"generated"`
	EnrichmentUsed bool             `json:"enrichment_used"`
	Validation     ValidationResult `json:"validation"`
	Suites         []TestSuite      `json:"suites"`
	Fixes          []CodeFix        `json:"fixes,omitempty"`
	SuitesAfterFix []TestSuite      `json:"suites_after_fix,omitempty"`
}

// Converged reports whether the post-fix re-run has fewer errors than the first run.
// A run without a fix pass is trivially converged.
func (r Report) Converged() bool {
	if r.SuitesAfterFix == nil {
		return true
	}
	return CountErrors(r.SuitesAfterFix) < CountErrors(r.Suites) || CountErrors(r.SuitesAfterFix) == 0
}
