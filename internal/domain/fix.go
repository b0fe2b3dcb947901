package domain

// TestSuite groups the findings of one static-analysis pass.
type TestSuite struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        SuiteType     `json:"type"`
	Status      SuiteStatus   `json:"status"`
	Errors      []TestError   `json:"errors"`
	Warnings    []TestWarning `json:"warnings"`
	Suggestions []string      `json:"suggestions"`
}

type SuiteType string

const (
	SuiteSyntax      SuiteType = "syntax"
	SuiteLint        SuiteType = "lint"
	SuiteBuild       SuiteType = "build"
	SuiteIntegration SuiteType = "integration"
	SuiteUnit        SuiteType = "unit"
)

type SuiteStatus string

const (
	StatusPending SuiteStatus = "pending"
	StatusRunning SuiteStatus = "running"
	StatusPassed  SuiteStatus = "passed"
	StatusFailed  SuiteStatus = "failed"
	StatusSkipped SuiteStatus = "skipped"
)

// Finalize derives the suite status from its errors.
func (s *TestSuite) Finalize() {
	if len(s.Errors) > 0 {
		s.Status = StatusFailed
		return
	}
	s.Status = StatusPassed
}

// TestError is a finding that fails its suite.
type TestError struct {
	File         string `json:"file"`
	Line         *int   `json:"line,omitempty"`
	Column       *int   `json:"column,omitempty"`
	Message      string `json:"message"`
	Severity     string `json:"severity"`
	Rule         string `json:"rule,omitempty"`
	Fixable      bool   `json:"fixable"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
}

// LineNumber returns the 1-based line or 0 when the error is file-wide.
func (e TestError) LineNumber() int {
	if e.Line == nil {
		return 0
	}
	return *e.Line
}

// TestWarning is an advisory finding that does not fail its suite.
type TestWarning struct {
	File    string `json:"file"`
	Line    *int   `json:"line,omitempty"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

// Finding severities for TestError.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// CodeFix is one applied transform with the full content before and after.
type CodeFix struct {
	File        string `json:"file"`
	Original    string `json:"original"`
	Fixed       string `json:"fixed"`
	Description string `json:"description"`
	Rule        string `json:"rule,omitempty"`
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// FixableErrors collects every fixable error across suites, in suite order.
func FixableErrors(suites []TestSuite) []TestError {
	var out []TestError
	for _, s := range suites {
		for _, e := range s.Errors {
			if e.Fixable {
				out = append(out, e)
			}
		}
	}
	return out
}

// CountErrors returns the total number of errors across suites.
func CountErrors(suites []TestSuite) int {
	n := 0
	for _, s := range suites {
		n += len(s.Errors)
	}
	return n
}
