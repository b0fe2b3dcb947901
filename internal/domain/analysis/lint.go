package analysis

import (
	"fmt"
	"regexp"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Lint rules.
const (
	RuleNoConsole     = "no-console"
	RuleNoVar         = "no-var"
	RuleEqeqeq        = "eqeqeq"
	RuleMaxLineLength = "max-line-length"
	RuleNoTodo        = "no-todo"
	RuleMaxFileLines  = "max-file-lines"
)

const (
	maxPythonLineLength = 88
	maxFileLines        = 500
)

var (
	consoleRe = regexp.MustCompile(`\bconsole\.(log|debug|info|warn|error|trace|dir)\s*\(`)
	varRe     = regexp.MustCompile(`(^|[^\w$.])var\s+[A-Za-z_$]`)
	todoRe    = regexp.MustCompile(`\b(TODO|FIXME)\b`)
)

// lineRule is one row of the lint rule table.
type lineRule struct {
	id         string
	severity   string
	fixable    bool
	applies    func(path string) bool
	match      func(raw, code string) bool
	message    string
	suggestion string
}

var lintRules = []lineRule{
	{
		id: RuleNoConsole, severity: domain.SeverityError, fixable: true, applies: isJS,
		match:      func(_, code string) bool { return consoleRe.MatchString(code) },
		message:    "unexpected console statement",
		suggestion: "Remove debug console statements or route them through a logger",
	},
	{
		id: RuleNoVar, severity: domain.SeverityError, fixable: true, applies: isJS,
		match:      func(_, code string) bool { return varRe.MatchString(code) },
		message:    "use let or const instead of var",
		suggestion: "Replace var with let or const",
	},
	{
		id: RuleEqeqeq, severity: domain.SeverityError, fixable: true, applies: isJS,
		match:      func(_, code string) bool { return len(looseEqualities(code)) > 0 },
		message:    "use === and !== instead of == and !=",
		suggestion: "Use strict equality operators",
	},
	{
		id: RuleMaxLineLength, severity: domain.SeverityWarning, applies: isPython,
		match:      func(raw, _ string) bool { return len([]rune(raw)) > maxPythonLineLength },
		message:    fmt.Sprintf("line longer than %d characters", maxPythonLineLength),
		suggestion: "Wrap long lines or run a formatter such as black",
	},
	{
		id: RuleNoTodo, severity: domain.SeverityWarning, applies: isCode,
		match:      func(raw, _ string) bool { return todoRe.MatchString(raw) },
		message:    "unresolved TODO/FIXME comment",
		suggestion: "Resolve or track TODO/FIXME comments in an issue tracker",
	},
}

func (r *Runner) lintSuite(in Input, s *domain.TestSuite) {
	for _, p := range in.Files.Paths() {
		if !isCode(p) {
			continue
		}
		content, _ := in.Files.Get(p)
		lines := splitLines(content)
		comment := lineComment(p)

		for i, raw := range lines {
			code := maskCode(raw, comment)
			for _, rule := range lintRules {
				if !rule.applies(p) || !rule.match(raw, code) {
					continue
				}
				recordFinding(s, rule.id, rule.severity, rule.fixable, p, i+1, rule.message)
				suggest(s, rule.suggestion)
			}
		}

		if n := lineCount(content); n > maxFileLines {
			s.Warnings = append(s.Warnings, domain.TestWarning{
				File:    p,
				Message: fmt.Sprintf("file has %d lines (limit %d)", n, maxFileLines),
				Rule:    RuleMaxFileLines,
			})
			suggest(s, "Split large files into smaller modules")
		}
	}
}

// recordFinding files an error-severity rule as a TestError and anything else as a
// TestWarning.
func recordFinding(s *domain.TestSuite, rule, severity string, fixable bool, file string, line int, msg string) {
	if severity == domain.SeverityError {
		e := domain.TestError{
			File:     file,
			Line:     domain.IntPtr(line),
			Message:  msg,
			Severity: severity,
			Rule:     rule,
		}
		if t, ok := transforms[rule]; ok && fixable {
			e.Fixable = true
			e.SuggestedFix = t.description
		}
		s.Errors = append(s.Errors, e)
		return
	}
	s.Warnings = append(s.Warnings, domain.TestWarning{
		File:    file,
		Line:    domain.IntPtr(line),
		Message: msg,
		Rule:    rule,
	})
}

// looseEqualities returns the byte offsets of every == and != that is not part of a
// strict operator.
func looseEqualities(code string) []int {
	var out []int
	for i := 0; i+1 < len(code); i++ {
		if code[i+1] != '=' || (code[i] != '=' && code[i] != '!') {
			continue
		}
		if i+2 < len(code) && code[i+2] == '=' {
			i += 2
			continue
		}
		if code[i] == '=' && i > 0 && isOperatorChar(code[i-1]) {
			continue
		}
		out = append(out, i)
		i++
	}
	return out
}

func isOperatorChar(c byte) bool {
	switch c {
	case '=', '!', '<', '>', '+', '-', '*', '/', '%', '&', '|', '^':
		return true
	}
	return false
}
