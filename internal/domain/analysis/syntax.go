package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Syntax rules.
const (
	RuleSyntaxError        = "syntax-error"
	RuleJSONSyntax         = "json-syntax"
	RuleDockerInstruction  = "dockerfile-instruction"
	RulePythonMissingColon = "python-missing-colon"
	RulePythonStrayColon   = "python-stray-colon"
)

var dockerInstructions = map[string]bool{
	"FROM": true, "RUN": true, "CMD": true, "LABEL": true, "MAINTAINER": true,
	"EXPOSE": true, "ENV": true, "ADD": true, "COPY": true, "ENTRYPOINT": true,
	"VOLUME": true, "USER": true, "WORKDIR": true, "ARG": true, "ONBUILD": true,
	"STOPSIGNAL": true, "HEALTHCHECK": true, "SHELL": true,
}

func (r *Runner) syntaxSuite(in Input, s *domain.TestSuite) {
	for _, p := range in.Files.Paths() {
		content, _ := in.Files.Get(p)
		switch {
		case r.parser != nil && r.parser.Supports(p):
			for _, issue := range r.parser.Parse(p, content) {
				e := domain.TestError{
					File:     p,
					Message:  issue.Message,
					Severity: domain.SeverityError,
					Rule:     RuleSyntaxError,
				}
				if issue.Line > 0 {
					e.Line = domain.IntPtr(issue.Line)
					e.Column = domain.IntPtr(issue.Column)
				}
				s.Errors = append(s.Errors, e)
			}
		case strings.HasSuffix(strings.ToLower(p), ".json"):
			if e, ok := checkJSON(p, content); !ok {
				s.Errors = append(s.Errors, e)
			}
		case isPython(p):
			checkPython(p, content, s)
		}
	}

	if path, content, ok := dockerfileSource(in); ok {
		checkDockerfileInstructions(path, content, s)
	}

	if len(s.Errors) > 0 {
		suggest(s, "Fix syntax errors first; other checks may be unreliable until the files parse")
	}
}

func checkJSON(p, content string) (domain.TestError, bool) {
	var v any
	err := json.Unmarshal([]byte(content), &v)
	if err == nil {
		return domain.TestError{}, true
	}
	e := domain.TestError{
		File:     p,
		Message:  fmt.Sprintf("invalid JSON: %v", err),
		Severity: domain.SeverityError,
		Rule:     RuleJSONSyntax,
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := position(content, int(syntaxErr.Offset))
		e.Line, e.Column = domain.IntPtr(line), domain.IntPtr(col)
	}
	return e, false
}

// position converts a byte offset into a 1-based line and column.
func position(content string, offset int) (int, int) {
	if offset > len(content) {
		offset = len(content)
	}
	before := content[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndex(before, "\n")
	return line, col
}

func checkDockerfileInstructions(p, content string, s *domain.TestSuite) {
	continued := false
	for i, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)
		wasContinued := continued
		continued = strings.HasSuffix(trimmed, "\\")
		if wasContinued || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		token := strings.ToUpper(strings.Fields(trimmed)[0])
		if !dockerInstructions[token] {
			s.Errors = append(s.Errors, domain.TestError{
				File:     p,
				Line:     domain.IntPtr(i + 1),
				Column:   domain.IntPtr(1),
				Message:  fmt.Sprintf("unknown Dockerfile instruction %q", strings.Fields(trimmed)[0]),
				Severity: domain.SeverityError,
				Rule:     RuleDockerInstruction,
			})
		}
	}
}

var pythonBlockKeywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"def": true, "class": true, "try": true, "except": true, "finally": true,
	"with": true, "async": true,
}

// checkPython applies a heuristic: a logical line opening with a block keyword needs a
// colon at bracket depth zero, and a logical line ending in a colon should open a block.
func checkPython(p, content string, s *domain.TestSuite) {
	for _, ll := range pythonLogicalLines(content) {
		text := strings.TrimSpace(ll.text)
		if text == "" || strings.HasPrefix(text, "@") {
			continue
		}
		kw := leadingWord(text)
		opensBlock := pythonBlockKeywords[kw]
		if opensBlock {
			if !hasTopLevelColon(text) {
				s.Errors = append(s.Errors, domain.TestError{
					File:     p,
					Line:     domain.IntPtr(ll.line),
					Message:  fmt.Sprintf("missing ':' after %q statement", kw),
					Severity: domain.SeverityError,
					Rule:     RulePythonMissingColon,
				})
			}
			continue
		}
		if strings.HasSuffix(text, ":") && kw != "lambda" && kw != "match" && kw != "case" {
			s.Warnings = append(s.Warnings, domain.TestWarning{
				File:    p,
				Line:    domain.IntPtr(ll.line),
				Message: "line ends with ':' but does not start a block",
				Rule:    RulePythonStrayColon,
			})
		}
	}
}

type logicalLine struct {
	line int
	text string
}

// pythonLogicalLines joins bracketed and backslash continuations, strips comments and
// string contents, and drops triple-quoted string bodies.
func pythonLogicalLines(content string) []logicalLine {
	var (
		out      []logicalLine
		buf      strings.Builder
		start    int
		depth    int
		inTriple string
	)
	for i, raw := range splitLines(content) {
		lineNo := i + 1
		line := raw
		if inTriple != "" {
			idx := strings.Index(line, inTriple)
			if idx < 0 {
				continue
			}
			line = strings.Repeat(" ", idx+3) + line[idx+3:]
			inTriple = ""
		}
		masked, openTriple := maskPython(line)
		if openTriple != "" {
			inTriple = openTriple
		}
		if buf.Len() == 0 {
			start = lineNo
		}
		buf.WriteString(masked)
		buf.WriteString(" ")
		for _, c := range masked {
			switch c {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				if depth > 0 {
					depth--
				}
			}
		}
		trimmed := strings.TrimSpace(masked)
		if depth > 0 || strings.HasSuffix(trimmed, "\\") || inTriple != "" {
			continue
		}
		out = append(out, logicalLine{line: start, text: strings.TrimSuffix(strings.TrimSpace(buf.String()), "\\")})
		buf.Reset()
	}
	if buf.Len() > 0 {
		out = append(out, logicalLine{line: start, text: strings.TrimSpace(buf.String())})
	}
	return out
}

// maskPython blanks string contents and comments. When a triple-quoted string opens
// and does not close on this line, the delimiter is returned.
func maskPython(line string) (string, string) {
	out := []byte(line)
	for i := 0; i < len(out); i++ {
		c := out[i]
		if c == '#' {
			return strings.TrimRight(string(out[:i]), " "), ""
		}
		if c != '"' && c != '\'' {
			continue
		}
		if strings.HasPrefix(line[i:], `"""`) || strings.HasPrefix(line[i:], `'''`) {
			delim := line[i : i+3]
			end := strings.Index(line[i+3:], delim)
			if end < 0 {
				return string(out[:i]) + `""`, delim
			}
			for j := i + 3; j < i+3+end; j++ {
				out[j] = ' '
			}
			i += 3 + end + 2
			continue
		}
		j := i + 1
		for ; j < len(out); j++ {
			if out[j] == '\\' {
				out[j] = ' '
				if j+1 < len(out) {
					out[j+1] = ' '
				}
				j++
				continue
			}
			if out[j] == c {
				break
			}
			out[j] = ' '
		}
		i = j
	}
	return string(out), ""
}

func leadingWord(text string) string {
	end := strings.IndexFunc(text, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if end < 0 {
		return text
	}
	return text[:end]
}

func hasTopLevelColon(text string) bool {
	depth := 0
	for _, c := range text {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}
