package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
	"github.com/shipkraft/shipkraft/internal/domain/stack"
)

// transform rewrites lines of one file. idx is the 0-based line the error points at, or
// -1 for file-wide errors. It returns the new lines and whether anything changed.
type transform struct {
	description string
	apply       func(path string, lines []string, idx int) ([]string, bool)
}

var transforms = map[string]transform{
	RuleNoConsole:       {"Remove the console call", fixConsole},
	RuleNoVar:           {"Replace var with let", fixVar},
	RuleEqeqeq:          {"Use === and !== for comparisons", fixEqeqeq},
	RuleHardcodedSecret: {"Read the value from an environment variable", fixSecret},
	RuleComposeSyntax:   {"Replace tab indentation with spaces", fixComposeTabs},
}

// HasTransform reports whether rule has a registered auto-fix.
func HasTransform(rule string) bool {
	_, ok := transforms[rule]
	return ok
}

type pendingFix struct {
	err  domain.TestError
	line int
}

// Fix applies the registered transform of every fixable error whose file is in files.
// It makes a single pass and returns the applied fixes together with a new snapshot;
// files itself is left untouched.
func (r *Runner) Fix(errs []domain.TestError, files domain.Snapshot) ([]domain.CodeFix, domain.Snapshot) {
	byFile := map[string][]pendingFix{}
	var order []string
	seen := map[string]bool{}

	for _, e := range errs {
		if !e.Fixable {
			continue
		}
		if !HasTransform(e.Rule) {
			r.skipped(e, "no transform registered")
			continue
		}
		if !files.Has(e.File) {
			r.skipped(e, "file not in snapshot")
			continue
		}
		key := e.File + "\x00" + strconv.Itoa(e.LineNumber()) + "\x00" + e.Rule
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := byFile[e.File]; !ok {
			order = append(order, e.File)
		}
		byFile[e.File] = append(byFile[e.File], pendingFix{err: e, line: e.LineNumber()})
	}

	fixes := []domain.CodeFix{}
	out := files
	for _, file := range order {
		pending := byFile[file]
		sort.SliceStable(pending, func(i, j int) bool { return pending[i].line < pending[j].line })

		current, _ := out.Get(file)
		lines := splitLines(current)
		eol := lineEnding(current)
		shift := 0
		for _, p := range pending {
			t := transforms[p.err.Rule]
			idx := -1
			if p.line > 0 {
				idx = p.line - 1 + shift
			}
			next, changed := t.apply(file, lines, idx)
			if !changed {
				r.skipped(p.err, "transform not applicable")
				continue
			}
			shift += len(next) - len(lines)
			fixed := strings.Join(next, eol)
			fixes = append(fixes, domain.CodeFix{
				File:        file,
				Original:    current,
				Fixed:       fixed,
				Description: t.description,
				Rule:        p.err.Rule,
			})
			r.sink.Emit(domain.Event{
				Stage:   domain.StageFix,
				Kind:    domain.EventFixApplied,
				Message: t.description,
				Fields:  map[string]string{"file": file, "rule": p.err.Rule, "line": strconv.Itoa(p.line)},
			})
			current, lines = fixed, next
		}
		out = out.With(file, current)
	}
	return fixes, out
}

func (r *Runner) skipped(e domain.TestError, reason string) {
	r.sink.Emit(domain.Event{
		Stage:   domain.StageFix,
		Kind:    domain.EventFixSkipped,
		Message: fmt.Sprintf("%s: %s", e.Rule, reason),
		Fields:  map[string]string{"file": e.File, "rule": e.Rule, "line": strconv.Itoa(e.LineNumber())},
	})
}

// replaceLine returns a copy of lines with lines[idx] set to s.
func replaceLine(lines []string, idx int, s string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	out[idx] = s
	return out
}

func inRange(lines []string, idx int) bool { return idx >= 0 && idx < len(lines) }

func fixConsole(path string, lines []string, idx int) ([]string, bool) {
	if !inRange(lines, idx) {
		return nil, false
	}
	raw := lines[idx]
	code := maskCode(raw, lineComment(path))
	loc := consoleRe.FindStringIndex(code)
	if loc == nil {
		return nil, false
	}
	// Only whole statements are removed; a call used as a value stays.
	before := strings.TrimRight(code[:loc[0]], " \t")
	if before != "" && !strings.HasSuffix(before, ";") && !strings.HasSuffix(before, "{") && !strings.HasSuffix(before, "}") {
		return nil, false
	}
	end := matchingParen(code, loc[1]-1)
	if end < 0 {
		return nil, false
	}
	end++
	rest := code[end:]
	if trimmed := strings.TrimLeft(rest, " \t"); strings.HasPrefix(trimmed, ";") {
		end += len(rest) - len(trimmed) + 1
	}
	return replaceLine(lines, idx, strings.TrimRight(raw[:loc[0]]+raw[end:], " \t")), true
}

// matchingParen returns the index of the parenthesis closing the one at open.
func matchingParen(code string, open int) int {
	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func fixVar(path string, lines []string, idx int) ([]string, bool) {
	if !inRange(lines, idx) {
		return nil, false
	}
	raw := lines[idx]
	code := maskCode(raw, lineComment(path))
	matches := varRe.FindAllStringSubmatchIndex(code, -1)
	if len(matches) == 0 {
		return nil, false
	}
	b := []byte(raw)
	for _, m := range matches {
		copy(b[m[3]:m[3]+3], "let")
	}
	return replaceLine(lines, idx, string(b)), true
}

func fixEqeqeq(path string, lines []string, idx int) ([]string, bool) {
	if !inRange(lines, idx) {
		return nil, false
	}
	raw := lines[idx]
	offsets := looseEqualities(maskCode(raw, lineComment(path)))
	if len(offsets) == 0 {
		return nil, false
	}
	fixed := raw
	for i := len(offsets) - 1; i >= 0; i-- {
		at := offsets[i] + 2
		fixed = fixed[:at] + "=" + fixed[at:]
	}
	return replaceLine(lines, idx, fixed), true
}

var (
	pyImportOsRe = regexp.MustCompile(`^\s*(import\s+os(\s|,|$)|from\s+os\s+import\s)`)
	goImportOsRe = regexp.MustCompile(`^\s*(import\s+)?"os"\s*$`)
)

func fixSecret(path string, lines []string, idx int) ([]string, bool) {
	if !inRange(lines, idx) {
		return nil, false
	}
	raw := lines[idx]
	m, ok := findSecret(raw)
	if !ok {
		return nil, false
	}
	env := domain.EnvVarName(m.identifier)
	var lookup string
	switch {
	case isJS(path):
		lookup = "process.env." + env
	case isPython(path):
		lookup = fmt.Sprintf("os.environ.get(%q)", env)
	case isGo(path):
		if !goImportsOS(lines) || inGoConst(lines, idx) {
			return nil, false
		}
		lookup = fmt.Sprintf("os.Getenv(%q)", env)
	default:
		switch stack.LanguageOf(path) {
		case "ruby":
			lookup = fmt.Sprintf("ENV[%q]", env)
		case "php":
			lookup = fmt.Sprintf("getenv('%s')", env)
		default:
			return nil, false
		}
	}

	out := replaceLine(lines, idx, raw[:m.start]+lookup+raw[m.end:])
	if isPython(path) && !pythonImportsOS(out) {
		out = insertPythonImport(out)
	}
	return out, true
}

func pythonImportsOS(lines []string) bool {
	for _, l := range lines {
		if pyImportOsRe.MatchString(l) {
			return true
		}
	}
	return false
}

// insertPythonImport adds "import os" below the module header: leading comments
// (shebang and encoding included), the module docstring and any __future__
// imports, which must stay first.
func insertPythonImport(lines []string) []string {
	at := pythonHeaderEnd(lines)
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, "import os")
	return append(out, lines[at:]...)
}

func pythonHeaderEnd(lines []string) int {
	at := 0
	docstring := true
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case line == "":
		case strings.HasPrefix(line, "#"):
			at = i + 1
		case docstring && (strings.HasPrefix(line, `"""`) || strings.HasPrefix(line, "'''")):
			docstring = false
			i = closingLine(lines, i, line[:3])
			at = i + 1
		case strings.HasPrefix(line, "from __future__ import"):
			docstring = false
			if strings.Contains(line, "(") && !strings.Contains(line, ")") {
				i = closingLine(lines, i, ")")
			}
			at = i + 1
		default:
			return at
		}
	}
	return at
}

// closingLine returns the index of the line that closes a construct opened on
// lines[start] by delim; an unterminated construct runs to the last line.
func closingLine(lines []string, start int, delim string) int {
	first := strings.TrimSpace(lines[start])
	if delim != ")" {
		first = first[len(delim):]
	}
	if strings.Contains(first, delim) {
		return start
	}
	for i := start + 1; i < len(lines); i++ {
		if strings.Contains(lines[i], delim) {
			return i
		}
	}
	return len(lines) - 1
}

func goImportsOS(lines []string) bool {
	for _, l := range lines {
		if goImportOsRe.MatchString(l) {
			return true
		}
	}
	return false
}

// inGoConst reports whether line idx is a const declaration or sits in a const block.
func inGoConst(lines []string, idx int) bool {
	if strings.HasPrefix(strings.TrimSpace(lines[idx]), "const ") {
		return true
	}
	for i := idx - 1; i >= 0; i-- {
		t := strings.TrimSpace(lines[i])
		switch {
		case strings.HasPrefix(t, "const ("):
			return true
		case t == ")" || strings.HasPrefix(t, "var (") || strings.HasPrefix(t, "func ") || strings.HasPrefix(t, "import ("):
			return false
		}
	}
	return false
}

func fixComposeTabs(_ string, lines []string, _ int) ([]string, bool) {
	out := make([]string, len(lines))
	changed := false
	for i, l := range lines {
		trimmed := strings.TrimLeft(l, " \t")
		indent := l[:len(l)-len(trimmed)]
		if strings.Contains(indent, "\t") {
			indent = strings.ReplaceAll(indent, "\t", "  ")
			changed = true
		}
		out[i] = indent + trimmed
	}
	return out, changed
}
