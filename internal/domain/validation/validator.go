// Package validation scores repository health against a weighted rubric.
package validation

import (
	"math"
	"path"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

var severityWeights = map[string]float64{
	domain.SeverityCritical: 10,
	domain.SeverityHigh:     7,
	domain.SeverityMedium:   5,
	domain.SeverityLow:      2,
}

var categoryWeights = map[string]float64{
	domain.CheckSecurity:      1.5,
	domain.CheckStructure:     1.2,
	domain.CheckDependencies:  1.3,
	domain.CheckConfiguration: 1.0,
	domain.CheckPerformance:   0.8,
}

var statusFactors = map[domain.CheckStatus]float64{
	domain.CheckPass:    1.0,
	domain.CheckInfo:    0.9,
	domain.CheckWarning: 0.7,
	domain.CheckFail:    0,
}

// DependencyThreshold is the dependency count above which a repository is flagged.
const DependencyThreshold = 50

// Input is everything the validator reads. Contents may hold package.json,
// requirements.txt and .gitignore; any of them may be absent.
type Input struct {
	Files    []domain.FileEntry
	Stack    domain.StackAnalysis
	Contents map[string]string
}

// Validate runs every check group and scores the result.
func Validate(in Input) domain.ValidationResult {
	v := newView(in)

	var results []checkResult
	for _, group := range checkGroups {
		results = append(results, group(v)...)
	}

	checks := make([]domain.ValidationCheck, len(results))
	for i, r := range results {
		checks[i] = r.check
	}

	score := Score(checks)
	return domain.ValidationResult{
		IsValid:          score >= domain.PassingScore,
		Score:            score,
		Checks:           checks,
		Recommendations:  recommendations(results, in.Stack),
		DockerValidation: EstimateDocker(in.Stack),
	}
}

// Score computes round(100 * sum(weight*factor) / sum(weight)) where weight is the
// product of the severity and category weights. An empty list scores 0.
func Score(checks []domain.ValidationCheck) int {
	var num, den float64
	for _, c := range checks {
		w := severityWeights[c.Severity] * categoryWeights[c.Category]
		num += w * statusFactors[c.Status]
		den += w
	}
	if den == 0 {
		return 0
	}
	score := int(math.Round(100 * num / den))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func recommendations(results []checkResult, a domain.StackAnalysis) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, status := range []domain.CheckStatus{domain.CheckFail, domain.CheckWarning} {
		for _, r := range results {
			if r.check.Status == status {
				add(r.recommendation)
			}
		}
	}

	if a.TestFramework == "" {
		add(testFrameworkAdvice(a.PrimaryLanguage))
	}
	if len(a.Linting) == 0 {
		add(lintingAdvice(a.PrimaryLanguage))
	}
	if a.DependencyCount() > DependencyThreshold {
		add("Audit dependencies: more than 50 packages increase image size, build time and attack surface")
	}
	return out
}

func testFrameworkAdvice(language string) string {
	switch language {
	case "javascript", "typescript":
		return "Set up a test framework such as jest or vitest"
	case "python":
		return "Set up pytest for automated tests"
	case "go":
		return "Add _test.go files and run them with go test"
	case "java", "kotlin":
		return "Add JUnit tests"
	case "ruby":
		return "Set up rspec for automated tests"
	case "php":
		return "Set up PHPUnit for automated tests"
	default:
		return "Set up a test framework"
	}
}

func lintingAdvice(language string) string {
	switch language {
	case "javascript", "typescript":
		return "Add eslint and prettier to keep code consistent"
	case "python":
		return "Add ruff or flake8 for linting"
	case "go":
		return "Add golangci-lint configuration"
	case "ruby":
		return "Add rubocop for linting"
	default:
		return "Add a linter to catch common mistakes"
	}
}

// view indexes the file listing for the checks.
type view struct {
	in    Input
	paths []string
	set   map[string]bool
}

func newView(in Input) *view {
	v := &view{in: in, set: map[string]bool{}}
	for _, f := range in.Files {
		if f.Kind == domain.KindDir {
			continue
		}
		p := strings.TrimPrefix(f.Path, "./")
		v.paths = append(v.paths, p)
		v.set[p] = true
	}
	return v
}

func (v *view) has(names ...string) bool {
	for _, n := range names {
		if v.set[n] {
			return true
		}
	}
	return false
}

func (v *view) any(pred func(p string) bool) (string, bool) {
	for _, p := range v.paths {
		if pred(p) {
			return p, true
		}
	}
	return "", false
}

func (v *view) content(name string) (string, bool) {
	c, ok := v.in.Contents[name]
	return c, ok
}

func base(p string) string { return path.Base(p) }
