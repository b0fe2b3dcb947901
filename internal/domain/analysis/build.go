package analysis

import (
	"fmt"
	"sort"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Build rules.
const (
	RuleBuildScript         = "build-script"
	RuleDuplicateDependency = "duplicate-dependency"
)

func (r *Runner) buildSuite(in Input, s *domain.TestSuite) {
	a := in.Stack

	if a.IsNode() {
		_, hasStart := a.Script("start")
		_, hasBuild := a.Script("build")
		if !hasStart && !hasBuild {
			s.Errors = append(s.Errors, domain.TestError{
				File:     "package.json",
				Message:  "no start or build script defined",
				Severity: domain.SeverityError,
				Rule:     RuleBuildScript,
			})
			suggest(s, `Add a "start" script to package.json`)
		}
	}

	counts := map[string]int{}
	for _, list := range [][]domain.Dependency{a.Dependencies, a.DevDependencies} {
		for _, d := range list {
			counts[d.Name]++
		}
	}
	var dupes []string
	for name, n := range counts {
		if n > 1 {
			dupes = append(dupes, name)
		}
	}
	sort.Strings(dupes)
	for _, name := range dupes {
		s.Errors = append(s.Errors, domain.TestError{
			File:     manifestFor(a),
			Message:  fmt.Sprintf("dependency %q is declared more than once", name),
			Severity: domain.SeverityError,
			Rule:     RuleDuplicateDependency,
		})
	}
	if len(dupes) > 0 {
		suggest(s, "Declare each dependency once, in either runtime or dev dependencies")
	}
}

func manifestFor(a domain.StackAnalysis) string {
	switch a.PrimaryLanguage {
	case "javascript", "typescript":
		return "package.json"
	case "python":
		return "requirements.txt"
	case "go":
		return "go.mod"
	case "rust":
		return "Cargo.toml"
	case "java", "kotlin":
		return "pom.xml"
	case "ruby":
		return "Gemfile"
	case "php":
		return "composer.json"
	}
	return ""
}
