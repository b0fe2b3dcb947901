package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Docker rules.
const (
	RuleDockerUser        = "docker-user"
	RuleDockerHealthcheck = "docker-healthcheck"
	RuleDockerRunCount    = "docker-run-consolidate"
	RuleComposeSyntax     = "compose-syntax"
	RuleComposeServices   = "compose-services"
)

// maxRunInstructions is the RUN count above which consolidation is suggested.
const maxRunInstructions = 4

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

func (r *Runner) dockerSuite(in Input, s *domain.TestSuite) {
	if p, content, ok := dockerfileSource(in); ok {
		checkDockerfilePractices(p, content, s)
	} else {
		suggest(s, "Add a Dockerfile so the project can be containerized")
	}

	if p, content, ok := composeSource(in); ok {
		checkCompose(p, content, s)
	}
}

func checkDockerfilePractices(p, content string, s *domain.TestSuite) {
	var hasUser, hasHealthcheck bool
	runs := 0
	continued := false
	for _, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)
		wasContinued := continued
		continued = strings.HasSuffix(trimmed, "\\")
		if wasContinued || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		switch strings.ToUpper(strings.Fields(trimmed)[0]) {
		case "USER":
			hasUser = true
		case "HEALTHCHECK":
			hasHealthcheck = true
		case "RUN":
			runs++
		}
	}

	if !hasUser {
		s.Warnings = append(s.Warnings, domain.TestWarning{
			File:    p,
			Message: "container runs as root: no USER instruction",
			Rule:    RuleDockerUser,
		})
		suggest(s, "Create an unprivileged user and switch to it with USER")
	}
	if !hasHealthcheck {
		s.Warnings = append(s.Warnings, domain.TestWarning{
			File:    p,
			Message: "no HEALTHCHECK instruction",
			Rule:    RuleDockerHealthcheck,
		})
		suggest(s, "Add a HEALTHCHECK so orchestrators can detect a stuck container")
	}
	if runs > maxRunInstructions {
		s.Warnings = append(s.Warnings, domain.TestWarning{
			File:    p,
			Message: fmt.Sprintf("%d RUN instructions; each adds an image layer", runs),
			Rule:    RuleDockerRunCount,
		})
		suggest(s, "Combine related RUN instructions with && to reduce layers")
	}
}

func checkCompose(p, content string, s *domain.TestSuite) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		e := domain.TestError{
			File:     p,
			Message:  fmt.Sprintf("invalid compose file: %v", err),
			Severity: domain.SeverityError,
			Rule:     RuleComposeSyntax,
		}
		if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
			if n, convErr := strconv.Atoi(m[1]); convErr == nil {
				e.Line = domain.IntPtr(n)
			}
		}
		if strings.Contains(content, "\t") {
			e.Fixable = true
			e.SuggestedFix = transforms[RuleComposeSyntax].description
		}
		s.Errors = append(s.Errors, e)
		suggest(s, "Indent compose files with spaces only")
		return
	}
	if _, ok := doc["services"]; !ok {
		s.Warnings = append(s.Warnings, domain.TestWarning{
			File:    p,
			Message: "compose file defines no services",
			Rule:    RuleComposeServices,
		})
	}
}
