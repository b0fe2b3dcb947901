package analysis

import (
	"regexp"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Security rules.
const (
	RuleHardcodedSecret = "no-hardcoded-secrets"
	RuleNoEval          = "no-eval"
)

var (
	// secretAssignRe captures an identifier assigned a quoted literal with =, := or :.
	secretAssignRe = regexp.MustCompile(`([A-Za-z_$][A-Za-z0-9_$]*)["']?\s*(?::=|=|:)\s*(["'])([^"'\n]+)(["'])`)
	evalRe         = regexp.MustCompile(`(^|[^\w$.])eval\s*\(`)
)

var secretWords = map[string]bool{
	"PASSWORD": true, "PASSWD": true, "PWD": true, "SECRET": true,
	"KEY": true, "APIKEY": true, "TOKEN": true,
}

// secretMatch locates a hard-coded secret on a line.
type secretMatch struct {
	identifier string
	start, end int // byte range of the quoted literal including quotes
}

// findSecret returns the first assignment of a quoted literal to a secret-looking name.
func findSecret(line string) (secretMatch, bool) {
	for _, m := range secretAssignRe.FindAllStringSubmatchIndex(line, -1) {
		ident := line[m[2]:m[3]]
		if m[4] < 0 || line[m[4]:m[5]] != line[m[8]:m[9]] {
			continue
		}
		if !isSecretName(ident) {
			continue
		}
		value := line[m[6]:m[7]]
		if strings.TrimSpace(value) == "" {
			continue
		}
		return secretMatch{identifier: ident, start: m[4], end: m[9]}, true
	}
	return secretMatch{}, false
}

func isSecretName(ident string) bool {
	for _, w := range strings.Split(domain.EnvVarName(ident), "_") {
		if secretWords[w] {
			return true
		}
	}
	return false
}

func (r *Runner) securitySuite(in Input, s *domain.TestSuite) {
	for _, p := range in.Files.Paths() {
		if !isCode(p) {
			continue
		}
		content, _ := in.Files.Get(p)
		comment := lineComment(p)
		for i, raw := range splitLines(content) {
			code := maskCode(raw, comment)
			if strings.TrimSpace(code) == "" {
				continue
			}
			if _, ok := findSecret(raw); ok {
				recordFinding(s, RuleHardcodedSecret, domain.SeverityError, true, p, i+1,
					"possible hard-coded secret")
				suggest(s, "Load secrets from environment variables or a secret manager")
			}
			if (isJS(p) || isPython(p)) && evalRe.MatchString(code) {
				recordFinding(s, RuleNoEval, domain.SeverityWarning, false, p, i+1,
					"eval() executes arbitrary code")
				suggest(s, "Avoid eval(); parse data explicitly instead")
			}
		}
	}
}
