package analysis_test

import (
	"strings"
	"testing"

	"github.com/shipkraft/shipkraft/internal/domain"
	"github.com/shipkraft/shipkraft/internal/domain/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, files map[string]string) map[string]domain.TestSuite {
	t.Helper()
	return runWith(t, analysis.New(), analysis.Input{Stack: domain.NewStackAnalysis(), Files: domain.NewSnapshot(files)})
}

func runWith(t *testing.T, r *analysis.Runner, in analysis.Input) map[string]domain.TestSuite {
	t.Helper()
	out := map[string]domain.TestSuite{}
	for _, s := range r.Run(in) {
		out[s.ID] = s
	}
	require.Len(t, out, 5)
	return out
}

func rules(s domain.TestSuite) []string {
	var out []string
	for _, e := range s.Errors {
		out = append(out, e.Rule)
	}
	return out
}

func warningRules(s domain.TestSuite) []string {
	var out []string
	for _, w := range s.Warnings {
		out = append(out, w.Rule)
	}
	return out
}

func countRule(rs []string, rule string) int {
	n := 0
	for _, r := range rs {
		if r == rule {
			n++
		}
	}
	return n
}

func TestRun_SuiteOrderAndEmptyInput(t *testing.T) {
	suites := analysis.New().Run(analysis.Input{})

	var ids []string
	for _, s := range suites {
		ids = append(ids, s.ID)
		assert.Equal(t, domain.StatusPassed, s.Status, s.ID)
		assert.NotNil(t, s.Errors)
		assert.NotNil(t, s.Warnings)
	}
	assert.Equal(t, []string{
		analysis.SuiteSyntaxID, analysis.SuiteLintID, analysis.SuiteDockerID,
		analysis.SuiteBuildID, analysis.SuiteSecurityID,
	}, ids)
}

func TestRun_StatusFailedIffErrors(t *testing.T) {
	suites := analysis.New().Run(analysis.Input{
		Files: domain.NewSnapshot(map[string]string{"index.js": "var x = 1;\n// TODO: tidy\n"}),
	})
	for _, s := range suites {
		if len(s.Errors) > 0 {
			assert.Equal(t, domain.StatusFailed, s.Status, s.ID)
		} else {
			assert.Equal(t, domain.StatusPassed, s.Status, s.ID)
		}
	}
}

func TestLint_JavaScriptRules(t *testing.T) {
	src := "var a = 1;\n" +
		"if (a == 2) {}\n" +
		"console.log(\"var in a string == fine\");\n" +
		"const s = \"console.log(x)\";\n" +
		"// var commented == out\n" +
		"// TODO: remove\n"
	lint := run(t, map[string]string{"src/app.js": src})[analysis.SuiteLintID]

	assert.Equal(t, []string{analysis.RuleNoVar, analysis.RuleEqeqeq, analysis.RuleNoConsole}, rules(lint))
	for _, e := range lint.Errors {
		assert.True(t, e.Fixable, e.Rule)
		assert.NotEmpty(t, e.SuggestedFix)
		require.NotNil(t, e.Line)
	}
	assert.Equal(t, []string{analysis.RuleNoTodo}, warningRules(lint))
	assert.Equal(t, domain.StatusFailed, lint.Status)
}

func TestLint_StrictOperatorsAreClean(t *testing.T) {
	src := "let a = 1;\nif (a === 1 && a !== 2 && a <= 3 && a >= 0) {}\nconst f = (x) => x;\n"
	lint := run(t, map[string]string{"a.ts": src})[analysis.SuiteLintID]
	assert.Empty(t, lint.Errors)
}

func TestLint_PythonLineLength(t *testing.T) {
	long := "x = \"" + strings.Repeat("a", 90) + "\"\n"
	lint := run(t, map[string]string{"app.py": long})[analysis.SuiteLintID]
	assert.Empty(t, lint.Errors)
	assert.Equal(t, []string{analysis.RuleMaxLineLength}, warningRules(lint))
}

func TestLint_MaxFileLines(t *testing.T) {
	lint := run(t, map[string]string{"big.go": strings.Repeat("x := 1\n", 600)})[analysis.SuiteLintID]
	require.Equal(t, 1, countRule(warningRules(lint), analysis.RuleMaxFileLines))
	for _, w := range lint.Warnings {
		if w.Rule == analysis.RuleMaxFileLines {
			assert.Nil(t, w.Line)
		}
	}
}

func TestLint_MaxFileLinesBoundary(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"exactly at limit", strings.Repeat("x := 1\n", 500), ""},
		{"at limit without final newline", strings.TrimSuffix(strings.Repeat("x := 1\n", 500), "\n"), ""},
		{"at limit with CRLF", strings.Repeat("x := 1\r\n", 500), ""},
		{"one over", strings.Repeat("x := 1\n", 501), "file has 501 lines (limit 500)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lint := run(t, map[string]string{"a.go": tc.content})[analysis.SuiteLintID]
			var msgs []string
			for _, w := range lint.Warnings {
				if w.Rule == analysis.RuleMaxFileLines {
					msgs = append(msgs, w.Message)
				}
			}
			if tc.want == "" {
				assert.Empty(t, msgs)
				return
			}
			assert.Equal(t, []string{tc.want}, msgs)
		})
	}
}

func TestSyntax_JSONError(t *testing.T) {
	syntax := run(t, map[string]string{"config.json": "{\n  \"a\": 1,\n}\n"})[analysis.SuiteSyntaxID]
	require.Len(t, syntax.Errors, 1)
	e := syntax.Errors[0]
	assert.Equal(t, analysis.RuleJSONSyntax, e.Rule)
	assert.Equal(t, "config.json", e.File)
	assert.Equal(t, 3, e.LineNumber())
	assert.Equal(t, domain.StatusFailed, syntax.Status)
}

func TestSyntax_PythonHeuristics(t *testing.T) {
	src := "def f()\n" +
		"    return 1\n" +
		"\n" +
		"if x:\n" +
		"    pass\n" +
		"d = {\n" +
		"    'a': 1,\n" +
		"}\n" +
		"s = \"\"\"\n" +
		"if not a block\n" +
		"\"\"\"\n" +
		"y = 1:\n"
	syntax := run(t, map[string]string{"app.py": src})[analysis.SuiteSyntaxID]

	require.Len(t, syntax.Errors, 1)
	assert.Equal(t, analysis.RulePythonMissingColon, syntax.Errors[0].Rule)
	assert.Equal(t, 1, syntax.Errors[0].LineNumber())

	require.Len(t, syntax.Warnings, 1)
	assert.Equal(t, analysis.RulePythonStrayColon, syntax.Warnings[0].Rule)
	assert.Equal(t, 12, *syntax.Warnings[0].Line)
}

func TestSyntax_UnknownDockerInstruction(t *testing.T) {
	df := "FROM node:20\nRUN npm ci \\\n    && npm test\nRUNN echo\n"
	syntax := run(t, map[string]string{"Dockerfile": df})[analysis.SuiteSyntaxID]
	require.Len(t, syntax.Errors, 1)
	assert.Equal(t, analysis.RuleDockerInstruction, syntax.Errors[0].Rule)
	assert.Equal(t, 4, syntax.Errors[0].LineNumber())
}

type fakeParser struct{ issues []domain.SyntaxIssue }

func (f fakeParser) Supports(p string) bool { return p == "main.ts" }

func (f fakeParser) Parse(string, string) []domain.SyntaxIssue { return f.issues }

func TestSyntax_DelegatesToParser(t *testing.T) {
	r := analysis.New(analysis.WithParser(fakeParser{issues: []domain.SyntaxIssue{{Line: 2, Column: 4, Message: "Expected \";\""}}}))
	suites := runWith(t, r, analysis.Input{Files: domain.NewSnapshot(map[string]string{"main.ts": "let a\nlet b c\n"})})

	syntax := suites[analysis.SuiteSyntaxID]
	require.Len(t, syntax.Errors, 1)
	assert.Equal(t, analysis.RuleSyntaxError, syntax.Errors[0].Rule)
	assert.Equal(t, 2, syntax.Errors[0].LineNumber())
	assert.Equal(t, 4, *syntax.Errors[0].Column)
}

func TestDocker_UserWarningClearsWithUser(t *testing.T) {
	df := "FROM node:20-alpine\nHEALTHCHECK CMD wget -q -O- http://localhost:3000/ || exit 1\nCMD [\"node\", \"index.js\"]\n"
	docker := run(t, map[string]string{"Dockerfile": df})[analysis.SuiteDockerID]
	assert.Equal(t, 1, countRule(warningRules(docker), analysis.RuleDockerUser))
	assert.Equal(t, 0, countRule(warningRules(docker), analysis.RuleDockerHealthcheck))
	assert.Equal(t, domain.StatusPassed, docker.Status)

	withUser := "FROM node:20-alpine\nUSER app\nHEALTHCHECK CMD wget -q -O- http://localhost:3000/ || exit 1\nCMD [\"node\", \"index.js\"]\n"
	docker = run(t, map[string]string{"Dockerfile": withUser})[analysis.SuiteDockerID]
	assert.Equal(t, 0, countRule(warningRules(docker), analysis.RuleDockerUser))
}

func TestDocker_FallsBackToGeneratedDockerfile(t *testing.T) {
	suites := runWith(t, analysis.New(), analysis.Input{
		Generated: domain.GeneratedFiles{Dockerfile: "FROM python:3.11-slim\nRUN a\nRUN b\nRUN c\nRUN d\nRUN e\nCMD python app.py\n"},
	})
	w := warningRules(suites[analysis.SuiteDockerID])
	assert.Contains(t, w, analysis.RuleDockerUser)
	assert.Contains(t, w, analysis.RuleDockerHealthcheck)
	assert.Contains(t, w, analysis.RuleDockerRunCount)
}

func TestDocker_ComposeChecks(t *testing.T) {
	docker := run(t, map[string]string{"docker-compose.yml": "services:\n\tapp:\n\t\timage: node\n"})[analysis.SuiteDockerID]
	require.Equal(t, []string{analysis.RuleComposeSyntax}, rules(docker))
	assert.True(t, docker.Errors[0].Fixable)

	docker = run(t, map[string]string{"compose.yaml": "version: \"3.8\"\n"})[analysis.SuiteDockerID]
	assert.Empty(t, docker.Errors)
	assert.Contains(t, warningRules(docker), analysis.RuleComposeServices)
}

func TestBuild_NodeScriptsAndDuplicates(t *testing.T) {
	a := domain.NewStackAnalysis()
	a.PrimaryLanguage = "javascript"
	a.Dependencies = []domain.Dependency{{Name: "lodash"}}
	a.DevDependencies = []domain.Dependency{{Name: "lodash"}, {Name: "jest"}}

	build := runWith(t, analysis.New(), analysis.Input{Stack: a})[analysis.SuiteBuildID]
	assert.Equal(t, []string{analysis.RuleBuildScript, analysis.RuleDuplicateDependency}, rules(build))
	assert.Equal(t, "package.json", build.Errors[0].File)
	assert.Contains(t, build.Errors[1].Message, "lodash")

	a.Scripts = map[string]string{"start": "node index.js"}
	a.DevDependencies = []domain.Dependency{{Name: "jest"}}
	build = runWith(t, analysis.New(), analysis.Input{Stack: a})[analysis.SuiteBuildID]
	assert.Empty(t, build.Errors)
	assert.Equal(t, domain.StatusPassed, build.Status)
}

func TestSecurity_SecretsAndEval(t *testing.T) {
	files := map[string]string{
		"src/config.js": "const apiKey = \"sk-live-123\";\nconst name = \"demo\";\n",
		"src/run.py":    "result = eval(user_input)\n",
		"README.md":     "password = \"not code\"\n",
	}
	security := run(t, files)[analysis.SuiteSecurityID]

	require.Len(t, security.Errors, 1)
	e := security.Errors[0]
	assert.Equal(t, analysis.RuleHardcodedSecret, e.Rule)
	assert.Equal(t, "src/config.js", e.File)
	assert.Equal(t, 1, e.LineNumber())
	assert.True(t, e.Fixable)

	assert.Equal(t, []string{analysis.RuleNoEval}, warningRules(security))
}

func TestSecurity_IgnoresNonSecretNames(t *testing.T) {
	security := run(t, map[string]string{
		"a.py": "monkey = \"banana\"\nkeyboard_layout = \"qwerty\"\n",
	})[analysis.SuiteSecurityID]
	assert.Empty(t, security.Errors)
}
