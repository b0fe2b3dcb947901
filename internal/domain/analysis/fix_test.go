package analysis_test

import (
	"testing"

	"github.com/shipkraft/shipkraft/internal/domain"
	"github.com/shipkraft/shipkraft/internal/domain/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixAll runs the suites over files and fixes every fixable error once.
func fixAll(t *testing.T, r *analysis.Runner, files map[string]string) ([]domain.CodeFix, domain.Snapshot, domain.Snapshot) {
	t.Helper()
	snap := domain.NewSnapshot(files)
	suites := r.Run(analysis.Input{Stack: domain.NewStackAnalysis(), Files: snap})
	fixes, fixed := r.Fix(domain.FixableErrors(suites), snap)
	return fixes, snap, fixed
}

func TestFix_VarBecomesLet(t *testing.T) {
	r := analysis.New()
	fixes, original, fixed := fixAll(t, r, map[string]string{"index.js": "var x = 1;\n"})

	require.Len(t, fixes, 1)
	assert.Equal(t, "index.js", fixes[0].File)
	assert.Equal(t, "var x = 1;\n", fixes[0].Original)
	assert.Equal(t, "let x = 1;\n", fixes[0].Fixed)
	assert.Equal(t, analysis.RuleNoVar, fixes[0].Rule)

	got, _ := fixed.Get("index.js")
	assert.Equal(t, "let x = 1;\n", got)
	before, _ := original.Get("index.js")
	assert.Equal(t, "var x = 1;\n", before, "input snapshot must not change")

	lint := runWith(t, r, analysis.Input{Files: fixed})[analysis.SuiteLintID]
	assert.NotContains(t, rules(lint), analysis.RuleNoVar)
}

func TestFix_Eqeqeq(t *testing.T) {
	fixes, _, fixed := fixAll(t, analysis.New(), map[string]string{"a.ts": "if (a == b && c != d) {}\n"})
	require.Len(t, fixes, 1)
	got, _ := fixed.Get("a.ts")
	assert.Equal(t, "if (a === b && c !== d) {}\n", got)
}

func TestFix_ConsoleStrippedLineKept(t *testing.T) {
	src := "function f() {\n  console.log(\"hi (there)\");\n  return 1;\n}\n"
	fixes, _, fixed := fixAll(t, analysis.New(), map[string]string{"f.js": src})
	require.Len(t, fixes, 1)
	got, _ := fixed.Get("f.js")
	assert.Equal(t, "function f() {\n\n  return 1;\n}\n", got)
}

func TestFix_ChainsFixesOnOneFile(t *testing.T) {
	src := "var a = 1;\nif (a == 1) {}\n"
	fixes, _, fixed := fixAll(t, analysis.New(), map[string]string{"x.js": src})
	require.Len(t, fixes, 2)
	assert.Equal(t, fixes[0].Fixed, fixes[1].Original)
	got, _ := fixed.Get("x.js")
	assert.Equal(t, "let a = 1;\nif (a === 1) {}\n", got)
}

func TestFix_SecretInJavaScript(t *testing.T) {
	fixes, _, fixed := fixAll(t, analysis.New(), map[string]string{"config.js": "const apiKey = \"sk-live-123\";\n"})
	require.Len(t, fixes, 1)
	got, _ := fixed.Get("config.js")
	assert.Equal(t, "const apiKey = process.env.API_KEY;\n", got)
}

func TestFix_SecretInPythonAddsImportOnce(t *testing.T) {
	src := "db_password = \"a\"\ntoken = \"b\"\n"
	fixes, _, fixed := fixAll(t, analysis.New(), map[string]string{"settings.py": src})
	require.Len(t, fixes, 2)
	got, _ := fixed.Get("settings.py")
	assert.Equal(t, "import os\ndb_password = os.environ.get(\"DB_PASSWORD\")\ntoken = os.environ.get(\"TOKEN\")\n", got)
}

func TestFix_PythonImportFollowsFutureImports(t *testing.T) {
	src := "from __future__ import annotations\napi_key = \"abc123\"\n"
	fixes, _, fixed := fixAll(t, analysis.New(), map[string]string{"app.py": src})
	require.Len(t, fixes, 1)
	got, _ := fixed.Get("app.py")
	assert.Equal(t, "from __future__ import annotations\nimport os\napi_key = os.environ.get(\"API_KEY\")\n", got)
}

func TestFix_PythonImportFollowsDocstring(t *testing.T) {
	src := "#!/usr/bin/env python\n\"\"\"Settings.\n\nLoaded at startup.\n\"\"\"\nfrom __future__ import (\n    annotations,\n)\n\ntoken = \"b\"\n"
	fixes, _, fixed := fixAll(t, analysis.New(), map[string]string{"settings.py": src})
	require.Len(t, fixes, 1)
	got, _ := fixed.Get("settings.py")
	want := "#!/usr/bin/env python\n\"\"\"Settings.\n\nLoaded at startup.\n\"\"\"\nfrom __future__ import (\n    annotations,\n)\nimport os\n\ntoken = os.environ.get(\"TOKEN\")\n"
	assert.Equal(t, want, got)
}

func TestFix_KeepsCRLFLineEndings(t *testing.T) {
	src := "let a = 1;\r\nvar x = 1;\r\nlet b = 2;\r\n"
	fixes, _, fixed := fixAll(t, analysis.New(), map[string]string{"index.js": src})
	require.Len(t, fixes, 1)
	assert.Equal(t, src, fixes[0].Original)
	assert.Equal(t, "let a = 1;\r\nlet x = 1;\r\nlet b = 2;\r\n", fixes[0].Fixed)
	got, _ := fixed.Get("index.js")
	assert.Equal(t, fixes[0].Fixed, got)
}

func TestFix_GoSecretNeedsOsImport(t *testing.T) {
	sink := &domain.RecordingSink{}
	r := analysis.New(analysis.WithEventSink(sink))

	fixes, _, _ := fixAll(t, r, map[string]string{"main.go": "package main\n\nfunc main() {\n\tapiToken := \"abc\"\n\t_ = apiToken\n}\n"})
	assert.Empty(t, fixes)
	assert.Contains(t, sink.Kinds(), domain.EventFixSkipped)

	withOS := "package main\n\nimport \"os\"\n\nfunc main() {\n\tapiToken := \"abc\"\n\t_ = apiToken\n\t_ = os.Args\n}\n"
	fixes, _, fixed := fixAll(t, r, map[string]string{"main.go": withOS})
	require.Len(t, fixes, 1)
	got, _ := fixed.Get("main.go")
	assert.Contains(t, got, "apiToken := os.Getenv(\"API_TOKEN\")")
}

func TestFix_ComposeTabs(t *testing.T) {
	r := analysis.New()
	fixes, _, fixed := fixAll(t, r, map[string]string{"docker-compose.yml": "services:\n\tapp:\n\t\timage: node\n"})
	require.Len(t, fixes, 1)
	got, _ := fixed.Get("docker-compose.yml")
	assert.Equal(t, "services:\n  app:\n    image: node\n", got)

	docker := runWith(t, r, analysis.Input{Files: fixed})[analysis.SuiteDockerID]
	assert.Empty(t, docker.Errors)
}

func TestFix_SkipsUnknownFilesAndRules(t *testing.T) {
	sink := &domain.RecordingSink{}
	r := analysis.New(analysis.WithEventSink(sink))
	snap := domain.NewSnapshot(map[string]string{"a.js": "var a;\n"})

	errs := []domain.TestError{
		{File: "missing.js", Line: domain.IntPtr(1), Rule: analysis.RuleNoVar, Fixable: true},
		{File: "a.js", Line: domain.IntPtr(1), Rule: analysis.RuleNoTodo, Fixable: true},
		{File: "a.js", Line: domain.IntPtr(1), Rule: analysis.RuleNoVar, Fixable: false},
	}
	fixes, out := r.Fix(errs, snap)

	assert.Empty(t, fixes)
	assert.Equal(t, snap.Map(), out.Map())
	assert.Equal(t, []string{domain.EventFixSkipped, domain.EventFixSkipped}, sink.Kinds())
}

func TestFix_DuplicateErrorsApplyOnce(t *testing.T) {
	snap := domain.NewSnapshot(map[string]string{"a.js": "var a = 1;\n"})
	e := domain.TestError{File: "a.js", Line: domain.IntPtr(1), Rule: analysis.RuleNoVar, Fixable: true}

	fixes, out := analysis.New().Fix([]domain.TestError{e, e}, snap)
	require.Len(t, fixes, 1)
	got, _ := out.Get("a.js")
	assert.Equal(t, "let a = 1;\n", got)
}

func TestHasTransform(t *testing.T) {
	for _, rule := range []string{
		analysis.RuleNoConsole, analysis.RuleNoVar, analysis.RuleEqeqeq,
		analysis.RuleHardcodedSecret, analysis.RuleComposeSyntax,
	} {
		assert.True(t, analysis.HasTransform(rule), rule)
	}
	assert.False(t, analysis.HasTransform(analysis.RuleNoTodo))
	assert.False(t, analysis.HasTransform(analysis.RuleBuildScript))
}
