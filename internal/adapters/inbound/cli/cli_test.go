package cli_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipkraft/shipkraft/internal/adapters/inbound/cli"
	"github.com/shipkraft/shipkraft/internal/domain"
)

const (
	nodeFixture   = "../../../../testdata/repos/node-next"
	pythonFixture = "../../../../testdata/repos/python-flask"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCommandsExist(t *testing.T) {
	for _, name := range []string{"analyze", "generate", "validate", "test", "fix", "report", "mcp", "version"} {
		t.Run(name, func(t *testing.T) {
			_, _, err := run(t, name, "--help")
			assert.NoError(t, err)
		})
	}
	_, _, err := run(t, "mcp", "serve", "--help")
	assert.NoError(t, err)
}

func TestRootHasGlobalFlags(t *testing.T) {
	root := cli.NewRootCmdForTest()
	for _, name := range []string{"git", "rev", "verbose"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "shipkraft dev")
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	out, _, err := run(t, "analyze", nodeFixture, "--json")
	require.NoError(t, err)

	var stack domain.StackAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &stack))
	assert.Equal(t, "javascript", stack.PrimaryLanguage)
	assert.Equal(t, "Next.js", stack.Framework)
	assert.True(t, stack.HasDatabase(domain.DatabasePostgres))
}

func TestAnalyzeCommand_TUI(t *testing.T) {
	out, _, err := run(t, "analyze", pythonFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Stack Analysis")
	assert.Contains(t, out, "python")
	assert.Contains(t, out, "Flask")
}

func TestAnalyzeCommand_MissingPath(t *testing.T) {
	_, _, err := run(t, "analyze", "../../../../testdata/repos/does-not-exist")
	assert.Error(t, err)
}

func TestGenerateCommand_Only(t *testing.T) {
	out, _, err := run(t, "generate", nodeFixture, "--only", "dockerfile")
	require.NoError(t, err)
	assert.Contains(t, out, "FROM node:")
	assert.NotContains(t, out, "# ---- ")
}

func TestGenerateCommand_AllArtifacts(t *testing.T) {
	out, _, err := run(t, "generate", nodeFixture)
	require.NoError(t, err)
	for _, title := range []string{"Dockerfile", "docker-compose.yml", ".dockerignore", "README.md"} {
		assert.Contains(t, out, "# ---- "+title+" ----")
	}
}

func TestGenerateCommand_UnknownArtifact(t *testing.T) {
	_, _, err := run(t, "generate", nodeFixture, "--only", "helm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown artifact")
}

func TestValidateCommand_JSON(t *testing.T) {
	out, _, err := run(t, "validate", nodeFixture, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"is_valid"`)
	assert.Contains(t, out, `"checks"`)
}

func TestValidateCommand_CIFails(t *testing.T) {
	_, _, err := run(t, "validate", nodeFixture, "--ci", "--min", "101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below minimum 101")
}

func TestValidateCommand_CIPasses(t *testing.T) {
	_, _, err := run(t, "validate", nodeFixture, "--ci", "--min", "0")
	assert.NoError(t, err)
}

func TestTestCommand_JSON(t *testing.T) {
	out, _, err := run(t, "test", nodeFixture, "--json")
	require.NoError(t, err)

	var suites []domain.TestSuite
	require.NoError(t, json.Unmarshal([]byte(out), &suites))
	assert.Len(t, suites, 5)
	assert.Positive(t, domain.CountErrors(suites))
}

func TestFixCommand_PrintsFixes(t *testing.T) {
	out, _, err := run(t, "fix", nodeFixture)
	require.NoError(t, err)

	var fixes []domain.CodeFix
	require.NoError(t, json.Unmarshal([]byte(out), &fixes))
	require.NotEmpty(t, fixes)

	var sawVar bool
	for _, f := range fixes {
		assert.NotEqual(t, f.Original, f.Fixed)
		if f.File == "pages/index.js" && strings.Contains(f.Fixed, "let title") {
			sawVar = true
		}
	}
	assert.True(t, sawVar, "var declaration in pages/index.js is rewritten")
}

func TestReportCommand_JSONWithMetrics(t *testing.T) {
	out, stderr, err := run(t, "report", pythonFixture, "--json", "--fix", "--metrics")
	require.NoError(t, err)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "python", report.Stack.PrimaryLanguage)
	assert.NotNil(t, report.SuitesAfterFix)
	assert.Contains(t, stderr, "shipkraft_events_total")
}

func TestReportCommand_TUI(t *testing.T) {
	out, _, err := run(t, "report", nodeFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Repository Health")
	assert.Contains(t, out, "Static analysis")
}
