package domain_test

import (
	"testing"

	"github.com/shipkraft/shipkraft/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewStackAnalysis_Defaults(t *testing.T) {
	a := domain.NewStackAnalysis()
	assert.Equal(t, domain.UnknownLanguage, a.PrimaryLanguage)
	assert.NotNil(t, a.Dependencies)
	assert.NotNil(t, a.Scripts)
	assert.Empty(t, a.Database)
	assert.Equal(t, 0, a.DependencyCount())
}

func TestStackAnalysis_Helpers(t *testing.T) {
	a := domain.NewStackAnalysis()
	a.PrimaryLanguage = "typescript"
	a.Database = []string{domain.DatabaseRedis}
	a.Scripts["start"] = "node index.js"
	a.Dependencies = append(a.Dependencies, domain.Dependency{Name: "express"})
	a.DevDependencies = append(a.DevDependencies, domain.Dependency{Name: "jest"})

	assert.True(t, a.IsNode())
	assert.True(t, a.HasDatabase(domain.DatabaseRedis))
	assert.False(t, a.HasDatabase(domain.DatabasePostgres))
	assert.Equal(t, 2, a.DependencyCount())

	cmd, ok := a.Script("start")
	assert.True(t, ok)
	assert.Equal(t, "node index.js", cmd)
	_, ok = a.Script("build")
	assert.False(t, ok)
}

func TestFileEntries(t *testing.T) {
	entries := domain.FileEntries("a.go", "b/c.py")
	assert.Len(t, entries, 2)
	assert.Equal(t, domain.KindFile, entries[1].Kind)
	assert.Equal(t, "b/c.py", entries[1].Path)
}

func TestTestSuite_Finalize(t *testing.T) {
	s := domain.TestSuite{}
	s.Finalize()
	assert.Equal(t, domain.StatusPassed, s.Status)

	s.Warnings = append(s.Warnings, domain.TestWarning{Message: "w"})
	s.Finalize()
	assert.Equal(t, domain.StatusPassed, s.Status, "warnings never fail a suite")

	s.Errors = append(s.Errors, domain.TestError{Message: "e"})
	s.Finalize()
	assert.Equal(t, domain.StatusFailed, s.Status)
}

func TestFixableErrors_And_CountErrors(t *testing.T) {
	suites := []domain.TestSuite{
		{Errors: []domain.TestError{{Rule: "no-var", Fixable: true}, {Rule: "build-script"}}},
		{Errors: []domain.TestError{{Rule: "eqeqeq", Fixable: true, Line: domain.IntPtr(3)}}},
	}
	fixable := domain.FixableErrors(suites)
	assert.Len(t, fixable, 2)
	assert.Equal(t, "no-var", fixable[0].Rule)
	assert.Equal(t, 3, fixable[1].LineNumber())
	assert.Equal(t, 3, domain.CountErrors(suites))
	assert.Equal(t, 0, domain.TestError{}.LineNumber())
}

func TestValidationResult_CountStatus(t *testing.T) {
	r := domain.ValidationResult{Checks: []domain.ValidationCheck{
		{Status: domain.CheckPass}, {Status: domain.CheckFail}, {Status: domain.CheckPass},
	}}
	assert.Equal(t, 2, r.CountStatus(domain.CheckPass))
	assert.Equal(t, 1, r.CountStatus(domain.CheckFail))
	assert.Equal(t, 0, r.CountStatus(domain.CheckInfo))
}

func TestReport_Converged(t *testing.T) {
	failing := []domain.TestSuite{{Errors: []domain.TestError{{}, {}}}}
	assert.True(t, domain.Report{Suites: failing}.Converged())
	assert.True(t, domain.Report{Suites: failing, SuitesAfterFix: []domain.TestSuite{{Errors: []domain.TestError{{}}}}}.Converged())
	assert.False(t, domain.Report{Suites: failing, SuitesAfterFix: failing}.Converged())
}
