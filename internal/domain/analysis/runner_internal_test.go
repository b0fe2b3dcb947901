package analysis

import (
	"strings"
	"testing"

	"github.com/shipkraft/shipkraft/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSuite_PanicBecomesSuiteError(t *testing.T) {
	sink := &domain.RecordingSink{}
	r := New(WithEventSink(sink))

	spec := suiteSpec{
		id:   "boom",
		name: "Boom",
		typ:  domain.SuiteLint,
		run: func(_ *Runner, _ Input, s *domain.TestSuite) {
			s.Warnings = append(s.Warnings, domain.TestWarning{Message: "before"})
			panic("kaboom")
		},
	}
	suite := r.runSuite(spec, Input{})

	assert.Equal(t, domain.StatusFailed, suite.Status)
	require.Len(t, suite.Errors, 1)
	assert.Equal(t, RuleSuiteInternal, suite.Errors[0].Rule)
	assert.Contains(t, suite.Errors[0].Message, "kaboom")
	assert.Len(t, suite.Warnings, 1, "findings recorded before the crash are kept")
	assert.Equal(t, []string{domain.EventSuiteCrashed}, sink.Kinds())
}

func TestMaskCode(t *testing.T) {
	in := `x = "a==b" + 1 // var y`
	out := maskCode(in, "//")
	assert.Len(t, out, len(in))
	assert.Equal(t, `x = "    " + 1`, strings.TrimRight(out, " "))

	in = `s = 'a\'' # var`
	out = maskCode(in, "#")
	assert.Len(t, out, len(in))
	assert.Equal(t, `s = '   '`, strings.TrimRight(out, " "))
}

func TestLooseEqualities(t *testing.T) {
	assert.Equal(t, []int{2}, looseEqualities("a == b"))
	assert.Equal(t, []int{2}, looseEqualities("a != b"))
	assert.Empty(t, looseEqualities("a === b !== c <= d >= e => f"))
	assert.Empty(t, looseEqualities("a += b"))
}

func TestFindSecret(t *testing.T) {
	m, ok := findSecret(`  "clientSecret": "abc",`)
	require.True(t, ok)
	assert.Equal(t, "clientSecret", m.identifier)

	_, ok = findSecret(`password = ""`)
	assert.False(t, ok)
	_, ok = findSecret(`name = "x"`)
	assert.False(t, ok)
}
