package parser_test

import (
	"testing"

	"github.com/shipkraft/shipkraft/internal/adapters/outbound/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Supports(t *testing.T) {
	p := parser.New()
	for _, f := range []string{"a.js", "b.JSX", "src/c.ts", "d.tsx", "e.mjs", "main.go"} {
		assert.True(t, p.Supports(f), f)
	}
	for _, f := range []string{"a.py", "Dockerfile", "package.json", "README.md"} {
		assert.False(t, p.Supports(f), f)
	}
}

func TestParser_ValidJavaScriptAndJSX(t *testing.T) {
	p := parser.New()
	assert.Empty(t, p.Parse("index.js", "const a = 1;\nexport default function App() { return <div>{a}</div>; }\n"))
	assert.Empty(t, p.Parse("util.mjs", "export const add = (a, b) => a + b;\n"))
}

func TestParser_JavaScriptSyntaxError(t *testing.T) {
	issues := parser.New().Parse("index.js", "const a = 1;\nconst b = ;\n")
	require.NotEmpty(t, issues)
	assert.Equal(t, 2, issues[0].Line)
	assert.Greater(t, issues[0].Column, 0)
	assert.NotEmpty(t, issues[0].Message)
}

func TestParser_TypeScript(t *testing.T) {
	p := parser.New()
	assert.Empty(t, p.Parse("a.ts", "interface User { id: number }\nexport const f = <T,>(x: T): T => x;\n"))

	issues := p.Parse("a.ts", "let x: number = ;\n")
	require.NotEmpty(t, issues)
	assert.Equal(t, 1, issues[0].Line)
}

func TestParser_Go(t *testing.T) {
	p := parser.New()
	assert.Empty(t, p.Parse("main.go", "package main\n\nfunc main() {}\n"))

	issues := p.Parse("main.go", "package main\n\nfunc main() {\n\tx := \n}\n")
	require.NotEmpty(t, issues)
	assert.Equal(t, 5, issues[0].Line)
	assert.Equal(t, 1, issues[0].Column)
}

func TestParser_UnsupportedFileYieldsNothing(t *testing.T) {
	assert.Nil(t, parser.New().Parse("app.py", "def f(:\n"))
}
