// Package parser reports syntax errors with real parsers: esbuild for JavaScript and
// TypeScript, go/parser for Go.
package parser

import (
	"path"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Parser implements domain.SourceParser.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Supports(filePath string) bool {
	ext := strings.ToLower(path.Ext(filePath))
	if ext == ".go" {
		return true
	}
	_, ok := jsLoaders[ext]
	return ok
}

// Parse returns every syntax error in content. Unsupported files yield nothing.
func (p *Parser) Parse(filePath, content string) []domain.SyntaxIssue {
	ext := strings.ToLower(path.Ext(filePath))
	if ext == ".go" {
		return parseGo(filePath, content)
	}
	if loader, ok := jsLoaders[ext]; ok {
		return parseJS(filePath, content, loader)
	}
	return nil
}
