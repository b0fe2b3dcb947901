package parser

import (
	"errors"
	goparser "go/parser"
	"go/scanner"
	"go/token"

	"github.com/shipkraft/shipkraft/internal/domain"
)

func parseGo(filePath, content string) []domain.SyntaxIssue {
	fset := token.NewFileSet()
	_, err := goparser.ParseFile(fset, filePath, content, goparser.AllErrors)
	if err == nil {
		return nil
	}

	var list scanner.ErrorList
	if !errors.As(err, &list) {
		return []domain.SyntaxIssue{{Message: err.Error()}}
	}
	issues := make([]domain.SyntaxIssue, 0, len(list))
	for _, e := range list {
		issues = append(issues, domain.SyntaxIssue{
			Line:    e.Pos.Line,
			Column:  e.Pos.Column,
			Message: e.Msg,
		})
	}
	return issues
}
