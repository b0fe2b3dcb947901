package domain

import (
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

// EnvVarName normalises an identifier such as "apiKey", "db-password" or
// "DATABASE_URL" into an upper snake case environment variable name.
func EnvVarName(identifier string) string {
	parts := strings.FieldsFunc(identifier, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var words []string
	for _, part := range parts {
		for _, w := range camelcase.Split(part) {
			if w == "" {
				continue
			}
			// Digits stick to the word before them: oauth2Token -> OAUTH2_TOKEN.
			if isDigits(w) && len(words) > 0 {
				words[len(words)-1] += w
				continue
			}
			words = append(words, strings.ToUpper(w))
		}
	}
	return strings.Join(words, "_")
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
