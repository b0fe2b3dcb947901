package stack

import (
	"path"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// extensionLanguages maps a lower-case file extension to its language bucket.
var extensionLanguages = map[string]string{
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".mts":   "typescript",
	".py":    "python",
	".go":    "go",
	".java":  "java",
	".kt":    "kotlin",
	".rs":    "rust",
	".rb":    "ruby",
	".php":   "php",
	".cs":    "csharp",
	".cpp":   "cpp",
	".cc":    "cpp",
	".c":     "c",
	".h":     "c",
	".swift": "swift",
	".scala": "scala",
	".md":    "markdown",
	".json":  "json",
	".yml":   "yaml",
	".yaml":  "yaml",
	".txt":   "text",
}

// genericBuckets never vote for the primary language.
var genericBuckets = map[string]bool{
	"markdown": true,
	"json":     true,
	"yaml":     true,
	"text":     true,
}

// LanguageOf returns the language bucket of a path, or "" when its extension is unknown.
func LanguageOf(p string) string {
	return extensionLanguages[strings.ToLower(path.Ext(p))]
}

// DetectLanguage returns the language with the most files. Ties go to the language
// seen first in input order. Directories are ignored.
func DetectLanguage(files []domain.FileEntry) string {
	counts := map[string]int{}
	var order []string
	for _, f := range files {
		if f.Kind == domain.KindDir {
			continue
		}
		lang := LanguageOf(f.Path)
		if lang == "" || genericBuckets[lang] {
			continue
		}
		if counts[lang] == 0 {
			order = append(order, lang)
		}
		counts[lang]++
	}

	best, bestCount := domain.UnknownLanguage, 0
	for _, lang := range order {
		if counts[lang] > bestCount {
			best, bestCount = lang, counts[lang]
		}
	}
	return best
}
