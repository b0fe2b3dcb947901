package analysis

import (
	"path"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain/stack"
)

// Well-known artifact paths.
const (
	DockerfilePath = "Dockerfile"
	ComposePath    = "docker-compose.yml"
)

var composePaths = []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"}

func isJS(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts":
		return true
	}
	return false
}

func isPython(p string) bool { return strings.ToLower(path.Ext(p)) == ".py" }

func isGo(p string) bool { return strings.ToLower(path.Ext(p)) == ".go" }

// isCode reports whether the path is a source file of a known programming language.
func isCode(p string) bool {
	switch stack.LanguageOf(p) {
	case "", "markdown", "json", "yaml", "text":
		return false
	}
	return true
}

func lineComment(p string) string {
	switch stack.LanguageOf(p) {
	case "python", "ruby":
		return "#"
	}
	return "//"
}

func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// lineCount counts lines the way editors do: a final newline ends the last line
// rather than starting an empty one.
func lineCount(content string) int {
	if content == "" {
		return 0
	}
	content = strings.TrimSuffix(strings.TrimSuffix(content, "\n"), "\r")
	return len(splitLines(content))
}

// lineEnding reports the terminator the file uses so rewritten content keeps it.
func lineEnding(content string) string {
	if strings.Contains(content, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// maskCode blanks string literal contents and trailing line comments so patterns only
// match code. Quotes are kept and positions are preserved.
func maskCode(line, comment string) string {
	out := []byte(line)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		if quote != 0 {
			if c == '\\' && i+1 < len(out) {
				out[i], out[i+1] = ' ', ' '
				i++
				continue
			}
			if c == quote {
				quote = 0
				continue
			}
			out[i] = ' '
			continue
		}
		switch {
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case strings.HasPrefix(line[i:], comment):
			for j := i; j < len(out); j++ {
				out[j] = ' '
			}
			return string(out)
		}
	}
	return string(out)
}

// dockerfileSource returns the Dockerfile to inspect: the repository's own when present,
// otherwise the generated one.
func dockerfileSource(in Input) (string, string, bool) {
	if content, ok := in.Files.Get(DockerfilePath); ok {
		return DockerfilePath, content, true
	}
	if in.Generated.Dockerfile != "" {
		return DockerfilePath, in.Generated.Dockerfile, true
	}
	return "", "", false
}

func composeSource(in Input) (string, string, bool) {
	for _, p := range composePaths {
		if content, ok := in.Files.Get(p); ok {
			return p, content, true
		}
	}
	if in.Generated.DockerCompose != "" {
		return ComposePath, in.Generated.DockerCompose, true
	}
	return "", "", false
}
