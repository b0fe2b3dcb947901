package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shipkraft/shipkraft/internal/domain"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// maxFindingsPerSuite bounds how many findings are listed under one suite.
const maxFindingsPerSuite = 15

// RenderSuites renders one line per suite followed by its findings.
func RenderSuites(title string, suites []domain.TestSuite) string {
	var b strings.Builder

	errs, warns := 0, 0
	for _, s := range suites {
		errs += len(s.Errors)
		warns += len(s.Warnings)
	}
	fmt.Fprintf(&b, "  %s  ", sectionHeaderStyle.Render(title))
	if errs == 0 && warns == 0 {
		b.WriteString(passStyle.Render("clean"))
	}
	if errs > 0 {
		b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d errors", errs)) + "  ")
	}
	if warns > 0 {
		b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d warnings", warns)))
	}
	b.WriteString("\n\n")

	for _, s := range suites {
		renderSuite(&b, s)
	}
	return b.String()
}

func renderSuite(b *strings.Builder, s domain.TestSuite) {
	var icon string
	switch s.Status {
	case domain.StatusPassed:
		icon = passStyle.Render("✓")
	case domain.StatusFailed:
		icon = failStyle.Render("✗")
	default:
		icon = skipStyle.Render("○")
	}
	counts := dimStyle.Render(fmt.Sprintf("%d errors, %d warnings", len(s.Errors), len(s.Warnings)))
	fmt.Fprintf(b, "  %s %s %s\n", icon, catNameStyle.Render(padRight(s.Name, 24)), counts)

	shown := 0
	for _, e := range sortedErrors(s.Errors) {
		if shown == maxFindingsPerSuite {
			break
		}
		renderFinding(b, severityTag(e.Severity), location(e.File, e.Line), e.Message, e.Fixable)
		shown++
	}
	for _, w := range s.Warnings {
		if shown == maxFindingsPerSuite {
			break
		}
		renderFinding(b, warnTagStyle.Render("warn "), location(w.File, w.Line), w.Message, false)
		shown++
	}
	if rest := len(s.Errors) + len(s.Warnings) - shown; rest > 0 {
		fmt.Fprintf(b, "      %s\n", faintStyle.Render(fmt.Sprintf("… %d more", rest)))
	}
	for _, sug := range s.Suggestions {
		fmt.Fprintf(b, "      %s\n", hintStyle.Render(sug))
	}
	b.WriteString("\n")
}

func renderFinding(b *strings.Builder, tag, loc, msg string, fixable bool) {
	line := fmt.Sprintf("    %s %s", tag, fileStyle.Render(loc))
	if fixable {
		line += "  " + passStyle.Render("fixable")
	}
	b.WriteString(line + "\n")
	fmt.Fprintf(b, "          %s\n", dimStyle.Render(msg))
}

func severityTag(severity string) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

// sortedErrors orders errors by severity, keeping the suite order within a severity.
func sortedErrors(errs []domain.TestError) []domain.TestError {
	order := map[string]int{
		domain.SeverityError:   0,
		domain.SeverityWarning: 1,
		domain.SeverityInfo:    2,
	}
	out := make([]domain.TestError, len(errs))
	copy(out, errs)
	sort.SliceStable(out, func(i, j int) bool {
		return order[out[i].Severity] < order[out[j].Severity]
	})
	return out
}

func location(file string, line *int) string {
	if file == "" {
		return "(repository)"
	}
	file = shortenPath(file)
	if line == nil {
		return file
	}
	return fmt.Sprintf("%s:%d", file, *line)
}

// RenderFixes lists applied fixes and, when available, how the re-run compares.
func RenderFixes(fixes []domain.CodeFix, before, after []domain.TestSuite) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n\n",
		sectionHeaderStyle.Render("Fixes"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(fixes))),
	)
	if len(fixes) == 0 {
		b.WriteString("    " + dimStyle.Render("Nothing to fix automatically.") + "\n")
		return b.String()
	}
	for _, f := range fixes {
		fmt.Fprintf(&b, "    %s %s  %s\n", passStyle.Render("●"), fileStyle.Render(shortenPath(f.File)), f.Description)
	}
	if after != nil {
		pre, post := domain.CountErrors(before), domain.CountErrors(after)
		b.WriteString("\n")
		arrow := passStyle.Render(fmt.Sprintf("%d → %d errors", pre, post))
		if post >= pre {
			arrow = warnStyle.Render(fmt.Sprintf("%d → %d errors", pre, post))
		}
		fmt.Fprintf(&b, "    %s %s\n", dimStyle.Render("re-run:"), arrow)
	}
	b.WriteString("\n  " + hintStyle.Render("Fixes are applied in memory only; nothing was written to disk.") + "\n")
	return b.String()
}
