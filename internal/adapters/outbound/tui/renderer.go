package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// ── warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A": success,
		"B": lipgloss.Color("#A3E635"), // lime
		"C": warning,
		"D": lipgloss.Color("#FB923C"), // orange
		"F": danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// checkCategories is the display order of validation checks.
var checkCategories = []string{
	domain.CheckStructure,
	domain.CheckDependencies,
	domain.CheckConfiguration,
	domain.CheckSecurity,
	domain.CheckPerformance,
}

// RenderValidation renders a validation result as a score box followed by the checks
// grouped by category and the recommendations.
func RenderValidation(r domain.ValidationResult) string {
	var b strings.Builder

	// ── Header ──
	grade := Grade(r.Score)
	title := headerStyle.Render("shipkraft")
	subtitle := dimStyle.Render("Repository Health")
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(fmt.Sprintf("%d / 100", r.Score))
	gradeStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(grade)
	verdict := failStyle.Render("not ready")
	if r.IsValid {
		verdict = passStyle.Render("ready")
	}

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreStyled + "  " + gradeStyled + "\n" + verdict))
	b.WriteString("\n\n")

	// ── Checks ──
	for _, cat := range checkCategories {
		checks := checksIn(r.Checks, cat)
		if len(checks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", catNameStyle.Render(padRight(cat, 20)), dimStyle.Render(fmt.Sprintf("(%d)", len(checks))))
		for _, c := range checks {
			renderCheck(&b, c)
		}
		b.WriteString("\n")
	}

	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Recommendations ──
	if len(r.Recommendations) > 0 {
		b.WriteString("  " + titleStyle.Render("Recommendations") + "\n\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "    %s %s\n", warnStyle.Render("→"), dimStyle.Render(rec))
		}
	} else {
		b.WriteString("  " + passStyle.Render("No recommendations.") + "\n")
	}

	if dv := r.DockerValidation; dv != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			titleStyle.Render("Container"),
			dimStyle.Render(fmt.Sprintf("~%d MB", dv.EstimatedSizeMB)),
			dimStyle.Render(fmt.Sprintf("~%.0fs build", dv.EstimatedBuildSeconds)),
		)
		for _, issue := range dv.SecurityIssues {
			fmt.Fprintf(&b, "    %s %s\n", errorTagStyle.Render("sec  "), dimStyle.Render(issue))
		}
		for _, opt := range dv.Optimizations {
			fmt.Fprintf(&b, "    %s %s\n", infoTagStyle.Render("tip  "), dimStyle.Render(opt))
		}
	}

	b.WriteString("\n")
	return b.String()
}

func checksIn(checks []domain.ValidationCheck, category string) []domain.ValidationCheck {
	var out []domain.ValidationCheck
	for _, c := range checks {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

func renderCheck(b *strings.Builder, c domain.ValidationCheck) {
	name := padRight(c.Name, 34)

	var icon string
	switch c.Status {
	case domain.CheckPass:
		icon = passStyle.Render("●")
	case domain.CheckWarning:
		icon = warnStyle.Render("●")
	case domain.CheckFail:
		icon = failStyle.Render("●")
	default:
		fmt.Fprintf(b, "    %s %s %s\n", skipStyle.Render("○"), skipStyle.Render(name), skipStyle.Render(c.Message))
		return
	}

	fmt.Fprintf(b, "    %s %s %s\n", icon, name, faintStyle.Render(c.Message))
}

// Grade maps a 0-100 score to a letter.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func coloredBar(score, width int) string {
	filled := max(0, min(score*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lipgloss.Color("#A3E635") // lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return ".../" + strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return fg
}
