package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// RenderStack renders the inferred stack as an aligned key/value block.
func RenderStack(a domain.StackAnalysis) string {
	var b strings.Builder
	b.WriteString(boxStyle.Render(headerStyle.Render("shipkraft") + "\n" + dimStyle.Render("Stack Analysis")))
	b.WriteString("\n\n")

	row := func(key, value string) {
		if value == "" {
			value = faintStyle.Render("-")
		}
		fmt.Fprintf(&b, "  %s %s\n", catNameStyle.Render(padRight(key, 18)), value)
	}

	row("language", a.PrimaryLanguage)
	row("framework", a.Framework)
	row("runtime", a.Runtime)
	row("package manager", a.PackageManager)
	row("build tool", a.BuildTool)
	row("test framework", a.TestFramework)
	row("databases", strings.Join(a.Database, ", "))
	row("linting", strings.Join(a.Linting, ", "))
	row("styling", strings.Join(a.Styling, ", "))
	row("dependencies", fmt.Sprintf("%d runtime, %d dev", len(a.Dependencies), len(a.DevDependencies)))

	if len(a.Scripts) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Scripts") + "\n")
		names := make([]string, 0, len(a.Scripts))
		for n := range a.Scripts {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(&b, "    %s %s\n", fileStyle.Render(padRight(n, 14)), a.Scripts[n])
		}
	}
	b.WriteString("\n")
	return b.String()
}

// RenderReport renders a full pipeline report.
func RenderReport(r *domain.Report) string {
	var b strings.Builder
	b.WriteString(RenderStack(r.Stack))
	b.WriteString(RenderValidation(r.Validation))

	source := "deterministic generator"
	if r.EnrichmentUsed {
		source = "enrichment service"
	}
	fmt.Fprintf(&b, "  %s %s  %s\n\n",
		sectionHeaderStyle.Render("Artifacts"),
		dimStyle.Render("from "+source),
		coloredBar(r.Validation.Score, 20),
	)

	b.WriteString(RenderSuites("Static analysis", r.Suites))
	if r.Fixes != nil {
		b.WriteString(RenderFixes(r.Fixes, r.Suites, r.SuitesAfterFix))
	}
	if r.SuitesAfterFix != nil {
		b.WriteString("\n" + RenderSuites("After fixes", r.SuitesAfterFix))
	}

	footer := fmt.Sprintf("run %s · %d files", r.RunID, r.Files)
	if r.CommitHash != "" {
		hash := r.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		footer += " · " + hash
	}
	b.WriteString("  " + faintStyle.Render(footer) + "\n")
	return b.String()
}
