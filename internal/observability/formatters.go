// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mohanadbarakat001/ATS/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Truncate shortens a display string to at most limit runes, ending with an
// ellipsis when it was cut. Truncation never splits a multi-byte rune.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = Truncate(line, boxWidth-4)
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysisReport outputs a human-readable summary of the match analysis.
func (p *Printer) PrintAnalysisReport(analysis *types.AnalysisReport, targetRole string) {
	if analysis == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Target Role: %s\n", targetRole))
	sb.WriteString(fmt.Sprintf("Match Score: %d%%\n", analysis.MatchScore))
	sb.WriteString("\n")

	if len(analysis.FoundKeywords) > 0 {
		sb.WriteString("Found Keywords:\n")
		count := min(len(analysis.FoundKeywords), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.FoundKeywords[i]))
		}
		if len(analysis.FoundKeywords) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.FoundKeywords)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(analysis.MissingKeywords) > 0 {
		sb.WriteString("Missing Keywords:\n")
		count := min(len(analysis.MissingKeywords), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.MissingKeywords[i]))
		}
		if len(analysis.MissingKeywords) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.MissingKeywords)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(analysis.Recommendations) > 0 {
		sb.WriteString("Recommendations:\n")
		count := min(len(analysis.Recommendations), 3)
		for i := 0; i < count; i++ {
			rec := Truncate(analysis.Recommendations[i], 50)
			sb.WriteString(fmt.Sprintf("  • %s\n", rec))
		}
		if len(analysis.Recommendations) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.Recommendations)-3))
		}
	}

	p.printBox("MATCH ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumeOverview outputs the structure of the optimized resume.
func (p *Printer) PrintResumeOverview(doc *types.ResumeDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidate: %s\n", doc.Contact.FullName))
	summary := Truncate(doc.Summary, 50)
	sb.WriteString(fmt.Sprintf("Summary:   %s\n", summary))
	sb.WriteString("\n")

	if len(doc.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d entries):\n", len(doc.Experience)))
		count := min(len(doc.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := doc.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s @ %s (%d bullets)\n", exp.Role, exp.Company, len(exp.Bullets)))
		}
		if len(doc.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Education entries: %d\n", len(doc.Education)))
	sb.WriteString(fmt.Sprintf("Skills listed:     %d", len(doc.Skills)))
	if len(doc.Certifications) > 0 {
		sb.WriteString(fmt.Sprintf("\nCertifications:    %d", len(doc.Certifications)))
	}

	p.printBox("OPTIMIZED RESUME", sb.String())
}

// PrintHistoryEntry outputs a one-result summary used by the history listing.
func (p *Printer) PrintHistoryEntry(result *types.OptimizationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:          %s\n", result.ID))
	sb.WriteString(fmt.Sprintf("Created:     %s\n", HumanTime(result.CreatedAt)))
	sb.WriteString(fmt.Sprintf("Target Role: %s\n", result.TargetRole))
	sb.WriteString(fmt.Sprintf("Match Score: %d%%", result.Analysis.MatchScore))

	p.printBox("SAVED RESULT", sb.String())
}

// HumanTime renders a unix-millisecond timestamp as a relative age for recent
// results and as a date for older ones.
func HumanTime(unixMillis int64) string {
	t := time.UnixMilli(unixMillis)
	age := time.Since(t)

	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(age.Hours()))
	case age < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(age.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
