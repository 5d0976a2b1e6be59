// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talent-match/internal/types"
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

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// bar renders a 0-100 score as a 20-cell gauge
func bar(score int) string {
	filled := max(0, min(score, 100)) / 5
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}

func writeBreakdown(sb *strings.Builder, b types.Breakdown) {
	sb.WriteString(fmt.Sprintf("Skills:     %s %3d\n", bar(b.SkillsOverlap), b.SkillsOverlap))
	sb.WriteString(fmt.Sprintf("Language:   %s %3d\n", bar(b.LanguageMatch), b.LanguageMatch))
	sb.WriteString(fmt.Sprintf("Readiness:  %s %3d\n", bar(b.Readiness), b.Readiness))
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	count := min(len(items), maxItemsToShow)
	sb.WriteString(fmt.Sprintf("%s %s", label, strings.Join(items[:count], ", ")))
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf(" (+%d)", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintMatchResult outputs a single candidate's score and breakdown.
func (p *Printer) PrintMatchResult(candidateID string, result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate:  %s\n", candidateID))
	sb.WriteString(fmt.Sprintf("Score:      %d\n\n", result.Score))
	writeBreakdown(&sb, result.Breakdown)
	if len(result.MatchedSkills) > 0 || len(result.MissingSkills) > 0 {
		sb.WriteString("\n")
	}
	writeList(&sb, "Matched:", result.MatchedSkills)
	writeList(&sb, "Missing:", result.MissingSkills)

	p.printBox("MATCH SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankedCandidates outputs the top N ranked candidates and any skipped records.
func (p *Printer) PrintRankedCandidates(ranked *types.RankedCandidates) {
	if ranked == nil || (len(ranked.Ranked) == 0 && len(ranked.Skipped) == 0) {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", len(ranked.Ranked)))

	count := min(len(ranked.Ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := ranked.Ranked[i]
		sb.WriteString(fmt.Sprintf("#%d  %s", c.Rank, c.CandidateID))
		if c.Name != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", c.Name))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    Score: %d  [S %d / L %d / R %d]\n",
			c.Result.Score, c.Result.Breakdown.SkillsOverlap, c.Result.Breakdown.LanguageMatch, c.Result.Breakdown.Readiness))
	}
	if len(ranked.Ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates\n", len(ranked.Ranked)-maxItemsToShow))
	}

	if len(ranked.Skipped) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkipped %d invalid records:\n", len(ranked.Skipped)))
		for _, s := range ranked.Skipped {
			id := s.CandidateID
			if id == "" {
				id = fmt.Sprintf("record %d", s.Index)
			}
			sb.WriteString(fmt.Sprintf("⚠ %s: %s\n", id, s.Reason))
		}
	}

	p.printBox("RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillGap outputs matching and missing skills by priority.
func (p *Printer) PrintSkillGap(gap *types.SkillGap) {
	if gap == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate:  %s\n", gap.CandidateID))
	sb.WriteString(fmt.Sprintf("Coverage:   %s %3d\n\n", bar(gap.Score), gap.Score))
	writeList(&sb, "Matching:", gap.Matching)

	if len(gap.Missing) > 0 {
		sb.WriteString("Gaps:\n")
		for _, item := range gap.Missing {
			line := fmt.Sprintf("  [%s] %s", item.Priority, item.Skill)
			if item.Required != "" {
				have := item.Have
				if have == "" {
					have = "none"
				}
				line += fmt.Sprintf(" (%s → %s)", have, item.Required)
			}
			sb.WriteString(line + "\n")
		}
	}

	p.printBox("SKILL GAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobReadiness outputs the candidate self-view readiness report.
func (p *Printer) PrintJobReadiness(r *types.JobReadiness) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate:     %s\n", r.CandidateID))
	sb.WriteString(fmt.Sprintf("Score:         %d (%s)\n", r.Score, strings.ReplaceAll(r.Level, "_", " ")))
	sb.WriteString(fmt.Sprintf("Completeness:  %d%%\n\n", r.Completeness))
	writeBreakdown(&sb, r.Breakdown)

	p.printBox("JOB READINESS", strings.TrimSuffix(sb.String(), "\n"))
}
