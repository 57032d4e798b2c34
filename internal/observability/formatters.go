// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/job-tracker/internal/scoring"
	"github.com/jonathan/job-tracker/internal/types"
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
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintListing outputs a human-readable summary of a listing after intake.
func (p *Printer) PrintListing(listing *types.Listing) {
	if listing == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title:    %s\n", listing.Title))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", listing.Company))
	if listing.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", listing.Location))
	}
	if listing.Source != "" {
		sb.WriteString(fmt.Sprintf("Source:   %s\n", listing.Source))
	}
	sb.WriteString("\n")

	if listing.SalaryMin != nil || listing.SalaryMax != nil {
		sb.WriteString("Salary:   ")
		if listing.SalaryMin != nil {
			sb.WriteString(listing.SalaryMin.StringFixed(0))
		}
		if listing.SalaryMax != nil {
			sb.WriteString(" - " + listing.SalaryMax.StringFixed(0))
		}
		sb.WriteString(" (annualized)\n")
	} else if listing.SalaryText != "" {
		sb.WriteString(fmt.Sprintf("Salary:   %s (unparsed)\n", listing.SalaryText))
	}

	sb.WriteString(fmt.Sprintf("Remote:   %t\n", listing.IsRemote))
	sb.WriteString(fmt.Sprintf("Interest: %s\n", listing.Interest))
	sb.WriteString(fmt.Sprintf("Fit:      %s (score %d)", listing.Suitability, listing.SuitabilityScore))

	p.printBox("LISTING", sb.String())
}

// PrintRuleEvaluation outputs the matched rules, resolved values and any
// diagnostics from one rule-engine pass.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRuleEvaluation(eval *types.RuleEvaluation) {
	if eval == nil {
		return
	}
	if eval.Empty() && len(eval.Diagnostics) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO RULES MATCHED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Matched %d rules:\n", len(eval.Matched)))

	count := min(len(eval.Matched), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", eval.Matched[i]))
	}
	if len(eval.Matched) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(eval.Matched)-maxItemsToShow))
	}
	sb.WriteString("\n")

	if eval.Interest != nil {
		sb.WriteString(fmt.Sprintf("Interest:    %s (by %q)\n", *eval.Interest, eval.InterestRule))
	}
	if eval.Suitability != nil {
		sb.WriteString(fmt.Sprintf("Suitability: %s (by %q)\n", *eval.Suitability, eval.SuitabilityRule))
	}
	if eval.Remote != nil {
		sb.WriteString(fmt.Sprintf("Remote:      %t (by %q)\n", *eval.Remote, eval.RemoteRule))
	}

	if len(eval.Diagnostics) > 0 {
		sb.WriteString("\nDiagnostics:\n")
		count := min(len(eval.Diagnostics), 3)
		for i := 0; i < count; i++ {
			d := eval.Diagnostics[i]
			if len(d) > 50 {
				d = d[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", d))
		}
		if len(eval.Diagnostics) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(eval.Diagnostics)-3))
		}
	}

	p.printBox("RULE EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScoreBreakdown outputs the per-factor points behind a suitability
// score, highest factor first.
func (p *Printer) PrintScoreBreakdown(score int, breakdown scoring.Breakdown) {
	if len(breakdown) == 0 {
		return
	}

	factors := make([]string, 0, len(breakdown))
	for name := range breakdown {
		factors = append(factors, name)
	}
	sort.Slice(factors, func(i, j int) bool {
		if breakdown[factors[i]] != breakdown[factors[j]] {
			return breakdown[factors[i]] > breakdown[factors[j]]
		}
		return factors[i] < factors[j]
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall score: %d/100\n\n", score))
	for _, name := range factors {
		sb.WriteString(fmt.Sprintf("  %-10s %6.1f\n", name, breakdown[name]))
	}

	p.printBox("SCORE BREAKDOWN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFieldChanges outputs what a rule pass changed on a listing.
func (p *Printer) PrintFieldChanges(changes []types.FieldChange) {
	if len(changes) == 0 {
		return
	}

	var sb strings.Builder
	for i, c := range changes {
		desc := c.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s: %s → %s\n", c.Field, c.Old, c.New))
		sb.WriteString(fmt.Sprintf("  %s\n", desc))
		if i < len(changes)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("APPLIED CHANGES", strings.TrimSuffix(sb.String(), "\n"))
}
