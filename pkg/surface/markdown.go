package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/medmatch/medmatch/pkg/scoring"
)

// MarkdownRenderer renders a Report as a markdown summary suitable for
// pasting into tickets or chat.
type MarkdownRenderer struct {
	// MaxRows limits the results table. Zero means 10.
	MaxRows int
}

func (r *MarkdownRenderer) Render(w io.Writer, report *Report) error {
	_, err := io.WriteString(w, r.build(report))
	return err
}

func (r *MarkdownRenderer) build(report *Report) string {
	maxRows := r.MaxRows
	if maxRows <= 0 {
		maxRows = 10
	}
	s := report.Summary

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## medmatch: %s\n\n", orDash(report.Medicine)))
	if report.Location != "" {
		sb.WriteString(fmt.Sprintf("Requested near **%s**.\n\n", report.Location))
	}

	// Summary counts
	sb.WriteString("### Summary\n\n")
	sb.WriteString("| Metric | Count |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Donations | %d |\n", s.Total))
	sb.WriteString(fmt.Sprintf("| Recommended | %d |\n", s.Recommended))
	sb.WriteString(fmt.Sprintf("| Flagged | %d |\n", s.Flagged))
	sb.WriteString(fmt.Sprintf("| Unmatched | %d |\n", s.Unmatched))
	sb.WriteString(fmt.Sprintf("| Top match score | %d |\n", s.TopMatchScore))
	sb.WriteString("\n")

	if len(report.Matches) == 0 {
		return sb.String()
	}

	sb.WriteString("### Matches\n\n")
	sb.WriteString("| | Medicine | Qty | Expiry | Donor | Match | Fraud | Issues |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|\n")
	for i, m := range report.Matches {
		if i >= maxRows {
			sb.WriteString(fmt.Sprintf("\n_... and %d more matches_\n", len(report.Matches)-maxRows))
			break
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %d | %d | %s |\n",
			recommendIcon(m), cell(m.MedicineName.Text()), cell(m.Quantity.Text()),
			cell(m.ExpiryDate.Text()), cell(donorLabel(m)), m.MatchScore, m.FraudScore,
			cell(strings.Join(m.FraudIssues, ", "))))
	}

	return sb.String()
}

func recommendIcon(m scoring.RankedResult) string {
	switch {
	case m.Recommended:
		return ":green_circle:"
	case m.MatchScore > 0:
		return ":yellow_circle:"
	default:
		return ":white_circle:"
	}
}

// cell escapes a value for a markdown table cell.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
