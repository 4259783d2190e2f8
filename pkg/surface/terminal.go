package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/medmatch/medmatch/pkg/scoring"
)

// TerminalRenderer renders a Report as the NGO dashboard view with colored
// terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func matchColor(r scoring.RankedResult) string {
	if noColor() {
		return ""
	}
	switch {
	case r.Recommended:
		return colorGreen
	case r.MatchScore > 0:
		return colorYellow
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

// group is one dashboard section.
type group struct {
	title   string
	results []scoring.RankedResult
}

// dashboardGroups splits results the way the NGO dashboard lists them.
// Ranking order is preserved within each group. Results with any other
// status, including a missing or null one, land in the last group so every
// ranked result is listed.
func dashboardGroups(results []scoring.RankedResult) []group {
	groups := []group{
		{title: "Recommended"},
		{title: "Other available"},
		{title: "Requested"},
		{title: "Delivered"},
		{title: "Other status"},
	}
	for _, r := range results {
		switch r.Status.Text() {
		case scoring.StatusAvailable:
			if r.Recommended {
				groups[0].results = append(groups[0].results, r)
			} else {
				groups[1].results = append(groups[1].results, r)
			}
		case scoring.StatusRequested:
			groups[2].results = append(groups[2].results, r)
		case scoring.StatusDelivered:
			groups[3].results = append(groups[3].results, r)
		default:
			groups[4].results = append(groups[4].results, r)
		}
	}
	return groups
}

func (r *TerminalRenderer) Render(w io.Writer, report *Report) error {
	s := report.Summary

	// Header
	header := fmt.Sprintf("medmatch: %s", orDash(report.Medicine))
	if report.Location != "" {
		header += " near " + report.Location
	}
	fmt.Fprintf(w, "%s\n", bold(header))
	if report.RunID != "" {
		fmt.Fprintf(w, "%s\n", dim("run "+report.RunID))
	}
	fmt.Fprintln(w)

	// Stats
	fmt.Fprintf(w, "Ranked: %d donations / %d recommended / %d flagged / %d unmatched\n\n",
		s.Total, s.Recommended, s.Flagged, s.Unmatched)

	if s.Total == 0 {
		fmt.Fprintln(w, "No donations.")
		fmt.Fprintln(w)
		return nil
	}

	for _, g := range dashboardGroups(report.Matches) {
		if len(g.results) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d):\n", g.title, len(g.results))
		for _, res := range g.results {
			writeResult(w, res)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func writeResult(w io.Writer, r scoring.RankedResult) {
	fmt.Fprintf(w, "  %s %s %s  qty %s  exp %s  %s\n",
		colored(fmt.Sprintf("[%2d]", r.MatchScore), matchColor(r)),
		orDash(r.ID.Text()),
		bold(orDash(r.MedicineName.Text())),
		orDash(r.Quantity.Text()),
		orDash(r.ExpiryDate.Text()),
		dim(donorLabel(r)))

	// The dashboard shows the first issue only.
	if len(r.FraudIssues) > 0 {
		warning := fmt.Sprintf("! %s (fraud %d)", r.FraudIssues[0], r.FraudScore)
		if len(r.FraudIssues) > 1 {
			warning += fmt.Sprintf(" +%d more", len(r.FraudIssues)-1)
		}
		fmt.Fprintf(w, "       %s\n", colored(warning, colorRed))
	}
}

func donorLabel(r scoring.RankedResult) string {
	parts := []string{}
	if id := r.DonorID.Text(); id != "" {
		parts = append(parts, "donor "+id)
	}
	if loc := r.DonorLocation.Text(); loc != "" {
		parts = append(parts, "@ "+loc)
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
