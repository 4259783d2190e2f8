// Package surface defines output rendering for ranked donation results.
// Implementations handle different output targets: terminal, markdown, JSON.
package surface

import (
	"io"

	"github.com/medmatch/medmatch/pkg/donation"
	"github.com/medmatch/medmatch/pkg/scoring"
)

// Report is a ranked run ready to be rendered.
type Report struct {
	RunID    string                 `json:"run_id,omitempty"`
	Medicine string                 `json:"medicine"`
	Location string                 `json:"location"`
	Matches  []scoring.RankedResult `json:"matches"`
	Summary  scoring.Summary        `json:"summary"`
}

// NewReport builds a Report for the given request profile and ranking.
func NewReport(runID string, p donation.Profile, matches []scoring.RankedResult) *Report {
	if matches == nil {
		matches = []scoring.RankedResult{}
	}
	return &Report{
		RunID:    runID,
		Medicine: p.MedicineRequest.Name.Text(),
		Location: p.Location.Text(),
		Matches:  matches,
		Summary:  scoring.Summarize(matches),
	}
}

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, report *Report) error
}
