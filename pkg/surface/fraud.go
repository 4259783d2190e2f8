package surface

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/medmatch/medmatch/pkg/donation"
	"github.com/medmatch/medmatch/pkg/scoring"
)

// FraudEntry is the fraud assessment of one donation.
type FraudEntry struct {
	ID           donation.Value          `json:"id"`
	MedicineName donation.Value          `json:"medicineName"`
	Assessment   scoring.FraudAssessment `json:"assessment"`
}

// FraudRenderer renders fraud assessments in input order.
type FraudRenderer struct {
	JSON bool
}

func (r *FraudRenderer) Render(w io.Writer, entries []FraudEntry) error {
	if entries == nil {
		entries = []FraudEntry{}
	}
	if r.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Assessments []FraudEntry `json:"assessments"`
		}{Assessments: entries})
	}

	flagged := 0
	for _, e := range entries {
		if e.Assessment.Score > 0 {
			flagged++
		}
	}
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("medmatch: %d donations / %d flagged", len(entries), flagged)))

	for i, e := range entries {
		label := e.ID.Text()
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		color := colorGreen
		if e.Assessment.Score > 0 {
			color = colorRed
		}
		fmt.Fprintf(w, "  %s %s %s\n",
			colored(fmt.Sprintf("[%3d]", e.Assessment.Score), color),
			bold(label), dim(orDash(e.MedicineName.Text())))

		for _, f := range e.Assessment.Findings {
			for _, line := range wrapText(fmt.Sprintf("+%d %s", f.Points, f.Issue), 70) {
				fmt.Fprintf(w, "        %s\n", line)
			}
		}
	}
	fmt.Fprintln(w)

	return nil
}
