package surface

import (
	"encoding/json"
	"io"

	"github.com/medmatch/medmatch/pkg/scoring"
)

// JSONRenderer writes the matcher response body, {"matches": [...]}, as
// indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Matches []scoring.RankedResult `json:"matches"`
	}{Matches: report.Matches})
}
