package scoring

import (
	"time"

	"github.com/medmatch/medmatch/pkg/donation"
)

// LocationBand rewards donations located where the NGO is. Locations are
// compared trimmed and case-insensitively; two missing locations match.
type LocationBand struct {
	Points int
}

func (b *LocationBand) Key() string  { return "location" }
func (b *LocationBand) Name() string { return "Same location" }

func (b *LocationBand) Evaluate(p donation.Profile, d donation.Record, _ time.Time) int {
	if p.Location.Normalized() == d.Location.Normalized() {
		return b.Points
	}
	return 0
}
