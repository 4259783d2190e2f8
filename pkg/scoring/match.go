package scoring

import (
	"time"

	"github.com/medmatch/medmatch/pkg/donation"
)

// MatchBand is one additive component of the match score.
type MatchBand interface {
	// Key returns the machine-readable band identifier.
	Key() string
	// Name returns the human-readable band name.
	Name() string
	// Evaluate returns the points this band awards. Bands never fail; an
	// unreadable input contributes 0.
	Evaluate(p donation.Profile, d donation.Record, today time.Time) int
}

// MatchScorer gates donations on the requested medicine name and sums its
// bands for the donations that pass.
type MatchScorer struct {
	bands []MatchBand
	now   func() time.Time
}

// NewMatchScorer creates a scorer with the given bands.
func NewMatchScorer(bands ...MatchBand) *MatchScorer {
	return &MatchScorer{bands: bands, now: time.Now}
}

// Bands returns the configured bands.
func (s *MatchScorer) Bands() []MatchBand { return s.bands }

// Assess scores a donation against the request as of today's date.
func (s *MatchScorer) Assess(p donation.Profile, d donation.Record) MatchAssessment {
	return s.AssessAt(p, d, calendarDay(s.now()))
}

// AssessAt scores a donation against the request as of the given calendar
// date. Donations for a different medicine are ineligible.
func (s *MatchScorer) AssessAt(p donation.Profile, d donation.Record, today time.Time) MatchAssessment {
	if p.MedicineRequest.Name.Normalized() != d.MedicineName.Normalized() {
		return Ineligible()
	}

	score := 0
	for _, b := range s.bands {
		score += b.Evaluate(p, d, today)
	}
	return Eligible(score)
}
